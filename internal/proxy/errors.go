package proxy

import (
	"errors"
	"net/http"

	"casagateway-proxy/internal/normalizer"
	"casagateway-proxy/internal/signer"
	"casagateway-proxy/internal/upstream"
)

// Kind classifies a pipeline failure
type Kind string

const (
	KindConfiguration  Kind = "configuration"
	KindInvalidRequest Kind = "invalid_request"
	KindNetwork        Kind = "network"
	KindUpstream       Kind = "upstream"
	KindParse          Kind = "parse"
	KindInternal       Kind = "internal"
)

// KindOf maps err to the stage that produced it
func KindOf(err error) Kind {
	var optsErr *InvalidOptionsError
	switch {
	case signer.IsConfigurationError(err):
		return KindConfiguration
	case errors.As(err, &optsErr):
		return KindInvalidRequest
	case upstream.IsUpstreamError(err):
		return KindUpstream
	case upstream.IsNetworkError(err):
		return KindNetwork
	case normalizer.IsParseError(err):
		return KindParse
	default:
		return KindInternal
	}
}

// Envelope is the JSON body of every failed request
type Envelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Status  int    `json:"status,omitempty"`
}

// Failure is an error translated for the transport
type Failure struct {
	Kind     Kind
	Status   int
	Envelope Envelope
}

// Classify maps err to an HTTP status and envelope. Messages never carry
// secrets or the signed URL.
func Classify(err error) Failure {
	kind := KindOf(err)
	f := Failure{Kind: kind, Status: http.StatusInternalServerError}

	switch kind {
	case KindConfiguration:
		f.Envelope = Envelope{Error: "API keys not configured", Message: err.Error()}
	case KindInvalidRequest:
		f.Status = http.StatusBadRequest
		f.Envelope = Envelope{Error: "Invalid query parameters", Message: err.Error()}
	case KindUpstream:
		var upErr *upstream.UpstreamError
		errors.As(err, &upErr)
		f.Envelope = Envelope{
			Error:   "Failed to fetch properties",
			Message: upErr.Error(),
			Details: upErr.Body,
			Status:  upErr.StatusCode,
		}
	case KindNetwork:
		f.Envelope = Envelope{Error: "Failed to reach CASAGATEWAY", Message: err.Error()}
	case KindParse:
		f.Envelope = Envelope{Error: "Failed to parse properties", Message: err.Error()}
	default:
		f.Envelope = Envelope{Error: "Internal server error", Message: "An unexpected error occurred"}
	}
	return f
}
