package proxy

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"casagateway-proxy/internal/normalizer"
	"casagateway-proxy/internal/signer"
	"casagateway-proxy/internal/upstream"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		kind       Kind
		status     int
		errorTitle string
	}{
		{
			name:       "missing secrets",
			err:        &signer.ConfigurationError{Missing: []string{signer.PrivateKeyEnv}},
			kind:       KindConfiguration,
			status:     http.StatusInternalServerError,
			errorTitle: "API keys not configured",
		},
		{
			name:       "invalid options",
			err:        &InvalidOptionsError{Err: errors.New("limit must be a non-negative integer")},
			kind:       KindInvalidRequest,
			status:     http.StatusBadRequest,
			errorTitle: "Invalid query parameters",
		},
		{
			name:       "network",
			err:        &upstream.NetworkError{Op: "fetch", Err: errors.New("connection refused")},
			kind:       KindNetwork,
			status:     http.StatusInternalServerError,
			errorTitle: "Failed to reach CASAGATEWAY",
		},
		{
			name:       "parse",
			err:        fmt.Errorf("normalize: %w", &normalizer.ParseError{Err: normalizer.ErrMalformedXML}),
			kind:       KindParse,
			status:     http.StatusInternalServerError,
			errorTitle: "Failed to parse properties",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			kind:       KindInternal,
			status:     http.StatusInternalServerError,
			errorTitle: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Classify(tt.err)
			if f.Kind != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, f.Kind)
			}
			if f.Status != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, f.Status)
			}
			if f.Envelope.Error != tt.errorTitle {
				t.Errorf("Expected error %q, got %q", tt.errorTitle, f.Envelope.Error)
			}
			if f.Envelope.Message == "" {
				t.Error("Expected a message")
			}
		})
	}
}

func TestClassifyUpstream(t *testing.T) {
	f := Classify(&upstream.UpstreamError{StatusCode: 503, Status: "Service Unavailable", Body: "maintenance"})

	if f.Status != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", f.Status)
	}
	if f.Envelope.Status != 503 {
		t.Errorf("Expected upstream status 503 in envelope, got %d", f.Envelope.Status)
	}
	if f.Envelope.Details != "maintenance" {
		t.Errorf("Expected upstream body as details, got %q", f.Envelope.Details)
	}
	if f.Envelope.Error != "Failed to fetch properties" {
		t.Errorf("Unexpected error title %q", f.Envelope.Error)
	}
}
