package handlers

import (
	"github.com/sirupsen/logrus"

	"casagateway-proxy/internal/proxy"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	proxy.Envelope
	RequestID string `json:"request_id,omitempty"`
}

// newErrorResponse classifies err and logs it once for the request
func newErrorResponse(err error, profile, requestID string) (int, ErrorResponse) {
	failure := proxy.Classify(err)

	entry := logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"profile":    profile,
		"kind":       failure.Kind,
	}).WithError(err)
	if failure.Status >= 500 {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	return failure.Status, ErrorResponse{Envelope: failure.Envelope, RequestID: requestID}
}
