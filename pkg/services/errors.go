// Package services provides the application services behind the API
// handlers.
package services

import (
	"errors"

	"github.com/conexia/flowlens/pkg/classifier"
	"github.com/conexia/flowlens/pkg/n8n"
)

var (
	// Validation errors (400 Bad Request).
	ErrSessionIDRequired = errors.New("session ID is required")
	ErrEmptyConversation = errors.New("conversation has no messages")
	ErrInvalidMonth      = errors.New("invalid month format")

	// ErrUpstreamUnavailable indicates the execution history fetch failed;
	// the whole batch is discarded.
	ErrUpstreamUnavailable = n8n.ErrUpstream

	// ErrMalformedAnalysis indicates the classifier reply could not be
	// used. The conversation itself stays usable.
	ErrMalformedAnalysis = classifier.ErrMalformedResponse
)

// IsValidationError checks if an error is a client error that should return
// HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrSessionIDRequired) ||
		errors.Is(err, ErrEmptyConversation) ||
		errors.Is(err, ErrInvalidMonth)
}

// IsUpstreamError checks if an error came from the execution history API.
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}

// IsMalformedAnalysis checks if an error is an unusable classifier reply.
func IsMalformedAnalysis(err error) bool {
	return errors.Is(err, ErrMalformedAnalysis)
}
