package services

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingAPIKey is returned by generator constructors when no credential is configured.
var ErrMissingAPIKey = errors.New("gemini API key is not configured")

const (
	msgNoMessage    = "No message provided."
	msgMissingKey   = "Server configuration error: API Key missing."
	msgFallbackText = "Sorry, could not process response."
)

type BadRequestError struct{ Message string }

func (e *BadRequestError) Error() string { return e.Message }

type ConfigurationError struct{ Message string }

func (e *ConfigurationError) Error() string { return e.Message }

// UpstreamError is a non-success answer from the generation API.
// Timeout is set when the call was abandoned because its deadline passed.
type UpstreamError struct {
	Status  int
	Message string
	Timeout bool
}

func (e *UpstreamError) Error() string { return e.Message }

func newTimeoutError(d time.Duration) *UpstreamError {
	return &UpstreamError{
		Message: fmt.Sprintf("Upstream request timed out after %s", d),
		Timeout: true,
	}
}

// TransportError wraps network failures and undecodable upstream payloads.
type TransportError struct{ Err error }

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }
