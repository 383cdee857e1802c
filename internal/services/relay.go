package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"helpdesk-backend/internal/logx"
	"helpdesk-backend/internal/metrics"
)

// RelayService forwards one user message to the generator and normalizes the
// outcome into reply text or a typed error. It holds no per-request state.
type RelayService struct {
	generator Generator
	timeout   time.Duration
}

// NewRelayService accepts a nil generator; every call then fails with a
// ConfigurationError instead of the process refusing to start.
func NewRelayService(generator Generator, timeout time.Duration) *RelayService {
	return &RelayService{
		generator: generator,
		timeout:   timeout,
	}
}

func (s *RelayService) Configured() bool {
	return s.generator != nil
}

func (s *RelayService) Reply(ctx context.Context, message string) (string, error) {
	if s.generator == nil {
		logx.Log.Error().Msg("API Key missing or endpoint not configured.")
		metrics.RecordRelayOutcome(metrics.OutcomeConfiguration)
		return "", &ConfigurationError{Message: msgMissingKey}
	}

	if strings.TrimSpace(message) == "" {
		metrics.RecordRelayOutcome(metrics.OutcomeBadRequest)
		return "", &BadRequestError{Message: msgNoMessage}
	}
	logx.Log.Debug().Str("message", message).Msg("User message")

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	gen, err := s.generator.Generate(callCtx, message)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = newTimeoutError(s.timeout)
		}
		recordFailure(err)
		logx.Log.Error().Err(err).Msg("Error during API call or processing")
		return "", err
	}

	if gen == nil {
		gen = &Generation{Kind: GenerationUnexpectedShape}
	}

	switch gen.Kind {
	case GenerationText:
		metrics.RecordRelayOutcome(metrics.OutcomeReply)
		logx.Log.Info().Msg("Received response from Gemini.")
		return gen.Text, nil
	default:
		metrics.RecordRelayOutcome(metrics.OutcomeFallback)
		logx.Log.Error().Str("body", string(gen.Raw)).Msg("Unexpected Gemini response format")
		return msgFallbackText, nil
	}
}

func recordFailure(err error) {
	var upErr *UpstreamError
	switch {
	case errors.As(err, &upErr) && upErr.Timeout:
		metrics.RecordRelayOutcome(metrics.OutcomeUpstreamTimeout)
	case errors.As(err, &upErr):
		metrics.RecordRelayOutcome(metrics.OutcomeUpstreamError)
	default:
		metrics.RecordRelayOutcome(metrics.OutcomeTransportError)
	}
}
