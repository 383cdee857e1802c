package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"helpdesk-backend/internal/logx"
	"helpdesk-backend/internal/metrics"
)

// GeminiSDKService is the alternative transport built on the official Go SDK.
type GeminiSDKService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiSDKService(ctx context.Context, cfg GeminiConfig) (*GeminiSDKService, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiSDKService{
		client: client,
		model:  client.GenerativeModel(cfg.Model),
	}, nil
}

func (s *GeminiSDKService) Close() {
	s.client.Close()
}

func (s *GeminiSDKService) Generate(ctx context.Context, message string) (*Generation, error) {
	start := time.Now()
	resp, err := s.model.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		// A blocked prompt or candidate is a 2xx answer without usable text.
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			metrics.ObserveUpstream(true, time.Since(start))
			return &Generation{Kind: GenerationUnexpectedShape, Raw: rawJSON(blocked)}, nil
		}
		metrics.ObserveUpstream(false, time.Since(start))
		return nil, classifySDKError(err)
	}
	metrics.ObserveUpstream(true, time.Since(start))
	metrics.RecordUpstreamStatus("200")

	return classifySDKResponse(resp, rawJSON(resp)), nil
}

// rawJSON keeps a diagnostic copy of an SDK value; a value that cannot be
// encoded is logged and left out.
func rawJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		logx.Log.Debug().Err(err).Msg("Could not encode Gemini response for logging")
		return nil
	}
	return raw
}

func classifySDKError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		metrics.RecordUpstreamStatus(strconv.Itoa(gerr.Code))
		logx.Log.Error().Int("status", gerr.Code).Str("body", gerr.Body).Msg("Gemini API Error")
		message := gerr.Message
		if message == "" {
			message = fmt.Sprintf("API request failed with status %d", gerr.Code)
		}
		return &UpstreamError{Status: gerr.Code, Message: message}
	}

	return &TransportError{Err: err}
}

func classifySDKResponse(resp *genai.GenerateContentResponse, raw []byte) *Generation {
	if resp != nil && len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		if cand != nil && cand.Content != nil && len(cand.Content.Parts) > 0 {
			if t, ok := cand.Content.Parts[0].(genai.Text); ok && t != "" {
				return &Generation{Kind: GenerationText, Text: string(t), Raw: raw}
			}
		}
	}
	return &Generation{Kind: GenerationUnexpectedShape, Raw: raw}
}
