package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"helpdesk-backend/internal/logx"
	"helpdesk-backend/internal/metrics"
)

// Generator produces reply text for a single user message.
type Generator interface {
	Generate(ctx context.Context, message string) (*Generation, error)
}

type GenerationKind int

const (
	// GenerationText means the first candidate carried a non-empty text part.
	GenerationText GenerationKind = iota
	// GenerationUnexpectedShape means the upstream answered 2xx without usable text.
	GenerationUnexpectedShape
)

func (k GenerationKind) String() string {
	switch k {
	case GenerationText:
		return "text"
	case GenerationUnexpectedShape:
		return "unexpected_shape"
	}
	return "unknown"
}

// Generation is a classified upstream success payload.
type Generation struct {
	Kind GenerationKind
	Text string
	Raw  json.RawMessage
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Wire types for the generateContent endpoint.
type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GeminiService calls the generateContent REST endpoint directly, passing
// the key as a query parameter.
type GeminiService struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewGeminiService(cfg GeminiConfig, client *http.Client) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if client == nil {
		client = &http.Client{}
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(cfg.BaseURL, "/"), url.PathEscape(cfg.Model))

	return &GeminiService{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		client:   client,
	}, nil
}

func (s *GeminiService) Generate(ctx context.Context, message string) (*Generation, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: message}}}},
	})
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"?"+url.Values{"key": {s.apiKey}}.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	logx.Log.Debug().Msg("Calling Gemini API...")
	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		metrics.ObserveUpstream(false, time.Since(start))
		// Strip the URL so the key never ends up in an error message.
		if uerr, ok := err.(*url.Error); ok {
			err = fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
		}
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	metrics.ObserveUpstream(ok && err == nil, time.Since(start))
	metrics.RecordUpstreamStatus(strconv.Itoa(resp.StatusCode))
	logx.Log.Info().Int("status", resp.StatusCode).Msg("Gemini API response status")
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if !ok {
		return nil, upstreamErrorFromBody(resp.StatusCode, raw)
	}

	// Only a body that is not JSON at all is a transport failure. Valid JSON of
	// the wrong shape decodes as far as it can and is classified below.
	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, &TransportError{Err: fmt.Errorf("failed to parse response: %w", err)}
		}
		logx.Log.Debug().Err(err).Msg("Gemini response does not match the expected shape")
	}
	return classifyResponse(&parsed, raw), nil
}

// upstreamErrorFromBody prefers the API's own error message and falls back to
// a status-only message when the body is not the expected envelope.
func upstreamErrorFromBody(status int, raw []byte) *UpstreamError {
	message := fmt.Sprintf("API request failed with status %d", status)

	var envelope geminiErrorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		logx.Log.Error().Str("body", string(raw)).Msg("Gemini API Error (Text)")
		return &UpstreamError{Status: status, Message: message}
	}

	logx.Log.Error().RawJSON("body", raw).Msg("Gemini API Error (JSON)")
	if envelope.Error != nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	}
	return &UpstreamError{Status: status, Message: message}
}

func classifyResponse(resp *geminiResponse, raw []byte) *Generation {
	if len(resp.Candidates) > 0 {
		content := resp.Candidates[0].Content
		if content != nil && len(content.Parts) > 0 && content.Parts[0].Text != "" {
			return &Generation{Kind: GenerationText, Text: content.Parts[0].Text, Raw: raw}
		}
	}
	return &Generation{Kind: GenerationUnexpectedShape, Raw: raw}
}
