package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"helpdesk-backend/internal/logx"
	"helpdesk-backend/internal/models"
)

const msgNoValidReply = "Sorry, I didn't get a valid reply."

// RelayError is a non-2xx answer from the relay.
type RelayError struct {
	Status  int
	Message string
}

func (e *RelayError) Error() string { return e.Message }

// Client posts messages to the relay's /api/chat endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) Send(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(models.ChatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logx.Log.Debug().Str("message", message).Msg("Sending message to backend")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	logx.Log.Debug().Int("status", resp.StatusCode).Msg("Received response status from backend")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		relayErr := &RelayError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Backend request failed with status %d", resp.StatusCode),
		}
		var errBody models.ErrorResponse
		if err := json.Unmarshal(raw, &errBody); err != nil {
			logx.Log.Warn().Msg("Could not parse error response as JSON.")
		} else if errBody.Error != "" {
			relayErr.Message = errBody.Error
		}
		return "", relayErr
	}

	// A reply of the wrong type counts as missing.
	var chatResp models.ChatResponse
	if err := json.Unmarshal(raw, &chatResp); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
		logx.Log.Warn().Err(err).Msg("Backend reply has an unexpected type")
	}
	if chatResp.Reply == "" {
		return msgNoValidReply, nil
	}
	return chatResp.Reply, nil
}
