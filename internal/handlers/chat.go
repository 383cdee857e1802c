package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"helpdesk-backend/internal/logx"
	"helpdesk-backend/internal/models"
	"helpdesk-backend/internal/services"
)

// relayService is the subset of services.RelayService the handler needs.
type relayService interface {
	Configured() bool
	Reply(ctx context.Context, message string) (string, error)
}

type ChatHandler struct {
	relay relayService
}

func NewChatHandler(relay relayService) *ChatHandler {
	return &ChatHandler{relay: relay}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	logx.Log.Info().Msg("Received request at /api/chat")

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		// Without a credential every request is a configuration error, so the
		// relay answers even an unreadable body.
		if h.relay.Configured() {
			writeJSON(w, http.StatusBadRequest, errorResp(msgInvalidBody))
			return
		}
		req = models.ChatRequest{}
	}

	reply, err := h.relay.Reply(r.Context(), req.Message)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

const msgInvalidBody = "Invalid request body."

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(message string) models.ErrorResponse {
	return models.ErrorResponse{Error: message}
}

func handleServiceError(w http.ResponseWriter, err error) {
	var (
		badReq *services.BadRequestError
		cfgErr *services.ConfigurationError
		upErr  *services.UpstreamError
	)
	switch {
	case errors.As(err, &badReq):
		writeJSON(w, http.StatusBadRequest, errorResp(badReq.Message))
	case errors.As(err, &cfgErr):
		writeJSON(w, http.StatusInternalServerError, errorResp(cfgErr.Message))
	case errors.As(err, &upErr):
		writeJSON(w, http.StatusInternalServerError, errorResp(upErr.Message))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("Internal server error: "+err.Error()))
	}
}
