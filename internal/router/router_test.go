package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"helpdesk-backend/internal/handlers"
	"helpdesk-backend/internal/metrics"
)

type echoRelay struct{}

func (echoRelay) Configured() bool { return true }

func (echoRelay) Reply(ctx context.Context, message string) (string, error) {
	return "echo: " + message, nil
}

func newTestRouter() http.Handler {
	reg := prometheus.NewRegistry()
	metrics.Register(reg)
	return New(handlers.NewChatHandler(echoRelay{}), reg, []string{"*"})
}

func TestRouter_Health(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Body.String() != `{"status":"ok"}` {
		t.Errorf("body %q", rr.Body.String())
	}
}

func TestRouter_ChatRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"ping"}`))
	newTestRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"reply":"echo: ping"`) {
		t.Errorf("body %q", rr.Body.String())
	}
}

func TestRouter_ChatRejectsGet(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/chat", nil))

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
}
