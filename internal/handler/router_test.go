package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campusmind/backend/internal/service/ai"
	"github.com/campusmind/backend/internal/service/assistant"
	chatservice "github.com/campusmind/backend/internal/service/chat"
)

func newTestRouter() http.Handler {
	store := chatservice.NewMemoryStore(chatservice.StoreConfig{})
	return NewRouter(assistant.New(store, ai.EchoCompleter{}))
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	newTestRouter().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestChatRouteMountedUnderAPI(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"I feel overwhelmed"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	newTestRouter().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"emotion":"stress"`) {
		t.Fatalf("expected echoed stress analysis, got %s", resp.Body.String())
	}
	if resp.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected CORS headers")
	}
}
