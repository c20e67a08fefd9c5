package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusmind/backend/internal/model/chat"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "llama-3.1-8b-instant",
  "choices": [
    {"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "That sounds really hard."}}
  ]
}`

func samplePrompt() []chat.Turn {
	return []chat.Turn{
		{Role: chat.RoleSystem, Text: "be kind"},
		{Role: chat.RoleUser, Text: "I am stressed about exams"},
		{Role: chat.RoleAssistant, Text: "Tell me more."},
		{Role: chat.RoleUser, Text: "I have three tomorrow"},
	}
}

func TestOpenAICompleterSendsPromptAndParameters(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	completer := NewOpenAICompleter("test-key", srv.URL, "llama-3.1-8b-instant")
	outcome := completer.Complete(context.Background(), samplePrompt())

	if !outcome.OK() {
		t.Fatalf("expected success, got %v", outcome.Failure)
	}
	if outcome.Reply != "That sounds really hard." {
		t.Fatalf("unexpected reply %q", outcome.Reply)
	}
	if got.Model != "llama-3.1-8b-instant" {
		t.Fatalf("unexpected model %q", got.Model)
	}
	if got.Temperature != Temperature {
		t.Fatalf("expected temperature %v, got %v", Temperature, got.Temperature)
	}
	if got.MaxTokens != MaxOutputTokens {
		t.Fatalf("expected max_tokens %d, got %d", MaxOutputTokens, got.MaxTokens)
	}

	wantRoles := []string{"system", "user", "assistant", "user"}
	if len(got.Messages) != len(wantRoles) {
		t.Fatalf("expected %d messages, got %d", len(wantRoles), len(got.Messages))
	}
	for i, role := range wantRoles {
		if got.Messages[i].Role != role {
			t.Fatalf("message %d role = %s, want %s", i, got.Messages[i].Role, role)
		}
	}
	if got.Messages[3].Content != "I have three tomorrow" {
		t.Fatalf("unexpected last message %q", got.Messages[3].Content)
	}
}

func TestOpenAICompleterTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	outcome := NewOpenAICompleter("test-key", srv.URL, "m").Complete(ctx, samplePrompt())
	if outcome.OK() {
		t.Fatal("expected failure")
	}
	if outcome.Failure.Kind != FailureTimeout {
		t.Fatalf("expected timeout, got %s (%v)", outcome.Failure.Kind, outcome.Failure.Err)
	}
}

func TestOpenAICompleterServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	outcome := NewOpenAICompleter("test-key", srv.URL, "m").Complete(context.Background(), samplePrompt())
	if outcome.OK() || outcome.Failure.Kind != FailureTransport {
		t.Fatalf("expected transport failure, got %+v", outcome)
	}
}

func TestOpenAICompleterMalformedResponse(t *testing.T) {
	bodies := map[string]string{
		"no choices":    `{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`,
		"empty content": `{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  "}}]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			outcome := NewOpenAICompleter("test-key", srv.URL, "m").Complete(context.Background(), samplePrompt())
			if outcome.OK() || outcome.Failure.Kind != FailureMalformed {
				t.Fatalf("expected malformed failure, got %+v", outcome)
			}
		})
	}
}
