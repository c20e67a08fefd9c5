package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campusmind/backend/internal/model/chat"
	"github.com/campusmind/backend/internal/service/assistant"
	"github.com/campusmind/backend/pkg/utils"
)

// Error messages shown to callers. Internal detail never reaches the client.
const (
	MsgEmptyMessage   = "Empty message"
	MsgInvalidRequest = "Invalid request body"
	MsgServerError    = "Server error"
)

// Assistant is the orchestrator the handler drives.
type Assistant interface {
	Handle(ctx context.Context, sessionID, userText string) (*assistant.Result, error)
	History(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error)
}

// Handler serves the chat HTTP endpoints.
type Handler struct {
	assistant Assistant
}

// New creates a chat handler.
func New(svc Assistant) *Handler {
	return &Handler{assistant: svc}
}

// RegisterRoutes mounts the chat routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/conversations/{conversationID}", h.handleConversation)
}

// handleChat runs one conversation turn.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondJSON(w, http.StatusBadRequest, ErrorResponse{Error: MsgInvalidRequest})
		return
	}

	status, body := Process(r.Context(), h.assistant, payload)
	utils.RespondJSON(w, status, body)
}

// Process runs one turn and maps the outcome onto a status and body. It is
// shared with the websocket transport.
func Process(ctx context.Context, a Assistant, payload Request) (int, any) {
	result, err := a.Handle(ctx, string(payload.ConversationID), payload.Message)
	switch {
	case errors.Is(err, assistant.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: MsgEmptyMessage}
	case err != nil:
		log.Printf("[chat] turn failed: %v", err)
		return http.StatusInternalServerError, ErrorResponse{Error: MsgServerError}
	}

	if result.ErrorDetail != "" {
		log.Printf("[chat] served fallback reply for conversation=%s: %s", result.SessionID, result.ErrorDetail)
	}
	return http.StatusOK, NewResponse(result)
}

// handleConversation returns the transcript of a conversation.
func (h *Handler) handleConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	turns, err := h.assistant.History(r.Context(), conversationID, limit)
	if errors.Is(err, assistant.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if err != nil {
		log.Printf("[chat] load conversation %s failed: %v", conversationID, err)
		utils.RespondError(w, http.StatusInternalServerError, MsgServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"turns":           turns,
	})
}
