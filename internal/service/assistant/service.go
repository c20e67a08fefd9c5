package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/campusmind/backend/internal/analysis/emotion"
	"github.com/campusmind/backend/internal/model/chat"
	"github.com/campusmind/backend/internal/service/ai"
	chatService "github.com/campusmind/backend/internal/service/chat"
)

// HistoryWindow is how many recent turns are sent along with the system turn.
const HistoryWindow = 5

// SystemInstruction opens every prompt.
const SystemInstruction = "You are Mindy, a mental health assistant. Be empathetic, supportive, and concise. " +
	"If you detect crisis content (suicidal thoughts, self-harm), provide immediate crisis resources."

// FallbackReply is recorded and returned when the completion service fails.
const FallbackReply = "I'm having trouble connecting. Please try again."

var (
	// ErrInvalidInput marks a blank user message. Nothing is stored.
	ErrInvalidInput = errors.New("empty message")
	// ErrNotFound is returned by History for an unknown conversation.
	ErrNotFound = errors.New("conversation not found")
	// ErrInternal wraps unexpected store faults.
	ErrInternal = errors.New("internal error")
)

// Result is the outcome of a single chat turn.
type Result struct {
	SessionID   string
	Reply       string
	Analysis    emotion.Analysis
	ErrorDetail string
}

// Service runs one chat turn end to end.
type Service struct {
	store     chatService.Store
	completer ai.Completer
	timeout   time.Duration
}

// New wires the orchestrator to its collaborators.
func New(store chatService.Store, completer ai.Completer) *Service {
	return &Service{
		store:     store,
		completer: completer,
		timeout:   ai.RequestTimeout,
	}
}

// Handle records userText in the session, asks the completer for a reply and
// analyses it. Upstream failures degrade to FallbackReply and are reported in
// Result.ErrorDetail, never as an error.
func (s *Service) Handle(ctx context.Context, sessionID, userText string) (*Result, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, ErrInvalidInput
	}

	id, err := s.resolveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	id, err = s.appendUserTurn(ctx, id, userText)
	if err != nil {
		return nil, err
	}

	history, err := s.store.RecentHistory(ctx, id, HistoryWindow)
	if err != nil {
		return nil, internal("load history", err)
	}

	prompt := make([]chat.Turn, 0, len(history)+1)
	prompt = append(prompt, chat.Turn{Role: chat.RoleSystem, Text: SystemInstruction})
	prompt = append(prompt, history...)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	outcome := s.completer.Complete(callCtx, prompt)
	cancel()

	if !outcome.OK() {
		log.Printf("[assistant] completion failed for session=%s: %v", id, outcome.Failure)
		if err := s.appendAssistantTurn(ctx, id, FallbackReply); err != nil {
			return nil, err
		}
		return &Result{
			SessionID:   id,
			Reply:       FallbackReply,
			Analysis:    emotion.NeutralAnalysis(),
			ErrorDetail: outcome.Failure.Error(),
		}, nil
	}

	if err := s.appendAssistantTurn(ctx, id, outcome.Reply); err != nil {
		return nil, err
	}

	analysis := emotion.Analyze(outcome.Reply)
	if analysis.RequiresIntervention {
		log.Printf("[assistant] crisis content detected in session=%s", id)
	}

	return &Result{
		SessionID: id,
		Reply:     outcome.Reply,
		Analysis:  analysis,
	}, nil
}

// History returns up to limit recent turns of a conversation. limit <= 0
// returns all of them.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	turns, err := s.store.RecentHistory(ctx, sessionID, limit)
	if errors.Is(err, chatService.ErrSessionNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, internal("load history", err)
	}
	return turns, nil
}

// resolveSession keeps a live caller id and otherwise starts a new session.
func (s *Service) resolveSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID != "" {
		ok, err := s.store.Exists(ctx, sessionID)
		if err != nil {
			return "", internal("check session", err)
		}
		if ok {
			return sessionID, nil
		}
	}

	session, err := s.store.CreateSession(ctx)
	if err != nil {
		return "", internal("create session", err)
	}
	log.Printf("[assistant] started session=%s", session.ID)
	return session.ID, nil
}

// appendUserTurn retries once in a fresh session when the session expired
// between the existence check and the append.
func (s *Service) appendUserTurn(ctx context.Context, id, text string) (string, error) {
	err := s.store.Append(ctx, id, chat.RoleUser, text)
	if errors.Is(err, chatService.ErrSessionNotFound) {
		if id, err = s.resolveSession(ctx, ""); err != nil {
			return "", err
		}
		err = s.store.Append(ctx, id, chat.RoleUser, text)
	}
	if err != nil {
		return "", internal("append user turn", err)
	}
	return id, nil
}

// appendAssistantTurn records the reply. A session that expired or was
// evicted while the completion ran only loses the record; the caller still
// gets the reply.
func (s *Service) appendAssistantTurn(ctx context.Context, id, text string) error {
	err := s.store.Append(ctx, id, chat.RoleAssistant, text)
	if errors.Is(err, chatService.ErrSessionNotFound) {
		log.Printf("[assistant] session=%s ended before the reply was stored", id)
		return nil
	}
	if err != nil {
		return internal("append assistant turn", err)
	}
	return nil
}

func internal(op string, err error) error {
	log.Printf("[assistant] %s: %v", op, err)
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
