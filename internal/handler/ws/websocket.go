package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chathandler "github.com/campusmind/backend/internal/handler/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler serves chat turns over a websocket.
type Handler struct {
	assistant chathandler.Assistant
	upgrader  websocket.Upgrader
}

// New creates a websocket handler.
func New(assistant chathandler.Assistant) *Handler {
	return &Handler{
		assistant: assistant,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket route on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outgoingMessage struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId,omitempty"`
	Data           any    `json:"data,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

type connectionState struct {
	conversationID string
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new connection from %s", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go pingLoop(ctx, conn)

	state := &connectionState{}
	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		h.handleMessage(ctx, conn, state, &msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, state *connectionState, msg *inboundMessage) {
	switch msg.Type {
	case "chat":
		h.handleChatMessage(ctx, conn, state, msg.Data)
	default:
		sendError(conn, "unsupported message type: "+msg.Type)
	}
}

func (h *Handler) handleChatMessage(ctx context.Context, conn *websocket.Conn, state *connectionState, raw json.RawMessage) {
	var payload chathandler.Request
	if len(raw) == 0 || json.Unmarshal(raw, &payload) != nil {
		sendError(conn, chathandler.MsgInvalidRequest)
		return
	}
	if payload.ConversationID == "" {
		payload.ConversationID = chathandler.ConversationID(state.conversationID)
	}

	_, body := chathandler.Process(ctx, h.assistant, payload)
	resp, ok := body.(chathandler.Response)
	if !ok {
		if failed, isErr := body.(chathandler.ErrorResponse); isErr {
			sendError(conn, failed.Error)
		}
		return
	}

	state.conversationID = resp.ConversationID
	send(conn, outgoingMessage{
		Type:           "result",
		ConversationID: resp.ConversationID,
		Data:           resp,
		Timestamp:      time.Now().Unix(),
	})
}

func send(conn *websocket.Conn, msg outgoingMessage) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] write %s failed: %v", msg.Type, err)
	}
}

func sendError(conn *websocket.Conn, message string) {
	send(conn, outgoingMessage{
		Type:      "error",
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().Unix(),
	})
}

// pingLoop keeps the connection alive until ctx is done.
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
