package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/campusmind/backend/internal/analysis/emotion"
	"github.com/campusmind/backend/internal/service/assistant"
)

// ConversationID accepts either a JSON string or a JSON number. Older
// clients sent numeric ids.
type ConversationID string

func (c *ConversationID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ConversationID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("conversation_id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("conversation_id must be a string or number: %w", err)
	}
	*c = ConversationID(n.String())
	return nil
}

// Request is the body of a chat turn.
type Request struct {
	Message        string         `json:"message"`
	ConversationID ConversationID `json:"conversation_id"`
}

// Response is returned for every successful turn, fallback replies included.
type Response struct {
	Success        bool             `json:"success"`
	Reply          string           `json:"response"`
	Analysis       emotion.Analysis `json:"analysis"`
	ConversationID string           `json:"conversation_id"`
}

// ErrorResponse is returned when a turn is rejected.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewResponse converts an orchestrator result into the wire shape.
func NewResponse(result *assistant.Result) Response {
	return Response{
		Success:        true,
		Reply:          result.Reply,
		Analysis:       result.Analysis,
		ConversationID: result.SessionID,
	}
}
