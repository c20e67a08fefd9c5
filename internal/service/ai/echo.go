package ai

import (
	"context"
	"fmt"

	"github.com/campusmind/backend/internal/model/chat"
)

// EchoCompleter is an offline stand-in that reflects the latest user turn.
// It lets the service run end to end without credentials.
type EchoCompleter struct{}

func (EchoCompleter) Complete(_ context.Context, prompt []chat.Turn) Outcome {
	for i := len(prompt) - 1; i >= 0; i-- {
		if prompt[i].Role == chat.RoleUser {
			return Success(fmt.Sprintf("I hear you. You said: %q. Tell me a little more about how that feels.", prompt[i].Text))
		}
	}
	return Success("I'm here and listening. What's on your mind?")
}

// UnavailableCompleter always fails. It stands in when the configured
// provider has no credentials so every turn takes the fallback path.
type UnavailableCompleter struct{}

func (UnavailableCompleter) Complete(context.Context, []chat.Turn) Outcome {
	return Fail(FailureTransport, ErrNotConfigured)
}
