package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusmind/backend/internal/model/chat"
)

// Generation parameters shared by every provider.
const (
	Temperature     = 0.3
	MaxOutputTokens = 200
	RequestTimeout  = 10 * time.Second
)

// ErrNotConfigured is returned when the selected provider has no credentials.
var ErrNotConfigured = errors.New("completion service not configured")

// FailureKind classifies why a completion did not produce a reply.
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureTransport FailureKind = "transport"
	FailureMalformed FailureKind = "malformed"
)

// Failure carries the kind and cause of an unsuccessful completion.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Outcome is the result of one completion call. Exactly one of Reply and
// Failure is meaningful.
type Outcome struct {
	Reply   string
	Failure *Failure
}

// OK reports whether the call produced a reply.
func (o Outcome) OK() bool {
	return o.Failure == nil
}

// Success wraps a reply.
func Success(reply string) Outcome {
	return Outcome{Reply: reply}
}

// Fail wraps an error of the given kind.
func Fail(kind FailureKind, err error) Outcome {
	return Outcome{Failure: &Failure{Kind: kind, Err: err}}
}

// Completer turns an ordered prompt into a single assistant reply.
// Implementations never panic or return errors; failures travel in Outcome.
type Completer interface {
	Complete(ctx context.Context, prompt []chat.Turn) Outcome
}

// fromError maps a provider error onto a failure kind.
func fromError(ctx context.Context, err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Fail(FailureTimeout, err)
	}
	return Fail(FailureTransport, err)
}

// fromReply rejects empty replies.
func fromReply(reply string) Outcome {
	if strings.TrimSpace(reply) == "" {
		return Fail(FailureMalformed, errors.New("empty reply content"))
	}
	return Success(reply)
}

// splitSystem separates a leading system turn from the rest of the prompt.
func splitSystem(prompt []chat.Turn) (string, []chat.Turn) {
	if len(prompt) > 0 && prompt[0].Role == chat.RoleSystem {
		return prompt[0].Text, prompt[1:]
	}
	return "", prompt
}
