package ai

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/campusmind/backend/internal/model/chat"
)

// ChainCompleter runs the prompt through an eino template -> chat model chain.
type ChainCompleter struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewChainCompleter compiles the chain around chatModel.
func NewChainCompleter(ctx context.Context, chatModel model.ChatModel) (*ChainCompleter, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ChainCompleter{chain: runnable}, nil
}

// Complete invokes the chain once with the fixed generation parameters.
func (c *ChainCompleter) Complete(ctx context.Context, prompt []chat.Turn) Outcome {
	system, history := splitSystem(prompt)
	input := map[string]any{
		"system":  system,
		"history": buildHistoryMessages(history),
	}

	response, err := c.chain.Invoke(ctx, input, compose.WithChatModelOption(
		model.WithTemperature(float32(Temperature)),
		model.WithMaxTokens(MaxOutputTokens),
	))
	if err != nil {
		log.Printf("[ai] chain invoke failed: %v", err)
		return fromError(ctx, err)
	}
	if response == nil {
		return Fail(FailureMalformed, errors.New("chain returned no message"))
	}

	log.Printf("[ai] generated response, length=%d", len(response.Content))
	return fromReply(response.Content)
}

func buildHistoryMessages(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Text))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Text, nil))
		case chat.RoleSystem:
			history = append(history, schema.SystemMessage(turn.Text))
		}
	}
	return history
}
