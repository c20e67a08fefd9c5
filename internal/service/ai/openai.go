package ai

import (
	"context"
	"errors"
	"log"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/campusmind/backend/internal/model/chat"
)

// OpenAICompleter talks to any OpenAI-compatible chat completions endpoint,
// Groq included.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter builds a completer against baseURL. An empty baseURL
// keeps the SDK default. Retries are disabled so RequestTimeout bounds the
// whole call.
func NewOpenAICompleter(apiKey, baseURL, model string, opts ...option.RequestOption) *OpenAICompleter {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)

	client := openai.NewClient(reqOpts...)
	return &OpenAICompleter{client: &client, model: model}
}

// Complete sends the prompt in order and returns the first choice.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt []chat.Turn) Outcome {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(prompt))
	for _, turn := range prompt {
		switch turn.Role {
		case chat.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Text))
		case chat.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Text))
		default:
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(Temperature),
		MaxTokens:   openai.Int(MaxOutputTokens),
	})
	if err != nil {
		log.Printf("[ai] completion request failed: model=%s err=%v", c.model, err)
		return fromError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return Fail(FailureMalformed, errors.New("response has no choices"))
	}
	return fromReply(resp.Choices[0].Message.Content)
}
