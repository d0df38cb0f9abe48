package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
)

// Generation parameters shared by all providers.
const (
	maxTokens   = 600
	temperature = 0.2
)

// Generator produces an answer for an assembled prompt. The provider behind
// it is chosen once at startup; transport errors propagate, they are not
// retried here.
type Generator interface {
	Generate(ctx context.Context, messages []model.PromptMessage) (string, error)
}

// NewGenerator creates the generator for the configured chat provider.
func NewGenerator(ctx context.Context, config *model.ServiceConfig, logger *slog.Logger) (Generator, error) {
	switch config.Chat {
	case model.ChatProviderOpenAI:
		return NewOpenAIGenerator(config.OpenAIAPIKey, config.ChatModel, logger), nil
	case model.ChatProviderGemini:
		return NewGeminiGenerator(ctx, config.GoogleAPIKey, config.ChatModel, logger)
	case model.ChatProviderAnthropic:
		return NewAnthropicGenerator(config.AnthropicAPIKey, config.ChatModel, logger), nil
	default:
		return nil, helper.NewError("generator selection", fmt.Errorf("unknown chat provider %q", config.Chat))
	}
}

// splitPrompt separates the system message from the user message for
// providers that frame them separately.
func splitPrompt(messages []model.PromptMessage) (system string, user string) {
	for _, message := range messages {
		switch message.Role {
		case model.RoleSystem:
			system = message.Content
		case model.RoleUser:
			user = message.Content
		}
	}
	return system, user
}

// flattenPrompt renders the messages as a single text block with role
// framing, for providers that take one text input.
func flattenPrompt(messages []model.PromptMessage) string {
	blocks := make([]string, 0, len(messages))
	for _, message := range messages {
		blocks = append(blocks, fmt.Sprintf("%s: %s", strings.ToUpper(string(message.Role)), message.Content))
	}
	return strings.Join(blocks, "\n\n")
}
