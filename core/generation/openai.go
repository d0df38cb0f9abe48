package generation

import (
	"context"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
)

// OpenAIGenerator generates answers via the OpenAI chat completions API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIGenerator creates a generator for the given OpenAI model.
func NewOpenAIGenerator(apiKey string, chatModel string, logger *slog.Logger) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  chatModel,
		logger: logger,
	}
}

// Generate sends the prompt and returns the answer text of the first choice.
func (g *OpenAIGenerator) Generate(ctx context.Context, messages []model.PromptMessage) (string, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, message := range messages {
		switch message.Role {
		case model.RoleSystem:
			params = append(params, openai.SystemMessage(message.Content))
		default:
			params = append(params, openai.UserMessage(message.Content))
		}
	}

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       g.model,
		Messages:    params,
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", helper.NewError("openai completion", err)
	}

	if len(completion.Choices) == 0 {
		g.logger.Warn("OpenAI returned no choices, answering empty")
		return "", nil
	}

	answer := completion.Choices[0].Message.Content
	if answer == "" {
		g.logger.Warn("OpenAI returned no extractable text, answering empty")
	}
	return answer, nil
}
