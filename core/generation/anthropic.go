package generation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
)

// AnthropicGenerator generates answers via the Anthropic messages API.
type AnthropicGenerator struct {
	client anthropic.Client
	model  string
	logger *slog.Logger
}

// NewAnthropicGenerator creates a generator for the given Anthropic model.
func NewAnthropicGenerator(apiKey string, chatModel string, logger *slog.Logger) *AnthropicGenerator {
	return &AnthropicGenerator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  chatModel,
		logger: logger,
	}
}

// Generate sends the prompt with the system message as system parameter and
// collects the text blocks of the response.
func (g *AnthropicGenerator) Generate(ctx context.Context, messages []model.PromptMessage) (string, error) {
	system, user := splitPrompt(messages)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: system},
		}
	}

	response, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", helper.NewError("anthropic generation", err)
	}

	var parts []string
	for _, block := range response.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		g.logger.Warn("Anthropic returned no extractable text, answering empty")
		return "", nil
	}

	return strings.Join(parts, "\n"), nil
}
