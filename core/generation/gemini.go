package generation

import (
	"context"
	"log/slog"

	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
	"google.golang.org/genai"
)

// GeminiGenerator generates answers via the Google Gemini API. Gemini takes
// a single text input, so the prompt is flattened with role framing.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiGenerator creates a generator for the given Gemini model.
func NewGeminiGenerator(ctx context.Context, apiKey string, chatModel string, logger *slog.Logger) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, helper.NewError("gemini client", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  chatModel,
		logger: logger,
	}, nil
}

// Generate sends the flattened prompt and extracts the response text,
// falling back through the candidate parts before answering empty.
func (g *GeminiGenerator) Generate(ctx context.Context, messages []model.PromptMessage) (string, error) {
	temp := float32(temperature)
	response, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(flattenPrompt(messages)), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Temperature:     &temp,
	})
	if err != nil {
		return "", helper.NewError("gemini generation", err)
	}

	if answer := response.Text(); answer != "" {
		return answer, nil
	}

	for _, candidate := range response.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" {
				return part.Text, nil
			}
		}
	}

	g.logger.Warn("Gemini returned no extractable text, answering empty")
	return "", nil
}
