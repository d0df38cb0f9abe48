package generation

import (
	"context"
	"testing"

	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptMessages() []model.PromptMessage {
	return []model.PromptMessage{
		{Role: model.RoleSystem, Content: "You are a helpful travel assistant."},
		{Role: model.RoleUser, Content: "User query: best food in Hanoi"},
	}
}

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name     string
		provider model.ChatProvider
		want     interface{}
	}{
		{"OpenAI provider", model.ChatProviderOpenAI, &OpenAIGenerator{}},
		{"Gemini provider", model.ChatProviderGemini, &GeminiGenerator{}},
		{"Anthropic provider", model.ChatProviderAnthropic, &AnthropicGenerator{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := &model.ServiceConfig{
				Chat:            test.provider,
				ChatModel:       "some-model",
				OpenAIAPIKey:    "key",
				GoogleAPIKey:    "key",
				AnthropicAPIKey: "key",
			}
			generator, err := NewGenerator(context.Background(), config, helper.NewTestLogger())
			assert.NoError(t, err, "Expected NewGenerator to not return an error")
			require.NotNil(t, generator)
			assert.IsType(t, test.want, generator, "Expected the generator matching the provider")
		})
	}

	t.Run("Unknown provider is rejected", func(t *testing.T) {
		config := &model.ServiceConfig{Chat: model.ChatProvider("smoke-signals")}
		_, err := NewGenerator(context.Background(), config, helper.NewTestLogger())
		assert.Error(t, err, "Expected error for an unknown chat provider")
		assert.Contains(t, err.Error(), "unknown chat provider", "Expected specific error message")
	})
}

func TestSplitPrompt(t *testing.T) {
	t.Run("System and user messages are separated", func(t *testing.T) {
		system, user := splitPrompt(promptMessages())
		assert.Equal(t, "You are a helpful travel assistant.", system, "Expected the system content")
		assert.Equal(t, "User query: best food in Hanoi", user, "Expected the user content")
	})

	t.Run("Missing system message yields empty system", func(t *testing.T) {
		system, user := splitPrompt([]model.PromptMessage{
			{Role: model.RoleUser, Content: "just a question"},
		})
		assert.Empty(t, system, "Expected no system content")
		assert.Equal(t, "just a question", user)
	})
}

func TestFlattenPrompt(t *testing.T) {
	flattened := flattenPrompt(promptMessages())

	assert.Equal(t,
		"SYSTEM: You are a helpful travel assistant.\n\nUSER: User query: best food in Hanoi",
		flattened,
		"Expected role-framed blocks joined by blank lines")
}
