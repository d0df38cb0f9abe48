package model

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ChatProvider selects the generation backend. The choice is made once at
// startup and never per request.
type ChatProvider string

const (
	ChatProviderOpenAI    ChatProvider = "openai"
	ChatProviderGemini    ChatProvider = "gemini"
	ChatProviderAnthropic ChatProvider = "anthropic"
)

// EmbeddingProvider selects how query embeddings are produced.
type EmbeddingProvider string

const (
	// EmbeddingProviderLocal runs a sentence-transformer model in-process via hugot.
	EmbeddingProviderLocal EmbeddingProvider = "local"
	// EmbeddingProviderAPI calls an OpenAI-compatible embeddings endpoint.
	EmbeddingProviderAPI EmbeddingProvider = "api"
)

// QueryConfig represents the per-deployment retrieval parameters.
type QueryConfig struct {
	// Vector search parameters
	TopK int `json:"top_k"`

	// Graph expansion parameters
	NeighborLimit     int `json:"neighbor_limit"`     // Max facts fetched per matched entity
	DescriptionBudget int `json:"description_budget"` // Character cap for fact descriptions
}

// DefaultQueryConfig returns a sensible default configuration
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:              5,
		NeighborLimit:     10,
		DescriptionBudget: 400,
	}
}

// ServiceConfig holds the startup configuration for all collaborators:
// embedder, vector index, graph store and generation backend. An empty
// GraphURI selects the degraded variant without graph context; everything
// else missing is a fatal configuration error.
type ServiceConfig struct {
	Embedding      EmbeddingProvider
	EmbeddingModel string
	EmbeddingURL   string // Base URL for the api embedding provider
	EmbeddingKey   string
	EmbeddingDim   int

	Chat            ChatProvider
	ChatModel       string
	OpenAIAPIKey    string
	GoogleAPIKey    string
	AnthropicAPIKey string

	GraphURI      string
	GraphUsername string
	GraphPassword string
	GraphDatabase string

	Query QueryConfig
}

// NewServiceConfigFromEnv builds a ServiceConfig from environment variables,
// loading a .env file first if one exists.
func NewServiceConfigFromEnv() (*ServiceConfig, error) {
	// A missing .env file is fine, real envs take precedence anyway.
	_ = godotenv.Load()

	config := &ServiceConfig{
		Embedding:       EmbeddingProvider(envOrDefault("EMBEDDING_PROVIDER", string(EmbeddingProviderLocal))),
		EmbeddingModel:  os.Getenv("EMBEDDING_MODEL"),
		EmbeddingURL:    os.Getenv("EMBEDDING_BASE_URL"),
		EmbeddingKey:    os.Getenv("EMBEDDING_API_KEY"),
		Chat:            ChatProvider(envOrDefault("CHAT_PROVIDER", string(ChatProviderOpenAI))),
		ChatModel:       os.Getenv("CHAT_MODEL"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GraphURI:        os.Getenv("NEO4J_URI"),
		GraphUsername:   envOrDefault("NEO4J_USERNAME", "neo4j"),
		GraphPassword:   os.Getenv("NEO4J_PASSWORD"),
		GraphDatabase:   envOrDefault("NEO4J_DATABASE", "neo4j"),
		Query:           DefaultQueryConfig(),
	}

	if topK := os.Getenv("TOP_K"); topK != "" {
		k, err := strconv.Atoi(topK)
		if err != nil || k < 1 {
			return nil, fmt.Errorf("invalid TOP_K %q", topK)
		}
		config.Query.TopK = k
	}

	if dim := os.Getenv("EMBEDDING_DIM"); dim != "" {
		d, err := strconv.Atoi(dim)
		if err != nil || d < 1 {
			return nil, fmt.Errorf("invalid EMBEDDING_DIM %q", dim)
		}
		config.EmbeddingDim = d
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyDefaults fills provider-dependent defaults for model names and
// embedding dimensions that were not set explicitly.
func (c *ServiceConfig) ApplyDefaults() {
	if c.EmbeddingModel == "" {
		switch c.Embedding {
		case EmbeddingProviderAPI:
			c.EmbeddingModel = "BAAI/bge-m3"
		default:
			c.EmbeddingModel = "sentence-transformers/all-MiniLM-L6-v2"
		}
	}

	if c.EmbeddingDim == 0 {
		switch c.Embedding {
		case EmbeddingProviderAPI:
			c.EmbeddingDim = 1024
		default:
			c.EmbeddingDim = 384
		}
	}

	if c.ChatModel == "" {
		switch c.Chat {
		case ChatProviderGemini:
			c.ChatModel = "gemini-2.5-flash"
		case ChatProviderAnthropic:
			c.ChatModel = "claude-sonnet-4-5"
		default:
			c.ChatModel = "gpt-4o-mini"
		}
	}
}

// Validate checks that the configured providers have the credentials they
// need. Graph settings are not validated here; an absent graph store is a
// supported degraded configuration, not an error.
func (c *ServiceConfig) Validate() error {
	switch c.Embedding {
	case EmbeddingProviderLocal:
	case EmbeddingProviderAPI:
		if c.EmbeddingURL == "" {
			return fmt.Errorf("EMBEDDING_BASE_URL is required for the api embedding provider")
		}
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding)
	}

	switch c.Chat {
	case ChatProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for chat provider %q", c.Chat)
		}
	case ChatProviderGemini:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for chat provider %q", c.Chat)
		}
	case ChatProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for chat provider %q", c.Chat)
		}
	default:
		return fmt.Errorf("unknown chat provider %q", c.Chat)
	}

	if c.Query.TopK < 1 {
		return fmt.Errorf("top k must be at least 1, got %d", c.Query.TopK)
	}

	return nil
}

// GraphEnabled reports whether a graph store is part of this deployment.
func (c *ServiceConfig) GraphEnabled() bool {
	return c.GraphURI != ""
}

func envOrDefault(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
