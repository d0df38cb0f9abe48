package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
)

// Embedder converts a text into a dense vector. Implementations must return
// vectors of exactly Dimension() values.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Close() error
}

// NewEmbedder creates the embedder selected by the configuration.
func NewEmbedder(config *model.ServiceConfig, logger *slog.Logger) (Embedder, error) {
	switch config.Embedding {
	case model.EmbeddingProviderLocal:
		return NewLocalEmbedder(config.EmbeddingModel, config.EmbeddingDim)
	case model.EmbeddingProviderAPI:
		return NewAPIEmbedder(config.EmbeddingURL, config.EmbeddingKey, config.EmbeddingModel, config.EmbeddingDim, logger), nil
	default:
		return nil, helper.NewError("embedder selection", fmt.Errorf("unknown embedding provider %q", config.Embedding))
	}
}
