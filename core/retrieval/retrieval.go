package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siherrmann/tripgraph/database"
	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
)

// Retriever finds the entities most similar to a query embedding.
// Matches come back ordered by descending score; an empty result means no
// matches, not a failure.
type Retriever interface {
	Retrieve(ctx context.Context, embedding []float32, k int) ([]*model.VectorMatch, error)
}

// VectorRetriever retrieves matches from the vector index. The index is
// trusted for ordering, nothing is re-sorted here.
type VectorRetriever struct {
	store  database.VectorDBHandlerFunctions
	logger *slog.Logger
}

// NewVectorRetriever creates a retriever over the given vector index.
func NewVectorRetriever(store database.VectorDBHandlerFunctions, logger *slog.Logger) (*VectorRetriever, error) {
	if store == nil {
		return nil, helper.NewError("retriever validation", fmt.Errorf("vector store is nil"))
	}
	return &VectorRetriever{
		store:  store,
		logger: logger,
	}, nil
}

// Retrieve returns the top k matches for an embedding.
func (r *VectorRetriever) Retrieve(ctx context.Context, embedding []float32, k int) ([]*model.VectorMatch, error) {
	if k < 1 {
		return nil, helper.NewError("retrieve validation", fmt.Errorf("k must be at least 1, got %d", k))
	}
	if len(embedding) == 0 {
		return nil, helper.NewError("retrieve validation", fmt.Errorf("embedding is empty"))
	}
	if err := ctx.Err(); err != nil {
		return nil, helper.NewError("retrieve", err)
	}

	matches, err := r.store.SelectMatchesBySimilarity(embedding, k)
	if err != nil {
		return nil, helper.NewError("similarity search", err)
	}

	if len(matches) == 0 {
		r.logger.Info("No matches for query embedding")
	}

	return matches, nil
}
