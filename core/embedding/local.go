package embedding

import (
	"context"
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/tripgraph/helper"
)

// LocalEmbedder runs a sentence transformer model in-process via hugot.
// The default all-MiniLM-L6-v2 model produces 384-dimensional embeddings.
type LocalEmbedder struct {
	session   *hugot.Session
	pipeline  *pipelines.FeatureExtractionPipeline
	dimension int
}

// NewLocalEmbedder downloads the model if needed and initializes a hugot
// session with the Go backend.
func NewLocalEmbedder(modelName string, dimension int) (*LocalEmbedder, error) {
	modelPath, err := helper.PrepareModel(modelName, "")
	if err != nil {
		return nil, helper.NewError("prepare model", err)
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, helper.NewError("create hugot session", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "query-embedder",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, helper.NewError("create sentence pipeline", fmt.Errorf("%w (cleanup error: %v)", err, destroyErr))
		}
		return nil, helper.NewError("create sentence pipeline", err)
	}

	return &LocalEmbedder{
		session:   session,
		pipeline:  sentencePipeline,
		dimension: dimension,
	}, nil
}

// Embed generates the embedding for a single text.
func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, helper.NewError("embed", err)
	}

	result, err := e.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, helper.NewError("run embedding pipeline", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, helper.NewError("run embedding pipeline", fmt.Errorf("no embedding generated"))
	}

	embedding := result.Embeddings[0]
	if len(embedding) != e.dimension {
		return nil, helper.NewError("embedding validation", fmt.Errorf("model produced %d dimensions, expected %d", len(embedding), e.dimension))
	}

	return embedding, nil
}

// Dimension returns the configured embedding dimension.
func (e *LocalEmbedder) Dimension() int {
	return e.dimension
}

// Close destroys the hugot session.
func (e *LocalEmbedder) Close() error {
	if e.session == nil {
		return nil
	}
	return e.session.Destroy()
}
