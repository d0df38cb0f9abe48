package tripgraph

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/siherrmann/tripgraph/core/embedding"
	"github.com/siherrmann/tripgraph/core/generation"
	"github.com/siherrmann/tripgraph/core/graphctx"
	"github.com/siherrmann/tripgraph/core/prompt"
	"github.com/siherrmann/tripgraph/core/retrieval"
	"github.com/siherrmann/tripgraph/database"
	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
)

// TripGraph provides a unified interface to the hybrid query pipeline:
// embed, retrieve, expand, assemble, generate. The graph store is optional;
// without it the pipeline runs in the degraded variant and all graph
// outputs stay empty.
type TripGraph struct {
	DB     *helper.Database
	Vector database.VectorDBHandlerFunctions
	Graph  database.GraphDBHandlerFunctions // nil in the degraded variant

	embedder  embedding.Embedder
	retriever retrieval.Retriever
	expander  graphctx.Expander
	generator generation.Generator

	config *model.ServiceConfig
	log    *slog.Logger
}

// New creates a TripGraph instance with all collaborators initialized.
// Missing credentials or a dimension mismatch fail here; an absent graph
// configuration selects the degraded variant instead of failing.
func New(ctx context.Context, dbConfig *helper.DatabaseConfiguration, config *model.ServiceConfig) (*TripGraph, error) {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	db := helper.NewDatabase("tripgraph", dbConfig, logger)

	vector, err := database.NewVectorDBHandler(db, config.EmbeddingDim, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, helper.NewError("create vector handler", err))
	}

	var graph database.GraphDBHandlerFunctions
	if config.GraphEnabled() {
		graphHandler, err := database.NewGraphDBHandler(ctx, config.GraphURI, config.GraphUsername, config.GraphPassword, config.GraphDatabase, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		graph = graphHandler
	} else {
		logger.Warn("No graph store configured, running without graph context")
	}

	embedder, err := embedding.NewEmbedder(config, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	generator, err := generation.NewGenerator(ctx, config, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return newFromParts(db, vector, graph, embedder, generator, config, logger)
}

// NewFromComponents wires a TripGraph from already constructed
// collaborators. A nil graph store selects the degraded variant.
func NewFromComponents(
	vector database.VectorDBHandlerFunctions,
	graph database.GraphDBHandlerFunctions,
	embedder embedding.Embedder,
	generator generation.Generator,
	config *model.ServiceConfig,
	logger *slog.Logger,
) (*TripGraph, error) {
	if vector == nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, helper.NewError("component validation", fmt.Errorf("vector store is nil")))
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, helper.NewError("component validation", fmt.Errorf("embedder is nil")))
	}
	if generator == nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, helper.NewError("component validation", fmt.Errorf("generator is nil")))
	}
	if config == nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, helper.NewError("component validation", fmt.Errorf("config is nil")))
	}
	if logger == nil {
		logger = helper.NewTestLogger()
	}
	return newFromParts(nil, vector, graph, embedder, generator, config, logger)
}

func newFromParts(
	db *helper.Database,
	vector database.VectorDBHandlerFunctions,
	graph database.GraphDBHandlerFunctions,
	embedder embedding.Embedder,
	generator generation.Generator,
	config *model.ServiceConfig,
	logger *slog.Logger,
) (*TripGraph, error) {
	retriever, err := retrieval.NewVectorRetriever(vector, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	// The expander variant is decided once here, never per request.
	var expander graphctx.Expander
	if graph != nil {
		storeExpander, err := graphctx.NewStoreExpander(graph, config.Query, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		expander = storeExpander
	} else {
		expander = graphctx.NewNoopExpander()
	}

	return &TripGraph{
		DB:        db,
		Vector:    vector,
		Graph:     graph,
		embedder:  embedder,
		retriever: retriever,
		expander:  expander,
		generator: generator,
		config:    config,
		log:       logger,
	}, nil
}

// Degraded reports whether the pipeline runs without a graph store.
func (t *TripGraph) Degraded() bool {
	return t.Graph == nil
}

// ProcessQuery runs the full pipeline for a query and returns the answer
// together with the evidence it was grounded in. Any stage failure aborts
// the remaining stages; partial results are never returned.
func (t *TripGraph) ProcessQuery(ctx context.Context, query string) (*model.ChatResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrValidation)
	}

	embeddingVector, err := t.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	matches, err := t.retriever.Retrieve(ctx, embeddingVector, t.config.Query.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	facts, err := t.expander.Expand(ctx, matchIDs(matches))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	messages := prompt.Assemble(query, matches, facts)

	answer, err := t.generator.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	if matches == nil {
		matches = []*model.VectorMatch{}
	}
	if facts == nil {
		facts = []*model.GraphFact{}
	}

	return &model.ChatResult{
		Answer:     answer,
		Matches:    matches,
		GraphFacts: facts,
	}, nil
}

// Search embeds a query and returns the top k vector matches without graph
// expansion or generation.
func (t *TripGraph) Search(ctx context.Context, query string, k int) ([]*model.VectorMatch, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrValidation)
	}
	if k < 1 {
		k = t.config.Query.TopK
	}

	embeddingVector, err := t.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	matches, err := t.retriever.Retrieve(ctx, embeddingVector, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}
	if matches == nil {
		matches = []*model.VectorMatch{}
	}

	return matches, nil
}

// GraphData returns the subgraph spanned by the requested entity ids.
// Ids are trimmed and de-duplicated; an empty resulting set is rejected.
// In the degraded variant the view is always empty.
func (t *TripGraph) GraphData(ctx context.Context, entityIDs []string) (*model.GraphView, error) {
	ids := normalizeIDs(entityIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no entity ids given", ErrValidation)
	}

	view, err := t.expander.GraphView(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	return view, nil
}

// Close releases all long-lived connections.
func (t *TripGraph) Close(ctx context.Context) error {
	var firstErr error

	if t.embedder != nil {
		if err := t.embedder.Close(); err != nil {
			firstErr = err
		}
	}
	if t.Graph != nil {
		if err := t.Graph.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if t.DB != nil && t.DB.Instance != nil {
		if err := t.DB.Instance.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func matchIDs(matches []*model.VectorMatch) []string {
	ids := make([]string, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match.ID)
	}
	return ids
}

// normalizeIDs trims whitespace and drops empty and duplicate ids while
// preserving first-seen order.
func normalizeIDs(entityIDs []string) []string {
	seen := make(map[string]bool, len(entityIDs))
	ids := make([]string, 0, len(entityIDs))
	for _, id := range entityIDs {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		ids = append(ids, trimmed)
	}
	return ids
}
