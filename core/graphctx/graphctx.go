package graphctx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siherrmann/tripgraph/database"
	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
)

// Expander enriches retrieved entities with one-hop graph facts.
type Expander interface {
	Expand(ctx context.Context, entityIDs []string) ([]*model.GraphFact, error)
	GraphView(ctx context.Context, entityIDs []string) (*model.GraphView, error)
}

// StoreExpander expands entities against the graph store. Facts are grouped
// per entity in the order the ids were given, so more similar entities
// contribute their facts first.
type StoreExpander struct {
	store             database.GraphDBHandlerFunctions
	neighborLimit     int
	descriptionBudget int
	logger            *slog.Logger
}

// NewStoreExpander creates an expander over the given graph store.
func NewStoreExpander(store database.GraphDBHandlerFunctions, query model.QueryConfig, logger *slog.Logger) (*StoreExpander, error) {
	if store == nil {
		return nil, helper.NewError("expander validation", fmt.Errorf("graph store is nil"))
	}
	if query.NeighborLimit < 1 {
		return nil, helper.NewError("expander validation", fmt.Errorf("neighbor limit must be at least 1, got %d", query.NeighborLimit))
	}
	return &StoreExpander{
		store:             store,
		neighborLimit:     query.NeighborLimit,
		descriptionBudget: query.DescriptionBudget,
		logger:            logger,
	}, nil
}

// Expand collects up to the neighbor limit of one-hop facts per entity.
// Target descriptions are truncated to the configured budget.
func (e *StoreExpander) Expand(ctx context.Context, entityIDs []string) ([]*model.GraphFact, error) {
	var facts []*model.GraphFact
	for _, entityID := range entityIDs {
		neighbors, err := e.store.SelectNeighbors(ctx, entityID, e.neighborLimit)
		if err != nil {
			return nil, helper.NewError("expand entity", err)
		}
		for _, fact := range neighbors {
			fact.TargetDescription = truncate(fact.TargetDescription, e.descriptionBudget)
			facts = append(facts, fact)
		}
	}

	e.logger.Debug("Expanded graph context", slog.Int("entities", len(entityIDs)), slog.Int("facts", len(facts)))

	return facts, nil
}

// GraphView returns the subgraph spanned by the given entity ids.
func (e *StoreExpander) GraphView(ctx context.Context, entityIDs []string) (*model.GraphView, error) {
	view, err := e.store.SelectGraphView(ctx, entityIDs)
	if err != nil {
		return nil, helper.NewError("graph view", err)
	}
	return view, nil
}

// truncate cuts a string to at most budget runes. A budget below 1 disables
// truncation.
func truncate(text string, budget int) string {
	if budget < 1 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget])
}

// NoopExpander is the degraded variant used when no graph store is
// configured. It produces no facts and an empty graph view.
type NoopExpander struct{}

// NewNoopExpander creates an expander that never produces graph context.
func NewNoopExpander() *NoopExpander {
	return &NoopExpander{}
}

// Expand returns no facts.
func (e *NoopExpander) Expand(ctx context.Context, entityIDs []string) ([]*model.GraphFact, error) {
	return nil, nil
}

// GraphView returns an empty view.
func (e *NoopExpander) GraphView(ctx context.Context, entityIDs []string) (*model.GraphView, error) {
	return model.EmptyGraphView(), nil
}
