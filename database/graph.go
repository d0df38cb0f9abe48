package database

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
)

// GraphDBHandlerFunctions defines the interface for graph store operations.
type GraphDBHandlerFunctions interface {
	SelectNeighbors(ctx context.Context, entityID string, limit int) ([]*model.GraphFact, error)
	SelectGraphView(ctx context.Context, entityIDs []string) (*model.GraphView, error)
	UpsertEntityNode(ctx context.Context, entity *model.TravelEntity) error
	UpsertRelation(ctx context.Context, sourceID string, relation string, targetID string) error
	Close(ctx context.Context) error
}

// GraphDBHandler handles entity neighborhood queries against Neo4j.
type GraphDBHandler struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// relationPattern restricts relation types to safe Cypher identifiers,
// since relationship types cannot be passed as query parameters.
var relationPattern = regexp.MustCompile(`[^A-Z0-9_]+`)

// NewGraphDBHandler connects to the graph store and verifies connectivity.
// An unreachable store here is a startup decision: the caller falls back to
// the degraded variant instead of failing per query.
func NewGraphDBHandler(ctx context.Context, uri string, username string, password string, database string, logger *slog.Logger) (*GraphDBHandler, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, helper.NewError("create graph driver", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, helper.NewError("verify graph connectivity", err)
	}

	logger.Info("Initialized GraphDBHandler", slog.String("uri", uri))

	return &GraphDBHandler{
		driver:   driver,
		database: database,
		logger:   logger,
	}, nil
}

// Close closes the graph driver.
func (h *GraphDBHandler) Close(ctx context.Context) error {
	if h.driver == nil {
		return nil
	}
	return h.driver.Close(ctx)
}

// SelectNeighbors fetches up to limit one-hop neighbors of an entity.
// Relations in either direction are collapsed into a single edge view; the
// target description is returned untruncated, the expander owns the budget.
func (h *GraphDBHandler) SelectNeighbors(ctx context.Context, entityID string, limit int) ([]*model.GraphFact, error) {
	session := h.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: h.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		`MATCH (n:Entity {id: $id})-[r]-(m:Entity)
		 RETURN type(r) AS rel, labels(m) AS labels, m.id AS id,
		        m.name AS name, m.description AS description
		 LIMIT $limit`,
		map[string]any{
			"id":    entityID,
			"limit": limit,
		},
	)
	if err != nil {
		return nil, helper.NewError("query neighbors", err)
	}

	var facts []*model.GraphFact
	for result.Next(ctx) {
		record := result.Record()
		facts = append(facts, &model.GraphFact{
			Source:            entityID,
			Relation:          recordString(record, "rel"),
			TargetID:          recordString(record, "id"),
			TargetName:        recordString(record, "name"),
			TargetDescription: recordString(record, "description"),
			TargetLabels:      recordStrings(record, "labels"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, helper.NewError("read neighbors", err)
	}

	return facts, nil
}

// SelectGraphView returns the nodes for every existing id of the requested
// set and the edges between directly connected pairs within that set.
// Nodes keep the requested id order.
func (h *GraphDBHandler) SelectGraphView(ctx context.Context, entityIDs []string) (*model.GraphView, error) {
	session := h.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: h.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	view := model.EmptyGraphView()

	for _, entityID := range entityIDs {
		result, err := session.Run(ctx,
			`MATCH (n:Entity {id: $id})
			 RETURN n.id AS id, n.name AS name, n.type AS type, labels(n) AS labels`,
			map[string]any{"id": entityID},
		)
		if err != nil {
			return nil, helper.NewError("query nodes", err)
		}

		for result.Next(ctx) {
			record := result.Record()
			name := recordString(record, "name")
			labels := recordStrings(record, "labels")
			view.Nodes = append(view.Nodes, &model.GraphNode{
				ID:    recordString(record, "id"),
				Label: name,
				Group: recordString(record, "type"),
				Title: fmt.Sprintf("%s (%s)", name, strings.Join(labels, ", ")),
			})
		}
		if err := result.Err(); err != nil {
			return nil, helper.NewError("read nodes", err)
		}
	}

	result, err := session.Run(ctx,
		`MATCH (n:Entity)-[r]->(m:Entity)
		 WHERE n.id IN $ids AND m.id IN $ids
		 RETURN n.id AS from, m.id AS to, type(r) AS label`,
		map[string]any{"ids": entityIDs},
	)
	if err != nil {
		return nil, helper.NewError("query edges", err)
	}

	for result.Next(ctx) {
		record := result.Record()
		view.Edges = append(view.Edges, &model.GraphEdge{
			From:  recordString(record, "from"),
			To:    recordString(record, "to"),
			Label: recordString(record, "label"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, helper.NewError("read edges", err)
	}

	return view, nil
}

// UpsertEntityNode merges an entity node into the graph by id.
func (h *GraphDBHandler) UpsertEntityNode(ctx context.Context, entity *model.TravelEntity) error {
	session := h.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: h.database,
	})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		`MERGE (n:Entity {id: $id})
		 SET n.name = $name, n.type = $type, n.description = $description`,
		map[string]any{
			"id":          entity.ID,
			"name":        entity.Name,
			"type":        entity.Type,
			"description": entity.Description,
		},
	)
	if err != nil {
		return helper.NewError("merge entity node", err)
	}

	return nil
}

// UpsertRelation merges a directed relation between two existing entities.
// The relation type is normalized to a Cypher-safe identifier.
func (h *GraphDBHandler) UpsertRelation(ctx context.Context, sourceID string, relation string, targetID string) error {
	normalized := relationPattern.ReplaceAllString(strings.ToUpper(relation), "_")
	if normalized == "" || normalized == "_" {
		return helper.NewError("relation validation", fmt.Errorf("relation %q normalizes to an empty type", relation))
	}

	session := h.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: h.database,
	})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		fmt.Sprintf(
			`MATCH (a:Entity {id: $from}), (b:Entity {id: $to})
			 MERGE (a)-[r:%s]->(b)`,
			normalized,
		),
		map[string]any{
			"from": sourceID,
			"to":   targetID,
		},
	)
	if err != nil {
		return helper.NewError("merge relation", err)
	}

	return nil
}

func recordString(record *neo4j.Record, key string) string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func recordStrings(record *neo4j.Record, key string) []string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return nil
	}
	raw, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
