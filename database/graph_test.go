package database

import (
	"context"
	"testing"

	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGraph(t *testing.T, graphDbHandler *GraphDBHandler) {
	ctx := context.Background()

	entities := []*model.TravelEntity{
		{ID: "hanoi", Name: "Hanoi", Type: "city", Description: "Capital of Vietnam."},
		{ID: "pho-thin", Name: "Pho Thin", Type: "restaurant", Description: "Famous pho restaurant on Lo Duc street."},
		{ID: "hoan-kiem-lake", Name: "Hoan Kiem Lake", Type: "attraction", Description: "Scenic lake in the historical center."},
	}
	for _, entity := range entities {
		err := graphDbHandler.UpsertEntityNode(ctx, entity)
		require.NoError(t, err, "Expected UpsertEntityNode to not return an error")
	}

	err := graphDbHandler.UpsertRelation(ctx, "pho-thin", "LOCATED_IN", "hanoi")
	require.NoError(t, err)
	err = graphDbHandler.UpsertRelation(ctx, "hoan-kiem-lake", "LOCATED_IN", "hanoi")
	require.NoError(t, err)
	err = graphDbHandler.UpsertRelation(ctx, "pho-thin", "near by", "hoan-kiem-lake")
	require.NoError(t, err)
}

func TestGraphNewGraphDBHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid call NewGraphDBHandler", func(t *testing.T) {
		graphDbHandler, err := NewGraphDBHandler(ctx, graphURI, "neo4j", "password", "neo4j", helper.NewTestLogger())
		assert.NoError(t, err, "Expected NewGraphDBHandler to not return an error")
		require.NotNil(t, graphDbHandler, "Expected NewGraphDBHandler to return a non-nil instance")
		assert.NoError(t, graphDbHandler.Close(ctx), "Expected Close to not return an error")
	})

	t.Run("Invalid call NewGraphDBHandler with unreachable store", func(t *testing.T) {
		_, err := NewGraphDBHandler(ctx, "bolt://localhost:1", "neo4j", "password", "neo4j", helper.NewTestLogger())
		assert.Error(t, err, "Expected error when the graph store is unreachable")
		assert.Contains(t, err.Error(), "verify graph connectivity", "Expected the connectivity check to fail")
	})
}

func TestGraphSelectNeighbors(t *testing.T) {
	ctx := context.Background()
	graphDbHandler := initGraph(t)
	seedGraph(t, graphDbHandler)

	t.Run("Neighbors of a connected entity", func(t *testing.T) {
		facts, err := graphDbHandler.SelectNeighbors(ctx, "pho-thin", 10)
		assert.NoError(t, err, "Expected SelectNeighbors to not return an error")
		require.Len(t, facts, 2, "Expected two one-hop neighbors")

		targetIDs := []string{facts[0].TargetID, facts[1].TargetID}
		assert.Contains(t, targetIDs, "hanoi", "Expected hanoi among the neighbors")
		assert.Contains(t, targetIDs, "hoan-kiem-lake", "Expected hoan-kiem-lake among the neighbors")
		for _, fact := range facts {
			assert.Equal(t, "pho-thin", fact.Source, "Expected the source to be the queried entity")
			assert.NotEmpty(t, fact.Relation, "Expected a relation type on every fact")
			assert.Contains(t, fact.TargetLabels, "Entity", "Expected the Entity label on every neighbor")
		}
	})

	t.Run("Neighbors over both edge directions", func(t *testing.T) {
		facts, err := graphDbHandler.SelectNeighbors(ctx, "hanoi", 10)
		assert.NoError(t, err)
		assert.Len(t, facts, 2, "Expected incoming edges to count as neighbors")
	})

	t.Run("Limit caps the number of neighbors", func(t *testing.T) {
		facts, err := graphDbHandler.SelectNeighbors(ctx, "pho-thin", 1)
		assert.NoError(t, err)
		assert.Len(t, facts, 1, "Expected the limit to cap the result")
	})

	t.Run("Unknown entity has no neighbors", func(t *testing.T) {
		facts, err := graphDbHandler.SelectNeighbors(ctx, "does-not-exist", 10)
		assert.NoError(t, err, "Expected no error for an unknown entity")
		assert.Empty(t, facts, "Expected no facts for an unknown entity")
	})
}

func TestGraphSelectGraphView(t *testing.T) {
	ctx := context.Background()
	graphDbHandler := initGraph(t)
	seedGraph(t, graphDbHandler)

	t.Run("View over connected entities", func(t *testing.T) {
		view, err := graphDbHandler.SelectGraphView(ctx, []string{"pho-thin", "hanoi"})
		assert.NoError(t, err, "Expected SelectGraphView to not return an error")
		require.NotNil(t, view)
		require.Len(t, view.Nodes, 2, "Expected a node per requested id")
		assert.Equal(t, "pho-thin", view.Nodes[0].ID, "Expected nodes in requested id order")
		assert.Equal(t, "hanoi", view.Nodes[1].ID, "Expected nodes in requested id order")
		assert.Equal(t, "Pho Thin", view.Nodes[0].Label, "Expected the node label to be the entity name")
		assert.Equal(t, "restaurant", view.Nodes[0].Group, "Expected the node group to be the entity type")
		assert.Contains(t, view.Nodes[0].Title, "Pho Thin (", "Expected the node title to include name and labels")

		require.Len(t, view.Edges, 1, "Expected the single edge between the requested ids")
		assert.Equal(t, "pho-thin", view.Edges[0].From, "Expected the edge source")
		assert.Equal(t, "hanoi", view.Edges[0].To, "Expected the edge target")
		assert.Equal(t, "LOCATED_IN", view.Edges[0].Label, "Expected the relation type as edge label")
	})

	t.Run("Missing ids are skipped", func(t *testing.T) {
		view, err := graphDbHandler.SelectGraphView(ctx, []string{"does-not-exist", "hanoi"})
		assert.NoError(t, err, "Expected no error when an id does not exist")
		require.Len(t, view.Nodes, 1, "Expected only the existing entity as node")
		assert.Equal(t, "hanoi", view.Nodes[0].ID)
		assert.Empty(t, view.Edges, "Expected no edges for a single node")
	})

	t.Run("Empty id set yields an empty view", func(t *testing.T) {
		view, err := graphDbHandler.SelectGraphView(ctx, []string{})
		assert.NoError(t, err)
		require.NotNil(t, view)
		assert.Empty(t, view.Nodes, "Expected no nodes for an empty id set")
		assert.Empty(t, view.Edges, "Expected no edges for an empty id set")
	})
}

func TestGraphUpsertRelation(t *testing.T) {
	ctx := context.Background()
	graphDbHandler := initGraph(t)
	seedGraph(t, graphDbHandler)

	t.Run("Relation type is normalized", func(t *testing.T) {
		facts, err := graphDbHandler.SelectNeighbors(ctx, "hoan-kiem-lake", 10)
		require.NoError(t, err)

		var relations []string
		for _, fact := range facts {
			relations = append(relations, fact.Relation)
		}
		assert.Contains(t, relations, "NEAR_BY", "Expected the relation type to be upper-cased and sanitized")
	})

	t.Run("Invalid relation type is rejected", func(t *testing.T) {
		err := graphDbHandler.UpsertRelation(ctx, "pho-thin", "??", "hanoi")
		assert.Error(t, err, "Expected error for a relation that normalizes to nothing")
	})

	t.Run("Upsert same relation twice is idempotent", func(t *testing.T) {
		err := graphDbHandler.UpsertRelation(ctx, "pho-thin", "LOCATED_IN", "hanoi")
		require.NoError(t, err)

		view, err := graphDbHandler.SelectGraphView(ctx, []string{"pho-thin", "hanoi"})
		require.NoError(t, err)
		assert.Len(t, view.Edges, 1, "Expected MERGE to not duplicate the relation")
	})
}
