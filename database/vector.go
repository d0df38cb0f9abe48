package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
	loadSql "github.com/siherrmann/tripgraph/sql"
)

// VectorDBHandlerFunctions defines the interface for vector index operations.
type VectorDBHandlerFunctions interface {
	UpsertEntity(entity *model.TravelEntity) error
	SelectEntity(id string) (*model.TravelEntity, error)
	SelectMatchesBySimilarity(embedding []float32, limit int) ([]*model.VectorMatch, error)
	CountEntities() (int64, error)
	DeleteEntity(id string) error
	EmbeddingDimension() (int, error)
}

// VectorDBHandler handles the travel entity vector index in PostgreSQL.
type VectorDBHandler struct {
	db *helper.Database
}

// NewVectorDBHandler creates a new vector index handler.
// It loads the entity SQL functions, initializes the table with the given
// embedding dimension and verifies that an existing table matches that
// dimension. A dimension mismatch is a configuration error, not something
// to detect per query.
// If force is true, it will reload the SQL functions even if they already exist.
func NewVectorDBHandler(db *helper.Database, embeddingDim int, force bool) (*VectorDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim < 1 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be positive, got %d", embeddingDim))
	}

	vectorDbHandler := &VectorDBHandler{
		db: db,
	}

	err := loadSql.LoadEntitiesSql(vectorDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load entities sql", err)
	}

	err = vectorDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	dim, err := vectorDbHandler.EmbeddingDimension()
	if err != nil {
		return nil, helper.NewError("read embedding dimension", err)
	}
	if dim != embeddingDim {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("index dimension %d does not match configured dimension %d", dim, embeddingDim))
	}

	db.Logger.Info("Initialized VectorDBHandler")

	return vectorDbHandler, nil
}

// CreateTable creates the 'travel_entities' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *VectorDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_travel_entities($1);`, embeddingDim)
	if err != nil {
		return helper.NewError("initialize travel entities table", err)
	}

	h.db.Logger.Info("Checked/created table travel_entities")

	return nil
}

// EmbeddingDimension returns the dimension of the index's embedding column.
func (h *VectorDBHandler) EmbeddingDimension() (int, error) {
	var dim int
	err := h.db.Instance.QueryRow(`SELECT travel_entities_dim()`).Scan(&dim)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return dim, nil
}

// UpsertEntity inserts a new entity (or updates if exists).
// An entity without an id gets a generated one.
func (h *VectorDBHandler) UpsertEntity(entity *model.TravelEntity) error {
	if entity.ID == "" {
		entity.ID = uuid.New().String()
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM upsert_travel_entity($1, $2, $3, $4, $5, $6)`,
		entity.ID,
		entity.Name,
		entity.Type,
		entity.Description,
		entity.Metadata,
		pgvector.NewVector(entity.Embedding),
	)

	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Type,
		&entity.Description,
		&entity.Metadata,
		&entity.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectEntity retrieves an entity by ID
func (h *VectorDBHandler) SelectEntity(id string) (*model.TravelEntity, error) {
	entity := &model.TravelEntity{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_travel_entity($1)`,
		id,
	)

	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Type,
		&entity.Description,
		&entity.Metadata,
		&entity.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entity, nil
}

// SelectMatchesBySimilarity retrieves the nearest entities for a query
// embedding, ordered by descending cosine similarity. An empty result is a
// valid "no matches" outcome; errors are only returned for real failures.
func (h *VectorDBHandler) SelectMatchesBySimilarity(embedding []float32, limit int) ([]*model.VectorMatch, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_travel_entities_by_similarity($1, $2)`,
		pgvector.NewVector(embedding),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var matches []*model.VectorMatch
	for rows.Next() {
		entity := &model.TravelEntity{}
		var score float64

		err := rows.Scan(
			&entity.ID,
			&entity.Name,
			&entity.Type,
			&entity.Description,
			&entity.Metadata,
			&score,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		matches = append(matches, entity.Match(score))
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return matches, nil
}

// CountEntities returns the number of entities in the index
func (h *VectorDBHandler) CountEntities() (int64, error) {
	var count int64
	err := h.db.Instance.QueryRow(`SELECT count_travel_entities()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}

// DeleteEntity deletes an entity by ID
func (h *VectorDBHandler) DeleteEntity(id string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_travel_entity($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
