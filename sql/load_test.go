package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	db := initDB(t)

	t.Run("Initialize extensions", func(t *testing.T) {
		err := Init(db.Instance)
		assert.NoError(t, err, "Expected Init to not return an error")

		var hasVector bool
		err = db.Instance.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'vector');`,
		).Scan(&hasVector)
		require.NoError(t, err)
		assert.True(t, hasVector, "Expected vector extension to be installed")
	})
}

func TestLoadEntitiesSql(t *testing.T) {
	db := initDB(t)
	err := Init(db.Instance)
	require.NoError(t, err)

	t.Run("Load entities functions", func(t *testing.T) {
		err := LoadEntitiesSql(db.Instance, true)
		assert.NoError(t, err, "Expected LoadEntitiesSql to not return an error")

		exist, err := checkFunctions(db.Instance, EntitiesFunctions)
		require.NoError(t, err)
		assert.True(t, exist, "Expected all entities functions to exist after load")
	})

	t.Run("Load is idempotent without force", func(t *testing.T) {
		err := LoadEntitiesSql(db.Instance, false)
		assert.NoError(t, err, "Expected repeated LoadEntitiesSql to not return an error")
	})
}
