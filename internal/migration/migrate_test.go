package migration_test

import (
	"context"
	"testing"

	"github.com/patsapolpro/web-starter-kit-ai/internal/logger"
	"github.com/patsapolpro/web-starter-kit-ai/internal/migration"
	"github.com/patsapolpro/web-starter-kit-ai/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrator(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	ctx := context.Background()

	m, err := migration.NewFromDSN(ctx, pgContainer.DSN, logger.Discard())
	require.NoError(t, err)
	defer m.Close()

	t.Run("UpCreatesSchema", func(t *testing.T) {
		require.NoError(t, m.Up())

		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(3), version)
		assert.False(t, dirty)

		tables, err := m.Tables(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"preferences", "projects", "requirements"}, tables)
	})

	t.Run("UpIsIdempotent", func(t *testing.T) {
		require.NoError(t, m.Up())
	})

	t.Run("DownOneStep", func(t *testing.T) {
		require.NoError(t, m.Down(1))

		version, _, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), version)

		tables, err := m.Tables(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"projects", "requirements"}, tables)
	})

	t.Run("DownAll", func(t *testing.T) {
		require.NoError(t, m.Down(0))

		version, _, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(0), version)

		tables, err := m.Tables(ctx)
		require.NoError(t, err)
		assert.Empty(t, tables)
	})

	t.Run("ReapplyAfterRollback", func(t *testing.T) {
		require.NoError(t, m.Up())

		var triggerCount int
		err := pgContainer.DB.NewRaw(
			"SELECT count(*) FROM information_schema.triggers WHERE trigger_name LIKE '%_set_last_%'",
		).Scan(ctx, &triggerCount)
		require.NoError(t, err)
		assert.Equal(t, 3, triggerCount)
	})
}
