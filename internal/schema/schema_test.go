package schema

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-apps/daystore/internal/backend"
	"github.com/halcyon-apps/daystore/internal/memory"
	"github.com/halcyon-apps/daystore/internal/sqlite"
	"github.com/halcyon-apps/daystore/pkg/types"
)

func storedVersion(t *testing.T, b backend.Backend) string {
	t.Helper()
	rows, err := b.Select(backend.Query{
		Table: types.MetaTable,
		Where: &backend.Equality{Column: types.MetaKeyColumn, Value: types.MetaSchemaVersionKey},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1, "expected exactly one version row")
	v, _ := rows[0][types.MetaValueColumn].(string)
	return v
}

func openSQLite(t *testing.T) *sqlite.Backend {
	t.Helper()
	b, err := sqlite.Open(filepath.Join(t.TempDir(), "daystore.db"))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func openMemory(t *testing.T) *memory.Backend {
	t.Helper()
	b, err := memory.Open(t.TempDir(), "daystore")
	require.NoError(t, err)
	return b
}

func TestInitializeFreshSQLite(t *testing.T) {
	b := openSQLite(t)

	require.NoError(t, Initialize(b))
	assert.Equal(t, strconv.Itoa(CurrentVersion), storedVersion(t, b))

	// Fresh tables already carry the v2 column.
	err := b.Insert(types.EventsSpec, types.Row{
		types.ColID:        "e1",
		types.ColCreatedAt: "2024-06-01T00:00:00.000Z",
		types.ColUpdatedAt: "2024-06-01T00:00:00.000Z",
		"user_id":          "u1",
		"title":            "standup",
		"start":            "2024-06-01T09:00:00.000Z",
		"end":              "2024-06-01T09:15:00.000Z",
		"all_day":          int64(0),
		"external_id":      "gcal-123",
	})
	assert.NoError(t, err, "insert with external_id should work on a fresh schema")
}

func TestInitializeFreshMemory(t *testing.T) {
	b := openMemory(t)

	require.NoError(t, Initialize(b))
	assert.Equal(t, strconv.Itoa(CurrentVersion), storedVersion(t, b))
}

func TestInitializeIdempotent(t *testing.T) {
	b := openSQLite(t)

	require.NoError(t, Initialize(b))
	require.NoError(t, Initialize(b))
}

func TestUpgradeFromV1(t *testing.T) {
	b := openSQLite(t)

	// Build the v1 layout by hand: events without external_id, version 1.
	require.NoError(t, b.EnsureTable(types.MetaSpec))
	require.NoError(t, b.Exec(`CREATE TABLE calendar_events (
		_id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		"user_id" TEXT NOT NULL,
		"title" TEXT NOT NULL,
		"start" TEXT NOT NULL,
		"end" TEXT NOT NULL,
		"all_day" INTEGER NOT NULL,
		"category" TEXT,
		"color" TEXT
	)`))
	require.NoError(t, b.Insert(types.MetaSpec, types.Row{
		types.MetaKeyColumn:   types.MetaSchemaVersionKey,
		types.MetaValueColumn: "1",
	}))

	require.NoError(t, Initialize(b))
	assert.Equal(t, strconv.Itoa(CurrentVersion), storedVersion(t, b))

	// The upgrade added the column to the existing table.
	_, err := b.Query("SELECT external_id FROM calendar_events")
	assert.NoError(t, err, "external_id column should exist after upgrade")
}

func TestFutureVersionRejected(t *testing.T) {
	b := openMemory(t)
	require.NoError(t, b.EnsureTable(types.MetaSpec))
	require.NoError(t, b.Insert(types.MetaSpec, types.Row{
		types.MetaKeyColumn:   types.MetaSchemaVersionKey,
		types.MetaValueColumn: strconv.Itoa(CurrentVersion + 1),
	}))

	assert.ErrorIs(t, Initialize(b), ErrFutureSchema)
}

func TestMalformedVersionRejected(t *testing.T) {
	b := openMemory(t)
	require.NoError(t, b.EnsureTable(types.MetaSpec))
	require.NoError(t, b.Insert(types.MetaSpec, types.Row{
		types.MetaKeyColumn:   types.MetaSchemaVersionKey,
		types.MetaValueColumn: "two",
	}))

	assert.Error(t, Initialize(b), "malformed stored version must not fresh-init")
}
