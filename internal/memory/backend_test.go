package memory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/halcyon-apps/daystore/internal/backend"
	"github.com/halcyon-apps/daystore/pkg/types"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(t.TempDir(), "daystore")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for _, spec := range types.Tables {
		if err := b.EnsureTable(spec); err != nil {
			t.Fatalf("EnsureTable(%s) failed: %v", spec.Name, err)
		}
	}
	return b
}

func taskRow(id, userID, title string) types.Row {
	return types.Row{
		types.ColID:        id,
		types.ColCreatedAt: "2024-06-01T00:00:00.000Z",
		types.ColUpdatedAt: "2024-06-01T00:00:00.000Z",
		"user_id":          userID,
		"title":            title,
		"priority":         "medium",
		"completed":        int64(0),
	}
}

func TestInsertAndSelect(t *testing.T) {
	b := newTestBackend(t)

	if err := b.Insert(types.TasksSpec, taskRow("t1", "u1", "one")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := b.Insert(types.TasksSpec, taskRow("t2", "u2", "two")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	rows, err := b.Select(backend.Query{Table: types.TasksTable})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	rows, err = b.Select(backend.Query{
		Table: types.TasksTable,
		Where: &backend.Equality{Column: "user_id", Value: "u1"},
	})
	if err != nil {
		t.Fatalf("filtered Select failed: %v", err)
	}
	if len(rows) != 1 || rows[0][types.ColID] != "t1" {
		t.Errorf("expected only t1, got %v", rows)
	}
}

func TestInsertDuplicateID(t *testing.T) {
	b := newTestBackend(t)

	if err := b.Insert(types.TasksSpec, taskRow("t1", "u1", "one")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := b.Insert(types.TasksSpec, taskRow("t1", "u1", "again")); err == nil {
		t.Error("duplicate primary key should fail")
	}
}

func TestUpdateMergesColumns(t *testing.T) {
	b := newTestBackend(t)
	b.Insert(types.TasksSpec, taskRow("t1", "u1", "before"))

	err := b.Update(types.TasksSpec, "t1", types.Row{"completed": int64(1)})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	rows, _ := b.Select(backend.Query{Table: types.TasksTable})
	if rows[0]["completed"] != int64(1) {
		t.Error("updated column not applied")
	}
	if rows[0]["title"] != "before" {
		t.Error("untouched column changed")
	}
}

func TestDelete(t *testing.T) {
	b := newTestBackend(t)
	b.Insert(types.TasksSpec, taskRow("t1", "u1", "one"))

	if err := b.Delete(types.TasksSpec, "t1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	rows, _ := b.Select(backend.Query{Table: types.TasksTable})
	if len(rows) != 0 {
		t.Errorf("row still present after delete: %v", rows)
	}

	// Deleting a missing id is not an error.
	if err := b.Delete(types.TasksSpec, "t1"); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
}

func TestSelectReturnsCopies(t *testing.T) {
	b := newTestBackend(t)
	b.Insert(types.TasksSpec, taskRow("t1", "u1", "one"))

	rows, _ := b.Select(backend.Query{Table: types.TasksTable})
	rows[0]["title"] = "mutated"

	again, _ := b.Select(backend.Query{Table: types.TasksTable})
	if again[0]["title"] != "one" {
		t.Error("caller mutation leaked into stored row")
	}
}

func TestFlushAndRehydrate(t *testing.T) {
	dir := t.TempDir()

	b, err := Open(dir, "daystore")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	b.EnsureTable(types.TasksSpec)
	b.Insert(types.TasksSpec, taskRow("t1", "u1", "persisted"))
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Persistence lands in one file per table key.
	if _, err := os.Stat(filepath.Join(dir, "daystore_tasks.json")); err != nil {
		t.Fatalf("expected persisted table file: %v", err)
	}

	b2, err := Open(dir, "daystore")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	b2.EnsureTable(types.TasksSpec)
	rows, err := b2.Select(backend.Query{Table: types.TasksTable})
	if err != nil {
		t.Fatalf("Select after reopen failed: %v", err)
	}
	if len(rows) != 1 || rows[0]["title"] != "persisted" {
		t.Fatalf("row did not survive reopen: %v", rows)
	}
	// Integer columns come back as int64, not JSON float64.
	if _, ok := rows[0]["completed"].(int64); !ok {
		t.Errorf("expected int64 after rehydrate, got %T", rows[0]["completed"])
	}
}

func TestStoreNamesIsolate(t *testing.T) {
	dir := t.TempDir()

	a, _ := Open(dir, "alpha")
	a.EnsureTable(types.TasksSpec)
	a.Insert(types.TasksSpec, taskRow("t1", "u1", "alpha task"))
	a.Close()

	z, _ := Open(dir, "zulu")
	z.EnsureTable(types.TasksSpec)
	rows, err := z.Select(backend.Query{Table: types.TasksTable})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("store zulu sees alpha's rows: %v", rows)
	}
}

func TestSelectUnknownTable(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.Select(backend.Query{Table: "nope"})
	if !errors.Is(err, types.ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}
}

func TestExecUnsupported(t *testing.T) {
	b := newTestBackend(t)
	err := b.Exec("ALTER TABLE tasks ADD COLUMN extra TEXT")
	if !errors.Is(err, types.ErrUnsupportedQuery) {
		t.Errorf("expected ErrUnsupportedQuery, got %v", err)
	}
}

func TestCaps(t *testing.T) {
	b := newTestBackend(t)
	caps := b.Caps()
	if caps.ForeignKeys {
		t.Error("emulated backend must not claim foreign key enforcement")
	}
	if caps.RawSQL {
		t.Error("emulated backend must not claim full raw SQL")
	}
}
