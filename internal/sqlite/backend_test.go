package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/halcyon-apps/daystore/internal/backend"
	"github.com/halcyon-apps/daystore/pkg/types"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "daystore.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { b.Close() })
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

func subtaskRow(id, taskID string, order int64) types.Row {
	return types.Row{
		types.ColID:        id,
		types.ColCreatedAt: "2024-06-01T00:00:00.000Z",
		types.ColUpdatedAt: "2024-06-01T00:00:00.000Z",
		"task_id":          taskID,
		"title":            "step",
		"completed":        int64(0),
		"order_index":      order,
	}
}

func TestOpenCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daystore.db")

	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer b.Close()

	// The ping in Open forces the file into existence.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestCRUDRoundTrip(t *testing.T) {
	b := newTestBackend(t)

	if err := b.Insert(types.TasksSpec, taskRow("t1", "u1", "one")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	rows, err := b.Select(backend.Query{Table: types.TasksTable})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["title"] != "one" {
		t.Errorf("title did not round trip: %v", rows[0]["title"])
	}
	if v, ok := rows[0]["completed"].(int64); !ok || v != 0 {
		t.Errorf("completed should scan as int64 0, got %T %v", rows[0]["completed"], rows[0]["completed"])
	}
	// TEXT columns scan as string, never []byte.
	if _, ok := rows[0][types.ColID].(string); !ok {
		t.Errorf("id should scan as string, got %T", rows[0][types.ColID])
	}

	if err := b.Update(types.TasksSpec, "t1", types.Row{"completed": int64(1)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	rows, _ = b.Select(backend.Query{
		Table: types.TasksTable,
		Where: &backend.Equality{Column: types.ColID, Value: "t1"},
	})
	if rows[0]["completed"] != int64(1) {
		t.Error("update not applied")
	}
	if rows[0]["title"] != "one" {
		t.Error("untouched column changed")
	}

	if err := b.Delete(types.TasksSpec, "t1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	rows, _ = b.Select(backend.Query{Table: types.TasksTable})
	if len(rows) != 0 {
		t.Errorf("row still present after delete: %v", rows)
	}
}

func TestForeignKeyCascade(t *testing.T) {
	b := newTestBackend(t)

	b.Insert(types.TasksSpec, taskRow("t1", "u1", "parent"))
	b.Insert(types.SubTasksSpec, subtaskRow("s1", "t1", 0))
	b.Insert(types.SubTasksSpec, subtaskRow("s2", "t1", 1))

	if err := b.Delete(types.TasksSpec, "t1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	rows, err := b.Select(backend.Query{Table: types.SubTasksTable})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("cascade left orphaned subtasks: %v", rows)
	}
}

func TestForeignKeysOnEveryConnection(t *testing.T) {
	b := newTestBackend(t)

	b.Insert(types.TasksSpec, taskRow("t1", "u1", "parent"))
	b.Insert(types.SubTasksSpec, subtaskRow("s1", "t1", 0))

	// Pin the warm connection so everything below runs on a fresh one
	// from the pool.
	conn, err := b.db.Connx(context.Background())
	if err != nil {
		t.Fatalf("Connx failed: %v", err)
	}
	defer conn.Close()

	var fk int
	if err := b.db.Get(&fk, "PRAGMA foreign_keys"); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if fk != 1 {
		t.Fatal("foreign_keys off on a fresh pooled connection")
	}

	if err := b.Delete(types.TasksSpec, "t1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	rows, err := b.Select(backend.Query{Table: types.SubTasksTable})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("cascade left orphaned subtasks: %v", rows)
	}
}

func TestForeignKeyRejectsOrphan(t *testing.T) {
	b := newTestBackend(t)
	err := b.Insert(types.SubTasksSpec, subtaskRow("s1", "no-such-task", 0))
	if err == nil {
		t.Error("subtask referencing a missing task should fail")
	}
}

func TestRawQuery(t *testing.T) {
	b := newTestBackend(t)
	b.Insert(types.TasksSpec, taskRow("t1", "u1", "mine"))
	b.Insert(types.TasksSpec, taskRow("t2", "u2", "theirs"))

	rows, err := b.Query("SELECT * FROM tasks WHERE user_id = ?", "u1")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 1 || rows[0]["title"] != "mine" {
		t.Errorf("expected only u1's task, got %v", rows)
	}

	// Arbitrary shapes pass through to the engine.
	rows, err = b.Query("SELECT * FROM tasks ORDER BY title DESC")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 2 || rows[0]["title"] != "theirs" {
		t.Errorf("order by not honored: %v", rows)
	}
}

func TestExecRawDDL(t *testing.T) {
	b := newTestBackend(t)

	if err := b.Exec("ALTER TABLE tasks ADD COLUMN extra TEXT"); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if err := b.Exec("not a statement"); err == nil {
		t.Error("malformed statement should fail")
	}
}

func TestSelectUnknownTable(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.Select(backend.Query{Table: "nope"})
	if !errors.Is(err, types.ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}
}

func TestCaps(t *testing.T) {
	b := newTestBackend(t)
	caps := b.Caps()
	if !caps.ForeignKeys || !caps.RawSQL {
		t.Errorf("native engine should report full capabilities, got %+v", caps)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daystore.db")

	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	b.EnsureTable(types.TasksSpec)
	b.Insert(types.TasksSpec, taskRow("t1", "u1", "durable"))
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	b2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer b2.Close()
	rows, err := b2.Select(backend.Query{Table: types.TasksTable})
	if err != nil {
		t.Fatalf("Select after reopen failed: %v", err)
	}
	if len(rows) != 1 || rows[0]["title"] != "durable" {
		t.Errorf("row did not survive reopen: %v", rows)
	}
}
