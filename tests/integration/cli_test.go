// CLI integration tests for daystore.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// cliBackends are the storage engines every CLI scenario runs against.
var cliBackends = []string{"sqlite", "memory"}

// TestMain builds the daystore binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "daystore-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	binPath := filepath.Join(tmpDir, "daystore")
	SetDaystoreBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/daystore")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{Err: err, Output: string(output)})
		os.Exit(1)
	}

	code := m.Run()

	os.RemoveAll(tmpDir)
	os.Exit(code)
}

func TestInit(t *testing.T) {
	for _, backend := range cliBackends {
		t.Run(backend, func(t *testing.T) {
			env := NewTestEnv(t, backend)

			result := env.MustRunDaystore("init")
			if !strings.Contains(result.Stdout, "store initialized") {
				t.Errorf("unexpected init output: %q", result.Stdout)
			}

			if _, err := os.Stat(env.DataDir); os.IsNotExist(err) {
				t.Error("data directory not created")
			}
		})
	}
}

func TestCreateGetList(t *testing.T) {
	for _, backend := range cliBackends {
		t.Run(backend, func(t *testing.T) {
			env := NewTestEnv(t, backend)
			env.MustRunDaystore("init")

			created := env.MustRunDaystore("--json", "create", "tasks",
				"user_id=u1", "title=Write report", "priority=high", "completed=false")
			rec := ParseJSON[map[string]any](t, created.Stdout)

			id, _ := rec["_id"].(string)
			if len(id) != 36 {
				t.Fatalf("expected 36-char id, got %q", id)
			}
			if rec["title"] != "Write report" {
				t.Errorf("title mismatch: %v", rec["title"])
			}
			if rec["completed"] != false {
				t.Errorf("completed should be false: %v", rec["completed"])
			}
			if rec["created_at"] == nil || rec["updated_at"] == nil {
				t.Error("timestamps not stamped")
			}

			got := env.MustRunDaystore("--json", "get", "tasks", id)
			fetched := ParseJSON[map[string]any](t, got.Stdout)
			if fetched["_id"] != id {
				t.Errorf("get returned wrong record: %v", fetched)
			}

			list := env.MustRunDaystore("--json", "list", "tasks")
			all := ParseJSON[[]map[string]any](t, list.Stdout)
			if len(all) != 1 {
				t.Errorf("expected 1 task, got %d", len(all))
			}
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	for _, backend := range cliBackends {
		t.Run(backend, func(t *testing.T) {
			env := NewTestEnv(t, backend)
			env.MustRunDaystore("init")

			created := env.MustRunDaystore("create", "tasks",
				"user_id=u1", "title=draft", "priority=low", "completed=false")
			id := strings.TrimSpace(created.Stdout)

			updated := env.MustRunDaystore("--json", "update", "tasks", id, "completed=true")
			rec := ParseJSON[map[string]any](t, updated.Stdout)
			if rec["completed"] != true {
				t.Errorf("update not applied: %v", rec)
			}
			if rec["title"] != "draft" {
				t.Errorf("untouched field changed: %v", rec)
			}

			env.MustRunDaystore("delete", "tasks", id)
			list := env.MustRunDaystore("--json", "list", "tasks")
			all := ParseJSON[[]map[string]any](t, list.Stdout)
			if len(all) != 0 {
				t.Errorf("task still listed after delete: %v", all)
			}
		})
	}
}

func TestUnknownTableRejected(t *testing.T) {
	env := NewTestEnv(t, "memory")
	env.MustRunDaystore("init")

	result := env.RunDaystore("create", "nope", "title=x")
	if result.ExitCode == 0 {
		t.Error("unknown table should fail")
	}
	if !strings.Contains(result.Stderr, "unknown table") {
		t.Errorf("expected table error, got: %s", result.Stderr)
	}
}

func TestTaskWorkflow(t *testing.T) {
	for _, backend := range cliBackends {
		t.Run(backend, func(t *testing.T) {
			env := NewTestEnv(t, backend)
			env.MustRunDaystore("init")

			added := env.MustRunDaystore("--user", "u1", "task", "add",
				"--title", "Write report", "--priority", "high")
			taskID := strings.TrimSpace(added.Stdout)
			if len(taskID) != 36 {
				t.Fatalf("expected task id, got %q", taskID)
			}

			// Subtasks added out of order come back ordered.
			env.MustRunDaystore("task", "sub", taskID, "--title", "outline", "--order", "1")
			env.MustRunDaystore("task", "sub", taskID, "--title", "research", "--order", "0")

			subs := env.MustRunDaystore("--json", "task", "subs", taskID)
			list := ParseJSON[[]map[string]any](t, subs.Stdout)
			if len(list) != 2 {
				t.Fatalf("expected 2 subtasks, got %d", len(list))
			}
			if list[0]["title"] != "research" || list[1]["title"] != "outline" {
				t.Errorf("subtasks out of order: %v", list)
			}

			env.MustRunDaystore("task", "done", taskID)
			tasks := env.MustRunDaystore("--json", "--user", "u1", "task", "list")
			mine := ParseJSON[[]map[string]any](t, tasks.Stdout)
			if len(mine) != 1 || mine[0]["completed"] != true {
				t.Errorf("task not completed: %v", mine)
			}

			// Deleting the task cascades to its subtasks on both engines.
			env.MustRunDaystore("delete", "tasks", taskID)
			subs = env.MustRunDaystore("--json", "task", "subs", taskID)
			list = ParseJSON[[]map[string]any](t, subs.Stdout)
			if len(list) != 0 {
				t.Errorf("subtasks survived task delete: %v", list)
			}
		})
	}
}

func TestTaskListScopedByUser(t *testing.T) {
	env := NewTestEnv(t, "memory")
	env.MustRunDaystore("init")

	env.MustRunDaystore("--user", "u1", "task", "add", "--title", "mine")
	env.MustRunDaystore("--user", "u2", "task", "add", "--title", "theirs")

	tasks := env.MustRunDaystore("--json", "--user", "u1", "task", "list")
	mine := ParseJSON[[]map[string]any](t, tasks.Stdout)
	if len(mine) != 1 || mine[0]["title"] != "mine" {
		t.Errorf("expected only u1's task, got %v", mine)
	}
}

func TestTaskAddRequiresUser(t *testing.T) {
	env := NewTestEnv(t, "memory")
	env.MustRunDaystore("init")

	result := env.RunDaystore("task", "add", "--title", "orphan")
	if result.ExitCode == 0 {
		t.Error("task add without a user should fail")
	}
}

func TestDataSurvivesRestart(t *testing.T) {
	for _, backend := range cliBackends {
		t.Run(backend, func(t *testing.T) {
			env := NewTestEnv(t, backend)
			env.MustRunDaystore("init")

			created := env.MustRunDaystore("create", "users",
				"name=Ada", "email=ada@example.com")
			id := strings.TrimSpace(created.Stdout)

			// Every command is its own process; the second run reads what
			// the first persisted.
			got := env.MustRunDaystore("--json", "get", "users", id)
			rec := ParseJSON[map[string]any](t, got.Stdout)
			if rec["name"] != "Ada" {
				t.Errorf("user did not survive restart: %v", rec)
			}
		})
	}
}

func TestEventWorkflow(t *testing.T) {
	env := NewTestEnv(t, "sqlite")
	env.MustRunDaystore("init")

	env.MustRunDaystore("--user", "u1", "event", "add",
		"--title", "Standup",
		"--start", "2026-09-01T09:00:00Z",
		"--end", "2026-09-01T09:15:00Z")

	events := env.MustRunDaystore("--json", "--user", "u1", "event", "list")
	list := ParseJSON[[]map[string]any](t, events.Stdout)
	if len(list) != 1 || list[0]["title"] != "Standup" {
		t.Errorf("expected one event, got %v", list)
	}
}

func TestVersion(t *testing.T) {
	env := NewTestEnv(t, "memory")
	result := env.MustRunDaystore("version")
	if strings.TrimSpace(result.Stdout) == "" {
		t.Error("version output empty")
	}
}
