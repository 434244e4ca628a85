package taskfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTasksFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestStoreLoad(t *testing.T) {
	path := writeTasksFile(t, `## Worktree: main
[] Task A
[⏳] Task B

## Worktree: docs
[✅, a1b2c3d4, deadbeef] Write README
`)
	store := New(path)
	sections, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("len(sections) = %d, want 2", len(sections))
	}
	if sections[0].Name != "main" || len(sections[0].Tasks) != 2 {
		t.Fatalf("unexpected main section: %+v", sections[0])
	}
	if sections[1].Name != "docs" || len(sections[1].Tasks) != 1 {
		t.Fatalf("unexpected docs section: %+v", sections[1])
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing.md"))
	if _, err := store.Load(); !errors.Is(err, ErrTaskFileNotFound) {
		t.Fatalf("Load() error = %v, want ErrTaskFileNotFound", err)
	}
}

func TestGetEligibleScenarioS2(t *testing.T) {
	// S2 "blocked unlocks": [] A, [blocked] B -> eligible = {A}.
	path := writeTasksFile(t, `## Worktree: main
[] A
[⏳] B
`)
	store := New(path)

	eligible, err := store.GetEligible()
	if err != nil {
		t.Fatalf("GetEligible() error = %v", err)
	}
	if len(eligible) != 1 || eligible[0].Description != "A" {
		t.Fatalf("GetEligible() = %+v, want [A]", eligible)
	}

	if _, err := store.MarkDone("A", "", "deadbeef"); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}

	eligible, err = store.GetEligible()
	if err != nil {
		t.Fatalf("GetEligible() error = %v", err)
	}
	if len(eligible) != 1 || eligible[0].Description != "B" {
		t.Fatalf("GetEligible() after A done = %+v, want [B]", eligible)
	}
}

func TestGetEligibleScenarioS4(t *testing.T) {
	// S4 "worktree independence": worktree X: [done] X1, [blocked] X2;
	// worktree Y: [blocked] Y1 -> eligible = {X2, Y1}.
	path := writeTasksFile(t, `## Worktree: X
[✅, a1b2c3d4] X1
[⏳] X2

## Worktree: Y
[⏳] Y1
`)
	store := New(path)
	eligible, err := store.GetEligible()
	if err != nil {
		t.Fatalf("GetEligible() error = %v", err)
	}
	if len(eligible) != 2 {
		t.Fatalf("len(eligible) = %d, want 2: %+v", len(eligible), eligible)
	}
	if eligible[0].Description != "X2" || eligible[1].Description != "Y1" {
		t.Fatalf("GetEligible() = %+v, want [X2, Y1]", eligible)
	}
}

func TestMarkInProgressThenDone(t *testing.T) {
	path := writeTasksFile(t, "## Worktree: main\n[] Ship the feature\n")
	store := New(path)

	task, err := store.MarkInProgress("Ship the feature", "a1b2c3d4")
	if err != nil {
		t.Fatalf("MarkInProgress() error = %v", err)
	}
	if task.Status != StatusInProgress || task.AdwID != "a1b2c3d4" {
		t.Fatalf("unexpected task after MarkInProgress: %+v", task)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back file: %v", err)
	}
	want := "## Worktree: main\n[🚦, a1b2c3d4] Ship the feature\n"
	if string(raw) != want {
		t.Fatalf("file content = %q, want %q", string(raw), want)
	}

	if _, err := store.MarkDone("Ship the feature", "a1b2c3d4", "c0ffee12"); err != nil {
		t.Fatalf("MarkDone() error = %v", err)
	}
	sections, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := sections[0].Tasks[0]
	if got.Status != StatusDone || got.CommitHash != "c0ffee12" {
		t.Fatalf("unexpected task after MarkDone: %+v", got)
	}
}

func TestMarkFailedAmbiguousMatch(t *testing.T) {
	path := writeTasksFile(t, "## Worktree: main\n[] Dup\n[] Dup\n")
	store := New(path)

	if _, err := store.MarkFailed("Dup", "", "boom"); !errors.Is(err, ErrAmbiguousMatch) {
		t.Fatalf("MarkFailed() error = %v, want ErrAmbiguousMatch", err)
	}
}

func TestMarkFailedNotFound(t *testing.T) {
	path := writeTasksFile(t, "## Worktree: main\n[] Real task\n")
	store := New(path)

	if _, err := store.MarkFailed("Nonexistent task", "", "boom"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("MarkFailed() error = %v, want ErrTaskNotFound", err)
	}
}

func TestAddAppendsToExistingWorktree(t *testing.T) {
	path := writeTasksFile(t, "## Worktree: main\n[] First task\n\n## Worktree: docs\n[] Doc task\n")
	store := New(path)

	if err := store.Add("main", "Second task", []string{"p1"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	sections, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(sections[0].Tasks) != 2 {
		t.Fatalf("main worktree tasks = %d, want 2: %+v", len(sections[0].Tasks), sections[0].Tasks)
	}
	if sections[0].Tasks[1].Description != "Second task" {
		t.Fatalf("unexpected second task: %+v", sections[0].Tasks[1])
	}
	if len(sections[1].Tasks) != 1 {
		t.Fatalf("docs worktree should be untouched, got %+v", sections[1].Tasks)
	}
}

func TestAddCreatesNewWorktree(t *testing.T) {
	path := writeTasksFile(t, "## Worktree: main\n[] First task\n")
	store := New(path)

	if err := store.Add("infra", "Provision infra", nil); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	sections, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(sections) != 2 || sections[1].Name != "infra" {
		t.Fatalf("unexpected sections: %+v", sections)
	}
}
