package supervisor

import (
	"context"
	"testing"
)

func TestSpawnAndPoll(t *testing.T) {
	s := New()
	if err := s.Spawn("abc12345", "standard", "ship it", "/agents/abc12345/log", 123, nil); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}

	record, ok := s.Poll("abc12345")
	if !ok {
		t.Fatal("Poll() ok = false after Spawn()")
	}
	if record.PID != 123 || record.Workflow != "standard" {
		t.Errorf("Poll() = %+v, unexpected fields", record)
	}
}

func TestCountAndList(t *testing.T) {
	s := New()
	_ = s.Spawn("a1", "minimal", "d1", "", 1, nil)
	_ = s.Spawn("a2", "minimal", "d2", "", 2, nil)

	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}
	if len(s.List()) != 2 {
		t.Errorf("List() len = %d, want 2", len(s.List()))
	}
}

func TestReapFreesSlot(t *testing.T) {
	s := New()
	_ = s.Spawn("a1", "minimal", "d1", "", 1, nil)
	s.Reap("a1")

	if s.Count() != 0 {
		t.Errorf("Count() = %d after Reap(), want 0", s.Count())
	}
	if _, ok := s.Poll("a1"); ok {
		t.Error("Poll() ok = true after Reap()")
	}
}

func TestKillInvokesCancel(t *testing.T) {
	s := New()
	called := false
	_, cancel := context.WithCancel(context.Background())
	wrapped := func() {
		called = true
		cancel()
	}
	_ = s.Spawn("a1", "minimal", "d1", "", 1, wrapped)

	if err := s.Kill("a1"); err != nil {
		t.Fatalf("Kill() error = %v", err)
	}
	if !called {
		t.Error("Kill() did not invoke the tracked cancel func")
	}
}

func TestKillUnknownTask(t *testing.T) {
	s := New()
	if err := s.Kill("nonexistent"); err == nil {
		t.Fatal("Kill() on an untracked adw_id should error")
	}
}

func TestCompleteQueuesAndFreesSlot(t *testing.T) {
	s := New()
	_ = s.Spawn("a1", "minimal", "d1", "", 1, nil)

	s.Complete("a1", nil)

	if s.Count() != 0 {
		t.Errorf("Count() = %d after Complete(), want 0", s.Count())
	}
	completions := s.PollCompletions()
	if len(completions) != 1 || completions[0].AdwID != "a1" || completions[0].ExitCode != 0 {
		t.Errorf("PollCompletions() = %+v, want one successful completion for a1", completions)
	}

	// A second drain should be empty: PollCompletions is non-blocking and
	// destructive.
	if again := s.PollCompletions(); len(again) != 0 {
		t.Errorf("second PollCompletions() = %+v, want empty", again)
	}
}

func TestCompleteWithErrorSetsNonZeroExitCode(t *testing.T) {
	s := New()
	_ = s.Spawn("a1", "minimal", "d1", "", 1, nil)

	s.Complete("a1", errFailed{})

	completions := s.PollCompletions()
	if len(completions) != 1 || completions[0].ExitCode != 1 {
		t.Errorf("PollCompletions() = %+v, want exit code 1 on failure", completions)
	}
}

type errFailed struct{}

func (errFailed) Error() string { return "workflow failed" }
