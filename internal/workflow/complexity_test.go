package workflow

import (
	"testing"

	"github.com/adw-dev/adw/internal/taskfile"
)

func TestSelectComplexityExplicitTag(t *testing.T) {
	task := &taskfile.Task{Description: "add a feature", Tags: []string{"sdlc"}}
	if got := SelectComplexity(task, "standard"); got != ComplexityFull {
		t.Errorf("SelectComplexity() = %v, want %v", got, ComplexityFull)
	}
}

func TestSelectComplexityInferredTag(t *testing.T) {
	task := &taskfile.Task{Description: "add a feature", Tags: []string{"minimal"}}
	if got := SelectComplexity(task, "standard"); got != ComplexityMinimal {
		t.Errorf("SelectComplexity() = %v, want %v", got, ComplexityMinimal)
	}
}

func TestSelectComplexityPriorityTag(t *testing.T) {
	task := &taskfile.Task{Description: "add a feature", Tags: []string{"p0"}}
	if got := SelectComplexity(task, "standard"); got != ComplexityFull {
		t.Errorf("SelectComplexity() = %v, want %v", got, ComplexityFull)
	}

	task2 := &taskfile.Task{Description: "add a feature", Tags: []string{"p3"}}
	if got := SelectComplexity(task2, "standard"); got != ComplexityMinimal {
		t.Errorf("SelectComplexity() = %v, want %v", got, ComplexityMinimal)
	}
}

func TestSelectComplexityKeywordScan(t *testing.T) {
	task := &taskfile.Task{Description: "Refactor the authentication architecture for security"}
	if got := SelectComplexity(task, "standard"); got != ComplexityFull {
		t.Errorf("SelectComplexity() = %v, want %v", got, ComplexityFull)
	}

	task2 := &taskfile.Task{Description: "Fix a typo in the docs"}
	if got := SelectComplexity(task2, "standard"); got != ComplexityMinimal {
		t.Errorf("SelectComplexity() = %v, want %v", got, ComplexityMinimal)
	}
}

func TestSelectComplexityDefault(t *testing.T) {
	task := &taskfile.Task{Description: "add a new endpoint"}
	if got := SelectComplexity(task, "standard"); got != ComplexityStandard {
		t.Errorf("SelectComplexity() = %v, want %v", got, ComplexityStandard)
	}
}

func TestPhasesByComplexity(t *testing.T) {
	if got := Phases(ComplexityMinimal); len(got) != 1 {
		t.Errorf("Phases(minimal) = %v, want 1 phase", got)
	}
	if got := Phases(ComplexityStandard); len(got) != 2 {
		t.Errorf("Phases(standard) = %v, want 2 phases", got)
	}
	if got := Phases(ComplexityFull); len(got) != 5 {
		t.Errorf("Phases(full) = %v, want 5 phases", got)
	}
}
