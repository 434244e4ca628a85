package workflow

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectTestCommandOverride(t *testing.T) {
	got := DetectTestCommand(t.TempDir(), "make check")
	want := []string{"make", "check"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("DetectTestCommand() = %v, want %v", got, want)
	}
}

func TestDetectTestCommandGo(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got := DetectTestCommand(dir, "")
	want := []string{"go", "test", "./..."}
	for i, w := range want {
		if i >= len(got) || got[i] != w {
			t.Fatalf("DetectTestCommand() = %v, want %v", got, want)
		}
	}
}

func TestDetectTestCommandPython(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte("[project]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got := DetectTestCommand(dir, "")
	if len(got) != 1 || got[0] != "pytest" {
		t.Errorf("DetectTestCommand() = %v, want [pytest]", got)
	}
}

func TestDetectTestCommandNodeJest(t *testing.T) {
	dir := t.TempDir()
	pkg := `{"devDependencies":{"jest":"^29.0.0"}}`
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(pkg), 0644); err != nil {
		t.Fatal(err)
	}
	got := DetectTestCommand(dir, "")
	if len(got) != 2 || got[1] != "jest" {
		t.Errorf("DetectTestCommand() = %v, want npx jest", got)
	}
}

func TestDetectTestCommandNone(t *testing.T) {
	got := DetectTestCommand(t.TempDir(), "")
	if got != nil {
		t.Errorf("DetectTestCommand() = %v, want nil", got)
	}
}
