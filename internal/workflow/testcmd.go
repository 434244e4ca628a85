package workflow

import (
	"os"
	"path/filepath"
	"strings"
)

// DetectTestCommand infers the project's test command from marker files at
// repoPath, per spec.md §6: pyproject.toml/pytest.ini -> pytest,
// package.json with jest/vitest -> that runner, go.mod -> go test ./...,
// Cargo.toml -> cargo test. override, when non-empty, always wins.
func DetectTestCommand(repoPath, override string) []string {
	if override != "" {
		return strings.Fields(override)
	}

	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(repoPath, name))
		return err == nil
	}

	if exists("pyproject.toml") || exists("pytest.ini") {
		return []string{"pytest"}
	}

	if exists("package.json") {
		data, err := os.ReadFile(filepath.Join(repoPath, "package.json"))
		if err == nil {
			content := string(data)
			switch {
			case strings.Contains(content, "\"vitest\""):
				return []string{"npx", "vitest", "run"}
			case strings.Contains(content, "\"jest\""):
				return []string{"npx", "jest"}
			}
		}
		return []string{"npm", "test"}
	}

	if exists("go.mod") {
		return []string{"go", "test", "./..."}
	}

	if exists("Cargo.toml") {
		return []string{"cargo", "test"}
	}

	return nil
}
