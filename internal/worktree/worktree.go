// Package worktree implements the worktree manager (C4): provisioning and
// tearing down isolated git working copies per task, at the canonical path
// .worktrees/<name> (spec.md §4.4).
package worktree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adw-dev/adw/pkg/models"
)

// GitInterface defines the git operations used by Manager.
type GitInterface interface {
	ListWorktrees() ([]models.Worktree, error)
	AddWorktree(path, branch string, createBranch bool) error
	AddWorktreeFromBase(path, branch, baseBranch string) error
	AddWorktreeSparse(path, branch, baseBranch string, sparsePaths []string) error
	RemoveWorktree(path string, force bool) error
	DeleteBranch(branch string, force bool) error
	PruneWorktrees() error
	HasUncommittedChanges(path string) (bool, error)
	GetRepositoryName() (string, error)
	GetRecentCommits(path string, limit int) ([]models.CommitInfo, error)
}

// Manager handles worktree operations.
type Manager struct {
	git    GitInterface
	config *models.Config
}

// New creates a new worktree Manager.
func New(g GitInterface, config *models.Config) *Manager {
	return &Manager{
		git:    g,
		config: config,
	}
}

// PathFor returns the canonical path a worktree named name would occupy.
func (m *Manager) PathFor(name string) string {
	path := filepath.Join(m.config.Worktree.BaseDir, sanitizeName(name))
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return path
}

// Exists reports whether a worktree named name already exists.
func (m *Manager) Exists(name string) (bool, error) {
	path := m.PathFor(name)
	worktrees, err := m.git.ListWorktrees()
	if err != nil {
		return false, err
	}
	for _, wt := range worktrees {
		if wt.Path == path {
			return true, nil
		}
	}
	return false, nil
}

// Create provisions a worktree named name off baseBranch, on a new branch
// named after the worktree, at the canonical path. Create is idempotent: if
// the worktree already exists, it returns the existing path without error
// (spec.md §4.4 "if a worktree with the name exists, create is idempotent").
func (m *Manager) Create(name, baseBranch string) (string, error) {
	path := m.PathFor(name)

	if exists, err := m.Exists(name); err != nil {
		return "", err
	} else if exists {
		return path, nil
	}

	if m.config.Worktree.AutoMkdir {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("failed to create worktree parent directory: %w", err)
		}
	}

	if err := m.git.AddWorktreeFromBase(path, name, baseBranch); err != nil {
		return "", fmt.Errorf("failed to create worktree %q: %w", name, err)
	}

	return path, nil
}

// CreateSparse is Create with an optional sparse-checkout path list applied,
// per SPEC_FULL.md's supplemented sparse-checkout feature.
func (m *Manager) CreateSparse(name, baseBranch string, sparsePaths []string) (string, error) {
	if len(sparsePaths) == 0 {
		return m.Create(name, baseBranch)
	}

	path := m.PathFor(name)
	if exists, err := m.Exists(name); err != nil {
		return "", err
	} else if exists {
		return path, nil
	}

	if m.config.Worktree.AutoMkdir {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("failed to create worktree parent directory: %w", err)
		}
	}

	if err := m.git.AddWorktreeSparse(path, name, baseBranch, sparsePaths); err != nil {
		return "", fmt.Errorf("failed to create sparse worktree %q: %w", name, err)
	}

	return path, nil
}

// Remove prunes the worktree named name and optionally deletes its branch.
// Remove refuses to delete a worktree with uncommitted changes unless force.
func (m *Manager) Remove(name string, force bool, deleteBranch bool) error {
	path := m.PathFor(name)

	if !force {
		dirty, err := m.git.HasUncommittedChanges(path)
		if err != nil {
			return fmt.Errorf("checking worktree status: %w", err)
		}
		if dirty {
			return fmt.Errorf("worktree %q has uncommitted changes, refusing to remove without force", name)
		}
	}

	if err := m.git.RemoveWorktree(path, force); err != nil {
		return err
	}

	if deleteBranch {
		if err := m.git.DeleteBranch(name, force); err != nil {
			return fmt.Errorf("worktree removed but failed to delete branch: %w", err)
		}
	}

	return nil
}

// List returns all worktrees known to git.
func (m *Manager) List() ([]models.Worktree, error) {
	return m.git.ListWorktrees()
}

// Prune removes worktree information for deleted directories.
func (m *Manager) Prune() error {
	return m.git.PruneWorktrees()
}

// GetWorktreePath returns the path for a worktree by pattern matching,
// used by the fuzzy finder and CLI commands that accept a loose identifier.
func (m *Manager) GetWorktreePath(pattern string) (string, error) {
	worktrees, err := m.List()
	if err != nil {
		return "", err
	}

	pattern = strings.ToLower(pattern)
	for _, wt := range worktrees {
		if strings.Contains(strings.ToLower(wt.Branch), pattern) ||
			strings.Contains(strings.ToLower(wt.Path), pattern) {
			return wt.Path, nil
		}
	}

	return "", fmt.Errorf("no worktree found matching pattern: %s", pattern)
}

// GetMatchingWorktrees returns all worktrees matching the given pattern.
func (m *Manager) GetMatchingWorktrees(pattern string) ([]models.Worktree, error) {
	worktrees, err := m.List()
	if err != nil {
		return nil, err
	}

	var matches []models.Worktree
	pattern = strings.ToLower(pattern)
	for _, wt := range worktrees {
		if strings.Contains(strings.ToLower(wt.Branch), pattern) ||
			strings.Contains(strings.ToLower(wt.Path), pattern) {
			matches = append(matches, wt)
		}
	}

	return matches, nil
}

// ValidateWorktreePath checks if a path can be used for a new worktree.
func (m *Manager) ValidateWorktreePath(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			entries, err := os.ReadDir(path)
			if err != nil {
				return fmt.Errorf("failed to read directory: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory is not empty: %s", path)
			}
		} else {
			return fmt.Errorf("path exists and is not a directory: %s", path)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check path: %w", err)
	}

	return nil
}

// sanitizeName replaces filesystem-hostile characters in a worktree/branch
// name so it is safe to use as a single path segment.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer("/", "-", ":", "-")
	return replacer.Replace(name)
}
