// Package models defines the core data structures used throughout the adw application.
package models

import "time"

// Worktree represents a Git worktree with its associated metadata.
type Worktree struct {
	Path       string    `json:"path"`        // Absolute path to the worktree directory
	Branch     string    `json:"branch"`      // Branch name associated with this worktree
	CommitHash string    `json:"commit_hash"` // Current HEAD commit hash
	IsMain     bool      `json:"is_main"`     // Whether this is the main worktree
	CreatedAt  time.Time `json:"created_at"`  // Creation timestamp
}

// Branch represents a Git branch with its metadata.
type Branch struct {
	Name       string     `json:"name"`        // Branch name
	IsCurrent  bool       `json:"is_current"`  // Whether this is the current branch
	IsRemote   bool       `json:"is_remote"`   // Whether this is a remote branch
	LastCommit CommitInfo `json:"last_commit"` // Information about the last commit
}

// CommitInfo contains information about a Git commit.
type CommitInfo struct {
	Hash    string    `json:"hash"`    // Commit hash
	Message string    `json:"message"` // Commit message
	Author  string    `json:"author"`  // Commit author
	Date    time.Time `json:"date"`    // Commit date
}

// Config represents the application configuration, read from ~/.adw/config.toml.
type Config struct {
	Core     CoreConfig     `mapstructure:"core"`     // Task-file and state-store location
	Daemon   DaemonConfig   `mapstructure:"daemon"`   // Cron daemon scheduling
	Workflow WorkflowConfig `mapstructure:"workflow"` // Workflow-runner defaults
	Agent    AgentConfig    `mapstructure:"agent"`    // Agent executor / external CLI
	Ports    PortConfig     `mapstructure:"ports"`    // Port allocator pool
	Worktree WorktreeConfig `mapstructure:"worktree"` // Worktree manager defaults
	Finder   FinderConfig   `mapstructure:"finder"`   // Fuzzy finder configuration
	UI       UIConfig       `mapstructure:"ui"`       // CLI output configuration
	Tmux     TmuxConfig     `mapstructure:"tmux"`     // Optional tmux attach integration
}

// CoreConfig points at the canonical files the rest of the system treats as
// the single source of truth.
type CoreConfig struct {
	TasksFile string `mapstructure:"tasks_file"` // Path to the canonical task file (tasks.md)
	AgentsDir string `mapstructure:"agents_dir"` // Root of per-task agents/<adw_id>/ directories
}

// DaemonConfig controls the cron daemon loop (C8).
type DaemonConfig struct {
	PollInterval  time.Duration `mapstructure:"poll_interval"`  // Sleep between polls
	MaxConcurrent int           `mapstructure:"max_concurrent"` // Live child ceiling
	AutoStart     bool          `mapstructure:"auto_start"`     // Dispatch new tasks automatically each pass
	WaitOnSIGINT  bool          `mapstructure:"wait_on_sigint"` // Wait for live children on graceful shutdown
}

// WorkflowConfig controls workflow-runner defaults (C6).
type WorkflowConfig struct {
	DefaultComplexity     string `mapstructure:"default_complexity"`      // minimal|standard|full, used when no rule matches
	MaxRetries            int    `mapstructure:"max_retries"`             // Per-phase retry ceiling
	MaxTestRetries        int    `mapstructure:"max_test_retries"`        // implement<->test retry ceiling
	TestValidationEnabled bool   `mapstructure:"test_validation_enabled"` // Run project tests after implement/test phases
	TestCommandOverride   string `mapstructure:"test_command_override"`   // Skip auto-detection when set
	ExpertisePreamble     bool   `mapstructure:"expertise_preamble"`      // Inject expertise preamble into prompts
}

// AgentConfig controls the agent executor (C5) and the external code-generation CLI.
type AgentConfig struct {
	Executable          string        `mapstructure:"executable"`            // External CLI binary name/path
	DefaultModel        string        `mapstructure:"default_model"`         // opus|sonnet|haiku
	SkipPermissions     bool          `mapstructure:"skip_permissions"`      // Pass --dangerously-skip-permissions
	Timeout             time.Duration `mapstructure:"timeout"`               // Hard wall-clock timeout per invocation
	RetryDelaysSeconds  []int         `mapstructure:"retry_delays_seconds"`  // e.g. [1, 3, 5]
	RateLimitMultiplier int           `mapstructure:"rate_limit_multiplier"` // Multiplier applied to the delay on rate_limit
	EnvAllowlist        []string      `mapstructure:"env_allowlist"`         // Environment variables forwarded to children
}

// PortConfig controls the port allocator (C3).
type PortConfig struct {
	RangeStart   int      `mapstructure:"range_start"`   // Default 3000
	RangeEnd     int      `mapstructure:"range_end"`     // Default 9999
	DefaultKinds []string `mapstructure:"default_kinds"` // Port kinds allocated when a task names none, e.g. ["app"]
}

// WorktreeConfig contains worktree-specific configuration options.
type WorktreeConfig struct {
	BaseDir           string `mapstructure:"basedir"`             // Base directory for creating worktrees (.worktrees by default)
	AutoMkdir         bool   `mapstructure:"auto_mkdir"`          // Automatically create directories
	RemoveOnFailure   bool   `mapstructure:"remove_on_failure"`   // Remove a task's worktree when it fails terminally
	DefaultBaseBranch string `mapstructure:"default_base_branch"` // Branch new worktrees are created off of, e.g. "main"
}

// FinderConfig contains fuzzy finder configuration options.
type FinderConfig struct {
	Preview       bool   `mapstructure:"preview"`        // Enable preview window
	PreviewSize   int    `mapstructure:"preview_size"`   // Preview window size
	KeybindSelect string `mapstructure:"keybind_select"` // Key binding for selection
	KeybindCancel string `mapstructure:"keybind_cancel"` // Key binding for cancellation
}

// UIConfig contains UI-related configuration options.
type UIConfig struct {
	Color     bool `mapstructure:"color"`      // Enable colored output
	Icons     bool `mapstructure:"icons"`      // Enable icon display
	TildeHome bool `mapstructure:"tilde_home"` // Display home directory as ~
}

// TmuxConfig contains the optional tmux attach integration configuration.
type TmuxConfig struct {
	Enabled      bool   `mapstructure:"enabled"`       // Enable `adw attach`
	TmuxCommand  string `mapstructure:"tmux_command"`  // Tmux command path
	HistoryLimit int    `mapstructure:"history_limit"` // Tmux scrollback limit
}

// TaskSummary is the flattened, presentation-friendly projection of a
// taskfile.Task used by the `list`/`cancel`/`retry` CLI commands and the
// interactive fuzzy task picker. Defined here (rather than in
// internal/taskfile, whose Task carries a LineNumber and other
// store-internal bookkeeping) so internal/finder can depend on it without
// importing internal/cmd.
type TaskSummary struct {
	Worktree     string   `json:"worktree"`
	Status       string   `json:"status"`
	AdwID        string   `json:"adw_id,omitempty"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags,omitempty"`
	CommitHash   string   `json:"commit_hash,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// WorktreeStatus represents the current status of a worktree.
type WorktreeStatus struct {
	Path          string        `json:"path"`             // Absolute path to the worktree
	Branch        string        `json:"branch"`           // Branch name
	Repository    string        `json:"repository"`       // Repository identifier
	Status        WorktreeState `json:"status"`           // Current status (clean, modified, etc.)
	GitStatus     GitStatus     `json:"git_status"`       // Detailed git status
	LastActivity  time.Time     `json:"last_activity"`    // Last modification time
	ActiveProcess []ProcessInfo `json:"active_processes"` // Running processes
	IsCurrent     bool          `json:"is_current"`       // Whether this is the current worktree
}

// WorktreeState represents the overall state of a worktree.
type WorktreeState string

const (
	// WorktreeStatusClean indicates a worktree with no uncommitted changes.
	WorktreeStatusClean WorktreeState = "clean"
	// WorktreeStatusModified indicates a worktree with uncommitted modifications.
	WorktreeStatusModified WorktreeState = "modified"
	// WorktreeStatusStaged indicates a worktree with staged changes ready to commit.
	WorktreeStatusStaged WorktreeState = "staged"
	// WorktreeStatusConflict indicates a worktree with merge conflicts.
	WorktreeStatusConflict WorktreeState = "conflict"
	// WorktreeStatusStale indicates a worktree that is out of sync with the remote.
	WorktreeStatusStale WorktreeState = "stale"
	// WorktreeStatusUnknown indicates a worktree with an undetermined status.
	WorktreeStatusUnknown WorktreeState = "unknown"
)

// GitStatus contains detailed git status information.
type GitStatus struct {
	Modified  int `json:"modified"`  // Number of modified files
	Added     int `json:"added"`     // Number of added files
	Deleted   int `json:"deleted"`   // Number of deleted files
	Untracked int `json:"untracked"` // Number of untracked files
	Staged    int `json:"staged"`    // Number of staged files
	Ahead     int `json:"ahead"`     // Number of commits ahead of remote
	Behind    int `json:"behind"`    // Number of commits behind remote
	Conflicts int `json:"conflicts"` // Number of files with conflicts
}

// ProcessInfo represents information about a running process.
type ProcessInfo struct {
	PID     int    `json:"pid"`     // Process ID
	Command string `json:"command"` // Command name
	Type    string `json:"type"`    // Process type (e.g., "agent")
}
