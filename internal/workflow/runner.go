package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adw-dev/adw/internal/agent"
	"github.com/adw-dev/adw/internal/recovery"
	"github.com/adw-dev/adw/internal/state"
	"github.com/adw-dev/adw/internal/taskfile"
	"github.com/adw-dev/adw/pkg/cache"
	"github.com/adw-dev/adw/pkg/command"
	"github.com/adw-dev/adw/pkg/models"
)

// testCmdCacheTTL bounds how long a detected test command is trusted for a
// given worktree path before DetectTestCommand re-probes the marker files.
// Worktrees in a single daemon run a sequence of unrelated tasks, so this
// saves a repeated os.Stat/ReadFile burst for every task that lands in the
// same worktree without risking staleness across a worktree's lifetime.
const testCmdCacheTTL = 5 * time.Minute

// ErrCancelled is the Outcome.Err set when a phase boundary observes a
// cancellation marker (an `adw cancel` invocation from a separate process).
// It is deliberately not run through C10's retry/escalation path: a
// cancelled task isn't a failure to diagnose.
var ErrCancelled = errors.New("cancelled")

// promptTemplates seed each phase's prompt from the task description. Kept
// intentionally small: the agent CLI receives rich instructions, this is
// just the per-phase framing.
var promptTemplates = map[string]string{
	"plan":      "Draft an implementation plan for the following task. Do not write code yet.\n\nTask: %s",
	"implement": "Implement the following task in this repository.\n\nTask: %s",
	"test":      "Write or update automated tests that cover the following task.\n\nTask: %s",
	"review":    "Review the changes made for the following task and fix any issues found.\n\nTask: %s",
	"document":  "Update documentation to reflect the following task.\n\nTask: %s",
}

// expertisePreambles are prepended ahead of the phase template when
// workflow.expertise_preamble is enabled, per spec.md §4.6 ("injecting an
// optional 'expertise' preamble when enabled"). One line per phase, matching
// the phase's own framing rather than a single generic blurb.
var expertisePreambles = map[string]string{
	"plan":      "You are a senior software architect. Favor the smallest plan that fully satisfies the task.",
	"implement": "You are a senior software engineer. Match this repository's existing conventions and idioms.",
	"test":      "You are a test engineer. Cover the behavior described, including its edge cases.",
	"review":    "You are a meticulous code reviewer. Flag correctness issues before style issues.",
	"document":  "You are a technical writer. Keep documentation accurate and no longer than it needs to be.",
}

// Runner drives a task's phases through the agent executor and persists
// ADWState after each phase (C6, spec.md §4.6).
type Runner struct {
	agents     *agent.Executor
	states     *state.Store
	executor   command.CommandExecutor
	config     models.WorkflowConfig
	agentCfg   models.AgentConfig
	testCmdTTL *cache.Cache[string, []string]
}

// New creates a Runner.
func New(agents *agent.Executor, states *state.Store, executor command.CommandExecutor, workflowCfg models.WorkflowConfig, agentCfg models.AgentConfig) *Runner {
	return &Runner{
		agents:     agents,
		states:     states,
		executor:   executor,
		config:     workflowCfg,
		agentCfg:   agentCfg,
		testCmdTTL: cache.New[string, []string](testCmdCacheTTL),
	}
}

// detectTestCommand wraps DetectTestCommand with the runner's per-worktree
// cache (pkg/cache), keyed on the worktree path and the configured override.
func (r *Runner) detectTestCommand(repoPath string) []string {
	key := repoPath + "\x00" + r.config.TestCommandOverride
	if cmd, ok := r.testCmdTTL.Get(key); ok {
		return cmd
	}
	cmd := DetectTestCommand(repoPath, r.config.TestCommandOverride)
	r.testCmdTTL.Set(key, cmd)
	return cmd
}

// Outcome is the terminal result of running a task's workflow.
type Outcome struct {
	Success    bool
	CommitHash string
	Err        error
}

// Run selects a complexity tier for task, executes its phase sequence, and
// runs test-driven retry if workflow.test_validation_enabled, persisting
// state after every phase.
func (r *Runner) Run(ctx context.Context, task *taskfile.Task, adwID, worktreeName, worktreePath, branchName string) (*state.ADWState, Outcome) {
	complexity := SelectComplexity(task, r.config.DefaultComplexity)
	phases := Phases(complexity)

	st := state.New(adwID, task.Description, string(complexity), worktreeName, worktreePath, branchName, task.Tags)
	if err := r.states.Save(st); err != nil {
		return st, Outcome{Err: fmt.Errorf("saving initial state: %w", err)}
	}

	var lastResp *agent.Response
	for _, phase := range phases {
		if r.states.CancelRequested(adwID) {
			return st, Outcome{Err: ErrCancelled}
		}
		st.CurrentPhase = phase.Name
		resp, attempts, err := r.runPhaseWithRecovery(ctx, st, phase, task)
		if err != nil {
			return st, Outcome{Err: err}
		}
		lastResp = resp
		if !resp.Success {
			r.escalate(st, phase.Name, attempts)
			return st, Outcome{Err: fmt.Errorf("phase %s failed: %w", phase.Name, resp.Err)}
		}
	}

	if r.config.TestValidationEnabled {
		ok, err := r.runTestValidation(ctx, st, task)
		if err != nil {
			return st, Outcome{Err: err}
		}
		if !ok {
			return st, Outcome{Err: fmt.Errorf("test validation failed after %d retries", r.maxTestRetries())}
		}
	}

	_ = lastResp
	return st, Outcome{Success: true}
}

// maxPhaseRetries returns the configured per-phase retry ceiling (C10's
// same_approach/alternative/simplify progression rides on top of it).
func (r *Runner) maxPhaseRetries() int {
	if r.config.MaxRetries > 0 {
		return r.config.MaxRetries
	}
	return 2
}

// runPhaseWithRecovery invokes a phase and, on failure, classifies it (C10)
// and retries with an escalating strategy up to workflow.max_retries times,
// returning every attempt for an escalation report if all of them fail.
func (r *Runner) runPhaseWithRecovery(ctx context.Context, st *state.ADWState, phase Phase, task *taskfile.Task) (*agent.Response, []recovery.Attempt, error) {
	var attempts []recovery.Attempt
	retryContext := ""

	max := r.maxPhaseRetries()
	for attempt := 0; ; attempt++ {
		resp, err := r.runPhase(ctx, st, phase, task, retryContext)
		if err != nil {
			return nil, attempts, err
		}
		if resp.Success {
			return resp, attempts, nil
		}

		errText := ""
		if resp.Err != nil {
			errText = resp.Err.Error()
		}
		classified := recovery.Classify(resp.RetryCode, errText)
		class, _ := classified.Value()
		strategy := recovery.StrategyFor(attempt - 1)
		attempts = append(attempts, recovery.Attempt{
			Phase:      phase.Name,
			Strategy:   strategy,
			Class:      class,
			Error:      errText,
			Suggestion: recovery.Suggestion(resp.RetryCode, errText),
		})

		if class == recovery.ClassFatal || attempt >= max {
			return resp, attempts, nil
		}

		retryContext = recovery.RetryContext(recovery.StrategyFor(attempt), errText, "")
	}
}

// escalate persists an escalation.md report for a terminally-failed phase,
// best-effort: a failure to write it must not mask the original error.
func (r *Runner) escalate(st *state.ADWState, failedPhase string, attempts []recovery.Attempt) {
	if len(attempts) == 0 {
		return
	}
	modified := r.modifiedFiles(st.WorktreePath)
	report, err := recovery.Escalation(st, failedPhase, attempts, modified, time.Now())
	if err != nil {
		return
	}
	_ = r.states.WriteEscalation(st.AdwID, report)
}

// modifiedFiles best-effort lists files changed in the worktree, for the
// escalation report's "Modified files" section.
func (r *Runner) modifiedFiles(worktreePath string) []string {
	out, err := r.executor.ExecuteInDirWithOutput(context.Background(), worktreePath, "git", "diff", "--name-only", "HEAD")
	if err != nil || strings.TrimSpace(out) == "" {
		return nil
	}
	return strings.Split(strings.TrimSpace(out), "\n")
}

func (r *Runner) maxTestRetries() int {
	if r.config.MaxTestRetries > 0 {
		return r.config.MaxTestRetries
	}
	return 3
}

// runPhase invokes one phase, optionally with a retry-context block appended
// to the prompt (used by test-driven retry, spec.md scenario S6).
func (r *Runner) runPhase(ctx context.Context, st *state.ADWState, phase Phase, task *taskfile.Task, retryContext string) (*agent.Response, error) {
	prompt := buildPrompt(phase.Name, task.Description, retryContext, r.config.ExpertisePreamble)

	model := task.Model()
	if model == "" {
		model = phase.Model
	}

	req := agent.Request{
		AdwID:        st.AdwID,
		Phase:        phase.Name,
		Prompt:       prompt,
		WorktreePath: st.WorktreePath,
		Model:        model,
	}

	resp, err := r.agents.PromptWithRetry(ctx, req, r.agentCfg.RetryDelaysSeconds, r.agentCfg.RateLimitMultiplier)
	if err != nil {
		return nil, fmt.Errorf("invoking agent for phase %s: %w", phase.Name, err)
	}

	result := state.PhaseResult{
		Phase:           phase.Name,
		Success:         resp.Success,
		DurationSeconds: resp.DurationSeconds,
	}
	if !resp.Success && resp.Err != nil {
		result.Error = resp.Err.Error()
	}
	st.RecordPhase(result)
	if err := r.states.Save(st); err != nil {
		return resp, fmt.Errorf("saving state after phase %s: %w", phase.Name, err)
	}

	return resp, nil
}

// runTestValidation detects and runs the project test command, re-invoking
// the implement phase with a retry-context block naming the failed tests up
// to workflow.max_test_retries times (spec.md scenario S6).
func (r *Runner) runTestValidation(ctx context.Context, st *state.ADWState, task *taskfile.Task) (bool, error) {
	testCmd := r.detectTestCommand(st.WorktreePath)
	if len(testCmd) == 0 {
		return true, nil
	}

	max := r.maxTestRetries()
	var lastOutput string
	for attempt := 0; attempt <= max; attempt++ {
		output, err := r.executor.ExecuteInDirWithOutput(ctx, st.WorktreePath, testCmd[0], testCmd[1:]...)
		if err == nil {
			st.RecordPhase(state.PhaseResult{Phase: "test_validation", Success: true})
			return true, r.states.Save(st)
		}
		lastOutput = output
		if err2 := err; err2 != nil {
			lastOutput = lastOutput + err2.Error()
		}

		st.RecordPhase(state.PhaseResult{Phase: "test_validation", Success: false, Error: truncate(lastOutput, 2000)})
		if err := r.states.Save(st); err != nil {
			return false, err
		}

		if attempt == max {
			break
		}

		retryContext := fmt.Sprintf("The previous implementation failed project tests. Test output:\n%s\n\nFix the issue.", truncate(lastOutput, 4000))
		if _, err := r.runPhase(ctx, st, Phase{Name: "implement", Model: "sonnet"}, task, retryContext); err != nil {
			return false, err
		}
	}

	r.escalate(st, "test_validation", []recovery.Attempt{{
		Phase:      "test_validation",
		Strategy:   recovery.StrategySimplify,
		Class:      recovery.ClassFixable,
		Error:      lastOutput,
		Suggestion: recovery.Suggestion(agent.RetryExecutionError, lastOutput),
	}})
	return false, nil
}

func buildPrompt(phase, description, retryContext string, expertisePreamble bool) string {
	tmpl, ok := promptTemplates[phase]
	if !ok {
		tmpl = "Work on the following task.\n\nTask: %s"
	}
	prompt := fmt.Sprintf(tmpl, description)
	if expertisePreamble {
		if preamble, ok := expertisePreambles[phase]; ok {
			prompt = preamble + "\n\n" + prompt
		}
	}
	if retryContext != "" {
		prompt = prompt + "\n\n" + retryContext
	}
	return prompt
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "... (truncated)"
}
