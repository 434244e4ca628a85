// Package cron implements the agent supervisor's dispatch loop and the
// cron daemon (C7/C8): reaping completed workflows, reconciling task-file
// status, and — when auto_start is enabled — preparing and dispatching
// newly eligible tasks up to the configured concurrency ceiling. Grounded
// on the teacher's internal/claude/resource.go goroutine-arbitration loop,
// generalized from a single scarce resource to the full
// eligible-task -> worktree -> ports -> spawn pipeline spec.md §4.7
// describes.
package cron

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/adw-dev/adw/internal/portalloc"
	"github.com/adw-dev/adw/internal/state"
	"github.com/adw-dev/adw/internal/supervisor"
	"github.com/adw-dev/adw/internal/taskfile"
	"github.com/adw-dev/adw/internal/workflow"
	"github.com/adw-dev/adw/internal/worktree"
	"github.com/adw-dev/adw/pkg/models"
	"github.com/adw-dev/adw/pkg/pipeline"
	"github.com/adw-dev/adw/pkg/system"
	"github.com/adw-dev/adw/pkg/utils"
)

var knownPortKinds = []string{"frontend", "backend", "database"}

// kindsFor returns the port kinds a task requires: any known kind tags it
// carries, or the configured default kinds when it names none.
func kindsFor(task *taskfile.Task, defaultKinds []string) []string {
	var kinds []string
	for _, kind := range knownPortKinds {
		if task.HasTag(kind) {
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) == 0 {
		kinds = defaultKinds
	}
	if len(kinds) == 0 {
		kinds = []string{"app"}
	}
	return kinds
}

// Daemon drives the cron loop over a task-file store, worktree manager,
// port allocator, agent supervisor, and workflow runner.
type Daemon struct {
	tasks      *taskfile.Store
	worktrees  *worktree.Manager
	ports      *portalloc.Allocator
	supervisor *supervisor.Supervisor
	runner     *workflow.Runner
	states     *state.Store
	sys        system.SystemInterface

	daemonCfg   models.DaemonConfig
	worktreeCfg models.WorktreeConfig
	portCfg     models.PortConfig
	workflowCfg models.WorkflowConfig

	mu          sync.Mutex
	dispatchSeq int
	cancels     map[string]context.CancelFunc
}

// New creates a Daemon wiring together the engine's components.
func New(tasks *taskfile.Store, worktrees *worktree.Manager, ports *portalloc.Allocator, sup *supervisor.Supervisor, runner *workflow.Runner, states *state.Store, daemonCfg models.DaemonConfig, worktreeCfg models.WorktreeConfig, portCfg models.PortConfig, workflowCfg models.WorkflowConfig) *Daemon {
	return NewWithSystem(tasks, worktrees, ports, sup, runner, states, system.NewStandardSystem(), daemonCfg, worktreeCfg, portCfg, workflowCfg)
}

// NewWithSystem creates a Daemon with an injected SystemInterface, for tests
// that need to simulate SIGINT without sending a real signal.
func NewWithSystem(tasks *taskfile.Store, worktrees *worktree.Manager, ports *portalloc.Allocator, sup *supervisor.Supervisor, runner *workflow.Runner, states *state.Store, sys system.SystemInterface, daemonCfg models.DaemonConfig, worktreeCfg models.WorktreeConfig, portCfg models.PortConfig, workflowCfg models.WorkflowConfig) *Daemon {
	return &Daemon{
		tasks:       tasks,
		worktrees:   worktrees,
		ports:       ports,
		supervisor:  sup,
		runner:      runner,
		states:      states,
		sys:         sys,
		daemonCfg:   daemonCfg,
		worktreeCfg: worktreeCfg,
		portCfg:     portCfg,
		workflowCfg: workflowCfg,
		cancels:     make(map[string]context.CancelFunc),
	}
}

// Reconcile marks every in_progress task with no live supervisor entry as
// failed, per the Open Question decision in DESIGN.md: a crashed agent's
// partial worktree state cannot be trusted without re-running the phase
// from the last completed one, so orphans are not silently resumed.
func (d *Daemon) Reconcile() error {
	sections, err := d.tasks.Load()
	if err != nil {
		if err == taskfile.ErrTaskFileNotFound {
			return nil
		}
		return err
	}
	for _, section := range sections {
		for _, task := range section.Tasks {
			if task.Status != taskfile.StatusInProgress {
				continue
			}
			if _, live := d.supervisor.Poll(task.AdwID); live {
				continue
			}
			if _, err := d.tasks.MarkFailed(task.Description, task.AdwID, "orphaned: no live agent process found on restart"); err != nil {
				return fmt.Errorf("reconciling orphaned task %q: %w", task.Description, err)
			}
		}
	}
	return nil
}

// reapCompletions drains finished workflows, updates the task file, and
// releases their ports and (on failure, when configured) their worktrees.
func (d *Daemon) reapCompletions() {
	for _, c := range d.supervisor.PollCompletions() {
		d.mu.Lock()
		delete(d.cancels, c.AdwID)
		d.mu.Unlock()

		description, commitHash := d.lookupForCompletion(c.AdwID)
		if c.ExitCode == 0 {
			_, _ = d.tasks.MarkDone(description, c.AdwID, commitHash)
		} else {
			errMsg := "workflow failed"
			if c.Err != nil {
				errMsg = c.Err.Error()
			}
			_, _ = d.tasks.MarkFailed(description, c.AdwID, truncateError(errMsg))
			if d.worktreeCfg.RemoveOnFailure {
				if st, err := d.states.Load(c.AdwID); err == nil {
					_ = d.worktrees.Remove(st.WorktreeName, true, false)
				}
			}
		}

		d.ports.Release(c.AdwID)
	}
}

func truncateError(s string) string {
	const max = 2000
	if len(s) <= max {
		return s
	}
	return s[:max] + "... (truncated)"
}

// lookupForCompletion recovers the task description and commit hash from the
// persisted ADWState, since the supervisor's own record was already removed
// by Complete().
func (d *Daemon) lookupForCompletion(adwID string) (description, commitHash string) {
	st, err := d.states.Load(adwID)
	if err != nil {
		return "", ""
	}
	return st.TaskDescription, st.CommitHash
}

// prepared is the per-task output of the concurrent worktree-create +
// port-allocate preparation stage.
type prepared struct {
	task         *taskfile.Task
	adwID        string
	worktreePath string
	branchName   string
	ports        map[string]int
	err          error
}

// dispatchEligible prepares (in parallel) and spawns (sequentially, to
// respect max_concurrent) as many newly eligible tasks as there are free
// slots.
func (d *Daemon) dispatchEligible(ctx context.Context) {
	eligible, err := d.tasks.GetEligible()
	if err != nil {
		return
	}

	freeSlots := d.daemonCfg.MaxConcurrent - d.supervisor.Count()
	if freeSlots <= 0 {
		return
	}
	if len(eligible) > freeSlots {
		eligible = eligible[:freeSlots]
	}
	if len(eligible) == 0 {
		return
	}

	prep := func(task *taskfile.Task) (prepared, error) {
		adwID := utils.GenerateAdwID()

		baseBranch := d.worktreeCfg.DefaultBaseBranch
		if baseBranch == "" {
			baseBranch = "main"
		}
		path, err := d.worktrees.Create(task.WorktreeName, baseBranch)
		if err != nil {
			return prepared{task: task, adwID: adwID, err: err}, nil
		}
		ports, err := d.ports.Allocate(adwID, kindsFor(task, d.portCfg.DefaultKinds))
		if err != nil {
			return prepared{task: task, adwID: adwID, err: err}, nil
		}
		return prepared{task: task, adwID: adwID, worktreePath: path, branchName: task.WorktreeName, ports: ports}, nil
	}

	results, _ := pipeline.Parallel(prep, eligible)

	for _, p := range results {
		if p.err != nil {
			d.ports.Release(p.adwID)
			continue
		}
		d.spawn(ctx, p)
	}
}

// spawn marks a prepared task in_progress under its pre-assigned adw_id and
// launches its workflow as a tracked goroutine (the engine's "child": the
// real OS subprocess is the per-phase agent CLI invocation inside it).
func (d *Daemon) spawn(ctx context.Context, p prepared) {
	adwID := p.adwID

	if _, err := d.tasks.MarkInProgress(p.task.Description, adwID); err != nil {
		d.ports.Release(adwID)
		return
	}

	workflowCtx, cancel := context.WithCancel(ctx)

	d.mu.Lock()
	d.dispatchSeq++
	pid := d.dispatchSeq
	d.cancels[adwID] = cancel
	d.mu.Unlock()

	complexity := workflow.SelectComplexity(p.task, d.workflowCfg.DefaultComplexity)
	logPath := d.states.Dir(adwID)
	_ = d.supervisor.Spawn(adwID, string(complexity), p.task.Description, logPath, pid, cancel)

	go func() {
		defer cancel()
		_, outcome := d.runner.Run(workflowCtx, p.task, adwID, p.task.WorktreeName, p.worktreePath, p.branchName)
		d.supervisor.Complete(adwID, outcome.Err)
	}()
}

// Tick runs one iteration of the cron loop: reap completions and (if
// auto_start) dispatch. Orphan reconciliation happens only in Reconcile.
func (d *Daemon) Tick(ctx context.Context) {
	d.reapCompletions()
	if d.daemonCfg.AutoStart {
		d.dispatchEligible(ctx)
	}
}

// Run executes the cron loop until ctx is cancelled or SIGINT arrives. On
// SIGINT it stops accepting new tasks immediately and, if wait_on_sigint is
// set, blocks until every live child has been reaped before returning —
// otherwise it returns immediately, leaving live children running (spec.md
// §4.7: "live children are left running... unless explicitly asked").
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Reconcile(); err != nil {
		return fmt.Errorf("reconciling orphaned tasks on startup: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	d.sys.NotifySignal(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	interval := d.daemonCfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	shuttingDown := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sigCh:
			shuttingDown = true
		default:
		}

		if shuttingDown {
			d.reapCompletions()
			if !d.daemonCfg.WaitOnSIGINT || d.supervisor.Count() == 0 {
				return nil
			}
		} else {
			d.Tick(ctx)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
