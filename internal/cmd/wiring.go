package cmd

import (
	"github.com/adw-dev/adw/internal/agent"
	"github.com/adw-dev/adw/internal/cron"
	"github.com/adw-dev/adw/internal/git"
	"github.com/adw-dev/adw/internal/portalloc"
	"github.com/adw-dev/adw/internal/state"
	"github.com/adw-dev/adw/internal/supervisor"
	"github.com/adw-dev/adw/internal/taskfile"
	"github.com/adw-dev/adw/internal/workflow"
	"github.com/adw-dev/adw/internal/worktree"
	"github.com/adw-dev/adw/pkg/command"
	"github.com/adw-dev/adw/pkg/models"
)

// engine bundles the components every adw command wires together, built
// fresh from the loaded configuration and the repository at the current
// working directory.
type engine struct {
	cfg    *models.Config
	tasks  *taskfile.Store
	states *state.Store
	ports  *portalloc.Allocator
	wt     *worktree.Manager
	sup    *supervisor.Supervisor
	daemon *cron.Daemon
}

// newEngine wires C1-C8 from cfg. Commands that only need a subset (e.g.
// `list` only needs tasks) still pay the small cost of building the rest,
// matching the teacher's own pattern of building the full dependency graph
// in each command's RunE rather than threading a partial one through.
func newEngine(cfg *models.Config) (*engine, error) {
	tasks := taskfile.New(cfg.Core.TasksFile)
	states := state.NewStore(cfg.Core.AgentsDir)
	ports := portalloc.New(cfg.Ports.RangeStart, cfg.Ports.RangeEnd)

	g, err := git.NewFromCwd()
	if err != nil {
		return nil, ErrMisconfigured{Err: err}
	}
	wt := worktree.New(g, cfg)

	sup := supervisor.New()
	agents := agent.New(cfg.Agent, cfg.Core.AgentsDir).WithTmux(cfg.Tmux)
	runner := workflow.New(agents, states, command.NewStandardExecutor(), cfg.Workflow, cfg.Agent)

	daemon := cron.New(tasks, wt, ports, sup, runner, states, cfg.Daemon, cfg.Worktree, cfg.Ports, cfg.Workflow)

	return &engine{cfg: cfg, tasks: tasks, states: states, ports: ports, wt: wt, sup: sup, daemon: daemon}, nil
}
