// Package workflow is the recipe execution engine. It applies the recipe's
// environment, resolves the tasks selected by the invocation and runs them
// one at a time. It is consumed by both the CLI and the MCP server.
//
// Failure policy: a command that cannot be launched aborts the whole run
// immediately. A command that launches and exits non-zero is reported and
// execution continues with the next sub-command and the next task.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rv178/baker/internal/recipe"
	"github.com/rv178/baker/internal/report"
	"github.com/rv178/baker/internal/runner"
	"github.com/rv178/baker/internal/shellcmd"
)

// CommandRunner executes one argument vector.
// Implemented by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, env []string) (*runner.Result, error)
}

// Engine holds shared dependencies for executing a recipe.
type Engine struct {
	Recipe *recipe.Recipe
	Runner CommandRunner
	Env    recipe.Environment // nil means the process environment
	Log    *zap.SugaredLogger // nil discards

	envOnce sync.Once
	envErr  error
}

// TaskError wraps a fatal error raised while running a task.
type TaskError struct {
	Task recipe.Task
	Err  error
}

func (e *TaskError) Error() string {
	if e.Task.Phase == recipe.Build {
		return fmt.Sprintf("build: %v", e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Task.Phase, e.Task.Name, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// Summary holds the full outcome of a run.
type Summary struct {
	RunResult *report.RunResult
	Outcomes  []*Outcome
}

// ExitCode aggregates the run into a process exit code: 1 if any command
// failed, 0 otherwise.
func (s *Summary) ExitCode() int {
	for _, o := range s.Outcomes {
		if o.Failed() {
			return 1
		}
	}
	return 0
}

func (e *Engine) env() recipe.Environment {
	if e.Env == nil {
		return recipe.OSEnvironment{}
	}
	return e.Env
}

func (e *Engine) log() *zap.SugaredLogger {
	if e.Log == nil {
		return zap.NewNop().Sugar()
	}
	return e.Log
}

// ApplyEnvironment writes the recipe's env table into the environment.
// Only the first call has an effect; later calls return its error.
func (e *Engine) ApplyEnvironment() error {
	e.envOnce.Do(func() {
		if e.Recipe.Debug {
			for _, v := range e.Recipe.Env {
				e.log().Infof("Setting %q to %q.", v.Key, v.Value)
			}
		}
		e.envErr = e.Recipe.ApplyEnvironment(e.env())
	})
	return e.envErr
}

// Run selects the tasks for args (zero or one task name), applies the
// environment and runs the tasks in order.
//
// Selection and configuration errors are returned before anything runs.
// If a command cannot be launched, Run stops and returns the partial
// summary together with the error.
func (e *Engine) Run(ctx context.Context, args []string) (*Summary, error) {
	tasks, err := e.Recipe.Select(args)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	if err := e.ApplyEnvironment(); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	rr := &report.RunResult{ID: uuid.New().String(), Kind: report.Default}
	if len(args) == 1 {
		rr.Kind = report.Named
		rr.Target = args[0]
	}
	sum := &Summary{RunResult: rr}

	for _, t := range tasks {
		out, err := e.RunTask(ctx, t)
		if out != nil {
			sum.Outcomes = append(sum.Outcomes, out)
			rr.Tasks = append(rr.Tasks, out.taskResult())
		}
		if err != nil {
			rr.Aborted = true
			rr.Error = err.Error()
			return sum, err
		}
	}
	return sum, nil
}

// RunTask expands and runs a single task. It is the one execution path for
// build, pre and custom tasks.
func (e *Engine) RunTask(ctx context.Context, t recipe.Task) (*Outcome, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	log := e.log()
	debug := e.Recipe.Debug
	if debug {
		if t.Phase == recipe.Build {
			log.Info("Running build command.")
		} else {
			log.Infof("Running hook %q.", t.Name)
		}
	}

	start := time.Now()
	out := &Outcome{Task: t}
	defer func() { out.Duration = time.Since(start) }()

	env := e.env()
	argvs, err := shellcmd.Expand(t.Command, env.Getenv)
	if err != nil {
		return out, &TaskError{Task: t, Err: err}
	}
	environ := env.Environ()

	for _, argv := range argvs {
		if debug {
			log.Infof("Command: %q", argv)
		}
		res, err := e.Runner.Run(ctx, argv, environ)
		if err != nil {
			out.Commands = append(out.Commands, CommandOutcome{Argv: argv, Err: err})
			return out, &TaskError{Task: t, Err: err}
		}
		out.Commands = append(out.Commands, CommandOutcome{Argv: argv, Result: res})
		if !res.Success() {
			log.Warnf("%q: %s exited with status %d.", t.Name, argv[0], res.ExitCode)
		}
	}

	if debug {
		log.Infof("Finished in %dms.", time.Since(start).Milliseconds())
	}
	return out, nil
}
