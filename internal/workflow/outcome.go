package workflow

import (
	"time"

	"github.com/rv178/baker/internal/recipe"
	"github.com/rv178/baker/internal/report"
	"github.com/rv178/baker/internal/runner"
)

// Outcome is the result of running one task.
type Outcome struct {
	Task     recipe.Task
	Duration time.Duration // expansion plus every sub-command
	Commands []CommandOutcome
}

// CommandOutcome is the result of one sub-command. Result is nil when the
// command could not be launched, in which case Err is set.
type CommandOutcome struct {
	Argv   []string
	Result *runner.Result
	Err    error
}

// DurationMillis returns the task's wall-clock duration in milliseconds.
func (o *Outcome) DurationMillis() int64 {
	return o.Duration.Milliseconds()
}

// ExitCode returns the first non-zero exit status among the task's
// commands, or 0.
func (o *Outcome) ExitCode() int {
	for _, c := range o.Commands {
		if c.Result != nil && c.Result.ExitCode != 0 {
			return c.Result.ExitCode
		}
	}
	return 0
}

// Failed reports whether a command failed to launch or exited non-zero.
func (o *Outcome) Failed() bool {
	for _, c := range o.Commands {
		if c.Err != nil {
			return true
		}
	}
	return o.ExitCode() != 0
}

func (o *Outcome) taskResult() report.TaskResult {
	tr := report.TaskResult{
		Name:           o.Task.Name,
		Phase:          string(o.Task.Phase),
		DurationMillis: o.DurationMillis(),
	}
	for _, c := range o.Commands {
		cr := report.CommandResult{Argv: c.Argv}
		if c.Err != nil {
			cr.ExitCode = -1
			cr.Error = c.Err.Error()
		}
		if r := c.Result; r != nil {
			cr.RunID = r.RunID
			cr.ExitCode = r.ExitCode
			cr.DurationMillis = r.Duration.Milliseconds()
			cr.Stdout = string(r.Stdout)
			cr.Stderr = string(r.Stderr)
			cr.Truncated = r.Truncated
		}
		tr.Commands = append(tr.Commands, cr)
	}
	return tr
}
