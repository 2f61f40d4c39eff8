// Package report records the outcome of recipe runs so they can be
// looked up again by run ID.
package report

import "fmt"

// Kind identifies how the tasks of a run were selected.
type Kind string

const (
	// Default is a run without a task name: pre hooks, build, auto-run tasks.
	Default Kind = "default"
	// Named is a run of a single custom task.
	Named Kind = "named"
)

// Store persists and retrieves run results.
type Store interface {
	Save(result *RunResult) error
	Load(runID string) (*RunResult, error)
}

// RunResult is the record of one invocation.
type RunResult struct {
	ID      string       `json:"id"`
	Kind    Kind         `json:"kind"`
	Target  string       `json:"target,omitempty"` // task name for Named runs
	Tasks   []TaskResult `json:"tasks"`
	Aborted bool         `json:"aborted,omitempty"` // a command could not be launched
	Error   string       `json:"error,omitempty"`
}

// TaskResult is the outcome of one task.
type TaskResult struct {
	Name           string          `json:"name"`
	Phase          string          `json:"phase"`
	DurationMillis int64           `json:"duration_ms"`
	Commands       []CommandResult `json:"commands"`
}

// CommandResult is the outcome of one "&&"-separated sub-command.
type CommandResult struct {
	RunID          string   `json:"run_id,omitempty"`
	Argv           []string `json:"argv"`
	ExitCode       int      `json:"exit_code"`
	DurationMillis int64    `json:"duration_ms"`
	Stdout         string   `json:"stdout,omitempty"`
	Stderr         string   `json:"stderr,omitempty"`
	Truncated      bool     `json:"truncated,omitempty"`
	Error          string   `json:"error,omitempty"` // launch failure
}

// Task returns the result of the named task.
func (r *RunResult) Task(name string) (*TaskResult, bool) {
	for i := range r.Tasks {
		if r.Tasks[i].Name == name {
			return &r.Tasks[i], true
		}
	}
	return nil, false
}

// Failed reports whether the run aborted or any command exited non-zero.
func (r *RunResult) Failed() bool {
	if r.Aborted {
		return true
	}
	for _, t := range r.Tasks {
		if t.Failed() {
			return true
		}
	}
	return false
}

// Failed reports whether any command of the task failed.
func (t *TaskResult) Failed() bool {
	for _, c := range t.Commands {
		if c.ExitCode != 0 || c.Error != "" {
			return true
		}
	}
	return false
}

// Status is a one-word summary of the task outcome.
func (t *TaskResult) Status() string {
	for _, c := range t.Commands {
		if c.Error != "" {
			return "not launched"
		}
	}
	for _, c := range t.Commands {
		if c.ExitCode != 0 {
			return fmt.Sprintf("exit %d", c.ExitCode)
		}
	}
	return "ok"
}
