// Package recipe holds the in-memory task model of a recipe and decides
// which tasks run for a given invocation.
package recipe

import (
	"errors"
	"fmt"
)

// Phase is the fixed execution group a task belongs to.
type Phase string

const (
	// Pre tasks run before the build in the default phase.
	Pre Phase = "pre"
	// Build is the single default build step.
	Build Phase = "build"
	// Custom tasks run by name, or by default when AutoRun is set.
	Custom Phase = "custom"
)

// BuildName is the task name used for the build step.
const BuildName = "build"

// ErrEmptyCommand is returned when a task that is about to run has no command.
var ErrEmptyCommand = errors.New("command is empty")

// ErrTooManyArgs is returned when more than one task name is given.
var ErrTooManyArgs = errors.New("too many arguments")

// UnknownTaskError is returned when the requested task does not exist.
type UnknownTaskError struct {
	Name string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("command %q not found", e.Name)
}

// Task is a named command. Command is the raw, unexpanded command string.
type Task struct {
	Name    string
	Phase   Phase
	Command string
	AutoRun bool // custom tasks only
}

// Validate reports an empty command, naming the phase it belongs to.
func (t Task) Validate() error {
	if t.Command != "" {
		return nil
	}
	switch t.Phase {
	case Build:
		return fmt.Errorf("build %w", ErrEmptyCommand)
	case Pre:
		return fmt.Errorf("hook %q %w", t.Name, ErrEmptyCommand)
	default:
		return fmt.Errorf("custom %q %w", t.Name, ErrEmptyCommand)
	}
}

// EnvVar is one entry of the recipe's env table.
type EnvVar struct {
	Key   string
	Value string
}

// Recipe is a parsed recipe. Pre, Custom and Env keep declaration order.
type Recipe struct {
	Build  Task
	Pre    []Task
	Custom []Task
	Env    []EnvVar
	Debug  bool
}

// CustomTask returns the custom task with the given name.
func (r *Recipe) CustomTask(name string) (Task, bool) {
	for _, t := range r.Custom {
		if t.Name == name {
			return t, true
		}
	}
	return Task{}, false
}

// Select returns the ordered tasks to run for the positional arguments
// of an invocation (program name excluded).
//
// With no argument it returns every pre task, then the build, then every
// custom task with AutoRun set. With one argument it returns only the custom
// task of that name, whatever its AutoRun flag.
func (r *Recipe) Select(args []string) ([]Task, error) {
	switch len(args) {
	case 0:
		tasks := make([]Task, 0, len(r.Pre)+1+len(r.Custom))
		tasks = append(tasks, r.Pre...)
		tasks = append(tasks, r.Build)
		for _, t := range r.Custom {
			if t.AutoRun {
				tasks = append(tasks, t)
			}
		}
		return tasks, nil
	case 1:
		t, ok := r.CustomTask(args[0])
		if !ok {
			return nil, &UnknownTaskError{Name: args[0]}
		}
		return []Task{t}, nil
	default:
		return nil, fmt.Errorf("%w: expected at most one command, got %d", ErrTooManyArgs, len(args))
	}
}
