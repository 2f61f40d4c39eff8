package runner

import "time"

// Result holds the outcome of one command execution.
type Result struct {
	RunID     string        // unique identifier for this execution
	Argv      []string      // the command as executed
	ExitCode  int           // process exit code; -1 if killed by a signal
	Duration  time.Duration // wall-clock time from start to exit
	Stdout    []byte        // captured stdout (capture mode only, may be truncated)
	Stderr    []byte        // captured stderr (capture mode only, may be truncated)
	Truncated bool          // true if captured output exceeded the size cap
}

// Success reports whether the command exited with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}
