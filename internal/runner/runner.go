// Package runner executes a single argument vector as a child process and
// reports its exit status and wall-clock duration.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxOutput caps captured output per stream.
const DefaultMaxOutput = 1 << 20 // 1 MB

// SpawnError is returned when the executable could not be started at all
// (not found, permission denied, ...). A command that starts and exits
// non-zero is not a SpawnError.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("executing %s: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Runner executes commands.
//
// By default the child inherits the parent's stdout and stderr so its output
// interleaves live with ours. With Capture set, output is collected into the
// Result instead, up to MaxOutput bytes per stream.
type Runner struct {
	Dir       string        // working directory; empty means the current one
	Stdout    io.Writer     // overrides inherited stdout when not capturing
	Stderr    io.Writer     // overrides inherited stderr when not capturing
	Capture   bool
	MaxOutput int           // bytes, capture mode only
	Timeout   time.Duration // zero means wait indefinitely
}

// Run executes argv with the given environment and waits for it to exit.
// The first element is the binary name (resolved via PATH), the rest are
// arguments. A nil env inherits the current process environment.
func (r *Runner) Run(ctx context.Context, argv []string, env []string) (*Result, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("empty argv")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	runID := uuid.New().String()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	if r.Capture {
		cmd.Stdout = &limitWriter{buf: &stdout, limit: r.maxOutput()}
		cmd.Stderr = &limitWriter{buf: &stderr, limit: r.maxOutput()}
	} else {
		cmd.Stdout = orDefault(r.Stdout, os.Stdout)
		cmd.Stderr = orDefault(r.Stderr, os.Stderr)
	}

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			// Binary not found or other exec error.
			return nil, &SpawnError{Name: argv[0], Err: runErr}
		}
	}

	res := &Result{
		RunID:    runID,
		Argv:     argv,
		ExitCode: exitCode,
		Duration: elapsed,
	}
	if r.Capture {
		res.Stdout = stdout.Bytes()
		res.Stderr = stderr.Bytes()
		res.Truncated = stdout.Len() >= r.maxOutput() || stderr.Len() >= r.maxOutput()
	}
	return res, nil
}

func (r *Runner) maxOutput() int {
	if r.MaxOutput > 0 {
		return r.MaxOutput
	}
	return DefaultMaxOutput
}

func orDefault(w io.Writer, def *os.File) io.Writer {
	if w != nil {
		return w
	}
	return def
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
