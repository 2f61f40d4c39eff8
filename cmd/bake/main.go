// Command bake runs the tasks declared in the recipe of the current
// directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rv178/baker"
	"github.com/rv178/baker/internal/config"
	bakemcp "github.com/rv178/baker/internal/mcp"
	"github.com/rv178/baker/internal/recipe"
	"github.com/rv178/baker/internal/report"
	"github.com/rv178/baker/internal/runner"
	"github.com/rv178/baker/internal/workflow"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// exitError carries the process exit code for err. A nil err means the
// failure was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// options holds the parsed command-line flags.
type options struct {
	version  bool
	commands bool
	mcp      bool
	httpAddr string
	timeout  time.Duration
}

// run executes one invocation and returns its exit code.
func run(args []string, stdout, stderr io.Writer) int {
	log := newLogger(stderr)
	defer func() { _ = log.Sync() }()

	cmd := newRootCmd(stdout, log.Sugar())
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			log.Sugar().Error(ee.err)
		}
		return ee.code
	}
	log.Sugar().Error(err)
	return 1
}

// newLogger builds the console logger used for all diagnostics.
func newLogger(w io.Writer) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.StacktraceKey = ""
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zapcore.InfoLevel)
	return zap.New(core).Named("bake")
}

func newRootCmd(stdout io.Writer, log *zap.SugaredLogger) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "bake [command]",
		Short: "A simple build automation tool.",
		Long: `Baker
  A simple build automation tool.

Runs the pre hooks, the build command and the custom tasks marked
run = true from recipe.toml. With a command name, runs only that
custom task.

Link: https://github.com/rv178/baker/`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bake(cmd.Context(), stdout, log, opts, args)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stdout)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: 2, err: err}
	})

	// --version wins over --help.
	help := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		if opts.version {
			printVersion(stdout)
			return
		}
		help(c, args)
	})

	f := cmd.Flags()
	f.BoolVarP(&opts.version, "version", "v", false, "Check version.")
	f.BoolVarP(&opts.commands, "commands", "c", false, "List commands.")
	f.BoolVar(&opts.mcp, "mcp", false, "Serve the recipe over MCP (stdio).")
	f.StringVar(&opts.httpAddr, "http", "", "With --mcp, serve over HTTP on this address (e.g. :9090).")
	f.DurationVar(&opts.timeout, "timeout", 0, "With --mcp, per-command timeout (0 waits indefinitely).")

	return cmd
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Baker %s\n", baker.Version)
}

func bake(ctx context.Context, stdout io.Writer, log *zap.SugaredLogger, opts options, args []string) error {
	if opts.version {
		printVersion(stdout)
		return nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	loaded, err := config.Load(dir)
	if err != nil {
		return &exitError{code: 1, err: err}
	}
	if loaded.Created {
		log.Infof("Could not find a %s, generating one.", config.FileName)
		log.Infof("Generated file in %s.", dir)
		return nil
	}
	r := loaded.Recipe

	if opts.commands {
		printCommands(stdout, r)
		return nil
	}

	if opts.mcp {
		return serve(log, r, dir, opts)
	}

	engine := &workflow.Engine{
		Recipe: r,
		Runner: &runner.Runner{},
		Log:    log,
	}
	sum, err := engine.Run(ctx, args)
	if err != nil {
		return &exitError{code: 1, err: err}
	}
	if code := sum.ExitCode(); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

func printCommands(w io.Writer, r *recipe.Recipe) {
	fmt.Fprintln(w, "Usage: bake [command]")
	for _, t := range r.Custom {
		if t.AutoRun {
			fmt.Fprintf(w, "> %s (default)\n", t.Name)
		} else {
			fmt.Fprintf(w, "> %s\n", t.Name)
		}
	}
}

// --- mcp ---

func serve(log *zap.SugaredLogger, r *recipe.Recipe, dir string, opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine := &workflow.Engine{
		Recipe: r,
		Runner: &runner.Runner{
			Dir:     dir,
			Capture: true,
			Timeout: opts.timeout,
		},
		Log: log,
	}
	if err := engine.ApplyEnvironment(); err != nil {
		return fmt.Errorf("applying environment: %w", err)
	}

	store := report.NewLRUStore(5, report.NewDiskStore(""))
	server := bakemcp.NewServer(engine, store)

	if opts.httpAddr != "" {
		return serveHTTP(ctx, log, server, opts.httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, log *zap.SugaredLogger, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Infof("Listening on %s.", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
