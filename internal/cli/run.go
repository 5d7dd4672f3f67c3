package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/sdkloader/internal/harness"
	"github.com/roach88/sdkloader/internal/metrics"
	"github.com/roach88/sdkloader/internal/store"
	"github.com/roach88/sdkloader/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// IDGenerator allows overriding the session ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator store.IDGenerator
}

// RunReport is the outcome of one scenario run.
type RunReport struct {
	Session  string           `json:"session,omitempty"`
	Scenario string           `json:"scenario"`
	Pass     bool             `json:"pass"`
	Injected bool             `json:"injected"`
	Loaded   bool             `json:"loaded"`
	Fetches  []string         `json:"fetches"`
	Errors   []string         `json:"errors,omitempty"`
	Trace    []trace.Event    `json:"trace"`
	Metrics  []metrics.Sample `json:"metrics"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run one scenario and print its trace",
		Long: `Run a scenario against a simulated page: build the page, start the
loader, apply the steps and drain the event loop. Prints what the SDK
observed and the loader's counters.

With --db the session is recorded to a SQLite session log that the
trace command can read back.

Exit codes:
  0 - All assertions held
  1 - One or more assertions failed
  2 - Command error (unreadable scenario, database error)

Examples:
  sdkloader run ./scenarios/lazy_capture.yaml
  sdkloader run ./scenarios/lazy_capture.yaml --db ./sessions.db
  sdkloader run ./scenarios/lazy_capture.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record the session to this SQLite database")

	return cmd
}

func runScenarioFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.logger()

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		if outErr := formatter.Error(ErrCodeScenario, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	logger.Debug("running scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	result, err := harness.Run(scenario, harness.WithLogger(logger))
	if err != nil {
		if outErr := formatter.Error(ErrCodeScenario, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	report := RunReport{
		Scenario: scenario.Name,
		Pass:     result.Pass,
		Injected: result.Injected,
		Loaded:   result.Loaded,
		Fetches:  result.Fetches,
		Errors:   result.Errors,
		Trace:    result.Trace,
		Metrics:  result.Metrics,
	}

	if opts.Database != "" {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		id, err := recordSession(ctx, opts, scenario.Name, result, logger)
		if err != nil {
			if outErr := formatter.Error(ErrCodeStore, err.Error(), nil); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitCommandError, "failed to record session", err)
		}
		report.Session = id
	}

	if formatter.JSON() {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else if err := outputRunText(formatter, report); err != nil {
		return err
	}

	if !report.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}
	return nil
}

// recordSession writes the run to the session log and returns its ID.
func recordSession(ctx context.Context, opts *RunOptions, name string, result *harness.Result, logger *slog.Logger) (string, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	gen := opts.IDGenerator
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}
	sess := &store.Session{
		ID:       gen.Generate(),
		Scenario: name,
		Pass:     result.Pass,
		Injected: result.Injected,
		Loaded:   result.Loaded,
		Queue:    store.QueueRecords(result.Queue),
		Trace:    result.Trace,
	}
	if err := st.WriteSession(ctx, sess); err != nil {
		return "", err
	}
	logger.Debug("session recorded", "id", sess.ID, "db", opts.Database)
	return sess.ID, nil
}

func outputRunText(f *OutputFormatter, report RunReport) error {
	w := f.Writer
	mark := "✓"
	if !report.Pass {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %s (injected=%t loaded=%t)\n", mark, report.Scenario, report.Injected, report.Loaded)
	if report.Session != "" {
		fmt.Fprintf(w, "Session: %s\n", report.Session)
	}
	for _, e := range report.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}

	fmt.Fprintln(w)
	if err := f.Table([]string{"Seq", "Kind", "Method", "Args"}, traceRows(report.Trace)); err != nil {
		return err
	}

	if len(report.Metrics) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	rows := make([][]string, len(report.Metrics))
	for i, s := range report.Metrics {
		rows[i] = []string{s.Name, strconv.FormatFloat(s.Value, 'f', -1, 64)}
	}
	return f.Table([]string{"Metric", "Value"}, rows)
}

// traceRows renders events one per row with canonical JSON arguments.
func traceRows(events []trace.Event) [][]string {
	rows := make([][]string, len(events))
	for i, e := range events {
		rows[i] = []string{
			strconv.FormatInt(e.Seq, 10),
			string(e.Kind),
			e.Method,
			formatArgs(e.Args),
		}
	}
	return rows
}

func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	data, err := trace.MarshalCanonical(args)
	if err != nil {
		return fmt.Sprint(args)
	}
	return string(data)
}
