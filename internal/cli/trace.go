package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/sdkloader/internal/store"
	"github.com/roach88/sdkloader/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string
	Scenario string // optional filter when listing
}

// SessionView is a stored session as printed by the trace command.
type SessionView struct {
	ID       string        `json:"id"`
	Scenario string        `json:"scenario"`
	Seq      int64         `json:"created_seq"`
	Pass     bool          `json:"pass"`
	Injected bool          `json:"injected"`
	Loaded   bool          `json:"loaded"`
	Queue    []QueueView   `json:"queue,omitempty"`
	Trace    []trace.Event `json:"trace,omitempty"`
}

// QueueView is a stored queue entry.
type QueueView struct {
	Seq     int64  `json:"seq"`
	Kind    string `json:"kind"`
	Method  string `json:"method,omitempty"`
	Payload []any  `json:"payload"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded sessions",
		Long: `Read the session log written by "run --db".

With --session, prints the queue the loader held at the end of the run
and the trace the SDK observed, both in sequence order. Without it,
lists recorded sessions, optionally filtered by scenario.

Examples:
  sdkloader trace --db ./sessions.db
  sdkloader trace --db ./sessions.db --scenario lazy_capture
  sdkloader trace --db ./sessions.db --session 0192f0c4-...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session ID to show")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "only list sessions of this scenario")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		msg := fmt.Sprintf("database not found: %s", opts.Database)
		if outErr := formatter.Error(ErrCodeNotFound, msg, nil); outErr != nil {
			return outErr
		}
		return NewExitError(ExitCommandError, msg)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Session == "" {
		return listSessions(ctx, formatter, st, opts.Scenario)
	}
	return showSession(ctx, formatter, st, opts.Session)
}

func listSessions(ctx context.Context, f *OutputFormatter, st *store.Store, scenario string) error {
	sessions, err := st.ListSessions(ctx, scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	views := make([]SessionView, len(sessions))
	for i, s := range sessions {
		views[i] = sessionView(s)
	}
	if f.JSON() {
		return f.Success(views)
	}

	if len(views) == 0 {
		fmt.Fprintln(f.Writer, "No sessions recorded.")
		return nil
	}
	rows := make([][]string, len(views))
	for i, v := range views {
		rows[i] = []string{
			strconv.FormatInt(v.Seq, 10),
			v.ID,
			v.Scenario,
			strconv.FormatBool(v.Pass),
			strconv.FormatBool(v.Injected),
			strconv.FormatBool(v.Loaded),
		}
	}
	return f.Table([]string{"Seq", "ID", "Scenario", "Pass", "Injected", "Loaded"}, rows)
}

func showSession(ctx context.Context, f *OutputFormatter, st *store.Store, id string) error {
	sess, err := st.ReadSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		msg := fmt.Sprintf("session not found: %s", id)
		if outErr := f.Error(ErrCodeNotFound, msg, nil); outErr != nil {
			return outErr
		}
		return NewExitError(ExitFailure, msg)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	view := sessionView(sess)
	if f.JSON() {
		return f.Success(view)
	}

	w := f.Writer
	fmt.Fprintf(w, "Session %s (%s)\n", view.ID, view.Scenario)
	fmt.Fprintf(w, "pass=%t injected=%t loaded=%t\n\n", view.Pass, view.Injected, view.Loaded)

	fmt.Fprintln(w, "Queue:")
	queueRows := make([][]string, len(view.Queue))
	for i, q := range view.Queue {
		queueRows[i] = []string{strconv.FormatInt(q.Seq, 10), q.Kind, q.Method, formatArgs(q.Payload)}
	}
	if err := f.Table([]string{"Seq", "Kind", "Method", "Payload"}, queueRows); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nTrace:")
	return f.Table([]string{"Seq", "Kind", "Method", "Args"}, traceRows(view.Trace))
}

func sessionView(s store.Session) SessionView {
	v := SessionView{
		ID:       s.ID,
		Scenario: s.Scenario,
		Seq:      s.CreatedSeq,
		Pass:     s.Pass,
		Injected: s.Injected,
		Loaded:   s.Loaded,
		Trace:    s.Trace,
	}
	for _, q := range s.Queue {
		payload := q.Payload
		if payload == nil {
			payload = []any{}
		}
		v.Queue = append(v.Queue, QueueView{Seq: q.Seq, Kind: q.Kind, Method: q.Method, Payload: payload})
	}
	return v
}
