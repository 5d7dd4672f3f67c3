// Package bundle provides the reference SDK delivered in place of a network
// bundle: a Recorder that implements loader.SDK and writes everything it
// observes to a trace.
package bundle

import (
	"github.com/roach88/sdkloader/internal/host"
	"github.com/roach88/sdkloader/internal/loader"
	"github.com/roach88/sdkloader/internal/trace"
)

// Recorder is a recording SDK.
//
// Like a real SDK it installs its own global error and rejection handlers
// the first time it is initialized, chaining to whatever was installed
// before. Everything it sees becomes a trace event.
type Recorder struct {
	hooks         host.Hooks
	errorHook     host.HookKind
	rejectionHook host.HookKind
	clock         *trace.Clock

	events         []trace.Event
	initialized    bool
	prevError      host.Handler
	prevRejection  host.Handler
	lastInitConfig loader.Options
}

var _ loader.SDK = (*Recorder)(nil)

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithHookKinds overrides the hook slots the recorder instruments.
func WithHookKinds(errorHook, rejectionHook host.HookKind) RecorderOption {
	return func(r *Recorder) {
		r.errorHook = errorHook
		r.rejectionHook = rejectionHook
	}
}

// WithClock shares a logical clock with other recorders of the session.
func WithClock(c *trace.Clock) RecorderOption {
	return func(r *Recorder) {
		r.clock = c
	}
}

// NewRecorder creates a recorder that instruments hooks on Init.
func NewRecorder(hooks host.Hooks, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		hooks:         hooks,
		errorHook:     host.HookError,
		rejectionHook: host.HookRejection,
		clock:         trace.NewClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bundle returns a host bundle that installs r under namespace, as a real
// SDK bundle assigns itself to the global object when it executes.
func Bundle(namespace string, r *Recorder) host.Bundle {
	return func(p *host.Page) error {
		p.SetNamespace(namespace, r)
		return nil
	}
}

// Record appends an event stamped with the next sequence number.
func (r *Recorder) Record(kind trace.Kind, method string, args []any) {
	var recorded []any
	if len(args) > 0 {
		recorded = make([]any, len(args))
		copy(recorded, args)
	}
	r.events = append(r.events, trace.Event{
		Seq:    r.clock.Next(),
		Kind:   kind,
		Method: method,
		Args:   recorded,
	})
}

// Events returns a copy of the trace.
func (r *Recorder) Events() []trace.Event {
	out := make([]trace.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Initialized reports whether Init has been called.
func (r *Recorder) Initialized() bool {
	return r.initialized
}

// LastInitConfig returns the options passed to the most recent Init.
func (r *Recorder) LastInitConfig() loader.Options {
	return r.lastInitConfig
}

// Init records the call and, on first use, installs the recorder's hooks.
func (r *Recorder) Init(opts loader.Options) {
	r.lastInitConfig = opts
	r.Record(trace.KindCall, loader.MethodInit.String(), []any{opts})

	if r.initialized {
		return
	}
	r.initialized = true
	r.prevError = r.hooks.Install(r.errorHook, r.onError)
	r.prevRejection = r.hooks.Install(r.rejectionHook, r.onRejection)
}

func (r *Recorder) AddBreadcrumb(args ...any) {
	r.Record(trace.KindCall, loader.MethodAddBreadcrumb.String(), args)
}

func (r *Recorder) CaptureMessage(args ...any) {
	r.Record(trace.KindCall, loader.MethodCaptureMessage.String(), args)
}

func (r *Recorder) CaptureException(args ...any) {
	r.Record(trace.KindCall, loader.MethodCaptureException.String(), args)
}

func (r *Recorder) CaptureEvent(args ...any) {
	r.Record(trace.KindCall, loader.MethodCaptureEvent.String(), args)
}

func (r *Recorder) ConfigureScope(args ...any) {
	r.Record(trace.KindCall, loader.MethodConfigureScope.String(), args)
}

func (r *Recorder) WithScope(args ...any) {
	r.Record(trace.KindCall, loader.MethodWithScope.String(), args)
}

func (r *Recorder) ShowReportDialog(args ...any) {
	r.Record(trace.KindCall, loader.MethodShowReportDialog.String(), args)
}

func (r *Recorder) onError(args ...any) {
	r.Record(trace.KindError, "", args)
	if r.prevError != nil {
		r.prevError(args...)
	}
}

// onRejection accepts either a native host.Rejection or a bare reason, the
// latter being how the loader forwards queued rejections.
func (r *Recorder) onRejection(args ...any) {
	var reason any
	if len(args) > 0 {
		reason = args[0]
		if n, ok := reason.(host.Rejection); ok {
			reason = n.Reason
		}
	}
	r.Record(trace.KindRejection, "", []any{reason})
	if r.prevRejection != nil {
		r.prevRejection(args...)
	}
}
