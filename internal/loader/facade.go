package loader

import "fmt"

// API is the SDK's public surface as seen by page code.
//
// Methods return nothing: before the SDK loads, calls are fire-and-forget
// and their effects happen at replay.
type API interface {
	Init(opts Options)
	AddBreadcrumb(args ...any)
	CaptureMessage(args ...any)
	CaptureException(args ...any)
	CaptureEvent(args ...any)
	ConfigureScope(args ...any)
	WithScope(args ...any)
	ShowReportDialog(args ...any)
}

// SDK is the real SDK the bundle installs in the namespace slot.
type SDK interface {
	API
}

// Lifecycle is implemented by the Facade only.
type Lifecycle interface {
	OnLoad(callback func())
	ForceLoad()
}

// Facade is the stand-in installed in the namespace slot before the SDK
// loads. Until replay every method appends a CallEntry; afterwards every
// method passes straight through to the live SDK.
type Facade struct {
	l *Loader
}

var (
	_ API       = (*Facade)(nil)
	_ Lifecycle = (*Facade)(nil)
)

func (f *Facade) call(m Method, args []any) {
	if f.l.live != nil {
		if err := dispatch(f.l.live, CallEntry{Method: m, Args: args}); err != nil {
			f.l.logger.Error("sdkloader: dispatch failed", "method", m.String(), "error", err)
		}
		return
	}
	f.l.enqueue(CallEntry{Method: m, Args: args})
}

// Init records an init call. A nil opts means "no options".
func (f *Facade) Init(opts Options) {
	f.call(MethodInit, []any{opts})
}

// AddBreadcrumb records an addBreadcrumb call.
func (f *Facade) AddBreadcrumb(args ...any) { f.call(MethodAddBreadcrumb, args) }

// CaptureMessage records a captureMessage call. Triggers injection in lazy mode.
func (f *Facade) CaptureMessage(args ...any) { f.call(MethodCaptureMessage, args) }

// CaptureException records a captureException call. Triggers injection in lazy mode.
func (f *Facade) CaptureException(args ...any) { f.call(MethodCaptureException, args) }

// CaptureEvent records a captureEvent call. Triggers injection in lazy mode.
func (f *Facade) CaptureEvent(args ...any) { f.call(MethodCaptureEvent, args) }

// ConfigureScope records a configureScope call.
func (f *Facade) ConfigureScope(args ...any) { f.call(MethodConfigureScope, args) }

// WithScope records a withScope call.
func (f *Facade) WithScope(args ...any) { f.call(MethodWithScope, args) }

// ShowReportDialog records a showReportDialog call. Triggers injection in lazy mode.
func (f *Facade) ShowReportDialog(args ...any) { f.call(MethodShowReportDialog, args) }

// OnLoad registers callback to run when the SDK has loaded, before any
// queued call is replayed. A nil callback is kept in order and skipped.
//
// In lazy mode registration alone does not load the SDK, unless ForceLoad
// was called; otherwise the bundle is injected immediately. Callbacks
// registered after replay are never run.
func (f *Facade) OnLoad(callback func()) {
	l := f.l
	l.callbacks = append(l.callbacks, callback)
	if l.lazy && !l.forced {
		return
	}
	l.inject()
}

// ForceLoad disables laziness and schedules injection on the next loop turn.
// Calling it again has no further effect once the bundle is injected.
func (f *Facade) ForceLoad() {
	l := f.l
	l.forced = true
	if l.lazy {
		l.env.Post(l.injectTask)
	}
}

// dispatch invokes the method named by call on api. The switch is total
// over Method; an out-of-range value is reported, not dispatched.
func dispatch(api API, call CallEntry) error {
	switch call.Method {
	case MethodInit:
		var opts Options
		if len(call.Args) > 0 {
			opts = asOptions(call.Args[0])
		}
		api.Init(opts)
	case MethodAddBreadcrumb:
		api.AddBreadcrumb(call.Args...)
	case MethodCaptureMessage:
		api.CaptureMessage(call.Args...)
	case MethodCaptureException:
		api.CaptureException(call.Args...)
	case MethodCaptureEvent:
		api.CaptureEvent(call.Args...)
	case MethodConfigureScope:
		api.ConfigureScope(call.Args...)
	case MethodWithScope:
		api.WithScope(call.Args...)
	case MethodShowReportDialog:
		api.ShowReportDialog(call.Args...)
	default:
		return fmt.Errorf("unknown SDK method %s", call.Method)
	}
	return nil
}

// Invoke calls method m on api with args, as page code would through the
// namespace. For MethodInit the first argument is the option map.
func Invoke(api API, m Method, args []any) error {
	return dispatch(api, CallEntry{Method: m, Args: args})
}
