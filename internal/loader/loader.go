package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/sdkloader/internal/host"
	"github.com/roach88/sdkloader/internal/metrics"
)

// Environment is what the loader needs from its host.
// *host.Page implements it.
type Environment interface {
	Hooks() host.Hooks
	Document() host.Document
	Namespace(name string) any
	SetNamespace(name string, v any)
	// Post schedules a zero-delay task.
	Post(task func())
}

// Loader owns the Facade, the Queue and the load callbacks until replay.
type Loader struct {
	env     Environment
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Collector

	facade    *Facade
	queue     *Queue
	callbacks []func()

	started  bool
	lazy     bool
	forced   bool
	injected bool
	loaded   bool

	priorError     host.Handler
	priorRejection host.Handler

	// live is the init-wrapped SDK, set when replay begins.
	live *configuredSDK
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the diagnostic channel for internal faults.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithMetrics records loader activity on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(l *Loader) {
		l.metrics = c
	}
}

// New creates a loader for env. The configuration is validated; nothing is
// installed until Start.
func New(env Environment, cfg Config, opts ...Option) (*Loader, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid loader config: %w", err)
	}

	l := &Loader{
		env:    env,
		cfg:    cfg,
		logger: slog.Default(),
		queue:  NewQueue(),
		lazy:   true,
	}
	l.facade = &Facade{l: l}

	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Start runs the loader's initialization, in this order: lazy-mode
// detection, Facade installation, hook interception, and in non-lazy mode
// scheduling injection for the next loop turn.
func (l *Loader) Start() error {
	if l.started {
		return ErrAlreadyStarted
	}
	l.started = true

	l.lazy = l.detectLazy()
	l.env.SetNamespace(l.cfg.Namespace, l.facade)
	l.installHooks()

	if !l.lazy {
		l.env.Post(l.injectTask)
	}

	l.logger.Debug("sdkloader: started", "namespace", l.cfg.Namespace, "lazy", l.lazy)
	return nil
}

// detectLazy finds the loader's own script tag by its public key. Lazy
// mode is on unless that tag opts out; with no matching tag it stays on.
func (l *Loader) detectLazy() bool {
	for _, el := range l.env.Document().ElementsByTag(l.cfg.ScriptTag) {
		if strings.Contains(el.Src, l.cfg.PublicKey) {
			v, _ := el.Attr(l.cfg.LazyAttr)
			return v != LazyOptOut
		}
	}
	return true
}

// enqueue appends e, injecting first when e is a lazy-mode trigger.
func (l *Loader) enqueue(e Entry) {
	if l.lazy && e.triggers() {
		l.inject()
	}
	if !l.queue.Append(e) {
		return
	}
	l.metrics.EntryQueued(e.Kind(), l.queue.Len())
}

// recoverFault is deferred at each asynchronous boundary. It turns a panic
// into a logged fault so nothing propagates into the host.
func (l *Loader) recoverFault(boundary string) {
	if r := recover(); r != nil {
		l.metrics.Fault(boundary)
		l.logger.Error("sdkloader: internal fault", "boundary", boundary, "panic", r)
	}
}

// Facade returns the object installed in the namespace slot at Start.
func (l *Loader) Facade() *Facade {
	return l.facade
}

// Config returns the effective construction parameters.
func (l *Loader) Config() Config {
	return l.cfg
}

// Lazy reports whether injection waits for a qualifying signal.
func (l *Loader) Lazy() bool {
	return l.lazy
}

// Injected reports whether the bundle script has been inserted.
func (l *Loader) Injected() bool {
	return l.injected
}

// Loaded reports whether replay has completed.
func (l *Loader) Loaded() bool {
	return l.loaded
}

// Queue returns a snapshot of the queue in insertion order.
func (l *Loader) Queue() []Entry {
	return l.queue.Entries()
}

// Effective returns the configuration the SDK was last initialized with,
// or the defaults if the SDK has not loaded.
func (l *Loader) Effective() Options {
	if l.live == nil {
		return l.cfg.Defaults.clone()
	}
	return l.live.effective.clone()
}
