package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/sdkloader/internal/bundle"
	"github.com/roach88/sdkloader/internal/host"
	"github.com/roach88/sdkloader/internal/loader"
	"github.com/roach88/sdkloader/internal/metrics"
	"github.com/roach88/sdkloader/internal/trace"
)

// OnLoadLabel is the trace label of callbacks registered by on_load steps.
const OnLoadLabel = "onLoad"

// Harness is one scenario execution: a page, a loader started on it and
// the recording SDK its bundle installs.
type Harness struct {
	cfg      loader.Config
	page     *host.Page
	loader   *loader.Loader
	recorder *bundle.Recorder
	registry *prometheus.Registry
	logger   *slog.Logger
	result   *Result
}

// Option configures a run.
type Option func(*runOptions)

type runOptions struct {
	logger *slog.Logger
}

// WithLogger routes page and loader diagnostics to logger. By default they
// are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *runOptions) {
		o.logger = logger
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs on a fresh page with a fresh logical clock, so traces
// are reproducible. Run returns an error only when the scenario cannot be
// set up; failed assertions are reported in the result.
//
// Execution flow:
//  1. Resolve the loader configuration
//  2. Build the page: script tags, prior handlers, bundle
//  3. Start the loader
//  4. Execute steps, then drain the loop
//  5. Evaluate assertions
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := runOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := scenario.LoaderConfig()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	h, err := newHarness(scenario, cfg, o.logger)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	for i, step := range scenario.Steps {
		if err := h.execute(step); err != nil {
			return nil, fmt.Errorf("scenario %s: step %d: %w", scenario.Name, i, err)
		}
	}
	h.page.Loop().Drain()

	if err := h.collect(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions) {
		h.result.AddError(msg)
	}
	return h.result, nil
}

func newHarness(scenario *Scenario, cfg loader.Config, logger *slog.Logger) (*Harness, error) {
	page := host.NewPage(
		host.WithPageLogger(logger),
		host.WithHookKinds(cfg.ErrorHook, cfg.RejectionHook),
		host.WithScriptTag(cfg.ScriptTag),
	)
	h := &Harness{
		cfg:      cfg,
		page:     page,
		registry: prometheus.NewRegistry(),
		logger:   logger,
		result:   NewResult(),
	}

	for _, tag := range scenario.Page.Scripts {
		h.page.AddScript(tag.Src, tag.Attrs)
	}

	if scenario.Page.PriorHandlers {
		hooks := h.page.Hooks()
		hooks.Install(cfg.ErrorHook, func(args ...any) { h.result.PriorCalls["error"]++ })
		hooks.Install(cfg.RejectionHook, func(args ...any) { h.result.PriorCalls["rejection"]++ })
	}

	h.recorder = bundle.NewRecorder(h.page.Hooks(),
		bundle.WithHookKinds(cfg.ErrorHook, cfg.RejectionHook),
		bundle.WithClock(trace.NewClock()),
	)

	switch scenario.Page.Bundle {
	case "", BundleServe:
		h.page.Serve(cfg.BundleURL, bundle.Bundle(cfg.Namespace, h.recorder))
	case BundleFail:
		h.page.Fail(cfg.BundleURL)
	case BundleEmpty:
		h.page.Serve(cfg.BundleURL, func(*host.Page) error { return nil })
	}

	collector, err := metrics.NewCollector(h.registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	h.loader, err = loader.New(h.page, cfg,
		loader.WithLogger(logger),
		loader.WithMetrics(collector),
	)
	if err != nil {
		return nil, err
	}
	if err := h.loader.Start(); err != nil {
		return nil, err
	}
	return h, nil
}

// execute applies one step. API calls go through whatever the namespace
// slot holds at that moment, as page code would; lifecycle calls go to the
// facade, which page code may hold a reference to.
func (h *Harness) execute(step Step) error {
	switch {
	case step.Call != "":
		m, err := loader.ParseMethod(step.Call)
		if err != nil {
			return err
		}
		api, ok := h.page.Namespace(h.cfg.Namespace).(loader.API)
		if !ok {
			return fmt.Errorf("namespace %s does not hold the SDK API", h.cfg.Namespace)
		}
		return loader.Invoke(api, m, step.Args)

	case step.Error != nil:
		h.page.RaiseError(step.Error...)

	case step.rejects():
		var reason any
		if err := step.Reject.Decode(&reason); err != nil {
			return fmt.Errorf("decode reject reason: %w", err)
		}
		h.page.RejectPromise(reason)

	case step.OnLoad:
		h.loader.Facade().OnLoad(func() {
			h.recorder.Record(trace.KindCallback, OnLoadLabel, nil)
		})

	case step.ForceLoad:
		h.loader.Facade().ForceLoad()

	case step.Drain:
		n := h.page.Loop().Drain()
		h.logger.Debug("loop drained", "tasks", n)
	}
	return nil
}

// collect copies the final session state into the result.
func (h *Harness) collect() error {
	r := h.result
	r.Trace = h.recorder.Events()
	r.Queue = h.loader.Queue()
	r.Injected = h.loader.Injected()
	r.Loaded = h.loader.Loaded()
	r.Fetches = h.page.Fetches()
	r.Effective = h.loader.Effective()

	samples, err := metrics.Snapshot(h.registry)
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	r.Metrics = samples
	return nil
}
