package loader

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sdkloader/internal/host"
)

const (
	testKey    = "58595e0ac5744aae8c0f6498ac07d5ed"
	testBundle = "https://cdn.example/4.6.2/bundle.min.js"
	testNS     = "Sentry"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{
		Namespace: testNS,
		PublicKey: testKey,
		BundleURL: testBundle,
		Defaults:  Options{"dsn": "X"},
	}
}

// sdkCall is one call observed by stubSDK.
type sdkCall struct {
	Method string
	Args   []any
}

// stubSDK is a minimal SDK that installs its own hooks on first Init.
type stubSDK struct {
	hooks   host.Hooks
	calls   []sdkCall
	errors  [][]any
	rejects [][]any
	panicOn string
	inited  bool
}

func (s *stubSDK) record(method string, args []any) {
	if method == s.panicOn {
		panic("stub panic in " + method)
	}
	s.calls = append(s.calls, sdkCall{Method: method, Args: args})
}

func (s *stubSDK) Init(opts Options) {
	s.record("init", []any{opts})
	if s.inited {
		return
	}
	s.inited = true
	s.hooks.Install(host.HookError, func(args ...any) { s.errors = append(s.errors, args) })
	s.hooks.Install(host.HookRejection, func(args ...any) { s.rejects = append(s.rejects, args) })
}

func (s *stubSDK) AddBreadcrumb(args ...any)    { s.record("addBreadcrumb", args) }
func (s *stubSDK) CaptureMessage(args ...any)   { s.record("captureMessage", args) }
func (s *stubSDK) CaptureException(args ...any) { s.record("captureException", args) }
func (s *stubSDK) CaptureEvent(args ...any)     { s.record("captureEvent", args) }
func (s *stubSDK) ConfigureScope(args ...any)   { s.record("configureScope", args) }
func (s *stubSDK) WithScope(args ...any)        { s.record("withScope", args) }
func (s *stubSDK) ShowReportDialog(args ...any) { s.record("showReportDialog", args) }

func (s *stubSDK) methods() []string {
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.Method
	}
	return out
}

// fixture is a page with the loader's own script tag, a served bundle that
// installs a stubSDK, and a started loader.
type fixture struct {
	page   *host.Page
	sdk    *stubSDK
	loader *Loader
	facade *Facade
}

func newFixture(t *testing.T, attrs map[string]string) *fixture {
	t.Helper()

	page := host.NewPage(host.WithPageLogger(discardLogger()))
	page.AddScript("https://js.example/"+testKey+".min.js", attrs)

	sdk := &stubSDK{hooks: page.Hooks()}
	page.Serve(testBundle, func(p *host.Page) error {
		p.SetNamespace(testNS, sdk)
		return nil
	})

	l, err := New(page, testConfig(), WithLogger(discardLogger()))
	require.NoError(t, err)
	require.NoError(t, l.Start())

	return &fixture{page: page, sdk: sdk, loader: l, facade: l.Facade()}
}

// load injects (if needed) and runs the loop until the bundle has loaded.
func (f *fixture) load() {
	f.loader.inject()
	f.page.Loop().Drain()
}
