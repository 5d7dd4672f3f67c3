package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sdkloader/internal/host"
)

func TestStart_InstallsFacadeAndHooks(t *testing.T) {
	f := newFixture(t, nil)

	assert.Same(t, f.facade, f.page.Namespace(testNS))
	assert.NotNil(t, f.page.Hooks().Current(host.HookError))
	assert.NotNil(t, f.page.Hooks().Current(host.HookRejection))
	assert.True(t, f.loader.Lazy())
	assert.False(t, f.loader.Injected())
}

func TestStart_Twice(t *testing.T) {
	f := newFixture(t, nil)
	assert.ErrorIs(t, f.loader.Start(), ErrAlreadyStarted)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BundleURL = ""
	_, err := New(host.NewPage(), cfg)
	require.Error(t, err)
	assert.True(t, IsConfigError(err, ErrCodeMissingField))
}

func TestLazyDetection(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		lazy  bool
	}{
		{"no attribute", nil, true},
		{"opt out", map[string]string{"data-lazy": "no"}, false},
		{"other value", map[string]string{"data-lazy": "yes"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.attrs)
			assert.Equal(t, tt.lazy, f.loader.Lazy())
		})
	}
}

func TestLazyDetection_NoMatchingTagStaysLazy(t *testing.T) {
	page := host.NewPage(host.WithPageLogger(discardLogger()))
	page.AddScript("https://js.example/other.min.js", map[string]string{"data-lazy": "no"})

	l, err := New(page, testConfig(), WithLogger(discardLogger()))
	require.NoError(t, err)
	require.NoError(t, l.Start())
	assert.True(t, l.Lazy())
}

func TestLazyDetection_FirstMatchingTagWins(t *testing.T) {
	page := host.NewPage(host.WithPageLogger(discardLogger()))
	page.AddScript("https://js.example/"+testKey+".min.js", nil)
	page.AddScript("https://js.example/"+testKey+".min.js", map[string]string{"data-lazy": "no"})

	l, err := New(page, testConfig(), WithLogger(discardLogger()))
	require.NoError(t, err)
	require.NoError(t, l.Start())
	assert.True(t, l.Lazy())
}

func TestNonLazy_InjectsOnNextTick(t *testing.T) {
	f := newFixture(t, map[string]string{"data-lazy": "no"})

	assert.False(t, f.loader.Injected(), "injection is deferred, not synchronous")
	f.page.Loop().RunOne()
	assert.True(t, f.loader.Injected())

	f.page.Loop().Drain()
	assert.True(t, f.loader.Loaded())
	assert.Equal(t, []string{"init"}, f.sdk.methods())
}

func TestEffective_BeforeAndAfterLoad(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, Options{"dsn": "X"}, f.loader.Effective())

	f.facade.Init(Options{"release": "1.0"})
	f.load()
	assert.Equal(t, Options{"dsn": "X", "release": "1.0"}, f.loader.Effective())
}

func TestCustomHookNamesAndScriptTag(t *testing.T) {
	cfg := testConfig()
	cfg.ErrorHook = "onerror_custom"
	cfg.RejectionHook = "onrejection_custom"
	cfg.ScriptTag = "x-script"

	page := host.NewPage(
		host.WithPageLogger(discardLogger()),
		host.WithHookKinds(cfg.ErrorHook, cfg.RejectionHook),
		host.WithScriptTag(cfg.ScriptTag),
	)
	page.AddScript("https://js.example/"+testKey+".min.js", nil)
	sdk := &stubSDK{hooks: page.Hooks()}
	page.Serve(testBundle, func(p *host.Page) error {
		p.SetNamespace(testNS, sdk)
		return nil
	})

	l, err := New(page, cfg, WithLogger(discardLogger()))
	require.NoError(t, err)
	require.NoError(t, l.Start())
	require.NotNil(t, page.Hooks().Current("onerror_custom"))
	assert.Nil(t, page.Hooks().Current(host.HookError))

	page.RaiseError("boom", "app.js", 3, 4)
	assert.True(t, l.Injected(), "an error on the configured slot triggers injection")
	assert.Equal(t, []string{testBundle}, page.Fetches())

	inserted := page.Doc().ElementsByTag("x-script")
	require.Len(t, inserted, 2)
	assert.Equal(t, testBundle, inserted[0].Src, "bundle goes before the first script")

	page.Loop().Drain()
	assert.True(t, l.Loaded())
	assert.Equal(t, []string{"init"}, sdk.methods())
	assert.Equal(t, []Entry{ErrorEntry{Args: []any{"boom", "app.js", 3, 4}}}, l.Queue())
}
