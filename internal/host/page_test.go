package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_InsertedScriptLoadsAsynchronously(t *testing.T) {
	p := NewPage(WithPageLogger(discardLogger()))
	p.Serve("https://cdn.example/sdk.js", func(p *Page) error {
		p.SetNamespace("SDK", "installed")
		return nil
	})

	el := p.Document().CreateElement("script")
	el.Src = "https://cdn.example/sdk.js"
	loaded := false
	el.AddEventListener(EventLoad, func() {
		loaded = true
		assert.Equal(t, "installed", p.Namespace("SDK"), "bundle runs before load fires")
	})
	p.Document().InsertBefore(el, nil)

	assert.False(t, loaded, "load must not fire synchronously")
	assert.Equal(t, []string{"https://cdn.example/sdk.js"}, p.Fetches())

	p.Loop().Drain()
	assert.True(t, loaded)
}

func TestPage_FailedScriptFiresError(t *testing.T) {
	p := NewPage(WithPageLogger(discardLogger()))
	p.Fail("https://cdn.example/sdk.js")

	el := NewElement("script")
	el.Src = "https://cdn.example/sdk.js"
	var events []string
	el.AddEventListener(EventLoad, func() { events = append(events, EventLoad) })
	el.AddEventListener(EventError, func() { events = append(events, EventError) })
	p.Document().InsertBefore(el, nil)
	p.Loop().Drain()

	assert.Equal(t, []string{EventError}, events)
}

func TestPage_UnknownScriptFiresError(t *testing.T) {
	p := NewPage(WithPageLogger(discardLogger()))
	el := NewElement("script")
	el.Src = "https://cdn.example/missing.js"
	failed := false
	el.AddEventListener(EventError, func() { failed = true })
	p.Document().InsertBefore(el, nil)
	p.Loop().Drain()
	assert.True(t, failed)
}

func TestPage_ThrowingBundleStillLoads(t *testing.T) {
	p := NewPage(WithPageLogger(discardLogger()))
	p.Serve("x.js", func(p *Page) error { return errors.New("bad bundle") })

	var raised []any
	p.Hooks().Install(HookError, func(args ...any) { raised = args })

	el := NewElement("script")
	el.Src = "x.js"
	loaded := false
	el.AddEventListener(EventLoad, func() { loaded = true })
	p.Document().InsertBefore(el, nil)
	p.Loop().Drain()

	assert.True(t, loaded)
	require.Len(t, raised, 5)
	assert.Equal(t, "Uncaught bad bundle", raised[0])
	assert.Equal(t, "x.js", raised[1])
}

func TestPage_AddScriptIsNotFetched(t *testing.T) {
	p := NewPage(WithPageLogger(discardLogger()))
	el := p.AddScript("https://cdn.example/loader.js", map[string]string{"data-lazy": "no"})
	assert.Empty(t, p.Fetches())
	v, ok := el.Attr("data-lazy")
	assert.True(t, ok)
	assert.Equal(t, "no", v)
	assert.Equal(t, 0, p.Loop().Len())
}

func TestPage_SignalsGoThroughCurrentHooks(t *testing.T) {
	p := NewPage(WithPageLogger(discardLogger()))

	// Empty slots are a no-op.
	p.RaiseError("ignored")
	p.RejectPromise("ignored")

	var errArgs []any
	var rejection any
	p.Hooks().Install(HookError, func(args ...any) { errArgs = args })
	p.Hooks().Install(HookRejection, func(args ...any) { rejection = args[0] })

	p.RaiseError("msg", "app.js", 1, 2)
	p.RejectPromise("boom")

	assert.Equal(t, []any{"msg", "app.js", 1, 2}, errArgs)
	assert.Equal(t, Rejection{Reason: "boom"}, rejection)
}

func TestPage_CustomHookKindsAndScriptTag(t *testing.T) {
	p := NewPage(
		WithPageLogger(discardLogger()),
		WithHookKinds("onerror_custom", "onrejection_custom"),
		WithScriptTag("x-script"),
	)
	p.Serve("https://cdn.example/sdk.js", func(*Page) error { return nil })

	var errArgs []any
	var rejection any
	p.Hooks().Install(HookError, func(args ...any) { t.Fatal("default error slot must not be used") })
	p.Hooks().Install("onerror_custom", func(args ...any) { errArgs = args })
	p.Hooks().Install("onrejection_custom", func(args ...any) { rejection = args[0] })

	p.RaiseError("boom")
	p.RejectPromise("timeout")
	assert.Equal(t, []any{"boom"}, errArgs)
	assert.Equal(t, Rejection{Reason: "timeout"}, rejection)

	owned := p.AddScript("https://js.example/app.js", nil)
	assert.Equal(t, "x-script", owned.Tag)

	plain := NewElement(ScriptTag)
	plain.Src = "https://cdn.example/sdk.js"
	p.Document().InsertBefore(plain, nil)
	assert.Empty(t, p.Fetches(), "only the configured tag is fetched")

	custom := p.Document().CreateElement("x-script")
	custom.Src = "https://cdn.example/sdk.js"
	p.Document().InsertBefore(custom, nil)
	assert.Equal(t, []string{"https://cdn.example/sdk.js"}, p.Fetches())
}

func TestPage_EmptyOptionsKeepDefaults(t *testing.T) {
	p := NewPage(WithPageLogger(discardLogger()), WithHookKinds("", ""), WithScriptTag(""))

	called := false
	p.Hooks().Install(HookError, func(args ...any) { called = true })
	p.RaiseError("boom")

	assert.True(t, called)
	assert.Equal(t, ScriptTag, p.AddScript("https://js.example/app.js", nil).Tag)
}
