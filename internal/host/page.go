package host

import (
	"fmt"
	"log/slog"
)

// Bundle is the executable body of a fetched script. It runs on the loop
// when the script arrives, before the element's load event fires.
type Bundle func(p *Page) error

// Page is an in-memory page: globals, hooks, a document, an event loop and
// a bundle registry standing in for the network.
type Page struct {
	hooks   *Registry
	doc     *Doc
	loop    *Loop
	logger  *slog.Logger
	globals map[string]any

	errorHook     HookKind
	rejectionHook HookKind
	scriptTag     string

	bundles map[string]Bundle
	failed  map[string]bool
	fetches []string
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithPageLogger sets the logger used for uncaught panics and script errors.
func WithPageLogger(logger *slog.Logger) PageOption {
	return func(p *Page) {
		p.logger = logger
	}
}

// WithHookKinds names the global slots the runtime delivers uncaught
// errors and unhandled rejections through. Empty names keep the defaults.
func WithHookKinds(errorHook, rejectionHook HookKind) PageOption {
	return func(p *Page) {
		if errorHook != "" {
			p.errorHook = errorHook
		}
		if rejectionHook != "" {
			p.rejectionHook = rejectionHook
		}
	}
}

// WithScriptTag sets the element tag the page treats as a fetchable script.
// An empty tag keeps ScriptTag.
func WithScriptTag(tag string) PageOption {
	return func(p *Page) {
		if tag != "" {
			p.scriptTag = tag
		}
	}
}

// NewPage creates an empty page with no scripts and no hooks installed.
func NewPage(opts ...PageOption) *Page {
	p := &Page{
		hooks:   NewRegistry(),
		doc:     NewDoc(),
		logger:  slog.Default(),
		globals: make(map[string]any),
		bundles: make(map[string]Bundle),
		failed:  make(map[string]bool),

		errorHook:     HookError,
		rejectionHook: HookRejection,
		scriptTag:     ScriptTag,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.loop = NewLoop(p.logger)
	p.doc.onInsert = p.fetch
	return p
}

// Hooks returns the page's global hook slots.
func (p *Page) Hooks() Hooks {
	return p.hooks
}

// Document returns the page's document.
func (p *Page) Document() Document {
	return p.doc
}

// Doc returns the concrete document, for assertions.
func (p *Page) Doc() *Doc {
	return p.doc
}

// Loop returns the page's event loop.
func (p *Page) Loop() *Loop {
	return p.loop
}

// Post schedules a zero-delay task on the page's loop.
func (p *Page) Post(t func()) {
	p.loop.Post(t)
}

// Namespace returns the global value stored under name.
func (p *Page) Namespace(name string) any {
	return p.globals[name]
}

// SetNamespace stores v under name on the global object.
func (p *Page) SetNamespace(name string, v any) {
	p.globals[name] = v
}

// Serve registers the bundle delivered for url.
func (p *Page) Serve(url string, b Bundle) {
	p.bundles[url] = b
	delete(p.failed, url)
}

// Fail makes every fetch of url fail.
func (p *Page) Fail(url string) {
	p.failed[url] = true
	delete(p.bundles, url)
}

// Fetches returns the URLs requested so far, in request order.
func (p *Page) Fetches() []string {
	out := make([]string, len(p.fetches))
	copy(out, p.fetches)
	return out
}

// AddScript appends a page-owned script element, as if present in the HTML.
// Page-owned scripts are not fetched.
func (p *Page) AddScript(src string, attrs map[string]string) *Element {
	el := NewElement(p.scriptTag)
	el.Src = src
	for k, v := range attrs {
		el.SetAttr(k, v)
	}
	p.doc.elements = append(p.doc.elements, el)
	return el
}

// RaiseError delivers an error through the global error slot, as the
// runtime does for an uncaught exception. Does nothing if the slot is empty.
func (p *Page) RaiseError(args ...any) {
	if h := p.hooks.Current(p.errorHook); h != nil {
		h(args...)
	}
}

// RejectPromise delivers an unhandled rejection through the global
// rejection slot. Does nothing if the slot is empty.
func (p *Page) RejectPromise(reason any) {
	if h := p.hooks.Current(p.rejectionHook); h != nil {
		h(Rejection{Reason: reason})
	}
}

// fetch starts loading a dynamically inserted script. Delivery is always
// asynchronous: the element's load or error event fires from a later task.
func (p *Page) fetch(el *Element) {
	if el.Tag != p.scriptTag || el.Src == "" {
		return
	}
	p.fetches = append(p.fetches, el.Src)
	url := el.Src
	p.loop.Post(func() {
		p.deliver(url, el)
	})
}

func (p *Page) deliver(url string, el *Element) {
	b, ok := p.bundles[url]
	if p.failed[url] || !ok {
		p.logger.Debug("script failed to load", "src", url)
		el.Dispatch(EventError)
		return
	}
	if err := b(p); err != nil {
		// A throwing script still fires load; the exception goes to onerror.
		p.logger.Debug("script raised during execution", "src", url, "error", err)
		p.RaiseError(fmt.Sprintf("Uncaught %v", err), url, 0, 0, err)
	}
	el.Dispatch(EventLoad)
}
