package loader

import "github.com/roach88/sdkloader/internal/host"

// CrossOriginAnonymous marks the bundle for anonymous cross-origin loading.
const CrossOriginAnonymous = "anonymous"

// inject inserts the bundle script, at most once per loader. Every call
// after the first is a no-op, whoever makes it.
//
// The element goes immediately before the first existing script rather than
// at the end of the document; dynamically inserted scripts load
// asynchronously either way. With no script in the document it is appended.
func (l *Loader) inject() {
	if l.injected {
		return
	}
	l.injected = true

	doc := l.env.Document()
	var ref *host.Element
	if scripts := doc.ElementsByTag(l.cfg.ScriptTag); len(scripts) > 0 {
		ref = scripts[0]
	}

	el := doc.CreateElement(l.cfg.ScriptTag)
	el.Src = l.cfg.BundleURL
	el.CrossOrigin = CrossOriginAnonymous
	el.AddEventListener(host.EventLoad, l.onBundleLoad)
	doc.InsertBefore(el, ref)

	l.metrics.Injected()
	l.logger.Debug("sdkloader: bundle injected", "src", l.cfg.BundleURL, "queued", l.queue.Len())
}

// injectTask is the deferred form of inject used by non-lazy startup and
// ForceLoad.
//
// Boundary: runs as a loop task; panics are recovered and logged.
func (l *Loader) injectTask() {
	defer l.recoverFault("inject")
	l.inject()
}

// onBundleLoad runs when the bundle's load event fires. It restores the
// hooks captured at Start, wraps the SDK's Init and hands off to replay.
//
// Boundary: panics are recovered and logged, never rethrown into the page.
// A namespace that does not hold an SDK is logged and leaves the Facade in
// place, still queueing.
func (l *Loader) onBundleLoad() {
	defer l.recoverFault("load")

	l.restoreHooks()

	v := l.env.Namespace(l.cfg.Namespace)
	sdk, ok := v.(SDK)
	if !ok || v == any(l.facade) {
		l.metrics.Fault("load")
		l.logger.Error("sdkloader: bundle did not install an SDK", "namespace", l.cfg.Namespace, "found", v)
		return
	}

	wrapped := &configuredSDK{SDK: sdk, effective: l.cfg.Defaults.clone()}
	l.env.SetNamespace(l.cfg.Namespace, wrapped)
	l.replay(wrapped)
}
