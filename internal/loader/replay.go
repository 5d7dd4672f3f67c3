package loader

// configuredSDK is the real SDK with Init intercepted: options merge into
// the effective configuration before the SDK sees them. It replaces the
// bare SDK in the namespace slot, so page code calling Init after load goes
// through the merge too.
type configuredSDK struct {
	SDK
	effective Options
}

// Init merges opts into the effective configuration (opts win) and
// initializes the SDK with a copy of the result. Merges accumulate across
// calls.
func (s *configuredSDK) Init(opts Options) {
	s.effective = Merge(s.effective, opts)
	s.SDK.Init(s.effective.clone())
}

// replay drains the queue into sdk. It runs once, from onBundleLoad.
//
// Order:
//  1. onLoad callbacks, registration order, nil entries skipped
//  2. queued calls, queue order; Init is implied before the first call
//     that is not Init, and called alone when no call was queued
//  3. queued errors and rejections, queue order, through whatever hooks
//     the SDK installed in step 2; an empty slot drops the entry
//
// The implicit Init goes through the wrapper, so the SDK always receives
// at least the default configuration.
//
// Boundary: the whole replay is one guarded scope. A panic aborts the rest
// of replay and is logged; it never propagates to the page.
func (l *Loader) replay(sdk *configuredSDK) {
	defer l.recoverFault("replay")

	entries := l.queue.Seal()
	l.metrics.QueueDrained()
	l.live = sdk

	for _, cb := range l.callbacks {
		if cb != nil {
			cb()
		}
	}

	calledSDK := false
	initCalled := false
	for _, e := range entries {
		call, ok := e.(CallEntry)
		if !ok {
			continue
		}
		calledSDK = true
		if !initCalled && call.Method != MethodInit {
			sdk.Init(nil)
			l.metrics.CallReplayed(MethodInit.String())
		}
		initCalled = true

		if err := dispatch(sdk, call); err != nil {
			l.logger.Error("sdkloader: replay dispatch failed", "method", call.Method.String(), "error", err)
			continue
		}
		l.metrics.CallReplayed(call.Method.String())
	}
	if !calledSDK {
		sdk.Init(nil)
		l.metrics.CallReplayed(MethodInit.String())
	}

	hooks := l.env.Hooks()
	onError := hooks.Current(l.cfg.ErrorHook)
	onRejection := hooks.Current(l.cfg.RejectionHook)

	for _, e := range entries {
		switch ev := e.(type) {
		case ErrorEntry:
			if onError == nil {
				continue
			}
			onError(ev.Args...)
			l.metrics.SignalForwarded(ev.Kind())
		case RejectionEntry:
			if onRejection == nil {
				continue
			}
			onRejection(ev.Reason)
			l.metrics.SignalForwarded(ev.Kind())
		}
	}

	l.loaded = true
	l.logger.Debug("sdkloader: replay complete", "entries", len(entries), "callbacks", len(l.callbacks))
}
