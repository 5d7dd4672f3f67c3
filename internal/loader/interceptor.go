package loader

import "github.com/roach88/sdkloader/internal/host"

// installHooks captures whatever the hook slots hold and puts the loader's
// handlers in their place.
func (l *Loader) installHooks() {
	hooks := l.env.Hooks()
	l.priorError = hooks.Install(l.cfg.ErrorHook, l.onError)
	l.priorRejection = hooks.Install(l.cfg.RejectionHook, l.onRejection)
}

// restoreHooks puts the captured handlers back, uninstalling the loader's.
func (l *Loader) restoreHooks() {
	hooks := l.env.Hooks()
	hooks.Restore(l.cfg.ErrorHook, l.priorError)
	hooks.Restore(l.cfg.RejectionHook, l.priorRejection)
}

// onError records the native arguments and forwards them, unchanged and in
// the same call, to the handler that was installed before the loader.
func (l *Loader) onError(args ...any) {
	recorded := make([]any, len(args))
	copy(recorded, args)
	l.enqueue(ErrorEntry{Args: recorded})

	if l.priorError != nil {
		l.priorError(args...)
	}
}

// onRejection records the rejection's reason and forwards the original
// arguments to the prior handler.
func (l *Loader) onRejection(args ...any) {
	l.enqueue(RejectionEntry{Reason: rejectionReason(args)})

	if l.priorRejection != nil {
		l.priorRejection(args...)
	}
}

// rejectionReason extracts the reason from a native rejection notification.
// A missing or unrecognized notification has a nil reason.
func rejectionReason(args []any) any {
	if len(args) == 0 {
		return nil
	}
	switch n := args[0].(type) {
	case host.Rejection:
		return n.Reason
	case *host.Rejection:
		if n == nil {
			return nil
		}
		return n.Reason
	default:
		return nil
	}
}
