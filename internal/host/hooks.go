package host

// HookKind names a global hook slot.
type HookKind string

const (
	// HookError is the global error slot (window.onerror).
	HookError HookKind = "onerror"
	// HookRejection is the global unhandled-rejection slot
	// (window.onunhandledrejection).
	HookRejection HookKind = "onunhandledrejection"
)

// Handler receives the native argument list of a global signal.
// For errors that is (message, source, line, column, error) or any prefix
// of it; for rejections it is a single Rejection.
type Handler func(args ...any)

// Rejection is the notification delivered to a rejection hook.
type Rejection struct {
	Reason any
}

// Hooks is the registry of global hook slots.
type Hooks interface {
	// Install puts h in the slot and returns whatever was there (nil if empty).
	Install(kind HookKind, h Handler) Handler
	// Restore puts h back in the slot, discarding the current handler.
	Restore(kind HookKind, h Handler)
	// Current returns the handler in the slot, or nil.
	Current(kind HookKind) Handler
}

// Registry is the in-memory Hooks implementation.
type Registry struct {
	slots map[HookKind]Handler
}

// NewRegistry creates a registry with every slot empty.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[HookKind]Handler)}
}

// Install implements Hooks.
func (r *Registry) Install(kind HookKind, h Handler) Handler {
	prev := r.slots[kind]
	r.set(kind, h)
	return prev
}

// Restore implements Hooks.
func (r *Registry) Restore(kind HookKind, h Handler) {
	r.set(kind, h)
}

// Current implements Hooks.
func (r *Registry) Current(kind HookKind) Handler {
	return r.slots[kind]
}

func (r *Registry) set(kind HookKind, h Handler) {
	if h == nil {
		delete(r.slots, kind)
		return
	}
	r.slots[kind] = h
}
