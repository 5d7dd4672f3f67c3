package trace

// Kind classifies a trace event.
type Kind string

const (
	// KindCall is an API method invoked on the SDK.
	KindCall Kind = "call"
	// KindError is an error delivered to an error hook.
	KindError Kind = "error"
	// KindRejection is an unhandled rejection delivered to a rejection hook.
	KindRejection Kind = "rejection"
	// KindCallback is a post-load callback firing.
	KindCallback Kind = "callback"
)

// Event is one observation in a session trace.
type Event struct {
	Seq    int64  `json:"seq"`
	Kind   Kind   `json:"kind"`
	Method string `json:"method,omitempty"`
	Args   []any  `json:"args,omitempty"`
}

// Label is the name assertions match on: the method for calls and
// callbacks, the kind otherwise.
func (e Event) Label() string {
	if e.Method != "" {
		return e.Method
	}
	return string(e.Kind)
}

// CanonicalMap converts the event to the map form used for canonical JSON.
func (e Event) CanonicalMap() map[string]any {
	m := map[string]any{
		"seq":  e.Seq,
		"kind": string(e.Kind),
	}
	if e.Method != "" {
		m["method"] = e.Method
	}
	if len(e.Args) > 0 {
		m["args"] = e.Args
	}
	return m
}

// Labels returns the label of every event, in order.
func Labels(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Label()
	}
	return out
}
