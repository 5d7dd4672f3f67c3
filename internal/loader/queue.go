package loader

// Entry is one record in the pre-load queue. It is a sealed variant:
// ErrorEntry, RejectionEntry or CallEntry.
type Entry interface {
	// Kind names the variant: "error", "rejection" or "call".
	Kind() string
	// triggers reports whether appending this entry injects in lazy mode.
	triggers() bool
}

// ErrorEntry is a global error, with the native handler arguments in order.
type ErrorEntry struct {
	Args []any
}

// RejectionEntry is an unhandled rejection, reduced to its reason.
type RejectionEntry struct {
	Reason any
}

// CallEntry is an API call made on the Facade before the SDK loaded.
type CallEntry struct {
	Method Method
	Args   []any
}

func (ErrorEntry) Kind() string     { return "error" }
func (RejectionEntry) Kind() string { return "rejection" }
func (CallEntry) Kind() string      { return "call" }

func (ErrorEntry) triggers() bool     { return true }
func (RejectionEntry) triggers() bool { return true }
func (c CallEntry) triggers() bool    { return c.Method.Triggers() }

// Queue is the append-only, insertion-ordered log of pending entries.
// Insertion order is replay order.
//
// Once sealed the queue is inert: Append refuses new entries and the
// sealed contents never change.
type Queue struct {
	entries []Entry
	sealed  bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{entries: make([]Entry, 0, 16)}
}

// Append adds e at the end. Returns false if the queue is sealed.
func (q *Queue) Append(e Entry) bool {
	if q.sealed {
		return false
	}
	q.entries = append(q.entries, e)
	return true
}

// Len returns the number of entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Sealed reports whether Seal has been called.
func (q *Queue) Sealed() bool {
	return q.sealed
}

// Entries returns a copy of the entries in insertion order.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Seal makes the queue inert and returns its final contents.
// Sealing twice returns the same contents.
func (q *Queue) Seal() []Entry {
	q.sealed = true
	return q.Entries()
}
