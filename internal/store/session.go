package store

import (
	"github.com/roach88/sdkloader/internal/loader"
	"github.com/roach88/sdkloader/internal/trace"
)

// Session is one recorded loader run.
type Session struct {
	ID       string
	Scenario string
	Pass     bool
	Injected bool
	Loaded   bool

	// CreatedSeq orders sessions. Assigned by WriteSession.
	CreatedSeq int64

	Queue []QueueRecord
	Trace []trace.Event
}

// QueueRecord is a stored queue entry. Seq is its 1-based queue position.
type QueueRecord struct {
	Seq    int64
	Kind   string
	Method string
	// Payload is the entry's argument list: handler args for errors,
	// [reason] for rejections, call args for calls.
	Payload []any
}

// QueueRecords converts a loader queue snapshot to records.
func QueueRecords(entries []loader.Entry) []QueueRecord {
	out := make([]QueueRecord, 0, len(entries))
	for i, e := range entries {
		rec := QueueRecord{Seq: int64(i + 1), Kind: e.Kind()}
		switch v := e.(type) {
		case loader.ErrorEntry:
			rec.Payload = v.Args
		case loader.RejectionEntry:
			rec.Payload = []any{v.Reason}
		case loader.CallEntry:
			rec.Method = v.Method.String()
			rec.Payload = v.Args
		}
		out = append(out, rec)
	}
	return out
}
