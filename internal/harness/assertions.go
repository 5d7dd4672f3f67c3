package harness

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/roach88/sdkloader/internal/trace"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Trace    []trace.Event // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v\n", event.Seq, event.Label(), event.Args)
		}
	}

	return buf.String()
}

// assertTraceOrder checks that the labels occur in the trace in the given
// order. Other events may be interleaved; a repeated label must occur that
// many times.
func assertTraceOrder(events []trace.Event, a Assertion) error {
	next := 0
	for _, event := range events {
		if next < len(a.Labels) && event.Label() == a.Labels[next] {
			next++
		}
	}
	if next == len(a.Labels) {
		return nil
	}

	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("labels in order: %v", a.Labels),
		Actual:   fmt.Sprintf("matched %d of %d, missing %s after %v", next, len(a.Labels), a.Labels[next], a.Labels[:next]),
		Trace:    events,
	}
}

// assertTraceCount checks the label appears exactly the specified number of times.
func assertTraceCount(events []trace.Event, a Assertion) error {
	count := 0
	for _, event := range events {
		if event.Label() == a.Label {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Label),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    events,
		}
	}
	return nil
}

// assertTraceContains checks for an event with the label and, when the
// assertion carries args, identical args. Args compare by canonical JSON so
// YAML maps match option records.
func assertTraceContains(events []trace.Event, a Assertion) error {
	var want []byte
	if a.Args != nil {
		var err error
		want, err = trace.MarshalCanonical(a.Args)
		if err != nil {
			return fmt.Errorf("trace_contains: marshal expected args: %w", err)
		}
	}

	for _, event := range events {
		if event.Label() != a.Label {
			continue
		}
		if want == nil {
			return nil
		}
		got, err := trace.MarshalCanonical(normalizeArgs(event.Args))
		if err == nil && bytes.Equal(got, want) {
			return nil
		}
	}

	expected := "event " + a.Label
	if want != nil {
		expected += " with args " + string(want)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    events,
	}
}

// normalizeArgs maps a nil args list to an empty one so it matches `args: []`.
func normalizeArgs(args []any) []any {
	if args == nil {
		return []any{}
	}
	return args
}

func assertFlag(typ string, want, got bool) error {
	if want != got {
		return &AssertionError{
			Type:     typ,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

func assertCount(typ string, want, got int) error {
	if want != got {
		return &AssertionError{
			Type:     typ,
			Expected: fmt.Sprintf("%d", want),
			Actual:   fmt.Sprintf("%d", got),
		}
	}
	return nil
}

// priorCalls counts calls to the pre-existing handlers, all kinds when
// label is empty.
func priorCalls(r *Result, label string) int {
	if label != "" {
		return r.PriorCalls[label]
	}
	total := 0
	for _, n := range r.PriorCalls {
		total += n
	}
	return total
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertInjected:
			err = assertFlag(a.Type, a.Expect, result.Injected)
		case AssertLoaded:
			err = assertFlag(a.Type, a.Expect, result.Loaded)
		case AssertScriptsInserted:
			err = assertCount(a.Type, a.Count, len(result.Fetches))
		case AssertQueueLen:
			err = assertCount(a.Type, a.Count, len(result.Queue))
		case AssertPriorCalls:
			err = assertCount(a.Type, a.Count, priorCalls(result, a.Label))
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
