// Package harness runs loader scenarios against an in-memory page.
//
// A scenario sets up a page, starts a loader over it with a recording SDK
// bundle, drives page code and native signals through a list of steps, and
// checks the recorded trace.
//
// # Scenario Format
//
//	name: lazy_capture
//	description: "captureException loads the SDK and replays the queue"
//	config:
//	  public_key: 58595e0ac5744aae8c0f6498ac07d5ed
//	  bundle_url: https://cdn.example/4.6.2/bundle.min.js
//	  defaults: { dsn: X }
//	page:
//	  scripts:
//	    - src: https://js.example/58595e0ac5744aae8c0f6498ac07d5ed.min.js
//	  prior_handlers: true
//	  bundle: serve
//	steps:
//	  - call: addBreadcrumb
//	    args: [{ message: clicked }]
//	  - error: ["Uncaught TypeError", "app.js", 10, 2]
//	  - reject: "timeout"
//	  - call: captureException
//	    args: ["boom"]
//	  - drain: true
//	assertions:
//	  - type: trace_order
//	    labels: [init, addBreadcrumb, captureException, error, rejection]
//
// config may be replaced by config_file, a CUE file resolved relative to the
// scenario. Either form is checked against the loader config schema.
//
// # Steps
//
//   - call: an API method invoked through the namespace slot, with args
//   - error: a native error with the given handler arguments
//   - reject: an unhandled rejection with the given reason
//   - on_load: registers a callback that records an "onLoad" event
//   - force_load: calls forceLoad on the facade
//   - drain: runs the event loop until it is empty
//
// The loop is always drained after the last step.
//
// # Assertion Types
//
//   - trace_order: labels appear in this order (others may be interleaved)
//   - trace_count: label appears exactly count times
//   - trace_contains: an event with label, and args if given
//   - injected, loaded: the loader's state matches expect
//   - scripts_inserted: number of bundle fetches
//   - queue_len: entries left in the loader's queue
//   - prior_calls: calls reaching the pre-existing handlers, optionally
//     filtered by label (error or rejection)
//
// A trace label is the method name for calls and callbacks and the kind for
// errors and rejections.
package harness
