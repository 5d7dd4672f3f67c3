// Package loader defers loading of an error-reporting SDK until it is needed
// without losing anything that happens before it arrives.
//
// ARCHITECTURE:
//
// Start installs three things on the host:
//   - a Facade in the namespace slot, which records every API call
//   - replacement error and rejection hooks, which record every signal and
//     chain to whatever handler was installed before
//   - in non-lazy mode, a zero-delay task that injects the bundle
//
// Everything recorded goes into a single append-only Queue. In lazy mode the
// first error, rejection, or capture*/showReportDialog call injects the
// bundle script. Injection happens at most once.
//
// When the bundle's load event fires, the loader restores the original
// hooks, wraps the SDK's Init so options merge into the default
// configuration, and replays:
//
//  1. onLoad callbacks, in registration order
//  2. queued API calls, in queue order, with an implicit Init before the
//     first non-Init call (or alone, when nothing was called)
//  3. queued errors and rejections, in queue order, through the hooks the
//     SDK installed during Init
//
// After replay the Facade passes every call straight to the live SDK.
//
// # Failure Model
//
// Host errors are signals to relay, never failures of the loader. Internal
// faults (a panicking SDK, a bundle that did not install one) are recovered
// at the loader's asynchronous boundaries and logged; they never reach page
// code. A bundle that never loads leaves the Facade queueing forever.
//
// # Threading
//
// The loader is not safe for concurrent use. All calls, including Facade
// methods and hook invocations, must happen on the host's loop.
package loader
