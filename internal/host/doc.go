// Package host models the page environment a loader runs in.
//
// A real page offers mutable global hook slots (onerror,
// onunhandledrejection), a namespace on the global object, a document of
// script elements, and a single cooperative event loop. This package makes
// each of those an explicit value so the loader never touches ambient state:
//
//   - Hooks: the global hook slots, with Install returning the previous handler
//   - Document: script elements in document order, with InsertBefore
//   - Loop: the single execution thread; Post schedules a zero-delay task
//   - Page: ties them together with a bundle registry standing in for the
//     network
//
// # Threading
//
// Everything except Loop.Post runs on the loop's goroutine. Code on other
// goroutines hands work to the page with Post, the same way a browser
// serializes callbacks onto its main thread. Hooks, Doc and Page do not lock.
package host
