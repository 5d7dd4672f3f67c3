// Package trace records what the real SDK observed during a session.
//
// Every call the SDK receives, every error or rejection that reaches its
// global hooks, and every post-load callback is stamped with a logical
// sequence number from Clock. Wall-clock time is never used for ordering,
// so the same session always produces the same trace.
//
// Traces are serialized with MarshalCanonical (RFC 8785 style: sorted keys,
// NFC-normalized strings, no HTML escaping) so golden files and stored
// payloads are byte-stable across runs.
package trace
