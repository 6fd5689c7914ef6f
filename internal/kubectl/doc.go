// Package kubectl executes read-only cluster inspection commands.
//
// The package is the safety boundary of the assistant: the set of runnable
// verbs is a closed enumeration (get, describe, logs), every one of them
// non-mutating, and requests are validated against it before anything is
// dispatched. A request outside the enumeration fails closed with
// UnauthorizedToolError and never reaches the underlying command runner;
// the reasoning step upstream is not trusted to only propose allowed verbs.
//
// Execution failures (non-zero exits, timeouts, a missing kubectl binary)
// are captured into the Result rather than raised, so the caller can feed
// them back into the reasoning loop as ordinary observations.
package kubectl
