// Package agent drives the propose/act reasoning loop that turns a
// natural-language query into tool executions and a final answer.
//
// The loop is a small state machine. Propose sends the conversation and the
// declared tool schema to the model; the structured response type alone
// decides the transition: tool calls enter Act, final answer content ends in
// Done. Act validates each call against the read-only tool boundary,
// executes it, and feeds the result back as an observation for the next
// Propose. The loop is bounded: a configured maximum step count, a bounded
// number of model retries, and a bounded tolerance for disallowed tool
// requests all terminate in Failed, which still returns the accumulated
// trace and a degraded answer instead of losing partial progress.
package agent
