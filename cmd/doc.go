// Package cmd provides the command-line interface for kube-assistant.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - query: Answers a natural-language question about the cluster (default
//     behavior when the arguments are not a known subcommand)
//   - interactive: Sequential multi-turn conversation with persisted history
//   - config: Views, sets, or clears the stored provider settings
//   - serve: Exposes the read-only inspection tools over MCP stdio
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest release
//
// The CLI keeps the original ergonomics of asking a question directly:
// arguments that do not name a subcommand are treated as the query text, so
// `kube-assistant "why is my pod crashing"` works without spelling out
// `query`.
//
// Command Structure:
//
//	kube-assistant "<question>" [flags]       # Ask directly (default)
//	kube-assistant query "<question>" [flags] # Same, explicitly
//	kube-assistant interactive [flags]        # Multi-turn session
//	kube-assistant config [--view|--clear|--set-*]
//	kube-assistant serve [flags]              # MCP stdio server
//	kube-assistant version
//	kube-assistant self-update
package cmd
