// Package config resolves the effective assistant settings from four tiers:
// CLI flags, the per-user config file, environment variables, and compiled-in
// defaults. Each field is resolved independently, higher tiers always winning.
//
// The resolved Config is immutable for the rest of the invocation; commands
// thread it through calls rather than consulting shared mutable state.
package config
