// Package logging provides structured logging utilities for kube-assistant.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Credential masking (API keys are never logged directly)
//   - Host/URL sanitization for provider endpoints
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "agent.run")
//	logger.Info("executing tool",
//	    logging.Tool("get"),
//	    logging.Namespace("default"))
//
// Sanitize sensitive data before logging:
//
//	logger.Debug("provider configured",
//	    logging.Host(endpoint),
//	    slog.String("api_key", logging.SanitizeToken(key)))
package logging
