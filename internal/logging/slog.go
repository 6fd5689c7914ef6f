package logging

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyNamespace = "namespace"
	KeyTool      = "tool"
	KeyStep      = "step"
	KeyProvider  = "provider"
	KeyModel     = "model"
	KeySession   = "session_id"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyHost      = "host"
	KeyAPIKey    = "api_key"
	KeyExitCode  = "exit_code"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ipv4Regex matches IPv4 addresses for sanitization.
var ipv4Regex = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)

// ipv6Regex matches common IPv6 forms, including the bracketed form used in URLs.
var ipv6Regex = regexp.MustCompile(`\[?([0-9a-fA-F]{0,4}:){2,7}[0-9a-fA-F]{0,4}\]?`)

// NewLogger builds the process logger: a text handler on stderr so that log
// output never mixes with answers printed to stdout. Verbose enables debug
// level; KUBE_ASSISTANT_LOG_LEVEL overrides either way when set.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if v := os.Getenv("KUBE_ASSISTANT_LOG_LEVEL"); v != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(v)); err == nil {
			level = parsed
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithSession returns a logger with the session id attribute set.
func WithSession(logger *slog.Logger, id string) *slog.Logger {
	return logger.With(slog.String(KeySession, id))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Namespace returns a slog attribute for the namespace.
func Namespace(ns string) slog.Attr {
	return slog.String(KeyNamespace, ns)
}

// Tool returns a slog attribute for the tool verb.
func Tool(name string) slog.Attr {
	return slog.String(KeyTool, name)
}

// Step returns a slog attribute for the reasoning step index.
func Step(n int) slog.Attr {
	return slog.Int(KeyStep, n)
}

// Provider returns a slog attribute for the model provider.
func Provider(p string) slog.Attr {
	return slog.String(KeyProvider, p)
}

// Model returns a slog attribute for the model or deployment id.
func Model(m string) slog.Attr {
	return slog.String(KeyModel, m)
}

// Duration returns a slog attribute for an elapsed duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d)
}

// ExitCode returns a slog attribute for a command exit code.
func ExitCode(code int) slog.Attr {
	return slog.Int(KeyExitCode, code)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// Host returns a slog attribute for a host with IP addresses sanitized.
func Host(host string) slog.Attr {
	return slog.String(KeyHost, SanitizeHost(host))
}

// Token returns a slog attribute for an API key, masked to a length
// indicator.
func Token(token string) slog.Attr {
	return slog.String(KeyAPIKey, SanitizeToken(token))
}

// SanitizeHost returns a sanitized version of the host for logging purposes.
// Provider endpoints may point at private infrastructure; IP addresses (both
// IPv4 and IPv6) are redacted while hostnames and ports are preserved.
//
// Examples:
//   - "https://192.168.1.100:6443" -> "https://<redacted-ip>:6443"
//   - "https://example.openai.azure.com" -> "https://example.openai.azure.com"
//   - "" -> "<empty>"
func SanitizeHost(host string) string {
	if host == "" {
		return "<empty>"
	}

	redactIPs := func(s string) string {
		result := ipv4Regex.ReplaceAllString(s, "<redacted-ip>")
		result = ipv6Regex.ReplaceAllString(result, "<redacted-ip>")
		return result
	}

	if !strings.Contains(host, "://") {
		return redactIPs(host)
	}

	parsed, err := url.Parse(host)
	if err != nil {
		return redactIPs(host)
	}

	if ipv4Regex.MatchString(parsed.Host) || ipv6Regex.MatchString(parsed.Host) {
		parsed.Host = redactIPs(parsed.Host)
		return parsed.String()
	}

	return host
}

// SanitizeToken returns a masked version of an API key for logging.
// It returns a length indicator without exposing any key content, as even
// partial prefixes can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
