package instrumentation

import (
	"os"
	"strconv"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: kube-assistant)
	ServiceName string

	// ServiceVersion is the version of the binary
	ServiceVersion string

	// Enabled determines if instrumentation is active (default: false for
	// zero overhead)
	Enabled bool

	// MetricsExporter specifies the metrics exporter type.
	// Options: "stdout", "otlp" (default: "stdout")
	MetricsExporter string

	// OTLPEndpoint is the OTLP collector endpoint, e.g.
	// "http://localhost:4318"
	OTLPEndpoint string

	// OTLPInsecure controls whether to use insecure HTTP for OTLP export.
	// Only for local development or testing with unencrypted endpoints.
	OTLPInsecure bool
}

// DefaultConfig returns a Config based on environment variables.
func DefaultConfig() Config {
	return Config{
		ServiceName:     getEnvOrDefault("OTEL_SERVICE_NAME", "kube-assistant"),
		ServiceVersion:  "unknown",
		Enabled:         getEnvBoolOrDefault("INSTRUMENTATION_ENABLED", false),
		MetricsExporter: getEnvOrDefault("METRICS_EXPORTER", "stdout"),
		OTLPEndpoint:    getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:    getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
	}
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBoolOrDefault returns the boolean value of an environment variable or a default value.
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
