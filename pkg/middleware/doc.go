// Package middleware provides HTTP middleware for the sink server:
// Prometheus request metrics and OpenTelemetry request tracing.
package middleware
