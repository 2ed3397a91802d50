// Package observability provides structured logging, Prometheus metrics and
// tracing plumbing for the AB DATA front-end.
//
// Logging is JSON via stdlib slog, with request and browser-session IDs
// carried on the context. Metrics cover the front-end's own HTTP surface,
// every outgoing backend REST call by typed client and outcome kind, and the
// dashboard stats poller. Outgoing backend calls are traced by wrapping the
// shared http.Client transport with otelhttp (see Transport).
package observability
