// Package logger configures the process-wide slog logger and carries
// request-scoped loggers through context.Context.
//
// Handlers built here emit JSON to stdout. The request ID stored with
// WithRequestID is added to every record written through a context-aware
// call (InfoContext, ErrorContext, ...).
package logger
