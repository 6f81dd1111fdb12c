// Package logger builds the service's slog.Logger: environment presets
// (text/debug in development, JSON/info elsewhere), static service
// attributes, and context extractors that attach request-scoped values
// such as the resolved tenant to every record.
package logger
