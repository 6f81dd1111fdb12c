// Package httpserver wraps net/http with graceful shutdown, termination
// signal handling, env-based configuration, and health probe handlers.
package httpserver
