// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package: JSON output in production and a
// tint console handler everywhere else.
package logger
