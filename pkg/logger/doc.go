// Package logger builds configured slog loggers and provides typed attribute
// helpers so log records use consistent keys across the pipeline.
package logger
