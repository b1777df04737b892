// Package logger provides structured logging built on zerolog.
//
// A single process-wide logger is available through GetLogger, configured
// once at startup from the application config. Components that need request
// or component scoped fields derive a child logger with WithField or
// WithFields; derived loggers share the parent's output and level.
//
// Tests use NewTestLogger, which discards all output.
package logger
