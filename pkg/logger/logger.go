package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging operations
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	DebugWithFields(msg string, fields map[string]interface{})
	InfoWithFields(msg string, fields map[string]interface{})
	WarnWithFields(msg string, fields map[string]interface{})
	ErrorWithFields(msg string, fields map[string]interface{})
}

// zerologLogger implements the Logger interface using zerolog
type zerologLogger struct {
	logger zerolog.Logger
}

var (
	defaultLogger Logger
	defaultOnce   sync.Once
	defaultMu     sync.RWMutex
)

// New creates a Logger writing to stdout at the given level. When file is
// non-empty, log lines are also appended there as raw JSON.
func New(level string, file string) (Logger, error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = zerolog.MultiLevelWriter(output, f)
	}

	zl := zerolog.New(output).Level(lvl).With().Timestamp().Logger()
	return &zerologLogger{logger: zl}, nil
}

// GetLogger returns the process-wide logger, initializing an info-level
// console logger on first use.
func GetLogger() Logger {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		defer defaultMu.Unlock()
		if defaultLogger == nil {
			l, _ := New("info", "")
			defaultLogger = l
		}
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the process-wide logger.
func SetLogger(l Logger) {
	defaultOnce.Do(func() {})
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

func parseLogLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info", "":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown level %q", level)
	}
}

func (z *zerologLogger) Debug(msg string) { z.logger.Debug().Msg(msg) }
func (z *zerologLogger) Info(msg string)  { z.logger.Info().Msg(msg) }
func (z *zerologLogger) Warn(msg string)  { z.logger.Warn().Msg(msg) }
func (z *zerologLogger) Error(msg string) { z.logger.Error().Msg(msg) }
func (z *zerologLogger) Fatal(msg string) { z.logger.Fatal().Msg(msg) }

func (z *zerologLogger) WithField(key string, value interface{}) Logger {
	return &zerologLogger{logger: z.logger.With().Interface(key, value).Logger()}
}

func (z *zerologLogger) WithFields(fields map[string]interface{}) Logger {
	ctx := z.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &zerologLogger{logger: ctx.Logger()}
}

func (z *zerologLogger) WithError(err error) Logger {
	return &zerologLogger{logger: z.logger.With().Err(err).Logger()}
}

func (z *zerologLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	z.logger.Debug().Fields(fields).Msg(msg)
}

func (z *zerologLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	z.logger.Info().Fields(fields).Msg(msg)
}

func (z *zerologLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	z.logger.Warn().Fields(fields).Msg(msg)
}

func (z *zerologLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	z.logger.Error().Fields(fields).Msg(msg)
}

// NewTestLogger returns a silent logger for use in tests.
func NewTestLogger() Logger {
	zl := zerolog.New(io.Discard).Level(zerolog.Disabled)
	return &zerologLogger{logger: zl}
}
