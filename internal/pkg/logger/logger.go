package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging messages.
type Logger interface {
	Error(msg string, err error)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
	// With returns a child logger that adds the key/value pair to every entry.
	With(key, value string) Logger
}

type zeroLogger struct {
	logger zerolog.Logger
}

// New creates a zerolog-backed logger. level is one of debug, info, warn, error
// (anything else means info). format "console" switches to human readable output.
func New(level, format string) Logger {
	return NewTo(os.Stdout, level, format)
}

// NewTo is New writing to out instead of stdout.
func NewTo(out io.Writer, level, format string) Logger {
	w := out
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
	}
	return newWithWriter(w, level)
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() Logger {
	return &zeroLogger{logger: zerolog.Nop()}
}

func newWithWriter(w io.Writer, level string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return &zeroLogger{
		logger: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
	}
}

// Error logs an error message together with the causing error (which may be nil).
func (l *zeroLogger) Error(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}

func (l *zeroLogger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

func (l *zeroLogger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

func (l *zeroLogger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

func (l *zeroLogger) With(key, value string) Logger {
	return &zeroLogger{logger: l.logger.With().Str(key, value).Logger()}
}
