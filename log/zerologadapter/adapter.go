// Package zerologadapter adapts a github.com/rs/zerolog.Logger to the
// tracelog.Logger interface.
package zerologadapter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ashtum/asiofied-libpq/tracelog"
)

type Logger struct {
	logger zerolog.Logger
}

// NewLogger wraps logger as a tracelog.Logger.
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{
		logger: logger.With().Str("module", "asiofied-libpq").Logger(),
	}
}

func (pl *Logger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]interface{}) {
	var zlevel zerolog.Level
	switch level {
	case tracelog.LogLevelNone:
		zlevel = zerolog.NoLevel
	case tracelog.LogLevelError:
		zlevel = zerolog.ErrorLevel
	case tracelog.LogLevelWarn:
		zlevel = zerolog.WarnLevel
	case tracelog.LogLevelInfo:
		zlevel = zerolog.InfoLevel
	case tracelog.LogLevelDebug, tracelog.LogLevelTrace:
		zlevel = zerolog.DebugLevel
	default:
		zlevel = zerolog.DebugLevel
	}

	l := pl.logger.With().Fields(data).Logger()
	l.WithLevel(zlevel).Msg(msg)
}
