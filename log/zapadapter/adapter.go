// Package zapadapter adapts a go.uber.org/zap.Logger to the
// tracelog.Logger interface.
package zapadapter

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ashtum/asiofied-libpq/tracelog"
)

type Logger struct {
	logger *zap.Logger
}

func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger}
}

func (pl *Logger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}

	var zlevel zapcore.Level
	switch level {
	case tracelog.LogLevelTrace:
		zlevel = zapcore.DebugLevel
		data["LOG_LEVEL"] = level
	case tracelog.LogLevelDebug:
		zlevel = zapcore.DebugLevel
	case tracelog.LogLevelInfo:
		zlevel = zapcore.InfoLevel
	case tracelog.LogLevelWarn:
		zlevel = zapcore.WarnLevel
	case tracelog.LogLevelError:
		zlevel = zapcore.ErrorLevel
	default:
		zlevel = zapcore.ErrorLevel
		data["INVALID_LOG_LEVEL"] = level
	}

	if ce := pl.logger.Check(zlevel, msg); ce != nil {
		fields := make([]zap.Field, 0, len(data))
		for k, v := range data {
			fields = append(fields, zap.Any(k, v))
		}
		ce.Write(fields...)
	}
}
