// Package tracelog provides a Tracer that renders connection and
// pipeline lifecycle events as log lines through a pluggable Logger.
package tracelog

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ashtum/asiofied-libpq/pgflow"
)

// LogLevel represents the logging level for a single log event. See the
// LogLevel* constants for possible values.
type LogLevel int

// The values for log levels are chosen such that the zero value means
// that no log level was specified.
const (
	LogLevelTrace = LogLevel(6)
	LogLevelDebug = LogLevel(5)
	LogLevelInfo  = LogLevel(4)
	LogLevelWarn  = LogLevel(3)
	LogLevelError = LogLevel(2)
	LogLevelNone  = LogLevel(1)
)

func (ll LogLevel) String() string {
	switch ll {
	case LogLevelTrace:
		return "trace"
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	case LogLevelNone:
		return "none"
	default:
		return fmt.Sprintf("invalid level %d", ll)
	}
}

// Logger is the interface used to deliver log output from this module.
type Logger interface {
	// Log a message at the given level with data key/value pairs. data may be nil.
	Log(ctx context.Context, level LogLevel, msg string, data map[string]any)
}

// LoggerFunc is a wrapper around a function to satisfy the Logger interface.
type LoggerFunc func(ctx context.Context, level LogLevel, msg string, data map[string]any)

// Log delegates the logging request to the wrapped function.
func (f LoggerFunc) Log(ctx context.Context, level LogLevel, msg string, data map[string]any) {
	f(ctx, level, msg, data)
}

// LogLevelFromString converts a log level name to its constant.
//
// Valid levels:
//
//	trace
//	debug
//	info
//	warn
//	error
//	none
func LogLevelFromString(s string) (LogLevel, error) {
	switch s {
	case "trace":
		return LogLevelTrace, nil
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "none":
		return LogLevelNone, nil
	default:
		return 0, errors.New("invalid log level")
	}
}

func logQueryArgs(args []any) []any {
	logArgs := make([]any, 0, len(args))

	for _, a := range args {
		switch v := a.(type) {
		case []byte:
			if len(v) < 64 {
				a = hex.EncodeToString(v)
			} else {
				a = fmt.Sprintf("%x (truncated %d bytes)", v[:64], len(v)-64)
			}
		case string:
			if len(v) > 64 {
				l := 0
				for w := 0; l < 64; l += w {
					_, w = utf8.DecodeRuneInString(v[l:])
				}
				if len(v) > l {
					a = fmt.Sprintf("%s (truncated %d bytes)", v[:l], len(v)-l)
				}
			}
		}
		logArgs = append(logArgs, a)
	}

	return logArgs
}

// Config holds the configuration for key names.
type Config struct {
	TimeKey string
}

// DefaultConfig returns the default configuration for TraceLog.
func DefaultConfig() *Config {
	return &Config{
		TimeKey: "time",
	}
}

// TraceLog implements pgflow.ConnectTracer and pgflow.QueryTracer. Logger
// and LogLevel are required; Config is initialized with defaults on
// first use if left nil.
type TraceLog struct {
	Logger   Logger
	LogLevel LogLevel

	Config           *Config
	ensureConfigOnce sync.Once
}

func (tl *TraceLog) ensureConfig() {
	tl.ensureConfigOnce.Do(func() {
		if tl.Config == nil {
			tl.Config = DefaultConfig()
		}
	})
}

type ctxKey int

const (
	_ ctxKey = iota
	queryCtxKey
	pipelineCtxKey
	connectCtxKey
)

type traceQueryData struct {
	startTime time.Time
	sql       string
	args      []any
}

func (tl *TraceLog) TraceQueryStart(ctx context.Context, _ *pgflow.Conn, data pgflow.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryCtxKey, &traceQueryData{
		startTime: time.Now(),
		sql:       data.SQL,
		args:      data.Args,
	})
}

func (tl *TraceLog) TraceQueryEnd(ctx context.Context, conn *pgflow.Conn, data pgflow.TraceQueryEndData) {
	tl.ensureConfig()
	queryData, _ := ctx.Value(queryCtxKey).(*traceQueryData)
	if queryData == nil {
		return
	}

	interval := time.Since(queryData.startTime)

	if data.Err != nil {
		if tl.shouldLog(LogLevelError) {
			tl.log(ctx, conn, LogLevelError, "Query", map[string]any{"sql": queryData.sql, "args": logQueryArgs(queryData.args), "err": data.Err, tl.Config.TimeKey: interval})
		}
		return
	}

	if tl.shouldLog(LogLevelInfo) {
		tl.log(ctx, conn, LogLevelInfo, "Query", map[string]any{"sql": queryData.sql, "args": logQueryArgs(queryData.args), tl.Config.TimeKey: interval, "commandTag": data.CommandTag})
	}
}

type tracePipelineData struct {
	startTime time.Time
	stmtCount int
}

func (tl *TraceLog) TracePipelineStart(ctx context.Context, _ *pgflow.Conn, data pgflow.TracePipelineStartData) context.Context {
	return context.WithValue(ctx, pipelineCtxKey, &tracePipelineData{
		startTime: time.Now(),
		stmtCount: data.StatementCount,
	})
}

func (tl *TraceLog) TracePipelineEnd(ctx context.Context, conn *pgflow.Conn, data pgflow.TracePipelineEndData) {
	tl.ensureConfig()
	pipelineData, _ := ctx.Value(pipelineCtxKey).(*tracePipelineData)
	if pipelineData == nil {
		return
	}

	interval := time.Since(pipelineData.startTime)

	if data.Err != nil {
		if tl.shouldLog(LogLevelError) {
			tl.log(ctx, conn, LogLevelError, "Pipeline", map[string]any{"statementCount": pipelineData.stmtCount, "err": data.Err, tl.Config.TimeKey: interval})
		}
		return
	}

	if tl.shouldLog(LogLevelInfo) {
		tl.log(ctx, conn, LogLevelInfo, "Pipeline", map[string]any{"statementCount": pipelineData.stmtCount, tl.Config.TimeKey: interval})
	}
}

type traceConnectData struct {
	startTime time.Time
	config    *pgflow.Config
}

func (tl *TraceLog) TraceConnectStart(ctx context.Context, data pgflow.TraceConnectStartData) context.Context {
	return context.WithValue(ctx, connectCtxKey, &traceConnectData{
		startTime: time.Now(),
		config:    data.Config,
	})
}

func (tl *TraceLog) TraceConnectEnd(ctx context.Context, data pgflow.TraceConnectEndData) {
	tl.ensureConfig()
	connectData, _ := ctx.Value(connectCtxKey).(*traceConnectData)
	if connectData == nil {
		return
	}

	interval := time.Since(connectData.startTime)

	if data.Err != nil {
		if tl.shouldLog(LogLevelError) {
			tl.Logger.Log(ctx, LogLevelError, "Connect", map[string]any{
				"host":            connectData.config.Host,
				"port":            connectData.config.Port,
				"database":        connectData.config.Database,
				tl.Config.TimeKey: interval,
				"err":             data.Err,
			})
		}
		return
	}

	if data.Conn != nil && tl.shouldLog(LogLevelInfo) {
		tl.log(ctx, data.Conn, LogLevelInfo, "Connect", map[string]any{
			"host":            connectData.config.Host,
			"port":            connectData.config.Port,
			"database":        connectData.config.Database,
			tl.Config.TimeKey: interval,
		})
	}
}

func (tl *TraceLog) shouldLog(lvl LogLevel) bool {
	return tl.LogLevel >= lvl
}

func (tl *TraceLog) log(ctx context.Context, conn *pgflow.Conn, lvl LogLevel, msg string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}

	if conn != nil {
		if pid := conn.PID(); pid != 0 {
			data["pid"] = pid
		}
	}

	tl.Logger.Log(ctx, lvl, msg, data)
}
