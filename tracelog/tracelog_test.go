package tracelog_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashtum/asiofied-libpq/pgflow"
	"github.com/ashtum/asiofied-libpq/tracelog"
)

type testLog struct {
	lvl  tracelog.LogLevel
	msg  string
	data map[string]any
}

type testLogger struct {
	mux  sync.Mutex
	logs []testLog
}

func (l *testLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	l.mux.Lock()
	defer l.mux.Unlock()
	l.logs = append(l.logs, testLog{lvl: level, msg: msg, data: data})
}

func TestLogLevelFromString(t *testing.T) {
	levels := map[string]tracelog.LogLevel{
		"trace": tracelog.LogLevelTrace,
		"debug": tracelog.LogLevelDebug,
		"info":  tracelog.LogLevelInfo,
		"warn":  tracelog.LogLevelWarn,
		"error": tracelog.LogLevelError,
		"none":  tracelog.LogLevelNone,
	}

	for s, want := range levels {
		got, err := tracelog.LogLevelFromString(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := tracelog.LogLevelFromString("bogus")
	assert.Error(t, err)
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "info", tracelog.LogLevelInfo.String())
	assert.Contains(t, tracelog.LogLevel(99).String(), "invalid")
}

func TestLoggerFuncDelegates(t *testing.T) {
	var got []string
	fn := tracelog.LoggerFunc(func(_ context.Context, _ tracelog.LogLevel, msg string, _ map[string]any) {
		got = append(got, msg)
	})

	fn.Log(context.Background(), tracelog.LogLevelInfo, "hello", nil)
	require.Equal(t, []string{"hello"}, got)
}

func TestTraceQueryEndLogsErrorAndInfo(t *testing.T) {
	logger := &testLogger{}
	tl := &tracelog.TraceLog{Logger: logger, LogLevel: tracelog.LogLevelTrace}

	ctx := tl.TraceQueryStart(context.Background(), nil, pgflow.TraceQueryStartData{SQL: "select 1"})
	tl.TraceQueryEnd(ctx, nil, pgflow.TraceQueryEndData{CommandTag: "SELECT 1"})

	require.Len(t, logger.logs, 1)
	assert.Equal(t, "Query", logger.logs[0].msg)
	assert.Equal(t, tracelog.LogLevelInfo, logger.logs[0].lvl)
}
