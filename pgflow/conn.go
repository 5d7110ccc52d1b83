package pgflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/ashtum/asiofied-libpq/internal/ctxwatch"
	"github.com/ashtum/asiofied-libpq/internal/nbconn"
	"github.com/ashtum/asiofied-libpq/pgproto3"
	"github.com/ashtum/asiofied-libpq/pgtype"
)

// pipelineMinVersion is the earliest server major version this client
// trusts to execute a multi-statement pipeline without emitting a
// spurious ReadyForQuery between statements.
var pipelineMinVersion = semver.MustParse("14.0.0")

// Conn is one live connection to a PostgreSQL server. Exec and
// Pipeline.Execute are safe to call concurrently from multiple
// goroutines — each submits its own statements and waits only for its
// own results — but Run must be active, typically in its own goroutine,
// for any of them to make progress: submission and I/O are decoupled,
// so an Exec call that races ahead of a running Run has nothing driving
// its write to the wire or its response back off it.
type Conn struct {
	cfg   *Config
	conn  *nbconn.Conn
	front *pgproto3.Frontend

	contextWatcher *ctxwatch.ContextWatcher

	typeMap *pgtype.Map

	pid               uint32
	secretKey         uint32
	parameterStatuses map[string]string
	serverVersion     *semver.Version
	pipelineCapable   bool

	// writeMu guards both appends to front's pending write buffer (via
	// front.Send) and the one goroutine (the run-loop's writer half)
	// that flushes it, so concurrent Pipeline.Execute calls never tear
	// a statement's bytes across two Flushes.
	writeMu    sync.Mutex
	wakeWriter chan struct{}

	handlers           handlerQueue
	pendingCompletions completionQueue

	closeOnce sync.Once
	closeErr  error
	failOnce  sync.Once
	closed    chan struct{}
}

// fail tears down the connection once, without attempting the polite
// Terminate handshake Close performs — used when the run-loop itself
// discovers the connection is unusable. Closing the socket is what
// promptly unblocks whichever of the run-loop's two halves is parked in
// a syscall on it, not just the one that noticed the failure.
func (c *Conn) fail() {
	c.failOnce.Do(func() {
		c.closeErr = c.conn.Close()
		close(c.closed)
	})
}

// signalWriter wakes the run-loop's writer half so it flushes whatever
// has just been appended to front's pending write buffer. It never
// blocks: if a wakeup is already pending the writer hasn't consumed yet,
// a second one is redundant.
func (c *Conn) signalWriter() {
	select {
	case c.wakeWriter <- struct{}{}:
	default:
	}
}

// PID returns the server-assigned process id for this connection's
// backend, as reported in BackendKeyData.
func (c *Conn) PID() uint32 { return c.pid }

// ParameterStatus returns the last value the server reported for a
// runtime parameter (e.g. "server_version", "TimeZone"), or "" if the
// server never reported it.
func (c *Conn) ParameterStatus(name string) string { return c.parameterStatuses[name] }

// TypeMap returns the OID registry used to encode and decode values on
// this connection.
func (c *Conn) TypeMap() *pgtype.Map { return c.typeMap }

// PipelineCapable reports whether the server's advertised version
// supports running several statements between one pair of Sync
// messages without an intervening round trip.
func (c *Conn) PipelineCapable() bool { return c.pipelineCapable }

// IsClosed reports whether the connection's run-loop has exited.
func (c *Conn) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// Connect dials config.Host:config.Port, performs the startup and
// authentication handshake, and returns a Conn ready to accept
// statements.
func Connect(ctx context.Context, config *Config) (conn *Conn, err error) {
	var tracerCtx context.Context
	if tracer, ok := config.Tracer.(ConnectTracer); ok {
		tracerCtx = tracer.TraceConnectStart(ctx, TraceConnectStartData{Config: config})
		defer func() {
			tracer.TraceConnectEnd(tracerCtx, TraceConnectEndData{Conn: conn, Err: err})
		}()
	}

	if config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.ConnectTimeout)
		defer cancel()
	}

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	netConn, err := config.DialFunc(ctx, "tcp", addr)
	if err != nil {
		return nil, &handshakeError{config: config, msg: "dial failed", err: err}
	}

	typeMap := config.TypeMap
	if typeMap == nil {
		typeMap = pgtype.NewMap()
	}

	c := &Conn{
		cfg:               config,
		conn:              nbconn.New(netConn),
		typeMap:           typeMap,
		parameterStatuses: map[string]string{},
		wakeWriter:        make(chan struct{}, 1),
		closed:            make(chan struct{}),
	}
	c.contextWatcher = ctxwatch.NewContextWatcher(
		func() { c.conn.SetDeadline(time.Now()) },
		func() { c.conn.SetDeadline(time.Time{}) },
	)
	c.front = pgproto3.NewFrontend(c.conn, c.conn)

	c.contextWatcher.Watch(ctx)
	defer c.contextWatcher.Unwatch()

	if config.TLSConfig != nil {
		c.conn.StartTLS(config.TLSConfig)
	}

	if err := c.startup(); err != nil {
		c.conn.Close()
		return nil, err
	}

	return c, nil
}

func (c *Conn) startup() error {
	startupMsg := &pgproto3.StartupMessage{
		ProtocolVersion: pgproto3.ProtocolVersionNumber,
		Parameters: map[string]string{
			"user":     c.cfg.User,
			"database": c.cfg.Database,
		},
	}
	for k, v := range c.cfg.RuntimeParams {
		startupMsg.Parameters[k] = v
	}

	if err := c.front.SendStartup(startupMsg); err != nil {
		return &handshakeError{config: c.cfg, msg: "failed to send startup message", err: err}
	}
	if err := c.front.Flush(); err != nil {
		return &handshakeError{config: c.cfg, msg: "failed to flush startup message", err: err}
	}

	for {
		msg, err := c.front.Receive()
		if err != nil {
			return &handshakeError{config: c.cfg, msg: "failed to receive message", err: err}
		}

		switch m := msg.(type) {
		case *pgproto3.Authentication:
			if err := c.handleAuth(m); err != nil {
				return err
			}
		case *pgproto3.ParameterStatus:
			c.parameterStatuses[m.Name] = m.Value
		case *pgproto3.BackendKeyData:
			c.pid = m.ProcessID
			c.secretKey = m.SecretKey
		case *pgproto3.ReadyForQuery:
			c.finishStartup()
			return nil
		case *pgproto3.ErrorResponse:
			return &handshakeError{config: c.cfg, msg: "server rejected startup", err: errorResponseToPgError(m)}
		default:
			return &handshakeError{config: c.cfg, msg: fmt.Sprintf("unexpected message %T during startup", msg)}
		}
	}
}

func (c *Conn) handleAuth(m *pgproto3.Authentication) error {
	switch m.Type {
	case pgproto3.AuthTypeOk:
		return nil
	case pgproto3.AuthTypeCleartextPassword:
		if err := c.front.SendPassword(&pgproto3.PasswordMessage{Password: c.cfg.Password}); err != nil {
			return &handshakeError{config: c.cfg, msg: "failed to send password", err: err}
		}
		return c.front.Flush()
	case pgproto3.AuthTypeMD5Password:
		digest := md5Password(c.cfg.User, c.cfg.Password, m.Salt)
		if err := c.front.SendPassword(&pgproto3.PasswordMessage{Password: digest}); err != nil {
			return &handshakeError{config: c.cfg, msg: "failed to send md5 password", err: err}
		}
		return c.front.Flush()
	default:
		return &handshakeError{config: c.cfg, msg: fmt.Sprintf("unsupported authentication method %d", m.Type)}
	}
}

func (c *Conn) finishStartup() {
	c.handlers = newHandlerQueue()

	if v, ok := c.parameterStatuses["server_version"]; ok {
		if sv, err := parseServerVersion(v); err == nil {
			c.serverVersion = sv
			c.pipelineCapable = !sv.LessThan(pipelineMinVersion)
		}
	}
}

// parseServerVersion extracts the leading "MAJOR.MINOR(.PATCH)" run out
// of a server_version string such as "16.1 (Debian 16.1-1.pgdg120+1)".
func parseServerVersion(s string) (*semver.Version, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty server_version")
	}
	v := fields[0]
	parts := strings.Split(v, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return semver.NewVersion(strings.Join(parts[:3], "."))
}

// Close sends Terminate and closes the underlying connection. Close is
// idempotent; subsequent calls return the error from the first call.
//
// Close does not arm its own ContextWatcher: Run, if active, already
// holds the connection's one watch for its own lifetime (ContextWatcher
// supports exactly one watcher at a time), and closing the socket here
// is itself what makes Run's blocked reader or writer return promptly —
// no separate cancellation signal is needed.
func (c *Conn) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.front.Send(&pgproto3.Terminate{})
		_ = c.front.Flush()
		c.writeMu.Unlock()
	})
	c.fail()
	return c.closeErr
}

func errorResponseToPgError(m *pgproto3.ErrorResponse) *PgError {
	return &PgError{
		Severity:         m.Severity,
		Code:             m.Code,
		Message:          m.Message,
		Detail:           m.Detail,
		Hint:             m.Hint,
		Position:         m.Position,
		InternalPosition: m.InternalPosition,
		InternalQuery:    m.InternalQuery,
		Where:            m.Where,
		SchemaName:       m.SchemaName,
		TableName:        m.TableName,
		ColumnName:       m.ColumnName,
		DataTypeName:     m.DataTypeName,
		ConstraintName:   m.ConstraintName,
		File:             m.File,
		Line:             m.Line,
		Routine:          m.Routine,
	}
}
