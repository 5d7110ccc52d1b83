package pgflow_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ashtum/asiofied-libpq/pgflow"
	"github.com/ashtum/asiofied-libpq/pgproto3"
)

// connectRunning connects using cfg and starts the connection's
// run-loop in the background, the way production callers are expected
// to follow every Connect with `go conn.Run(ctx)`. Exec and
// Pipeline.Execute only enqueue work and wake the writer; without an
// active Run goroutine nothing would ever reach the wire.
func connectRunning(t *testing.T, cfg *pgflow.Config) *pgflow.Conn {
	t.Helper()
	conn, err := pgflow.Connect(context.Background(), cfg)
	require.NoError(t, err)
	go conn.Run(context.Background())
	return conn
}

// fakeServer drives the backend side of an in-process pgproto3
// connection over a net.Pipe, standing in for a real PostgreSQL server
// in tests. handle is invoked with a Backend already past the startup
// handshake (trust authentication, a fixed server_version, and the
// initial ReadyForQuery already sent); it implements whatever
// statement-execution behavior that test wants to exercise.
func fakeServer(t *testing.T, handle func(be *pgproto3.Backend)) func(ctx context.Context, network, addr string) (net.Conn, error) {
	t.Helper()
	clientConn, serverConn := net.Pipe()

	go func() {
		be := pgproto3.NewBackend(serverConn, serverConn)

		if _, err := be.ReceiveStartupMessage(); err != nil {
			serverConn.Close()
			return
		}

		if err := be.Send(&pgproto3.Authentication{Type: pgproto3.AuthTypeOk}); err != nil {
			serverConn.Close()
			return
		}
		_ = be.Send(&pgproto3.ParameterStatus{Name: "server_version", Value: "16.1"})
		_ = be.Send(&pgproto3.BackendKeyData{ProcessID: 4242, SecretKey: 24242})
		if err := be.Send(&pgproto3.ReadyForQuery{TxStatus: 'I'}); err != nil {
			serverConn.Close()
			return
		}

		handle(be)
		serverConn.Close()
	}()

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return clientConn, nil
	}
}

// sendRows writes one RowDescription, one DataRow per entry in rows, and
// a closing CommandComplete — the full response to a single Execute.
func sendRows(be *pgproto3.Backend, fields []pgproto3.FieldDescription, rows [][][]byte, tag string) error {
	if err := be.Send(&pgproto3.RowDescription{Fields: fields}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := be.Send(&pgproto3.DataRow{Values: row}); err != nil {
			return err
		}
	}
	return be.Send(&pgproto3.CommandComplete{CommandTag: []byte(tag)})
}

// runToSync drains Parse/Bind/Describe/Execute messages one statement at
// a time and calls respond for each, stopping once it consumes the
// matching Sync. It returns false once the frontend has hung up.
func runToSync(t *testing.T, be *pgproto3.Backend, respond func(query string, paramValues [][]byte) error) bool {
	t.Helper()
	var query string
	var params [][]byte

	for {
		msg, err := be.Receive()
		if err != nil {
			return false
		}

		switch m := msg.(type) {
		case *pgproto3.Parse:
			query = m.Query
		case *pgproto3.Bind:
			params = m.Parameters
		case *pgproto3.Describe:
		case *pgproto3.Execute:
			if err := respond(query, params); err != nil {
				return false
			}
		case *pgproto3.Sync:
			if err := be.Send(&pgproto3.ReadyForQuery{TxStatus: 'I'}); err != nil {
				return false
			}
			return true
		case *pgproto3.Terminate:
			return false
		}
	}
}
