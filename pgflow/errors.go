package pgflow

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Common SQLSTATE class codes, named after the condition they report.
// The full catalog runs to hundreds of codes; only the ones this client
// has reason to branch on by name are enumerated here — anything else
// is still available via PgError.Code.
const (
	SQLStateSuccessfulCompletion = "00000"
	SQLStateConnectionException  = "08000"
	SQLStateConnectionDoesNotExist = "08003"
	SQLStateConnectionFailure    = "08006"
	SQLStateProtocolViolation    = "08P01"
	SQLStateInvalidSQLStatementName = "26000"
	SQLStateInFailedSQLTransaction  = "25P02"
	SQLStateUndefinedColumn      = "42703"
	SQLStateUndefinedTable       = "42P01"
	SQLStateUniqueViolation      = "23505"
	SQLStateForeignKeyViolation  = "23503"
	SQLStateCheckViolation       = "23514"
	SQLStateNotNullViolation     = "23502"
	SQLStateSerializationFailure = "40001"
	SQLStateDeadlockDetected     = "40P01"
	SQLStateQueryCanceled        = "57014"
	SQLStateAdminShutdown        = "57P01"
)

// PgError represents an error reported by the PostgreSQL server. See
// https://www.postgresql.org/docs/current/protocol-error-fields.html for
// the field descriptions.
type PgError struct {
	Severity         string
	Code             string
	Message          string
	Detail           string
	Hint             string
	Position         int32
	InternalPosition int32
	InternalQuery    string
	Where            string
	SchemaName       string
	TableName        string
	ColumnName       string
	DataTypeName     string
	ConstraintName   string
	File             string
	Line             int32
	Routine          string
}

func (pe *PgError) Error() string {
	return pe.Severity + ": " + pe.Message + " (SQLSTATE " + pe.Code + ")"
}

// SQLState returns the error's SQLSTATE code.
func (pe *PgError) SQLState() string {
	return pe.Code
}

// SafeToRetry reports whether err is guaranteed to have occurred before
// any bytes reached the server, so retrying the same operation on a new
// connection cannot double-apply it.
func SafeToRetry(err error) bool {
	var e interface{ SafeToRetry() bool }
	if errors.As(err, &e) {
		return e.SafeToRetry()
	}
	return false
}

// Timeout reports whether err was caused by a deadline or a context
// cancellation surfacing as one.
func Timeout(err error) bool {
	var timeoutErr *errTimeout
	return errors.As(err, &timeoutErr)
}

// errTimeout wraps an error caused by context.DeadlineExceeded or a
// net.Error whose Timeout() is true.
type errTimeout struct {
	err error
}

func (e *errTimeout) Error() string {
	return fmt.Sprintf("timeout: %s", e.err.Error())
}

func (e *errTimeout) SafeToRetry() bool { return true }
func (e *errTimeout) Unwrap() error     { return e.err }

func normalizeTimeoutError(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		switch ctx.Err() {
		case context.Canceled:
			return context.Canceled
		case context.DeadlineExceeded:
			return &errTimeout{err: ctx.Err()}
		default:
			return &errTimeout{err: err}
		}
	}
	return err
}

// handshakeError is raised by Connect when the startup/authentication
// state machine cannot reach the ready state.
type handshakeError struct {
	config *Config
	msg    string
	err    error
}

func (e *handshakeError) Error() string {
	s := fmt.Sprintf("handshake with `host=%s user=%s database=%s` failed: %s", e.config.Host, e.config.User, e.config.Database, e.msg)
	if e.err != nil {
		s += fmt.Sprintf(" (%s)", e.err.Error())
	}
	return s
}

func (e *handshakeError) Unwrap() error { return e.err }

// transportError reports a failure writing to or reading from the
// underlying network connection, outside of the handshake.
type transportError struct {
	msg         string
	err         error
	safeToRetry bool
}

func (e *transportError) Error() string {
	if e.msg == "" {
		return e.err.Error()
	}
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.err.Error())
}

func (e *transportError) SafeToRetry() bool { return e.safeToRetry }
func (e *transportError) Unwrap() error     { return e.err }

// submissionError reports that a parameter could not be serialized, or a
// result-handler queue invariant could not be honored, before the
// statement's bytes were ever written to the wire.
type submissionError struct {
	msg string
	err error
}

func (e *submissionError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.err.Error())
}

func (e *submissionError) SafeToRetry() bool { return true }
func (e *submissionError) Unwrap() error     { return e.err }

// receptionError reports a malformed or unexpected message read off the
// wire — a framing or protocol-sequence violation.
type receptionError struct {
	msg string
	err error
}

func (e *receptionError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.err.Error())
}

func (e *receptionError) Unwrap() error { return e.err }

// ErrConnectionClosed is returned by operations attempted on a Conn
// after it has been closed, either explicitly or because the run-loop
// exited due to a transport error.
var ErrConnectionClosed = errors.New("pgflow: connection closed")

// ErrCancelled is returned to a pipelined statement's result handler
// when its context is cancelled before its result arrives; the
// statement itself may still have executed on the server.
var ErrCancelled = errors.New("pgflow: statement cancelled")
