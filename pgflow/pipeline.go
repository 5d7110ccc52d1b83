package pgflow

import (
	"context"
	"fmt"

	"github.com/ashtum/asiofied-libpq/pgproto3"
	"github.com/ashtum/asiofied-libpq/pgtype"
)

// Pipeline accumulates statements to submit in a single Flush, each
// framed by its own Parse/Bind/Describe/Execute/Sync so the server
// answers each with its own ReadyForQuery fence. The defining property
// of pipeline mode is that submission of statement N+1 never waits for
// statement N's result to come back — the writer and reader run
// concurrently over the whole batch.
type Pipeline struct {
	conn  *Conn
	stmts []Statement
}

// NewPipeline returns an empty Pipeline bound to c.
func (c *Conn) NewPipeline() *Pipeline {
	return &Pipeline{conn: c}
}

// Push queues sql with args and returns the Pipeline for chaining.
func (p *Pipeline) Push(sql string, args ...any) *Pipeline {
	p.stmts = append(p.stmts, Statement{SQL: sql, Args: args})
	return p
}

// PushCtx queues sql with args like Push, but also ties the statement to
// stmtCtx: if stmtCtx is cancelled before this statement's result set
// closes out, that one Result resolves with ErrCancelled while the rest
// of the pipeline runs to completion undisturbed — cancelling one
// pipelined statement does not invalidate the connection the way
// cancelling Execute's own ctx does, since the statement may already
// have reached the server and nothing downstream of it needs rewinding.
func (p *Pipeline) PushCtx(stmtCtx context.Context, sql string, args ...any) *Pipeline {
	p.stmts = append(p.stmts, Statement{SQL: sql, Args: args, ctx: stmtCtx})
	return p
}

// Execute submits every queued statement and returns one Result per
// statement, in submission order, once all of them have closed out. A
// statement whose Result carries a non-nil Err does not stop later
// statements in the same Pipeline from running to completion:
// PostgreSQL reports each statement's ErrorResponse independently and
// only aborts the open transaction, not the rest of the wire sequence,
// until the matching Sync clears it.
//
// Execute only enqueues: it appends this batch's bytes to the
// connection's pending write buffer and wakes Run's writer half, then
// waits for Run's reader half to signal that every statement's Sync has
// come back. It performs no socket I/O itself, which is what lets
// several goroutines call Execute on the same Conn concurrently and have
// their batches multiplexed over the one connection Run is driving.
//
// If ctx is cancelled before the batch closes out, Execute does not tear
// down the connection: every statement's handler is switched to dummy
// mode (its wire bytes are still drained by Run in order, just
// discarded instead of delivered) and Execute returns ctx.Err()
// immediately. Cancelling one Execute call's ctx never affects another
// in-flight Execute on the same Conn.
func (p *Pipeline) Execute(ctx context.Context) (results []*Result, err error) {
	conn := p.conn
	if conn.IsClosed() {
		return nil, ErrConnectionClosed
	}

	if resolveErr := conn.resolveNewTypes(ctx, p.stmts); resolveErr != nil {
		return nil, resolveErr
	}

	var pipelineTraceCtx context.Context
	if tracer, ok := conn.cfg.Tracer.(PipelineTracer); ok {
		pipelineTraceCtx = tracer.TracePipelineStart(ctx, conn, TracePipelineStartData{StatementCount: len(p.stmts)})
		defer func() {
			tracer.TracePipelineEnd(pipelineTraceCtx, conn, TracePipelineEndData{Err: err})
		}()
	}

	results = make([]*Result, len(p.stmts))
	entries := make([]*handlerEntry, len(p.stmts))

	watchersDone := make(chan struct{})
	defer close(watchersDone)

	conn.writeMu.Lock()
	for i, stmt := range p.stmts {
		params, buildErr := conn.typeMap.Build(stmt.Args, nil)
		if buildErr != nil {
			conn.writeMu.Unlock()
			return nil, &submissionError{msg: fmt.Sprintf("building parameters for statement %d", i), err: buildErr}
		}

		if sendErr := conn.front.Send(&pgproto3.Parse{Query: stmt.SQL, ParameterOIDs: oidsToUint32(params.OIDs)}); sendErr != nil {
			conn.writeMu.Unlock()
			return nil, &submissionError{msg: "encoding Parse", err: sendErr}
		}
		if sendErr := conn.front.Send(&pgproto3.Bind{
			ParameterFormatCodes: params.FormatCodes(),
			Parameters:           params.Values,
			ResultFormatCodes:    []int16{1},
		}); sendErr != nil {
			conn.writeMu.Unlock()
			return nil, &submissionError{msg: "encoding Bind", err: sendErr}
		}
		if sendErr := conn.front.Send(&pgproto3.Describe{ObjectType: 'P'}); sendErr != nil {
			conn.writeMu.Unlock()
			return nil, &submissionError{msg: "encoding Describe", err: sendErr}
		}
		if sendErr := conn.front.Send(&pgproto3.Execute{}); sendErr != nil {
			conn.writeMu.Unlock()
			return nil, &submissionError{msg: "encoding Execute", err: sendErr}
		}
		if sendErr := conn.front.Send(&pgproto3.Sync{}); sendErr != nil {
			conn.writeMu.Unlock()
			return nil, &submissionError{msg: "encoding Sync", err: sendErr}
		}

		r := newResult(conn)
		results[i] = r

		var queryTraceCtx context.Context
		if tracer, ok := conn.cfg.Tracer.(QueryTracer); ok {
			queryTraceCtx = tracer.TraceQueryStart(ctx, conn, TraceQueryStartData{SQL: stmt.SQL, Args: stmt.Args})
		}
		entries[i] = conn.handlers.push(&tracedResult{Result: r, tracer: conn.cfg.Tracer, ctx: queryTraceCtx})

		if stmt.ctx != nil {
			go func(stmtCtx context.Context, e *handlerEntry) {
				select {
				case <-stmtCtx.Done():
					conn.handlers.cancel(e)
				case <-watchersDone:
				}
			}(stmt.ctx, entries[i])
		}
	}
	waiter := conn.pendingCompletions.push(len(p.stmts))
	conn.writeMu.Unlock()

	conn.signalWriter()

	select {
	case <-waiter.done:
		if waiter.err != nil {
			return nil, waiter.err
		}
		return results, nil
	case <-ctx.Done():
		for _, e := range entries {
			conn.handlers.cancel(e)
		}
		return nil, ctx.Err()
	}
}

// tracedResult wraps a Result so the handler queue can fire the
// configured QueryTracer's end hook exactly when that statement's
// result set closes out, without Result itself needing to know about
// tracing.
type tracedResult struct {
	*Result
	tracer Tracer
	ctx    context.Context
}

func (t *tracedResult) done() {
	if tracer, ok := t.tracer.(QueryTracer); ok && t.ctx != nil {
		tracer.TraceQueryEnd(t.ctx, t.Result.conn, TraceQueryEndData{
			CommandTag: t.Result.commandTag,
			Err:        t.Result.err,
		})
	}
}

func oidsToUint32(oids []pgtype.OID) []uint32 {
	out := make([]uint32, len(oids))
	for i, o := range oids {
		out[i] = uint32(o)
	}
	return out
}
