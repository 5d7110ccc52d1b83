package pgflow

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ashtum/asiofied-libpq/pgproto3"
)

// Run drives the connection's duplex run-loop: a writer half that
// flushes queued bytes whenever Exec or Pipeline.Execute wakes it, and a
// reader half that dispatches incoming messages to the result-handler
// queue and signals each pipeline's pending-sync waiter as its
// ReadyForQuery fences arrive. Run must be active — ordinarily started
// with `go conn.Run(ctx)` right after Connect returns — concurrently
// with any exec on this Conn: submission only enqueues work and wakes
// the writer, it never reads or writes the socket itself. Run returns
// once ctx is cancelled or either half hits an unrecoverable I/O error;
// the first of the two to fail determines the returned error, and the
// connection is left closed either way.
func (c *Conn) Run(ctx context.Context) error {
	c.contextWatcher.Watch(ctx)
	defer c.contextWatcher.Unwatch()

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return c.writeLoop(ctx) })
	g.Go(func() error { return c.readLoop(ctx) })
	err := g.Wait()
	c.fail()
	return err
}

// writeLoop waits for a write-wakeup signal, then flushes whatever
// statements have been appended to the frontend's pending write buffer
// since the last flush. net.Conn.Write (unlike the native non-blocking
// flush this loop's shape is grounded on) already writes its argument in
// full or returns an error, so there is no inner "buffer still
// non-empty" retry loop to run here.
func (c *Conn) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.wakeWriter:
			c.writeMu.Lock()
			err := c.front.Flush()
			c.writeMu.Unlock()
			if err != nil {
				wrapped := &transportError{msg: "failed to flush", err: normalizeTimeoutError(ctx, err)}
				c.handlers.drainAll(wrapped)
				c.pendingCompletions.drainAll(wrapped)
				c.fail()
				return wrapped
			}
		}
	}
}

// readLoop reads backend messages for as long as the connection lives,
// routing each to the handler at the front of the queue and treating
// each ReadyForQuery as the fence for one submitted batch's
// pending-sync waiter. ctx is used only to tell an ordinary transport
// failure apart from a read that was unblocked by the connection's own
// ContextWatcher.
func (c *Conn) readLoop(ctx context.Context) error {
	for {
		msg, err := c.front.Receive()
		if err != nil {
			wrapped := &receptionError{msg: "failed to receive backend message", err: normalizeTimeoutError(ctx, err)}
			c.handlers.drainAll(wrapped)
			c.pendingCompletions.drainAll(wrapped)
			c.fail()
			return wrapped
		}

		switch m := msg.(type) {
		case *pgproto3.RowDescription:
			if e := c.handlers.front(); e != nil && !c.handlers.isCancelled(e) {
				e.handler.handleRowDescription(m)
			}
		case *pgproto3.DataRow:
			if e := c.handlers.front(); e != nil && !c.handlers.isCancelled(e) {
				e.handler.handleDataRow(m)
			}
		case *pgproto3.CommandComplete:
			c.closeOutFront(func(h resultHandler) { h.handleCommandComplete(m) })
		case *pgproto3.EmptyQueryResponse:
			c.closeOutFront(func(h resultHandler) { h.handleEmptyQueryResponse() })
		case *pgproto3.ErrorResponse:
			pgErr := errorResponseToPgError(m)
			c.closeOutFront(func(h resultHandler) { h.handleError(pgErr) })
		case *pgproto3.NoticeResponse:
			// Notices aren't attributed to any one statement; a
			// configured Tracer/Logger is the only place to observe
			// them.
		case *pgproto3.ParameterStatus:
			c.parameterStatuses[m.Name] = m.Value
		case *pgproto3.ParseComplete, *pgproto3.BindComplete, *pgproto3.NoData:
			// Acknowledgements with nothing to forward to a Result.
		case *pgproto3.ReadyForQuery:
			// The sync marker fences one submitted batch, not one
			// statement; it is consumed here and never forwarded to a
			// handler (§4.D rule 2 of the component this loop
			// implements).
			c.pendingCompletions.onReadyForQuery()
		default:
			err := &receptionError{msg: fmt.Sprintf("unexpected message %T outside of startup", msg)}
			c.handlers.drainAll(err)
			c.pendingCompletions.drainAll(err)
			c.fail()
			return err
		}
	}
}

// closeOutFront delivers a result-set-terminating message (CommandComplete,
// EmptyQueryResponse, or ErrorResponse) to the front handler, then
// retires it. A handler cancelled since it was pushed gets ErrCancelled
// instead of its real result; its statement may still have executed on
// the server, but nothing reads that result back through this Result.
func (c *Conn) closeOutFront(deliver func(resultHandler)) {
	e := c.handlers.front()
	if e == nil {
		return
	}
	if c.handlers.isCancelled(e) {
		e.handler.handleError(ErrCancelled)
	} else {
		deliver(e.handler)
	}
	e.handler.done()
	c.handlers.popFront()
}

// syncWaiter is signalled once `remaining` ReadyForQuery fences have
// been seen for the batch it was registered for — one per Sync the
// submitting Pipeline.Execute call wrote to the wire.
type syncWaiter struct {
	remaining int
	done      chan struct{}
	err       error
}

// completionQueue is the FIFO of in-flight submitted batches a Conn's
// reader half resolves as ReadyForQuery fences arrive. It mirrors
// handlerQueue's FIFO discipline but counts whole batches rather than
// individual statement result sets, since one Pipeline.Execute call may
// submit several statements (several Syncs) before waiting.
type completionQueue struct {
	mu    sync.Mutex
	items []*syncWaiter
}

// push registers a new batch awaiting n ReadyForQuery fences. It must be
// called under the same writeMu critical section that wrote the
// batch's bytes, so completionQueue order always matches wire order.
func (q *completionQueue) push(n int) *syncWaiter {
	q.mu.Lock()
	defer q.mu.Unlock()
	w := &syncWaiter{remaining: n, done: make(chan struct{})}
	q.items = append(q.items, w)
	return w
}

// onReadyForQuery accounts one ReadyForQuery fence against the oldest
// registered batch, signalling and popping it once its count reaches
// zero.
func (q *completionQueue) onReadyForQuery() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return
	}
	w := q.items[0]
	w.remaining--
	if w.remaining <= 0 {
		q.items = q.items[1:]
		close(w.done)
	}
}

// drainAll resolves every still-registered batch with err, used once the
// run-loop exits so no Execute call is ever left waiting on a fence that
// will never arrive.
func (q *completionQueue) drainAll(err error) {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()

	for _, w := range items {
		w.err = err
		close(w.done)
	}
}
