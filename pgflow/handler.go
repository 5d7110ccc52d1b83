package pgflow

import (
	"sync"

	"github.com/ashtum/asiofied-libpq/pgproto3"
)

type handlerState int

const (
	handlerWaiting handlerState = iota
	handlerCompleted
	handlerCancelled
)

// resultHandler receives the backend messages belonging to one
// statement's result set, in the order they arrive on the wire.
type resultHandler interface {
	handleRowDescription(*pgproto3.RowDescription)
	handleDataRow(*pgproto3.DataRow)
	handleCommandComplete(*pgproto3.CommandComplete)
	handleEmptyQueryResponse()
	handleError(error)
	done()
}

type handlerEntry struct {
	handler resultHandler
	state   handlerState
}

// handlerQueue is the FIFO of in-flight statement handlers a Conn's
// run-loop drains as backend messages arrive. Statements are pushed in
// the order their Parse/Bind/Execute bytes are written to the wire and
// popped in that same order as each one's result set closes out with a
// CommandComplete, EmptyQueryResponse, or ErrorResponse.
//
// Cancelling an entry does not remove it from the queue — wire order
// must be preserved so the next statement's messages aren't
// misattributed — it only suppresses delivery to that entry's handler.
type handlerQueue struct {
	mu    sync.Mutex
	items []*handlerEntry
}

func newHandlerQueue() handlerQueue {
	return handlerQueue{}
}

func (q *handlerQueue) push(h resultHandler) *handlerEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := &handlerEntry{handler: h, state: handlerWaiting}
	q.items = append(q.items, e)
	return e
}

// cancel marks e so its future messages are discarded instead of
// delivered, without disturbing its position in wire order.
func (q *handlerQueue) cancel(e *handlerEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if e.state == handlerWaiting {
		e.state = handlerCancelled
	}
}

// isCancelled reports e's cancellation state under the queue's lock —
// e.state must never be read directly, since cancel() may be setting it
// concurrently from a statement's context-watcher goroutine.
func (q *handlerQueue) isCancelled(e *handlerEntry) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return e.state == handlerCancelled
}

func (q *handlerQueue) front() *handlerEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// popFront retires the oldest handler once its result set has closed
// out (CommandComplete / EmptyQueryResponse / ErrorResponse seen).
func (q *handlerQueue) popFront() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return
	}
	q.items[0].state = handlerCompleted
	q.items = q.items[1:]
}

func (q *handlerQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// drainAll resolves every still-queued handler with err. It is called
// once the run-loop exits because the connection died, so no handler
// is ever left waiting on a result that will never arrive.
func (q *handlerQueue) drainAll(err error) {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()

	for _, e := range items {
		if !q.isCancelled(e) {
			e.handler.handleError(err)
		}
		e.handler.done()
	}
}
