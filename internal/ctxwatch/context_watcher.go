// Package ctxwatch bridges context.Context cancellation to blocking I/O.
//
// A connection's reader and writer halves block inside net.Conn.Read and
// net.Conn.Write, which do not accept a context.Context. ContextWatcher
// runs a background goroutine that waits for a watched context to finish
// and then invokes a cancel callback (e.g. setting an expired deadline, or
// closing the socket) so the blocked call returns promptly. This is the
// concrete mechanism behind the "cancellation aborts a waiting operation"
// requirement without reimplementing the connection as fully async I/O.
package ctxwatch

import "context"

// ContextWatcher watches a context and calls onCancel if it is canceled.
// It is designed to avoid the overhead of spawning a new goroutine per watch
// when the previous watch has already finished.
type ContextWatcher struct {
	onCancel             func()
	onUnwatchAfterCancel func()
	unwatchChan          chan struct{}

	watchInProgress   bool
	onCancelWasCalled bool
}

// NewContextWatcher creates a new ContextWatcher. onCancel is called when a
// watched context is canceled. onUnwatchAfterCancel is called when Unwatch
// is called and onCancel was called.
func NewContextWatcher(onCancel func(), onUnwatchAfterCancel func()) *ContextWatcher {
	cw := &ContextWatcher{
		onCancel:             onCancel,
		onUnwatchAfterCancel: onUnwatchAfterCancel,
	}

	return cw
}

// Watch starts watching ctx. If ctx is canceled before Unwatch is called then
// onCancel is called. Watch panics if called when a previous Watch has not
// been stopped by a call to Unwatch.
func (cw *ContextWatcher) Watch(ctx context.Context) {
	if cw.watchInProgress {
		panic("Watch already in progress")
	}

	if ctx.Done() == nil {
		cw.watchInProgress = false
		return
	}

	cw.unwatchChan = make(chan struct{})
	cw.onCancelWasCalled = false
	cw.watchInProgress = true

	go func(ctx context.Context, onCancel func(), unwatchChan chan struct{}) {
		select {
		case <-ctx.Done():
			onCancel()
			cw.onCancelWasCalled = true
			<-unwatchChan
		case <-unwatchChan:
		}
	}(ctx, cw.onCancel, cw.unwatchChan)
}

// Unwatch stops watching the context previously watched by Watch. If the
// context was canceled before Unwatch was called onUnwatchAfterCancel is
// called. Unwatch is always safe to call, even if Watch has never been
// called or if the watch has already been stopped.
func (cw *ContextWatcher) Unwatch() {
	if cw.watchInProgress {
		cw.unwatchChan <- struct{}{}
		if cw.onCancelWasCalled {
			cw.onUnwatchAfterCancel()
		}
		cw.watchInProgress = false
	}
}
