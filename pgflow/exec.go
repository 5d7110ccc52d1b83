package pgflow

import "context"

// Statement is one SQL text plus its positional arguments, as queued
// onto a Pipeline or run standalone through Exec.
type Statement struct {
	SQL  string
	Args []any

	ctx context.Context // set by PushCtx; nil for Push
}

// Exec runs a single statement and returns its Result. It is exactly a
// one-statement Pipeline: the statement still gets its own Sync and its
// own ReadyForQuery fence, so Exec gains nothing from pipelining but
// loses nothing either.
func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (*Result, error) {
	results, err := c.NewPipeline().Push(sql, args...).Execute(ctx)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}
