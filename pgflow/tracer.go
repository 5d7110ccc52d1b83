package pgflow

import "context"

// ConnectTracer traces the handshake performed by Connect.
type ConnectTracer interface {
	TraceConnectStart(ctx context.Context, data TraceConnectStartData) context.Context
	TraceConnectEnd(ctx context.Context, data TraceConnectEndData)
}

type TraceConnectStartData struct {
	Config *Config
}

type TraceConnectEndData struct {
	Conn *Conn
	Err  error
}

// QueryTracer traces one statement's execution, whether run standalone
// or as one member of a pipeline.
type QueryTracer interface {
	TraceQueryStart(ctx context.Context, conn *Conn, data TraceQueryStartData) context.Context
	TraceQueryEnd(ctx context.Context, conn *Conn, data TraceQueryEndData)
}

type TraceQueryStartData struct {
	SQL  string
	Args []any
}

type TraceQueryEndData struct {
	CommandTag string
	Err        error
}

// PipelineTracer traces one Pipeline.Execute call, which may carry
// several statements between a single pair of Sync markers.
type PipelineTracer interface {
	TracePipelineStart(ctx context.Context, conn *Conn, data TracePipelineStartData) context.Context
	TracePipelineEnd(ctx context.Context, conn *Conn, data TracePipelineEndData)
}

type TracePipelineStartData struct {
	StatementCount int
}

type TracePipelineEndData struct {
	Err error
}

// Tracer is the union every concrete tracer (such as tracelog.TraceLog)
// is expected to implement; Config.Tracer is checked against the
// individual Trace*Tracer interfaces at each call site so a tracer that
// only cares about connects doesn't need to stub out query methods.
type Tracer interface {
}
