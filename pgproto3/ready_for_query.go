package pgproto3

// ReadyForQuery is sent by the server once it has finished processing a
// batch of queries terminated by a frontend Sync message. In pipeline
// mode this is the fence between pipelined batches — the connection
// engine treats it as the pipeline-sync-marker result status and never
// forwards it to a result-handler.
type ReadyForQuery struct {
	TxStatus byte // 'I' idle, 'T' in transaction, 'E' failed transaction
}

func (*ReadyForQuery) Backend() {}

func (dst *ReadyForQuery) Decode(src []byte) error {
	if len(src) != 1 {
		return &invalidMessageLenErr{messageType: "ReadyForQuery", expectedLen: 1, actualLen: len(src)}
	}
	dst.TxStatus = src[0]
	return nil
}

func (src *ReadyForQuery) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'Z')
	buf = append(buf, src.TxStatus)
	return finishMessage(buf, sp)
}
