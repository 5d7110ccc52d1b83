package pgproto3

// Sync closes out an extended-query batch. In pipeline mode, the client
// sends one Sync after each group of Parse/Bind/Describe/Execute
// sequences it wants to pipeline together; the server answers with a
// single ReadyForQuery once it has processed everything up to that Sync.
type Sync struct{}

func (*Sync) Frontend() {}

func (dst *Sync) Decode(src []byte) error {
	if len(src) != 0 {
		return &invalidMessageLenErr{messageType: "Sync", expectedLen: 0, actualLen: len(src)}
	}
	return nil
}

func (src *Sync) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'S')
	return finishMessage(buf, sp)
}
