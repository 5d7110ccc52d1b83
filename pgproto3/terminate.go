package pgproto3

// Terminate politely closes the connection. The server does not reply;
// the client simply closes the socket after sending it.
type Terminate struct{}

func (*Terminate) Frontend() {}

func (dst *Terminate) Decode(src []byte) error {
	if len(src) != 0 {
		return &invalidMessageLenErr{messageType: "Terminate", expectedLen: 0, actualLen: len(src)}
	}
	return nil
}

func (src *Terminate) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'X')
	return finishMessage(buf, sp)
}
