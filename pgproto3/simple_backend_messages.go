package pgproto3

// This file groups the several backend messages that carry no payload
// beyond their tag and length — the extended-query protocol's
// acknowledgements and empty-query marker.

// ParseComplete acknowledges a Parse.
type ParseComplete struct{}

func (*ParseComplete) Backend() {}

func (dst *ParseComplete) Decode(src []byte) error {
	if len(src) != 0 {
		return &invalidMessageLenErr{messageType: "ParseComplete", expectedLen: 0, actualLen: len(src)}
	}
	return nil
}

func (src *ParseComplete) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, '1')
	return finishMessage(buf, sp)
}

// BindComplete acknowledges a Bind.
type BindComplete struct{}

func (*BindComplete) Backend() {}

func (dst *BindComplete) Decode(src []byte) error {
	if len(src) != 0 {
		return &invalidMessageLenErr{messageType: "BindComplete", expectedLen: 0, actualLen: len(src)}
	}
	return nil
}

func (src *BindComplete) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, '2')
	return finishMessage(buf, sp)
}

// NoData is sent instead of RowDescription when a Describe'd portal
// returns no rows (e.g. an INSERT with no RETURNING clause).
type NoData struct{}

func (*NoData) Backend() {}

func (dst *NoData) Decode(src []byte) error {
	if len(src) != 0 {
		return &invalidMessageLenErr{messageType: "NoData", expectedLen: 0, actualLen: len(src)}
	}
	return nil
}

func (src *NoData) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'n')
	return finishMessage(buf, sp)
}

// EmptyQueryResponse is sent in place of CommandComplete when the parsed
// query string was empty.
type EmptyQueryResponse struct{}

func (*EmptyQueryResponse) Backend() {}

func (dst *EmptyQueryResponse) Decode(src []byte) error {
	if len(src) != 0 {
		return &invalidMessageLenErr{messageType: "EmptyQueryResponse", expectedLen: 0, actualLen: len(src)}
	}
	return nil
}

func (src *EmptyQueryResponse) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'I')
	return finishMessage(buf, sp)
}
