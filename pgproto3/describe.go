package pgproto3

import "bytes"

// Describe requests a ParameterDescription and RowDescription for a
// statement, or a RowDescription for a portal. The core always describes
// the unnamed portal ('P') so it learns the result column OIDs before
// Execute runs, without a separate round trip.
type Describe struct {
	ObjectType byte // 'S' statement or 'P' portal
	Name       string
}

func (*Describe) Frontend() {}

func (dst *Describe) Decode(src []byte) error {
	if len(src) < 1 {
		return &invalidMessageFormatErr{messageType: "Describe"}
	}
	dst.ObjectType = src[0]

	idx := bytes.IndexByte(src[1:], 0)
	if idx < 0 {
		return &invalidMessageFormatErr{messageType: "Describe"}
	}
	dst.Name = string(src[1 : 1+idx])
	return nil
}

func (src *Describe) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'D')
	buf = append(buf, src.ObjectType)
	buf = append(buf, src.Name...)
	buf = append(buf, 0)
	return finishMessage(buf, sp)
}
