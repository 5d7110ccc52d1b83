package pgproto3

import "bytes"

// CommandComplete reports the tag of a successfully completed command,
// e.g. "INSERT 0 1" or "SELECT 3".
type CommandComplete struct {
	CommandTag []byte
}

func (*CommandComplete) Backend() {}

func (dst *CommandComplete) Decode(src []byte) error {
	idx := bytes.IndexByte(src, 0)
	if idx < 0 {
		dst.CommandTag = src
		return nil
	}
	dst.CommandTag = src[:idx]
	return nil
}

func (src *CommandComplete) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'C')
	buf = append(buf, src.CommandTag...)
	buf = append(buf, 0)
	return finishMessage(buf, sp)
}
