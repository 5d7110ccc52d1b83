package pgproto3

import "bytes"

// PasswordMessage carries a cleartext or MD5-hashed password response to an
// Authentication request.
type PasswordMessage struct {
	Password string
}

func (*PasswordMessage) Frontend() {}

func (dst *PasswordMessage) Decode(src []byte) error {
	idx := bytes.IndexByte(src, 0)
	if idx < 0 {
		return &invalidMessageFormatErr{messageType: "PasswordMessage"}
	}
	dst.Password = string(src[:idx])
	return nil
}

func (src *PasswordMessage) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'p')
	buf = append(buf, src.Password...)
	buf = append(buf, 0)
	return finishMessage(buf, sp)
}
