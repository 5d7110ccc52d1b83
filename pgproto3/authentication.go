package pgproto3

import (
	"encoding/binary"
	"fmt"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

const (
	AuthTypeOk                = 0
	AuthTypeCleartextPassword = 3
	AuthTypeMD5Password       = 5
)

// Authentication is sent by the server in response to the startup message
// to request (or confirm) a credential exchange. SASL/GSS negotiation is
// out of scope; only trust, cleartext, and MD5 are understood.
type Authentication struct {
	Type uint32
	Salt [4]byte // only set when Type == AuthTypeMD5Password
}

func (*Authentication) Backend() {}

func (dst *Authentication) Decode(src []byte) error {
	if len(src) < 4 {
		return &invalidMessageLenErr{messageType: "Authentication", expectedLen: 4, actualLen: len(src)}
	}

	*dst = Authentication{Type: binary.BigEndian.Uint32(src)}

	switch dst.Type {
	case AuthTypeOk, AuthTypeCleartextPassword:
	case AuthTypeMD5Password:
		if len(src) < 8 {
			return &invalidMessageLenErr{messageType: "Authentication", expectedLen: 8, actualLen: len(src)}
		}
		copy(dst.Salt[:], src[4:8])
	default:
		return fmt.Errorf("unsupported authentication type: %d", dst.Type)
	}

	return nil
}

func (src *Authentication) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'R')
	buf = pgio.AppendUint32(buf, src.Type)
	if src.Type == AuthTypeMD5Password {
		buf = append(buf, src.Salt[:]...)
	}
	return finishMessage(buf, sp)
}
