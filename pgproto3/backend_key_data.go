package pgproto3

import (
	"encoding/binary"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

// BackendKeyData carries the process ID and secret key a client would need
// to issue a CancelRequest. The core does not implement query
// cancellation via the wire protocol (context cancellation is used
// instead — see internal/ctxwatch), but the values are still captured for
// diagnostics.
type BackendKeyData struct {
	ProcessID uint32
	SecretKey uint32
}

func (*BackendKeyData) Backend() {}

func (dst *BackendKeyData) Decode(src []byte) error {
	if len(src) != 8 {
		return &invalidMessageLenErr{messageType: "BackendKeyData", expectedLen: 8, actualLen: len(src)}
	}
	dst.ProcessID = binary.BigEndian.Uint32(src[:4])
	dst.SecretKey = binary.BigEndian.Uint32(src[4:8])
	return nil
}

func (src *BackendKeyData) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'K')
	buf = pgio.AppendUint32(buf, src.ProcessID)
	buf = pgio.AppendUint32(buf, src.SecretKey)
	return finishMessage(buf, sp)
}
