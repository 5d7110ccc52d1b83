package pgproto3

import (
	"bytes"
	"encoding/binary"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

// Execute runs the unnamed portal. MaxRows is always 0 (unlimited) — the
// core has no notion of partial/suspended portals.
type Execute struct {
	Portal  string
	MaxRows uint32
}

func (*Execute) Frontend() {}

func (dst *Execute) Decode(src []byte) error {
	idx := bytes.IndexByte(src, 0)
	if idx < 0 {
		return &invalidMessageFormatErr{messageType: "Execute"}
	}
	dst.Portal = string(src[:idx])
	rp := idx + 1

	if len(src[rp:]) < 4 {
		return &invalidMessageFormatErr{messageType: "Execute"}
	}
	dst.MaxRows = binary.BigEndian.Uint32(src[rp:])
	return nil
}

func (src *Execute) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'E')
	buf = append(buf, src.Portal...)
	buf = append(buf, 0)
	buf = pgio.AppendUint32(buf, src.MaxRows)
	return finishMessage(buf, sp)
}
