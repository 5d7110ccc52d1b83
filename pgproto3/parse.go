package pgproto3

import (
	"bytes"
	"encoding/binary"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

// Parse requests that the server parse a query string into the unnamed
// (or named) prepared statement. Every exec sends a Parse for an unnamed
// statement, since statement caching is out of scope for the core.
type Parse struct {
	Name          string
	Query         string
	ParameterOIDs []uint32
}

func (*Parse) Frontend() {}

func (dst *Parse) Decode(src []byte) error {
	idx := bytes.IndexByte(src, 0)
	if idx < 0 {
		return &invalidMessageFormatErr{messageType: "Parse"}
	}
	dst.Name = string(src[:idx])
	rp := idx + 1

	idx = bytes.IndexByte(src[rp:], 0)
	if idx < 0 {
		return &invalidMessageFormatErr{messageType: "Parse"}
	}
	dst.Query = string(src[rp : rp+idx])
	rp += idx + 1

	if len(src[rp:]) < 2 {
		return &invalidMessageFormatErr{messageType: "Parse"}
	}
	count := int(binary.BigEndian.Uint16(src[rp:]))
	rp += 2

	dst.ParameterOIDs = make([]uint32, count)
	for i := 0; i < count; i++ {
		if len(src[rp:]) < 4 {
			return &invalidMessageFormatErr{messageType: "Parse"}
		}
		dst.ParameterOIDs[i] = binary.BigEndian.Uint32(src[rp:])
		rp += 4
	}

	return nil
}

func (src *Parse) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'P')
	buf = append(buf, src.Name...)
	buf = append(buf, 0)
	buf = append(buf, src.Query...)
	buf = append(buf, 0)
	buf = pgio.AppendUint16(buf, uint16(len(src.ParameterOIDs)))
	for _, oid := range src.ParameterOIDs {
		buf = pgio.AppendUint32(buf, oid)
	}
	return finishMessage(buf, sp)
}
