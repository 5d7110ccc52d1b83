package pgproto3

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

// ProtocolVersionNumber is the latest version of the PostgreSQL wire
// protocol that this package speaks.
const ProtocolVersionNumber = 196608 // 3.0

// StartupMessage is the very first message sent on a new connection. It has
// no type tag, only a length prefix, which makes it the one frontend
// message that cannot implement the ordinary Message interface's Encode.
type StartupMessage struct {
	ProtocolVersion uint32
	Parameters      map[string]string
}

func (*StartupMessage) Frontend() {}

func (dst *StartupMessage) Decode(src []byte) error {
	if len(src) < 4 {
		return &invalidMessageLenErr{messageType: "StartupMessage", expectedLen: 4, actualLen: len(src)}
	}

	dst.ProtocolVersion = binary.BigEndian.Uint32(src)
	dst.Parameters = make(map[string]string)
	rp := 4
	for {
		idx := bytes.IndexByte(src[rp:], 0)
		if idx < 0 {
			return &invalidMessageFormatErr{messageType: "StartupMessage"}
		}
		key := string(src[rp : rp+idx])
		rp += idx + 1
		if key == "" {
			break
		}

		idx = bytes.IndexByte(src[rp:], 0)
		if idx < 0 {
			return &invalidMessageFormatErr{messageType: "StartupMessage"}
		}
		value := string(src[rp : rp+idx])
		rp += idx + 1

		dst.Parameters[key] = value
	}

	return nil
}

func (src *StartupMessage) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 0)
	buf = pgio.AppendUint32(buf, src.ProtocolVersion)

	keys := make([]string, 0, len(src.Parameters))
	for k := range src.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		buf = append(buf, k...)
		buf = append(buf, 0)
		buf = append(buf, src.Parameters[k]...)
		buf = append(buf, 0)
	}
	buf = append(buf, 0)

	return finishMessage(buf, sp)
}
