package pgproto3

import (
	"encoding/binary"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

// DataRow carries one row of query results. A nil entry in Values means
// SQL NULL; any non-nil entry (including a zero-length one) is the raw
// binary-format bytes of that column, per the negotiated FieldDescription.Format.
type DataRow struct {
	Values [][]byte
}

func (*DataRow) Backend() {}

func (dst *DataRow) Decode(src []byte) error {
	if len(src) < 2 {
		return &invalidMessageFormatErr{messageType: "DataRow"}
	}
	valueCount := int(binary.BigEndian.Uint16(src))
	rp := 2

	values := make([][]byte, valueCount)
	for i := 0; i < valueCount; i++ {
		if len(src[rp:]) < 4 {
			return &invalidMessageFormatErr{messageType: "DataRow"}
		}
		valueLen := int32(binary.BigEndian.Uint32(src[rp:]))
		rp += 4

		if valueLen == -1 {
			values[i] = nil
			continue
		}

		if valueLen < 0 || len(src[rp:]) < int(valueLen) {
			return &invalidMessageFormatErr{messageType: "DataRow"}
		}
		values[i] = src[rp : rp+int(valueLen)]
		rp += int(valueLen)
	}

	dst.Values = values
	return nil
}

func (src *DataRow) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'D')
	buf = pgio.AppendUint16(buf, uint16(len(src.Values)))
	for _, v := range src.Values {
		if v == nil {
			buf = pgio.AppendInt32(buf, -1)
			continue
		}
		buf = pgio.AppendInt32(buf, int32(len(v)))
		buf = append(buf, v...)
	}
	return finishMessage(buf, sp)
}
