package pgproto3

import (
	"bytes"
	"encoding/binary"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

const (
	TextFormat   = 0
	BinaryFormat = 1
)

// FieldDescription describes one column of a result set: its name, the
// OID used to decode its cells, and the format (always binary in this
// client) the server will use to send them.
type FieldDescription struct {
	Name                 string
	TableOID             uint32
	TableAttributeNumber uint16
	DataTypeOID          uint32
	DataTypeSize         int16
	TypeModifier         int32
	Format               int16
}

type RowDescription struct {
	Fields []FieldDescription
}

func (*RowDescription) Backend() {}

func (dst *RowDescription) Decode(src []byte) error {
	if len(src) < 2 {
		return &invalidMessageFormatErr{messageType: "RowDescription"}
	}
	fieldCount := int(binary.BigEndian.Uint16(src))
	rp := 2

	fields := make([]FieldDescription, fieldCount)
	for i := 0; i < fieldCount; i++ {
		idx := bytes.IndexByte(src[rp:], 0)
		if idx < 0 {
			return &invalidMessageFormatErr{messageType: "RowDescription"}
		}
		fields[i].Name = string(src[rp : rp+idx])
		rp += idx + 1

		if len(src[rp:]) < 18 {
			return &invalidMessageFormatErr{messageType: "RowDescription"}
		}
		fields[i].TableOID = binary.BigEndian.Uint32(src[rp:])
		rp += 4
		fields[i].TableAttributeNumber = binary.BigEndian.Uint16(src[rp:])
		rp += 2
		fields[i].DataTypeOID = binary.BigEndian.Uint32(src[rp:])
		rp += 4
		fields[i].DataTypeSize = int16(binary.BigEndian.Uint16(src[rp:]))
		rp += 2
		fields[i].TypeModifier = int32(binary.BigEndian.Uint32(src[rp:]))
		rp += 4
		fields[i].Format = int16(binary.BigEndian.Uint16(src[rp:]))
		rp += 2
	}

	dst.Fields = fields
	return nil
}

func (src *RowDescription) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'T')
	buf = pgio.AppendUint16(buf, uint16(len(src.Fields)))
	for _, f := range src.Fields {
		buf = append(buf, f.Name...)
		buf = append(buf, 0)
		buf = pgio.AppendUint32(buf, f.TableOID)
		buf = pgio.AppendUint16(buf, f.TableAttributeNumber)
		buf = pgio.AppendUint32(buf, f.DataTypeOID)
		buf = pgio.AppendInt16(buf, f.DataTypeSize)
		buf = pgio.AppendInt32(buf, f.TypeModifier)
		buf = pgio.AppendInt16(buf, f.Format)
	}
	return finishMessage(buf, sp)
}
