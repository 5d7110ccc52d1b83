package pgtype

import (
	"fmt"
	"math"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

type boolCodec struct{}

func (boolCodec) Encode(_ *Map, oid OID, value any, buf []byte) ([]byte, error) {
	v, ok := value.(bool)
	if !ok {
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}
	if v {
		return append(buf, 1), nil
	}
	return append(buf, 0), nil
}

func (boolCodec) Decode(_ *Map, oid OID, src []byte) (any, error) {
	if len(src) != 1 {
		return nil, fmt.Errorf("pgtype: invalid length %d for bool", len(src))
	}
	return src[0] != 0, nil
}

type int2Codec struct{}

func (int2Codec) Encode(_ *Map, oid OID, value any, buf []byte) ([]byte, error) {
	n, ok := toInt64(value)
	if !ok {
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}
	return pgio.AppendInt16(buf, int16(n)), nil
}

func (int2Codec) Decode(_ *Map, _ OID, src []byte) (any, error) {
	if len(src) != 2 {
		return nil, fmt.Errorf("pgtype: invalid length %d for int2", len(src))
	}
	return int16(uint16(src[0])<<8 | uint16(src[1])), nil
}

type int4Codec struct{}

func (int4Codec) Encode(_ *Map, oid OID, value any, buf []byte) ([]byte, error) {
	n, ok := toInt64(value)
	if !ok {
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}
	return pgio.AppendInt32(buf, int32(n)), nil
}

func (int4Codec) Decode(_ *Map, _ OID, src []byte) (any, error) {
	if len(src) != 4 {
		return nil, fmt.Errorf("pgtype: invalid length %d for int4", len(src))
	}
	return int32(uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3])), nil
}

// oidCodec (de)serializes PostgreSQL's "oid" type — the same 4-byte
// big-endian layout as int4, but resolved to Go's uint32 rather than
// int32 since OID values are never negative. Used by the catalog queries
// resolveNewTypes issues against pg_type/pg_attribute, whose oid columns
// are this type.
type oidCodec struct{}

func (oidCodec) Encode(_ *Map, oid OID, value any, buf []byte) ([]byte, error) {
	v, ok := value.(uint32)
	if !ok {
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}
	return pgio.AppendUint32(buf, v), nil
}

func (oidCodec) Decode(_ *Map, _ OID, src []byte) (any, error) {
	if len(src) != 4 {
		return nil, fmt.Errorf("pgtype: invalid length %d for oid", len(src))
	}
	return uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3]), nil
}

type int8Codec struct{}

func (int8Codec) Encode(_ *Map, oid OID, value any, buf []byte) ([]byte, error) {
	n, ok := toInt64(value)
	if !ok {
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}
	return pgio.AppendInt64(buf, n), nil
}

func (int8Codec) Decode(_ *Map, _ OID, src []byte) (any, error) {
	if len(src) != 8 {
		return nil, fmt.Errorf("pgtype: invalid length %d for int8", len(src))
	}
	var n uint64
	for _, b := range src {
		n = n<<8 | uint64(b)
	}
	return int64(n), nil
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	default:
		return 0, false
	}
}

type float4Codec struct{}

func (float4Codec) Encode(_ *Map, oid OID, value any, buf []byte) ([]byte, error) {
	var f float32
	switch v := value.(type) {
	case float32:
		f = v
	case float64:
		f = float32(v)
	default:
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}
	return pgio.AppendUint32(buf, math.Float32bits(f)), nil
}

func (float4Codec) Decode(_ *Map, _ OID, src []byte) (any, error) {
	if len(src) != 4 {
		return nil, fmt.Errorf("pgtype: invalid length %d for float4", len(src))
	}
	bits := uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3])
	return math.Float32frombits(bits), nil
}

type float8Codec struct{}

func (float8Codec) Encode(_ *Map, oid OID, value any, buf []byte) ([]byte, error) {
	var f float64
	switch v := value.(type) {
	case float32:
		f = float64(v)
	case float64:
		f = v
	default:
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}
	return pgio.AppendUint64(buf, math.Float64bits(f)), nil
}

func (float8Codec) Decode(_ *Map, _ OID, src []byte) (any, error) {
	if len(src) != 8 {
		return nil, fmt.Errorf("pgtype: invalid length %d for float8", len(src))
	}
	var bits uint64
	for _, b := range src {
		bits = bits<<8 | uint64(b)
	}
	return math.Float64frombits(bits), nil
}

// textCodec serves text, varchar, bpchar, and name: all four are plain
// UTF-8 bytes on the wire.
type textCodec struct{}

func (textCodec) Encode(_ *Map, oid OID, value any, buf []byte) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return append(buf, v...), nil
	case []byte:
		return append(buf, v...), nil
	case fmt.Stringer:
		return append(buf, v.String()...), nil
	default:
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}
}

func (textCodec) Decode(_ *Map, _ OID, src []byte) (any, error) {
	return string(src), nil
}

type byteaCodec struct{}

func (byteaCodec) Encode(_ *Map, oid OID, value any, buf []byte) ([]byte, error) {
	v, ok := value.([]byte)
	if !ok {
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}
	return append(buf, v...), nil
}

func (byteaCodec) Decode(_ *Map, _ OID, src []byte) (any, error) {
	cp := make([]byte, len(src))
	copy(cp, src)
	return cp, nil
}
