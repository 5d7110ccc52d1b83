package pgtype

import (
	"fmt"
	"reflect"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

// arrayCodec encodes and decodes one-dimensional arrays. Multi-dimensional
// arrays, non-zero lower bounds, and null-bitmap optimization are out of
// scope: every array this client sends has ndim=1, lower bound 0, and an
// explicit per-element null marker.
type arrayCodec struct {
	elemOID OID
}

func (c arrayCodec) Encode(m *Map, oid OID, value any, buf []byte) ([]byte, error) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, &UnsupportedValueError{OID: oid, Value: value}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}

	n := rv.Len()
	hasNull := int32(0)
	for i := 0; i < n; i++ {
		if isNilElem(rv.Index(i)) {
			hasNull = 1
			break
		}
	}

	buf = pgio.AppendInt32(buf, 1) // ndim
	buf = pgio.AppendInt32(buf, hasNull)
	buf = pgio.AppendUint32(buf, c.elemOID)
	buf = pgio.AppendInt32(buf, int32(n))
	buf = pgio.AppendInt32(buf, 0) // lower bound

	for i := 0; i < n; i++ {
		elem := rv.Index(i).Interface()
		if isNilElem(rv.Index(i)) {
			buf = pgio.AppendInt32(buf, -1)
			continue
		}

		lenPos := len(buf)
		buf = pgio.AppendInt32(buf, 0)
		var err error
		buf, err = m.Encode(c.elemOID, elem, buf)
		if err != nil {
			return nil, err
		}
		pgio.SetInt32(buf[lenPos:lenPos+4], int32(len(buf)-lenPos-4))
	}

	return buf, nil
}

func isNilElem(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func (c arrayCodec) Decode(m *Map, _ OID, src []byte) (any, error) {
	if len(src) < 12 {
		return nil, fmt.Errorf("pgtype: invalid length %d for array", len(src))
	}
	ndim := int32(uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3]))
	rp := 4
	rp += 4 // hasnull flag, not needed once element lengths carry -1 for null
	elemOID := uint32(src[rp])<<24 | uint32(src[rp+1])<<16 | uint32(src[rp+2])<<8 | uint32(src[rp+3])
	rp += 4

	if ndim == 0 {
		return []any{}, nil
	}
	if ndim != 1 {
		return nil, fmt.Errorf("pgtype: multi-dimensional arrays are not supported (ndim=%d)", ndim)
	}

	nelems := int32(uint32(src[rp])<<24 | uint32(src[rp+1])<<16 | uint32(src[rp+2])<<8 | uint32(src[rp+3]))
	rp += 4
	rp += 4 // lower bound

	values := make([]any, nelems)
	for i := int32(0); i < nelems; i++ {
		if len(src[rp:]) < 4 {
			return nil, fmt.Errorf("pgtype: truncated array element header")
		}
		elemLen := int32(uint32(src[rp])<<24 | uint32(src[rp+1])<<16 | uint32(src[rp+2])<<8 | uint32(src[rp+3]))
		rp += 4
		if elemLen == -1 {
			values[i] = nil
			continue
		}
		if len(src[rp:]) < int(elemLen) {
			return nil, fmt.Errorf("pgtype: truncated array element body")
		}
		v, err := m.Decode(elemOID, src[rp:rp+int(elemLen)])
		if err != nil {
			return nil, err
		}
		values[i] = v
		rp += int(elemLen)
	}

	return values, nil
}
