package pgtype

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

// CompositeField is one attribute of a registered composite type, in
// catalog (attnum) order — the order PostgreSQL sends and expects field
// values on the wire.
type CompositeField struct {
	Name string
	OID  OID
}

// CompositeCodec (de)serializes a user-defined composite (row) type,
// for registration via Map.RegisterType against the OID a
// "select oid from pg_type where typname = ...'" catalog lookup
// returns. If GoType is set, Decode populates a new value of that
// struct type by matching composite field names to exported struct
// field names case-insensitively; otherwise it returns a
// map[string]any. Encode accepts either form as input.
type CompositeCodec struct {
	Fields []CompositeField
	GoType reflect.Type
}

func (c CompositeCodec) Encode(m *Map, oid OID, value any, buf []byte) ([]byte, error) {
	get, err := compositeFieldGetter(value)
	if err != nil {
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}

	buf = pgio.AppendInt32(buf, int32(len(c.Fields)))
	for _, f := range c.Fields {
		fv, ok := get(f.Name)
		if !ok || fv == nil {
			buf = pgio.AppendUint32(buf, f.OID)
			buf = pgio.AppendInt32(buf, -1)
			continue
		}

		buf = pgio.AppendUint32(buf, f.OID)
		lenPos := len(buf)
		buf = pgio.AppendInt32(buf, 0)
		buf, err = m.Encode(f.OID, fv, buf)
		if err != nil {
			return nil, fmt.Errorf("pgtype: encoding composite field %q: %w", f.Name, err)
		}
		pgio.SetInt32(buf[lenPos:lenPos+4], int32(len(buf)-lenPos-4))
	}

	return buf, nil
}

func compositeFieldGetter(value any) (func(name string) (any, bool), error) {
	switch v := value.(type) {
	case map[string]any:
		return func(name string) (any, bool) {
			fv, ok := v[name]
			return fv, ok
		}, nil
	default:
		rv := reflect.ValueOf(value)
		for rv.Kind() == reflect.Ptr {
			if rv.IsNil() {
				return nil, fmt.Errorf("nil pointer")
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return nil, fmt.Errorf("unsupported composite value type %T", value)
		}
		return func(name string) (any, bool) {
			f := rv.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, name) })
			if !f.IsValid() {
				return nil, false
			}
			return f.Interface(), true
		}, nil
	}
}

func (c CompositeCodec) Decode(m *Map, _ OID, src []byte) (any, error) {
	if len(src) < 4 {
		return nil, fmt.Errorf("pgtype: invalid length %d for composite", len(src))
	}
	nfields := int32(uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3]))
	rp := 4

	var rv reflect.Value
	if c.GoType != nil {
		rv = reflect.New(c.GoType).Elem()
	}

	values := make(map[string]any, nfields)

	for i := int32(0); i < nfields; i++ {
		if len(src[rp:]) < 8 {
			return nil, fmt.Errorf("pgtype: truncated composite field header")
		}
		fieldOID := uint32(src[rp])<<24 | uint32(src[rp+1])<<16 | uint32(src[rp+2])<<8 | uint32(src[rp+3])
		rp += 4
		fieldLen := int32(uint32(src[rp])<<24 | uint32(src[rp+1])<<16 | uint32(src[rp+2])<<8 | uint32(src[rp+3]))
		rp += 4

		name := ""
		if int(i) < len(c.Fields) {
			name = c.Fields[i].Name
		}

		if fieldLen == -1 {
			values[name] = nil
			continue
		}
		if len(src[rp:]) < int(fieldLen) {
			return nil, fmt.Errorf("pgtype: truncated composite field body")
		}
		v, err := m.Decode(fieldOID, src[rp:rp+int(fieldLen)])
		if err != nil {
			return nil, err
		}
		values[name] = v
		rp += int(fieldLen)

		if rv.IsValid() && name != "" {
			f := rv.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, name) })
			if f.IsValid() && f.CanSet() && v != nil {
				vv := reflect.ValueOf(v)
				if vv.Type().AssignableTo(f.Type()) {
					f.Set(vv)
				}
			}
		}
	}

	if rv.IsValid() {
		return rv.Interface(), nil
	}
	return values, nil
}
