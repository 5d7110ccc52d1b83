package pgtype

import (
	"reflect"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/gofrs/uuid"
)

var (
	boolType    = reflect.TypeOf(false)
	int2Type    = reflect.TypeOf(int16(0))
	int4Type    = reflect.TypeOf(int32(0))
	int8Type    = reflect.TypeOf(int64(0))
	float4Type  = reflect.TypeOf(float32(0))
	float8Type  = reflect.TypeOf(float64(0))
	stringType  = reflect.TypeOf("")
	byteaType   = reflect.TypeOf([]byte(nil))
	timeType    = reflect.TypeOf(time.Time{})
	numericType = reflect.TypeOf(apd.Decimal{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	oidType     = reflect.TypeOf(uint32(0))
)

func registerBuiltins(m *Map) {
	scalars := []struct {
		name     string
		oid      OID
		arrayOID OID
		codec    Codec
		goType   reflect.Type
	}{
		{"bool", BoolOID, BoolArrayOID, boolCodec{}, boolType},
		{"int2", Int2OID, Int2ArrayOID, int2Codec{}, int2Type},
		{"int4", Int4OID, Int4ArrayOID, int4Codec{}, int4Type},
		{"int8", Int8OID, Int8ArrayOID, int8Codec{}, int8Type},
		{"oid", OIDOID, OIDArrayOID, oidCodec{}, oidType},
		{"float4", Float4OID, Float4ArrayOID, float4Codec{}, float4Type},
		{"float8", Float8OID, Float8ArrayOID, float8Codec{}, float8Type},
		{"text", TextOID, TextArrayOID, textCodec{}, stringType},
		{"varchar", VarcharOID, VarcharArrayOID, textCodec{}, nil},
		{"bpchar", BPCharOID, 0, textCodec{}, nil},
		{"name", NameOID, 0, textCodec{}, nil},
		{"bytea", ByteaOID, ByteaArrayOID, byteaCodec{}, byteaType},
		{"timestamp", TimestampOID, TimestampArrayOID, timestampCodec{location: time.UTC}, nil},
		{"timestamptz", TimestamptzOID, TimestamptzArrayOID, timestampCodec{location: time.Local}, timeType},
		{"numeric", NumericOID, NumericArrayOID, numericCodec{}, numericType},
		{"uuid", UUIDOID, UUIDArrayOID, uuidCodec{}, uuidType},
	}

	for _, s := range scalars {
		ti := &TypeInfo{Name: s.name, OID: s.oid, ArrayOID: s.arrayOID, Codec: s.codec}
		m.register(ti, s.goType)

		if s.arrayOID != 0 {
			arrTI := &TypeInfo{
				Name: s.name + "[]",
				OID:  s.arrayOID,
				Codec: arrayCodec{elemOID: s.oid},
			}
			var sliceType reflect.Type
			if s.goType != nil {
				sliceType = reflect.SliceOf(s.goType)
			}
			m.register(arrTI, sliceType)
		}
	}
}
