// Package shopspring bridges the core numeric codec, which speaks
// apd.Decimal, to the more commonly used github.com/shopspring/decimal
// type. Importing it and calling Register lets callers bind and scan
// shopspring/decimal.Decimal values directly instead of converting
// through apd.Decimal themselves.
package shopspring

import (
	"fmt"
	"reflect"

	"github.com/cockroachdb/apd/v3"
	"github.com/shopspring/decimal"

	"github.com/ashtum/asiofied-libpq/pgtype"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

type numericCodec struct{}

func (numericCodec) Encode(_ *pgtype.Map, _ pgtype.OID, value any, buf []byte) ([]byte, error) {
	v, ok := value.(decimal.Decimal)
	if !ok {
		return nil, fmt.Errorf("shopspring: cannot encode %T as numeric", value)
	}

	var d apd.Decimal
	if _, _, err := d.SetString(v.String()); err != nil {
		return nil, fmt.Errorf("shopspring: converting %s to apd.Decimal: %w", v, err)
	}

	return pgtype.EncodeNumeric(d, buf)
}

func (numericCodec) Decode(_ *pgtype.Map, _ pgtype.OID, src []byte) (any, error) {
	d, err := pgtype.DecodeNumeric(src)
	if err != nil {
		return nil, err
	}

	v, err := decimal.NewFromString(d.Text('f'))
	if err != nil {
		return nil, fmt.Errorf("shopspring: converting %s to shopspring/decimal: %w", d.String(), err)
	}
	return v, nil
}

// Register replaces the numeric codec in m so that Encode/Decode work
// with shopspring/decimal.Decimal values instead of apd.Decimal.
func Register(m *pgtype.Map) {
	ti, ok := m.TypeForName("numeric")
	if !ok {
		return
	}
	m.RegisterType(&pgtype.TypeInfo{
		Name:     ti.Name,
		OID:      ti.OID,
		ArrayOID: ti.ArrayOID,
		Codec:    numericCodec{},
	}, decimalType)
}
