package pgtype

import (
	"fmt"
	"math/big"

	"github.com/cockroachdb/apd/v3"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

// PostgreSQL's numeric wire format groups decimal digits into base-10000
// ("NBASE") limbs, with weight giving the power-of-10000 place of the
// first limb and dscale the number of decimal digits after the point.
const (
	numericNBASEDigits = 4
	numericPosSign     = 0x0000
	numericNegSign     = 0x4000
	numericNaNSign     = 0xC000
)

type numericCodec struct{}

// EncodeNumeric appends d's binary numeric wire representation to buf.
// Exported so extension packages (e.g. ext/shopspring) can convert their
// own decimal type to apd.Decimal and reuse this encoding without
// reimplementing the NBASE grouping.
func EncodeNumeric(d apd.Decimal, buf []byte) ([]byte, error) {
	return numericCodec{}.Encode(nil, NumericOID, d, buf)
}

// DecodeNumeric parses src, the raw binary numeric column bytes, into an
// apd.Decimal.
func DecodeNumeric(src []byte) (apd.Decimal, error) {
	v, err := numericCodec{}.Decode(nil, NumericOID, src)
	if err != nil {
		return apd.Decimal{}, err
	}
	return v.(apd.Decimal), nil
}

func (numericCodec) Encode(_ *Map, oid OID, value any, buf []byte) ([]byte, error) {
	var d apd.Decimal
	switch v := value.(type) {
	case apd.Decimal:
		d = v
	case *apd.Decimal:
		d = *v
	case string:
		if _, _, err := d.SetString(v); err != nil {
			return nil, fmt.Errorf("pgtype: invalid numeric string %q: %w", v, err)
		}
	default:
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}

	if d.Form == apd.NaN || d.Form == apd.NaNSignaling {
		buf = pgio.AppendUint16(buf, 0)
		buf = pgio.AppendInt16(buf, 0)
		buf = pgio.AppendUint16(buf, numericNaNSign)
		buf = pgio.AppendUint16(buf, 0)
		return buf, nil
	}

	sign := uint16(numericPosSign)
	if d.Negative {
		sign = numericNegSign
	}

	digits := new(big.Int).Abs(d.Coeff.MathBigInt())
	digitStr := "0"
	if digits.Sign() != 0 {
		digitStr = digits.String()
	}
	exponent := int(d.Exponent)

	dscale := 0
	if exponent < 0 {
		dscale = -exponent
	}

	if digitStr == "0" {
		return appendNumericHeader(buf, nil, 0, sign, dscale), nil
	}

	// pointPos is how many of digitStr's characters fall left of the
	// decimal point, counting from the left; it can be negative
	// (leading fractional zeros) or exceed len(digitStr) (trailing
	// integer zeros).
	pointPos := len(digitStr) + exponent

	newPointPos := pointPos
	if m := newPointPos % numericNBASEDigits; m != 0 {
		if m < 0 {
			m += numericNBASEDigits
		}
		newPointPos += numericNBASEDigits - m
	}
	leadingZeros := newPointPos - pointPos
	digitStr = zeros(leadingZeros) + digitStr

	if m := len(digitStr) % numericNBASEDigits; m != 0 {
		digitStr += zeros(numericNBASEDigits - m)
	}

	weight := newPointPos/numericNBASEDigits - 1

	groups := make([]int16, len(digitStr)/numericNBASEDigits)
	for i := range groups {
		chunk := digitStr[i*numericNBASEDigits : (i+1)*numericNBASEDigits]
		var n int16
		for _, r := range chunk {
			n = n*10 + int16(r-'0')
		}
		groups[i] = n
	}

	return appendNumericHeader(buf, groups, weight, sign, dscale), nil
}

func zeros(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

func appendNumericHeader(buf []byte, groups []int16, weight int, sign uint16, dscale int) []byte {
	buf = pgio.AppendUint16(buf, uint16(len(groups)))
	buf = pgio.AppendInt16(buf, int16(weight))
	buf = pgio.AppendUint16(buf, sign)
	buf = pgio.AppendUint16(buf, uint16(dscale))
	for _, g := range groups {
		buf = pgio.AppendInt16(buf, g)
	}
	return buf
}

func (numericCodec) Decode(_ *Map, _ OID, src []byte) (any, error) {
	if len(src) < 8 {
		return nil, fmt.Errorf("pgtype: invalid length %d for numeric", len(src))
	}
	ndigits := int(uint16(src[0])<<8 | uint16(src[1]))
	weight := int(int16(uint16(src[2])<<8 | uint16(src[3])))
	sign := uint16(src[4])<<8 | uint16(src[5])
	dscale := int(uint16(src[6])<<8 | uint16(src[7]))

	if sign == numericNaNSign {
		var d apd.Decimal
		d.Form = apd.NaN
		return d, nil
	}

	if len(src) != 8+ndigits*2 {
		return nil, fmt.Errorf("pgtype: numeric length mismatch for %d digits", ndigits)
	}

	coeff := new(big.Int)
	rp := 8
	for i := 0; i < ndigits; i++ {
		g := int64(uint16(src[rp])<<8 | uint16(src[rp+1]))
		rp += 2
		coeff.Mul(coeff, big.NewInt(10000))
		coeff.Add(coeff, big.NewInt(g))
	}

	exponent := numericNBASEDigits * (weight - ndigits + 1)
	if ndigits == 0 {
		exponent = -dscale
	}

	var d apd.Decimal
	d.Coeff.SetMathBigInt(coeff)
	d.Exponent = int32(exponent)
	d.Negative = sign == numericNegSign
	return d, nil
}
