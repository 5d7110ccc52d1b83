package pgtype

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// uuidCodec serializes a UUID as its raw 16 bytes, which is also how
// PostgreSQL represents it on the wire.
type uuidCodec struct{}

func (uuidCodec) Encode(_ *Map, oid OID, value any, buf []byte) ([]byte, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return append(buf, v.Bytes()...), nil
	case [16]byte:
		return append(buf, v[:]...), nil
	case string:
		u, err := uuid.FromString(v)
		if err != nil {
			return nil, fmt.Errorf("pgtype: invalid uuid string %q: %w", v, err)
		}
		return append(buf, u.Bytes()...), nil
	default:
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}
}

func (uuidCodec) Decode(_ *Map, _ OID, src []byte) (any, error) {
	if len(src) != 16 {
		return nil, fmt.Errorf("pgtype: invalid length %d for uuid", len(src))
	}
	u, err := uuid.FromBytes(src)
	if err != nil {
		return nil, err
	}
	return u, nil
}
