package pgtype

import (
	"fmt"
	"time"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

// pgEpoch is 2000-01-01 00:00:00 UTC, the zero point PostgreSQL measures
// timestamp and timestamptz values from, expressed as microseconds since
// the Unix epoch.
const pgEpochMicroseconds = 946684800000000

type timestampCodec struct {
	// location is applied on Decode when non-nil; timestamp (without
	// time zone) decodes in UTC, timestamptz decodes in the connection's
	// configured location.
	location *time.Location
}

func (c timestampCodec) Encode(_ *Map, oid OID, value any, buf []byte) ([]byte, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, &UnsupportedValueError{OID: oid, Value: value}
	}
	micros := t.Unix()*1000000 + int64(t.Nanosecond())/1000 - pgEpochMicroseconds
	return pgio.AppendInt64(buf, micros), nil
}

func (c timestampCodec) Decode(_ *Map, _ OID, src []byte) (any, error) {
	if len(src) != 8 {
		return nil, fmt.Errorf("pgtype: invalid length %d for timestamp", len(src))
	}
	var u uint64
	for _, b := range src {
		u = u<<8 | uint64(b)
	}
	micros := int64(u) + pgEpochMicroseconds
	loc := c.location
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(micros/1000000, (micros%1000000)*1000).In(loc), nil
}
