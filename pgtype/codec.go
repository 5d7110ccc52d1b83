package pgtype

import "fmt"

// Codec knows how to turn one Go representation of a column's value into
// PostgreSQL's binary wire format and back. A Codec is registered against
// one or more OIDs in a Map; composite and array codecs call back into
// the Map to encode/decode their elements so that a single registration
// transparently supports "array of this type" and "field of this type
// inside a composite" for free.
type Codec interface {
	// Encode appends the binary representation of value to buf and
	// returns the extended slice.
	Encode(m *Map, oid OID, value any, buf []byte) ([]byte, error)

	// Decode parses src into the codec's natural Go representation.
	// src is never nil; SQL NULL is handled by the caller before Decode
	// is invoked.
	Decode(m *Map, oid OID, src []byte) (any, error)
}

// UnsupportedValueError is returned by a Codec when it is asked to
// encode a Go value it does not know how to represent.
type UnsupportedValueError struct {
	OID   OID
	Value any
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("cannot encode %T as OID %d", e.Value, e.OID)
}
