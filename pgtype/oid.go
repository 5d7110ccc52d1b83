// Package pgtype implements the OID Map & Type Registry and the
// Serializer/Deserializer that turn Go values into PostgreSQL's binary
// wire format and back. It has no knowledge of sockets or pipelining;
// the connection engine calls into it once parameter values are ready to
// bind and once result bytes have arrived off the wire.
package pgtype

// OID is a PostgreSQL object identifier, used here to identify a column
// or parameter's wire type.
type OID = uint32

// Well-known built-in OIDs. These never need a catalog round trip;
// Map.OIDFor resolves them without touching the registered-type table.
const (
	BoolOID             OID = 16
	ByteaOID            OID = 17
	CharOID             OID = 18
	NameOID             OID = 19
	Int8OID             OID = 20
	Int2OID             OID = 21
	Int4OID             OID = 23
	TextOID             OID = 25
	OIDOID              OID = 26
	OIDArrayOID         OID = 1028
	JSONOID             OID = 114
	Float4OID           OID = 700
	Float8OID           OID = 701
	BoolArrayOID        OID = 1000
	ByteaArrayOID       OID = 1001
	Int2ArrayOID        OID = 1005
	Int4ArrayOID        OID = 1007
	TextArrayOID        OID = 1009
	Float4ArrayOID      OID = 1021
	Float8ArrayOID      OID = 1022
	Int8ArrayOID        OID = 1016
	VarcharOID          OID = 1043
	BPCharOID           OID = 1042
	VarcharArrayOID     OID = 1015
	DateOID             OID = 1082
	TimestampOID        OID = 1114
	TimestampArrayOID   OID = 1115
	TimestamptzOID      OID = 1184
	TimestamptzArrayOID OID = 1185
	NumericOID          OID = 1700
	NumericArrayOID     OID = 1231
	UUIDOID             OID = 2950
	UUIDArrayOID        OID = 2951
	JSONBOID            OID = 3802
)
