package pgproto3

import "bytes"

// ErrorResponse is an ErrorResponse or NoticeResponse field tag, per the
// protocol's single-byte-keyed field list (no nul-terminator between
// the tag and its value, only at the value's end).
const (
	errFieldSeverity       = 'S'
	errFieldSeverityNotLoc = 'V'
	errFieldCode           = 'C'
	errFieldMessage        = 'M'
	errFieldDetail         = 'D'
	errFieldHint           = 'H'
	errFieldPosition       = 'P'
	errFieldInternalPos    = 'p'
	errFieldInternalQuery  = 'q'
	errFieldWhere          = 'W'
	errFieldSchemaName     = 's'
	errFieldTableName      = 't'
	errFieldColumnName     = 'c'
	errFieldDataTypeName   = 'd'
	errFieldConstraintName = 'n'
	errFieldFile           = 'F'
	errFieldLine           = 'L'
	errFieldRoutine        = 'R'
)

// ErrorResponse reports a fatal condition for the current command or
// connection. Field meanings follow the SQLSTATE error fields in the
// PostgreSQL protocol; ParseConfig-level callers surface this as a
// *PgError.
type ErrorResponse struct {
	Severity         string
	SeverityUnlocalized string
	Code             string
	Message          string
	Detail           string
	Hint             string
	Position         int32
	InternalPosition int32
	InternalQuery    string
	Where            string
	SchemaName       string
	TableName        string
	ColumnName       string
	DataTypeName     string
	ConstraintName   string
	File             string
	Line             int32
	Routine          string

	UnknownFields map[byte]string
}

func (*ErrorResponse) Backend() {}

func (dst *ErrorResponse) Decode(src []byte) error {
	*dst = ErrorResponse{}

	for len(src) > 1 {
		fieldType := src[0]
		idx := bytes.IndexByte(src[1:], 0)
		if idx < 0 {
			return &invalidMessageFormatErr{messageType: "ErrorResponse"}
		}
		value := string(src[1 : 1+idx])
		src = src[idx+2:]

		switch fieldType {
		case errFieldSeverity:
			dst.Severity = value
		case errFieldSeverityNotLoc:
			dst.SeverityUnlocalized = value
		case errFieldCode:
			dst.Code = value
		case errFieldMessage:
			dst.Message = value
		case errFieldDetail:
			dst.Detail = value
		case errFieldHint:
			dst.Hint = value
		case errFieldPosition:
			dst.Position = decodeErrInt32(value)
		case errFieldInternalPos:
			dst.InternalPosition = decodeErrInt32(value)
		case errFieldInternalQuery:
			dst.InternalQuery = value
		case errFieldWhere:
			dst.Where = value
		case errFieldSchemaName:
			dst.SchemaName = value
		case errFieldTableName:
			dst.TableName = value
		case errFieldColumnName:
			dst.ColumnName = value
		case errFieldDataTypeName:
			dst.DataTypeName = value
		case errFieldConstraintName:
			dst.ConstraintName = value
		case errFieldFile:
			dst.File = value
		case errFieldLine:
			dst.Line = decodeErrInt32(value)
		case errFieldRoutine:
			dst.Routine = value
		default:
			if dst.UnknownFields == nil {
				dst.UnknownFields = make(map[byte]string)
			}
			dst.UnknownFields[fieldType] = value
		}
	}

	return nil
}

func decodeErrInt32(s string) int32 {
	var n int32
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int32(r-'0')
	}
	return n
}

func (src *ErrorResponse) Encode(dst []byte) ([]byte, error) {
	return src.encode(dst, 'E')
}

func (src *ErrorResponse) encode(dst []byte, tag byte) ([]byte, error) {
	buf, sp := beginMessage(dst, tag)

	buf = appendErrField(buf, errFieldSeverity, src.Severity)
	buf = appendErrField(buf, errFieldSeverityNotLoc, src.SeverityUnlocalized)
	buf = appendErrField(buf, errFieldCode, src.Code)
	buf = appendErrField(buf, errFieldMessage, src.Message)
	buf = appendErrField(buf, errFieldDetail, src.Detail)
	buf = appendErrField(buf, errFieldHint, src.Hint)
	buf = appendErrIntField(buf, errFieldPosition, src.Position)
	buf = appendErrIntField(buf, errFieldInternalPos, src.InternalPosition)
	buf = appendErrField(buf, errFieldInternalQuery, src.InternalQuery)
	buf = appendErrField(buf, errFieldWhere, src.Where)
	buf = appendErrField(buf, errFieldSchemaName, src.SchemaName)
	buf = appendErrField(buf, errFieldTableName, src.TableName)
	buf = appendErrField(buf, errFieldColumnName, src.ColumnName)
	buf = appendErrField(buf, errFieldDataTypeName, src.DataTypeName)
	buf = appendErrField(buf, errFieldConstraintName, src.ConstraintName)
	buf = appendErrField(buf, errFieldFile, src.File)
	buf = appendErrIntField(buf, errFieldLine, src.Line)
	buf = appendErrField(buf, errFieldRoutine, src.Routine)

	for k, v := range src.UnknownFields {
		buf = appendErrField(buf, k, v)
	}

	buf = append(buf, 0)
	return finishMessage(buf, sp)
}

func appendErrField(buf []byte, fieldType byte, value string) []byte {
	if value == "" {
		return buf
	}
	buf = append(buf, fieldType)
	buf = append(buf, value...)
	buf = append(buf, 0)
	return buf
}

func appendErrIntField(buf []byte, fieldType byte, value int32) []byte {
	if value == 0 {
		return buf
	}
	return appendErrField(buf, fieldType, itoa(value))
}

func itoa(n int32) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b [11]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}
