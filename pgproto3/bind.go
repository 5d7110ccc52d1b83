package pgproto3

import (
	"bytes"
	"encoding/binary"

	"github.com/ashtum/asiofied-libpq/internal/pgio"
)

// Bind binds parameter values to the unnamed portal for a previously
// parsed statement. The core always sends binary format codes for both
// parameters and results (format code 1), per the wire-format invariant
// that all parameters are transmitted in binary.
type Bind struct {
	DestinationPortal    string
	PreparedStatement    string
	ParameterFormatCodes []int16
	Parameters           [][]byte
	ResultFormatCodes    []int16
}

func (*Bind) Frontend() {}

func (dst *Bind) Decode(src []byte) error {
	*dst = Bind{}

	idx := bytes.IndexByte(src, 0)
	if idx < 0 {
		return &invalidMessageFormatErr{messageType: "Bind"}
	}
	dst.DestinationPortal = string(src[:idx])
	rp := idx + 1

	idx = bytes.IndexByte(src[rp:], 0)
	if idx < 0 {
		return &invalidMessageFormatErr{messageType: "Bind"}
	}
	dst.PreparedStatement = string(src[rp : rp+idx])
	rp += idx + 1

	if len(src[rp:]) < 2 {
		return &invalidMessageFormatErr{messageType: "Bind"}
	}
	paramFormatCount := int(binary.BigEndian.Uint16(src[rp:]))
	rp += 2

	dst.ParameterFormatCodes = make([]int16, paramFormatCount)
	for i := 0; i < paramFormatCount; i++ {
		if len(src[rp:]) < 2 {
			return &invalidMessageFormatErr{messageType: "Bind"}
		}
		dst.ParameterFormatCodes[i] = int16(binary.BigEndian.Uint16(src[rp:]))
		rp += 2
	}

	if len(src[rp:]) < 2 {
		return &invalidMessageFormatErr{messageType: "Bind"}
	}
	paramCount := int(binary.BigEndian.Uint16(src[rp:]))
	rp += 2

	dst.Parameters = make([][]byte, paramCount)
	for i := 0; i < paramCount; i++ {
		if len(src[rp:]) < 4 {
			return &invalidMessageFormatErr{messageType: "Bind"}
		}
		size := int(int32(binary.BigEndian.Uint32(src[rp:])))
		rp += 4

		if size == -1 {
			continue
		}
		if len(src[rp:]) < size {
			return &invalidMessageFormatErr{messageType: "Bind"}
		}
		dst.Parameters[i] = src[rp : rp+size]
		rp += size
	}

	if len(src[rp:]) < 2 {
		return &invalidMessageFormatErr{messageType: "Bind"}
	}
	resultFormatCount := int(binary.BigEndian.Uint16(src[rp:]))
	rp += 2

	dst.ResultFormatCodes = make([]int16, resultFormatCount)
	for i := 0; i < resultFormatCount; i++ {
		if len(src[rp:]) < 2 {
			return &invalidMessageFormatErr{messageType: "Bind"}
		}
		dst.ResultFormatCodes[i] = int16(binary.BigEndian.Uint16(src[rp:]))
		rp += 2
	}

	return nil
}

func (src *Bind) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'B')
	buf = append(buf, src.DestinationPortal...)
	buf = append(buf, 0)
	buf = append(buf, src.PreparedStatement...)
	buf = append(buf, 0)

	buf = pgio.AppendUint16(buf, uint16(len(src.ParameterFormatCodes)))
	for _, fc := range src.ParameterFormatCodes {
		buf = pgio.AppendInt16(buf, fc)
	}

	buf = pgio.AppendUint16(buf, uint16(len(src.Parameters)))
	for _, p := range src.Parameters {
		if p == nil {
			buf = pgio.AppendInt32(buf, -1)
			continue
		}
		buf = pgio.AppendInt32(buf, int32(len(p)))
		buf = append(buf, p...)
	}

	buf = pgio.AppendUint16(buf, uint16(len(src.ResultFormatCodes)))
	for _, fc := range src.ResultFormatCodes {
		buf = pgio.AppendInt16(buf, fc)
	}

	return finishMessage(buf, sp)
}
