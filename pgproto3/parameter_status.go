package pgproto3

import "bytes"

// ParameterStatus reports the value of a run-time server parameter
// (e.g. server_version, TimeZone) either at startup or whenever it
// changes.
type ParameterStatus struct {
	Name  string
	Value string
}

func (*ParameterStatus) Backend() {}

func (dst *ParameterStatus) Decode(src []byte) error {
	idx := bytes.IndexByte(src, 0)
	if idx < 0 {
		return &invalidMessageFormatErr{messageType: "ParameterStatus"}
	}
	dst.Name = string(src[:idx])
	rest := src[idx+1:]

	idx = bytes.IndexByte(rest, 0)
	if idx < 0 {
		return &invalidMessageFormatErr{messageType: "ParameterStatus"}
	}
	dst.Value = string(rest[:idx])

	return nil
}

func (src *ParameterStatus) Encode(dst []byte) ([]byte, error) {
	buf, sp := beginMessage(dst, 'S')
	buf = append(buf, src.Name...)
	buf = append(buf, 0)
	buf = append(buf, src.Value...)
	buf = append(buf, 0)
	return finishMessage(buf, sp)
}
