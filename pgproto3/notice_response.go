package pgproto3

// NoticeResponse carries the same field set as ErrorResponse but does not
// terminate the command it accompanies (e.g. a NOTICE from a PL/pgSQL
// RAISE, or a warning about an implicit sequence creation).
type NoticeResponse ErrorResponse

func (*NoticeResponse) Backend() {}

func (dst *NoticeResponse) Decode(src []byte) error {
	return (*ErrorResponse)(dst).Decode(src)
}

func (src *NoticeResponse) Encode(dst []byte) ([]byte, error) {
	return (*ErrorResponse)(src).encode(dst, 'N')
}
