package pgtype

// Params holds one statement's bound parameter values, already resolved
// to wire-ready OIDs and binary-encoded bytes. Each parameter's encoded
// form lives in its own independently allocated []byte — the C client
// this package descends from rebased pointers into one growable buffer,
// a trick that only pays off when you're managing memory by hand; here
// the garbage collector makes per-parameter allocation the simpler and
// equally cheap choice.
type Params struct {
	OIDs   []OID
	Values [][]byte
}

// Build resolves and encodes each value in values against m, using hint
// (same length as values; a zero entry lets the value's Go type decide
// its own OID) to steer OID resolution. A nil value encodes as SQL NULL.
func (m *Map) Build(values []any, hints []OID) (*Params, error) {
	p := &Params{
		OIDs:   make([]OID, len(values)),
		Values: make([][]byte, len(values)),
	}

	for i, v := range values {
		var hint OID
		if i < len(hints) {
			hint = hints[i]
		}

		if v == nil {
			if hint == 0 {
				return nil, &UnsupportedValueError{Value: v}
			}
			p.OIDs[i] = hint
			p.Values[i] = nil
			continue
		}

		oid, err := m.OIDFor(v, hint)
		if err != nil {
			return nil, err
		}
		p.OIDs[i] = oid

		buf, err := m.Encode(oid, v, make([]byte, 0, 32))
		if err != nil {
			return nil, err
		}
		p.Values[i] = buf
	}

	return p, nil
}

// FormatCodes returns one binary (1) format code per parameter — every
// parameter this client sends is binary, never text.
func (p *Params) FormatCodes() []int16 {
	codes := make([]int16, len(p.Values))
	for i := range codes {
		codes[i] = 1
	}
	return codes
}
