package pgflow

import (
	"fmt"
	"reflect"

	"github.com/ashtum/asiofied-libpq/pgproto3"
	"github.com/ashtum/asiofied-libpq/pgtype"
)

// Result is the outcome of one statement submitted through Exec or a
// Pipeline. It is populated by the connection's run-loop as messages
// for that statement arrive and is safe to read once the call that
// produced it (Exec, or Pipeline.Execute for all its members) returns.
type Result struct {
	conn *Conn

	fields     []pgproto3.FieldDescription
	rawRows    [][][]byte
	commandTag string
	err        error

	pos int
}

func newResult(conn *Conn) *Result {
	return &Result{conn: conn}
}

func (r *Result) handleRowDescription(m *pgproto3.RowDescription) {
	r.fields = append([]pgproto3.FieldDescription(nil), m.Fields...)
}

func (r *Result) handleDataRow(m *pgproto3.DataRow) {
	row := append([][]byte(nil), m.Values...)
	r.rawRows = append(r.rawRows, row)
}

func (r *Result) handleCommandComplete(m *pgproto3.CommandComplete) {
	r.commandTag = string(m.CommandTag)
}

func (r *Result) handleEmptyQueryResponse() {}

func (r *Result) handleError(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Result) done() {}

// Err returns the error the server or the connection reported for this
// statement, if any.
func (r *Result) Err() error { return r.err }

// CommandTag returns the server's completion tag, e.g. "SELECT 3" or
// "UPDATE 1". It is only meaningful once iteration has finished.
func (r *Result) CommandTag() string { return r.commandTag }

// FieldDescriptions returns the result set's column metadata. It is
// populated as soon as the server's RowDescription arrives, before
// Next is first called.
func (r *Result) FieldDescriptions() []pgproto3.FieldDescription { return r.fields }

// Next advances to the next row. It returns false once rows are
// exhausted or the statement errored; callers should check Err after
// Next returns false.
func (r *Result) Next() bool {
	if r.err != nil {
		return false
	}
	if r.pos >= len(r.rawRows) {
		return false
	}
	r.pos++
	return true
}

// RawValues returns the current row's column values in their raw wire
// encoding (always binary format), or nil before the first Next or
// after the last.
func (r *Result) RawValues() [][]byte {
	if r.pos == 0 || r.pos > len(r.rawRows) {
		return nil
	}
	return r.rawRows[r.pos-1]
}

// Values decodes the current row's columns into their default Go
// representation, using the connection's type map.
func (r *Result) Values() ([]any, error) {
	row := r.RawValues()
	if row == nil {
		return nil, fmt.Errorf("pgflow: Values called without a current row")
	}
	values := make([]any, len(row))
	for i, src := range row {
		if src == nil {
			continue
		}
		v, err := r.conn.typeMap.Decode(pgtype.OID(r.fields[i].DataTypeOID), src)
		if err != nil {
			return nil, fmt.Errorf("pgflow: decoding column %d (%s): %w", i, r.fields[i].Name, err)
		}
		values[i] = v
	}
	return values, nil
}

// Scan decodes the current row's columns into dst, in column order.
func (r *Result) Scan(dst ...any) error {
	row := r.RawValues()
	if row == nil {
		return fmt.Errorf("pgflow: Scan called without a current row")
	}
	if len(dst) != len(row) {
		return fmt.Errorf("pgflow: Scan got %d destinations for %d columns", len(dst), len(row))
	}
	for i, src := range row {
		if err := r.scanOne(i, src, dst[i]); err != nil {
			return fmt.Errorf("pgflow: scanning column %d (%s): %w", i, r.fields[i].Name, err)
		}
	}
	return nil
}

func (r *Result) scanOne(col int, src []byte, dst any) error {
	if src == nil {
		return assignNil(dst)
	}
	v, err := r.conn.typeMap.Decode(pgtype.OID(r.fields[col].DataTypeOID), src)
	if err != nil {
		return err
	}
	return assign(dst, v)
}

func assignNil(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan destination must be a non-nil pointer")
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Ptr && elem.Kind() != reflect.Slice && elem.Kind() != reflect.Map && elem.Kind() != reflect.Interface {
		return fmt.Errorf("cannot scan NULL into %s", elem.Type())
	}
	elem.Set(reflect.Zero(elem.Type()))
	return nil
}

func assign(dst any, v any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan destination must be a non-nil pointer")
	}
	elem := rv.Elem()
	vv := reflect.ValueOf(v)

	if elem.Kind() == reflect.Interface {
		elem.Set(vv)
		return nil
	}
	if vv.Type().AssignableTo(elem.Type()) {
		elem.Set(vv)
		return nil
	}
	if vv.Type().ConvertibleTo(elem.Type()) {
		elem.Set(vv.Convert(elem.Type()))
		return nil
	}
	return fmt.Errorf("cannot scan %s into %s", vv.Type(), elem.Type())
}

// CollectRows iterates r to exhaustion, calling fn for each row and
// collecting its results into a slice.
func CollectRows[T any](r *Result, fn func(*Result) (T, error)) ([]T, error) {
	var items []T
	for r.Next() {
		item, err := fn(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// RowToStructByPos scans the current row into a new T by positional
// order: T's exported fields, in declaration order, must match the
// row's columns one for one.
func RowToStructByPos[T any](r *Result) (T, error) {
	var v T
	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() != reflect.Struct {
		return v, fmt.Errorf("pgflow: RowToStructByPos requires a struct type, got %s", rv.Type())
	}

	dsts := make([]any, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		sf := rv.Type().Field(i)
		if sf.PkgPath != "" {
			continue
		}
		dsts = append(dsts, rv.Field(i).Addr().Interface())
	}

	return v, r.Scan(dsts...)
}

// RowToMap scans the current row into a map keyed by column name.
func RowToMap(r *Result) (map[string]any, error) {
	values, err := r.Values()
	if err != nil {
		return nil, err
	}
	m := make(map[string]any, len(values))
	for i, v := range values {
		m[r.fields[i].Name] = v
	}
	return m, nil
}
