package pgflow

import (
	"context"
	"fmt"
	"reflect"

	"github.com/ashtum/asiofied-libpq/pgtype"
)

// CompositeNamer is implemented by a Go struct type that stands for a
// PostgreSQL composite (row) type whose OID is only known at runtime.
// Passing a value of such a type as a statement parameter before its
// type has been registered triggers a one-time catalog lookup that
// resolves its OID and field layout and registers it on the
// connection's type map (see resolveNewTypes), the way the teacher's own
// pgtype package expects composite registration to be bootstrapped from
// a "select oid from pg_type where typname = ..." query.
type CompositeNamer interface {
	// PGTypeName returns the composite type's name as it appears in
	// pg_type.typname.
	PGTypeName() string
}

// resolveNewTypes walks every argument of every statement in stmts,
// finds any composite Go types not yet registered on conn's type map,
// and — for those that implement CompositeNamer — resolves and
// registers them via a catalog lookup before the caller's statements are
// ever submitted. A type with no CompositeNamer is left unregistered;
// conn.typeMap.Build will fail it later with a clear error once
// OIDFor/Encode actually needs its OID.
func (c *Conn) resolveNewTypes(ctx context.Context, stmts []Statement) error {
	pending := map[string]reflect.Type{}

	for _, stmt := range stmts {
		for _, arg := range stmt.Args {
			for _, t := range c.typeMap.ExtractNewTypes(arg) {
				name, ok := compositeNameOf(t)
				if !ok {
					continue
				}
				pending[name] = t
			}
		}
	}

	for name, t := range pending {
		oid, fields, err := c.lookupCompositeType(ctx, name)
		if err != nil {
			return &submissionError{msg: fmt.Sprintf("resolving composite type %q", name), err: err}
		}
		c.typeMap.RegisterType(&pgtype.TypeInfo{Name: name, OID: oid, Codec: pgtype.CompositeCodec{Fields: fields, GoType: t}}, t)
	}

	return nil
}

// compositeNameOf reports the PostgreSQL type name a Go struct type
// advertises via CompositeNamer, trying both value and pointer receiver
// since either is a legal way to implement the interface.
func compositeNameOf(t reflect.Type) (string, bool) {
	if namer, ok := reflect.New(t).Elem().Interface().(CompositeNamer); ok {
		return namer.PGTypeName(), true
	}
	if namer, ok := reflect.New(t).Interface().(CompositeNamer); ok {
		return namer.PGTypeName(), true
	}
	return "", false
}

// lookupCompositeType queries the server's catalog for a composite
// type's OID and ordered field list, the runtime-resolution round trip
// spec.md's exec contract requires before a not-yet-registered
// composite's first use.
func (c *Conn) lookupCompositeType(ctx context.Context, name string) (pgtype.OID, []pgtype.CompositeField, error) {
	result, err := c.NewPipeline().Push(`
		select t.oid, a.attname, a.atttypid
		from pg_type t
		join pg_attribute a on a.attrelid = t.typrelid
		where t.typname = $1 and a.attnum > 0 and not a.attisdropped
		order by a.attnum`, name).Execute(ctx)
	if err != nil {
		return 0, nil, err
	}
	r := result[0]
	if r.Err() != nil {
		return 0, nil, r.Err()
	}

	var (
		oid    pgtype.OID
		fields []pgtype.CompositeField
	)
	for r.Next() {
		var (
			typOID   uint32
			attname  string
			attTypID uint32
		)
		if err := r.Scan(&typOID, &attname, &attTypID); err != nil {
			return 0, nil, err
		}
		oid = pgtype.OID(typOID)
		fields = append(fields, pgtype.CompositeField{Name: attname, OID: pgtype.OID(attTypID)})
	}
	if err := r.Err(); err != nil {
		return 0, nil, err
	}
	if len(fields) == 0 {
		return 0, nil, fmt.Errorf("pgflow: composite type %q not found in pg_type", name)
	}

	return oid, fields, nil
}
