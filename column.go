package activeenum

import (
	"fmt"
	"slices"

	"ariga.io/atlas/sql/schema"

	"github.com/electwix/activeenum/internal/coltype"
)

// ColumnDef describes how an enum's representation is stored. It wraps an
// atlas column type and is immutable: accessors return copies.
type ColumnDef struct {
	family coltype.Family
	typ    schema.Type
	raw    string
	null   bool
}

// ParseColumnType parses a column type expression. Accepted forms are
// Char(n), String(None), String(Some(n)), String(n), Text, Enum,
// TinyInteger, SmallInteger, Integer, BigInteger, TinyUnsigned,
// SmallUnsigned, Unsigned and BigUnsigned.
func ParseColumnType(src string) (ColumnDef, error) {
	p, err := coltype.Parse(src)
	if err != nil {
		return ColumnDef{}, fmt.Errorf("activeenum: %w", err)
	}
	return ColumnDef{family: p.Family, typ: p.Type, raw: p.Raw}, nil
}

// MustParseColumnType is like ParseColumnType but panics on error.
func MustParseColumnType(src string) ColumnDef {
	c, err := ParseColumnType(src)
	if err != nil {
		panic(err)
	}
	return c
}

// StringColumn returns a varchar column; size 0 leaves the length unbounded.
func StringColumn(size int) ColumnDef {
	return ColumnDef{family: coltype.FamilyString, typ: &schema.StringType{T: "varchar", Size: size}}
}

// EnumColumn returns a native enum column. Its name and values are filled in
// from the enum definition it is attached to.
func EnumColumn() ColumnDef {
	return ColumnDef{family: coltype.FamilyEnum, typ: &schema.EnumType{}}
}

// IntegerColumn returns the integer column matching an integer kind.
func IntegerColumn(k Kind) ColumnDef {
	t := &schema.IntegerType{Unsigned: k.IsUnsigned()}
	switch k.bits() {
	case 8:
		t.T = "tinyint"
	case 16:
		t.T = "smallint"
	case 32:
		t.T = "integer"
	default:
		t.T = "bigint"
	}
	return ColumnDef{family: coltype.FamilyInteger, typ: t}
}

// Nullable returns a copy of c that accepts NULL.
func (c ColumnDef) Nullable() ColumnDef {
	c.typ = cloneType(c.typ)
	c.null = true
	return c
}

// IsZero reports whether c was never set.
func (c ColumnDef) IsZero() bool {
	return c.typ == nil
}

// IsEnum reports whether c is a native enum column.
func (c ColumnDef) IsEnum() bool {
	return c.family == coltype.FamilyEnum
}

// Raw returns the expression c was parsed from, if any.
func (c ColumnDef) Raw() string {
	return c.raw
}

// Type returns a copy of the underlying atlas type.
func (c ColumnDef) Type() schema.Type {
	return cloneType(c.typ)
}

// ColumnType returns the atlas column type, ready to be placed on a schema.Column.
func (c ColumnDef) ColumnType() *schema.ColumnType {
	return &schema.ColumnType{Type: cloneType(c.typ), Raw: c.raw, Null: c.null}
}

// String renders the column type for diagnostics.
func (c ColumnDef) String() string {
	switch t := c.typ.(type) {
	case *schema.StringType:
		if t.Size > 0 {
			return fmt.Sprintf("%s(%d)", t.T, t.Size)
		}
		return t.T
	case *schema.IntegerType:
		if t.Unsigned {
			return t.T + " unsigned"
		}
		return t.T
	case *schema.EnumType:
		return fmt.Sprintf("enum %s %q", t.T, t.Values)
	case nil:
		return "<nil>"
	}
	return fmt.Sprintf("%T", c.typ)
}

// resolve checks c against kind and completes native enum columns.
func (c ColumnDef) resolve(name Name, k Kind, values []string) (ColumnDef, error) {
	if c.IsZero() {
		if k == KindString {
			return StringColumn(0), nil
		}
		return IntegerColumn(k), nil
	}
	switch c.family {
	case coltype.FamilyEnum:
		if k != KindString {
			return ColumnDef{}, fmt.Errorf("native enum column needs string values, got %s", k)
		}
		c.typ = &schema.EnumType{T: string(name), Values: slices.Clone(values)}
		return c, nil
	case coltype.FamilyString:
		if k != KindString {
			return ColumnDef{}, fmt.Errorf("column %s cannot store %s values", c, k)
		}
	case coltype.FamilyInteger:
		if !k.IsInteger() {
			return ColumnDef{}, fmt.Errorf("column %s cannot store %s values", c, k)
		}
	}
	c.typ = cloneType(c.typ)
	return c, nil
}

func cloneType(t schema.Type) schema.Type {
	switch t := t.(type) {
	case *schema.StringType:
		cp := *t
		return &cp
	case *schema.IntegerType:
		cp := *t
		return &cp
	case *schema.EnumType:
		cp := *t
		cp.Values = slices.Clone(t.Values)
		return &cp
	}
	return t
}
