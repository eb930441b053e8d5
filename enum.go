// Package activeenum maps Go enumerations to the scalar values a relational
// database stores for them.
//
// An Enum is built once from a Definition, usually in a package-level var of
// generated code, and is read-only afterwards:
//
//	type Category int
//
//	const (
//		CategoryBig Category = iota
//		CategorySmall
//	)
//
//	var categoryEnum = activeenum.MustNew(activeenum.Definition[Category, string]{
//		Name:   "category",
//		Column: activeenum.MustParseColumnType("String(Some(1))"),
//		Variants: []activeenum.Variant[Category, string]{
//			{Variant: CategoryBig, Name: "Big", Value: "B"},
//			{Variant: CategorySmall, Name: "Small", Value: "S"},
//		},
//	})
//
// ToValue and TryFromValue convert in both directions; Values lists every
// representation in declaration order. Variants without an explicit Name get
// an identifier synthesized from their label (see Synthesize), and two
// variants that end up with the same identifier are rejected by New.
package activeenum

import (
	"fmt"
	"iter"
	"slices"

	"github.com/electwix/activeenum/internal/ident"
)

// Name is the database-facing name of an enum type.
type Name string

// String returns the name.
func (n Name) String() string {
	return string(n)
}

// Variant declares one member of an enum.
type Variant[E comparable, R Representation] struct {
	// Variant is the Go value of the member.
	Variant E
	// Name is the symbolic name of the member. When empty, one is
	// synthesized from Label, or from Value for string enums.
	Name string
	// Value is the persisted representation.
	Value R
	// Label is an optional display string.
	Label string
}

// Definition is the declarative input of New.
type Definition[E comparable, R Representation] struct {
	// Name is the enum name used in the database and in error messages.
	Name string
	// Ident is the Go type identifier. It defaults to Synthesize(Name).
	Ident string
	// Column describes the storage type. The zero value selects a varchar
	// column for string enums and the matching integer column otherwise.
	Column ColumnDef
	// Variants lists the members in declaration order.
	Variants []Variant[E, R]
}

// Enum is the codec of one enum type. It is safe for concurrent use.
type Enum[E comparable, R Representation] struct {
	name      Name
	typeIdent string
	kind      Kind
	column    ColumnDef

	variants []E
	values   []R
	idents   []string
	labels   []string

	byVariant map[E]int
	byValue   map[R]int
}

// New validates def and builds its codec.
func New[E comparable, R Representation](def Definition[E, R]) (*Enum[E, R], error) {
	name := Name(def.Name)
	if def.Name == "" {
		return nil, &DefinitionError{Reason: "missing enum name"}
	}
	if len(def.Variants) == 0 {
		return nil, &DefinitionError{Enum: name, Reason: "no variants"}
	}
	e := &Enum[E, R]{
		name:      name,
		typeIdent: def.Ident,
		kind:      KindOf[R](),
		variants:  make([]E, 0, len(def.Variants)),
		values:    make([]R, 0, len(def.Variants)),
		idents:    make([]string, 0, len(def.Variants)),
		labels:    make([]string, 0, len(def.Variants)),
		byVariant: make(map[E]int, len(def.Variants)),
		byValue:   make(map[R]int, len(def.Variants)),
	}
	if e.typeIdent == "" {
		e.typeIdent = ident.Synthesize(def.Name)
	} else if !ident.IsIdentifier(e.typeIdent) {
		return nil, &DefinitionError{Enum: name, Reason: fmt.Sprintf("type identifier %q is not a valid identifier", e.typeIdent)}
	}

	claimed := ident.NewSet()
	for i, v := range def.Variants {
		if _, dup := e.byVariant[v.Variant]; dup {
			return nil, &DefinitionError{Enum: name, Reason: fmt.Sprintf("variant %v declared twice", v.Variant)}
		}
		if j, dup := e.byValue[v.Value]; dup {
			return nil, &DefinitionError{Enum: name, Reason: fmt.Sprintf("value %q shared by variants %d and %d", formatValue(v.Value), j, i)}
		}
		raw, id := variantIdent(v)
		if v.Name != "" && !ident.IsIdentifier(v.Name) {
			return nil, &DefinitionError{Enum: name, Reason: fmt.Sprintf("variant name %q is not a valid identifier", v.Name)}
		}
		if prev, ok := claimed.Claim(id, raw); !ok {
			return nil, &DuplicateIdentifierError{Enum: name, Ident: id, First: prev, Second: raw}
		}
		e.byVariant[v.Variant] = i
		e.byValue[v.Value] = i
		e.variants = append(e.variants, v.Variant)
		e.values = append(e.values, v.Value)
		e.idents = append(e.idents, id)
		e.labels = append(e.labels, variantLabel(v, id))
	}

	var enumValues []string
	if e.kind == KindString {
		enumValues = make([]string, len(e.values))
		for i, v := range e.values {
			enumValues[i] = formatValue(v)
		}
	}
	column, err := def.Column.resolve(name, e.kind, enumValues)
	if err != nil {
		return nil, &DefinitionError{Enum: name, Reason: err.Error()}
	}
	e.column = column
	return e, nil
}

// MustNew is like New but panics if the definition is invalid.
func MustNew[E comparable, R Representation](def Definition[E, R]) *Enum[E, R] {
	e, err := New(def)
	if err != nil {
		panic(err)
	}
	return e
}

// variantIdent returns the label an identifier is derived from and the
// identifier itself.
func variantIdent[E comparable, R Representation](v Variant[E, R]) (raw, id string) {
	switch {
	case v.Name != "":
		return v.Name, v.Name
	case v.Label != "":
		return v.Label, ident.Synthesize(v.Label)
	default:
		raw = formatValue(v.Value)
		return raw, ident.Synthesize(raw)
	}
}

func variantLabel[E comparable, R Representation](v Variant[E, R], id string) string {
	if v.Label != "" {
		return v.Label
	}
	if s, ok := any(v.Value).(string); ok {
		return s
	}
	return id
}

// Name returns the database name of the enum.
func (e *Enum[E, R]) Name() Name {
	return e.name
}

// TypeIdent returns the identifier naming the enum type.
func (e *Enum[E, R]) TypeIdent() string {
	return e.typeIdent
}

// Kind returns the representation kind.
func (e *Enum[E, R]) Kind() Kind {
	return e.kind
}

// DBType returns the column definition of the enum.
func (e *Enum[E, R]) DBType() ColumnDef {
	c := e.column
	c.typ = cloneType(c.typ)
	return c
}

// Len returns the number of variants.
func (e *Enum[E, R]) Len() int {
	return len(e.variants)
}

// Lookup returns the representation of v and whether v is a declared variant.
func (e *Enum[E, R]) Lookup(v E) (R, bool) {
	i, ok := e.byVariant[v]
	if !ok {
		var zero R
		return zero, false
	}
	return e.values[i], true
}

// ToValue returns the representation of v. It panics if v is not a declared
// variant, which can only happen through an unchecked conversion.
func (e *Enum[E, R]) ToValue(v E) R {
	return e.values[e.index(v)]
}

// IntoValue is ToValue for callers that hand the variant over.
func (e *Enum[E, R]) IntoValue(v E) R {
	return e.ToValue(v)
}

// TryFromValue returns the variant represented by r.
func (e *Enum[E, R]) TryFromValue(r R) (E, error) {
	i, ok := e.byValue[r]
	if !ok {
		var zero E
		return zero, &TypeMismatchError{Enum: e.name, Value: r}
	}
	return e.variants[i], nil
}

// Values returns every representation in declaration order.
func (e *Enum[E, R]) Values() []R {
	return slices.Clone(e.values)
}

// Variants returns every variant in declaration order.
func (e *Enum[E, R]) Variants() []E {
	return slices.Clone(e.variants)
}

// All iterates over variants and their representations in declaration order.
func (e *Enum[E, R]) All() iter.Seq2[E, R] {
	return func(yield func(E, R) bool) {
		for i, v := range e.variants {
			if !yield(v, e.values[i]) {
				return
			}
		}
	}
}

// Ident returns the identifier of v.
func (e *Enum[E, R]) Ident(v E) string {
	return e.idents[e.index(v)]
}

// Idents returns the variant identifiers in declaration order.
func (e *Enum[E, R]) Idents() []string {
	return slices.Clone(e.idents)
}

// Label returns the display string of v: its explicit label, else its string
// representation, else its identifier.
func (e *Enum[E, R]) Label(v E) string {
	i, ok := e.byVariant[v]
	if !ok {
		return fmt.Sprintf("%s(%v)", e.typeIdent, v)
	}
	return e.labels[i]
}

// Labels returns the display strings in declaration order.
func (e *Enum[E, R]) Labels() []string {
	return slices.Clone(e.labels)
}

// AsEnum wraps the representation of v in a cast to the enum type.
func (e *Enum[E, R]) AsEnum(v E) CastExpr {
	return CastExpr{Value: e.ToValue(v), Type: e.name}
}

func (e *Enum[E, R]) index(v E) int {
	i, ok := e.byVariant[v]
	if !ok {
		panic(fmt.Sprintf("activeenum: %v is not a variant of %s enum", v, e.name))
	}
	return i
}
