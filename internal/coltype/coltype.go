// Package coltype parses column type expressions such as "String(Some(1))",
// "Enum" or "TinyUnsigned" into atlas schema types.
package coltype

import (
	"fmt"
	"strconv"
	"strings"

	"ariga.io/atlas/sql/schema"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes column type expressions.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[(),:]`},
})

// Expr is a parsed column type expression.
//
//nolint:govet // Participle struct tags are DSL, not reflect tags
type Expr struct {
	Name string `@Ident`
	Arg  *Arg   `("(" @@ ")")?`
}

// Arg is the optional length argument of a column type.
//
//nolint:govet // Participle struct tags are DSL, not reflect tags
type Arg struct {
	None bool    `  @"None"`
	Some *string `| "Some" "(" @Number ")"`
	Len  *string `| ( "StringLen" ":" ":" "N" "(" @Number ")" | @Number )`
}

var parser = participle.MustBuild[Expr](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Family groups column types by the representation they can store.
type Family int

const (
	// FamilyString columns store character sequences.
	FamilyString Family = iota + 1
	// FamilyInteger columns store integers.
	FamilyInteger
	// FamilyEnum columns are native enum types whose values are the variant strings.
	FamilyEnum
)

// Parsed is the result of Parse.
type Parsed struct {
	Family Family
	Type   schema.Type
	Raw    string
}

// Parse parses src into an atlas schema type.
func Parse(src string) (Parsed, error) {
	src = strings.TrimSpace(src)
	expr, err := parser.ParseString("", src)
	if err != nil {
		return Parsed{}, fmt.Errorf("parse column type %q: %w", src, err)
	}
	size, err := expr.size()
	if err != nil {
		return Parsed{}, fmt.Errorf("parse column type %q: %w", src, err)
	}
	p := Parsed{Raw: src}
	switch strings.ToLower(expr.Name) {
	case "char":
		if size == 0 {
			size = 1
		}
		p.Family, p.Type = FamilyString, &schema.StringType{T: "char", Size: size}
	case "string", "varchar":
		p.Family, p.Type = FamilyString, &schema.StringType{T: "varchar", Size: size}
	case "text":
		p.Family, p.Type = FamilyString, &schema.StringType{T: "text"}
	case "enum":
		p.Family, p.Type = FamilyEnum, &schema.EnumType{}
	case "tinyinteger":
		p.Family, p.Type = FamilyInteger, &schema.IntegerType{T: "tinyint"}
	case "smallinteger":
		p.Family, p.Type = FamilyInteger, &schema.IntegerType{T: "smallint"}
	case "integer":
		p.Family, p.Type = FamilyInteger, &schema.IntegerType{T: "integer"}
	case "biginteger":
		p.Family, p.Type = FamilyInteger, &schema.IntegerType{T: "bigint"}
	case "tinyunsigned":
		p.Family, p.Type = FamilyInteger, &schema.IntegerType{T: "tinyint", Unsigned: true}
	case "smallunsigned":
		p.Family, p.Type = FamilyInteger, &schema.IntegerType{T: "smallint", Unsigned: true}
	case "unsigned":
		p.Family, p.Type = FamilyInteger, &schema.IntegerType{T: "integer", Unsigned: true}
	case "bigunsigned":
		p.Family, p.Type = FamilyInteger, &schema.IntegerType{T: "bigint", Unsigned: true}
	default:
		return Parsed{}, fmt.Errorf("parse column type %q: unknown type %s", src, expr.Name)
	}
	if size != 0 && p.Family != FamilyString {
		return Parsed{}, fmt.Errorf("parse column type %q: %s does not take a length", src, expr.Name)
	}
	return p, nil
}

func (e *Expr) size() (int, error) {
	if e.Arg == nil || e.Arg.None {
		return 0, nil
	}
	raw := e.Arg.Len
	if e.Arg.Some != nil {
		raw = e.Arg.Some
	}
	if raw == nil {
		return 0, nil
	}
	n, err := strconv.Atoi(*raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("length must be positive, got %d", n)
	}
	return n, nil
}
