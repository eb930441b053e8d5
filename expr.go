package activeenum

import (
	"fmt"
	"strconv"

	"github.com/lib/pq"
)

// CastExpr is a literal representation paired with the enum type it must be
// cast to. Query builders render it with SQL.
type CastExpr struct {
	Value any
	Type  Name
}

// SQL renders the expression as a placeholder for dialect d and returns the
// argument it binds. pos is the 1-based argument position used by positional
// placeholders. On dialects with nominal enum types the placeholder is
// wrapped in an explicit cast.
func (c CastExpr) SQL(d Dialect, pos int) (string, []any) {
	ph := "?"
	if d == Postgres {
		ph = "$" + strconv.Itoa(pos)
	}
	if d.SupportsFeature(FeatureEnumTypes) {
		ph = "CAST(" + ph + " AS " + pq.QuoteIdentifier(string(c.Type)) + ")"
	}
	return ph, []any{c.Value}
}

// String renders the expression with the value inlined, for logs and tests.
func (c CastExpr) String() string {
	lit := fmt.Sprint(c.Value)
	if s, ok := c.Value.(string); ok {
		lit = pq.QuoteLiteral(s)
	}
	return "CAST(" + lit + " AS " + pq.QuoteIdentifier(string(c.Type)) + ")"
}
