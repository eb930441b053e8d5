package activeenum

import "github.com/electwix/activeenum/internal/ident"

// Synthesize derives a Pascal-case identifier from an arbitrary label.
// Characters that cannot appear in an identifier are escaped as "0x" followed
// by their uppercase hexadecimal code point, and a leading non-letter is
// prefixed with an underscore. The empty label maps to "__Empty".
//
//	Synthesize("Big")   == "Big"
//	Synthesize("A$B")   == "A0x24B"
//	Synthesize("0 123") == "_0x300x20123"
func Synthesize(label string) string {
	return ident.Synthesize(label)
}

// IsIdentifier reports whether s can be used as a variant name as is.
func IsIdentifier(s string) bool {
	return ident.IsIdentifier(s)
}
