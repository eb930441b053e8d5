package ident

import (
	"strings"
	"unicode"
)

// Set tracks identifiers claimed within one namespace.
type Set struct {
	owners map[string]string
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{owners: make(map[string]string)}
}

// Claim records name as owned by label. When name is already taken it
// returns the label of the previous owner and false.
func (s *Set) Claim(name, label string) (string, bool) {
	if prev, taken := s.owners[name]; taken {
		return prev, false
	}
	s.owners[name] = label
	return "", true
}

// Len returns the number of claimed names.
func (s *Set) Len() int {
	return len(s.owners)
}

// FileName converts a type name into a snake_case file name segment.
func FileName(raw string) string {
	if raw == "" {
		return "enum"
	}
	runes := []rune(raw)
	var b strings.Builder
	b.Grow(len(runes) * 2)
	prevUnderscore := false
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) {
				if i > 0 && !prevUnderscore {
					b.WriteRune('_')
				}
				r = unicode.ToLower(r)
			}
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == '-' || r == ' ':
			if !prevUnderscore && b.Len() > 0 {
				b.WriteRune('_')
				prevUnderscore = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "enum"
	}
	return name
}

// Receiver returns a short receiver name for a type.
func Receiver(typeName string) string {
	for _, r := range typeName {
		if unicode.IsLetter(r) {
			return string(unicode.ToLower(r))
		}
	}
	return "v"
}
