// Package ident turns arbitrary labels into identifiers.
//
// Synthesize is total: every input, including the empty string and invalid
// UTF-8, maps to a name matching [A-Za-z_][A-Za-z0-9_]*. Characters that may
// not appear in an identifier are replaced by their code point written as
// 0x<hex>, and the result is Pascal-cased so variant names read naturally:
//
//	Synthesize("")      == "__Empty"
//	Synthesize("$")     == "_0x24"
//	Synthesize("A_B")   == "A0x5Fb"
//	Synthesize("0 123") == "_0x300x20123"
//
// The mapping is deterministic but not injective; labels that differ only in
// ASCII case can collide ("PopOs" and "PopOS" both give "PopOs"). Callers that
// name several things from one namespace should claim names through a Set.
package ident

import (
	"strconv"
	"strings"
)

// Empty is the identifier produced for the empty label. The double
// underscore keeps it apart from every single-character escape.
const Empty = "__Empty"

// Synthesize converts raw into a valid identifier.
func Synthesize(raw string) string {
	if raw == "" {
		return Empty
	}
	var b strings.Builder
	b.Grow(len(raw) * 2)
	first := true
	for _, r := range raw {
		if isLetter(r) || (!first && isDigit(r)) {
			b.WriteRune(r)
		} else {
			writeEscape(&b, r)
		}
		first = false
	}
	name := pascal(b.String())
	if !isLetter(rune(name[0])) {
		name = "_" + name
	}
	return name
}

// IsIdentifier reports whether s is a non-empty ASCII identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case isLetter(r), r == '_':
		case i > 0 && isDigit(r):
		default:
			return false
		}
	}
	return true
}

// Exported returns name unchanged when it starts with an upper-case letter and
// prefixes it with "X" otherwise.
func Exported(name string) string {
	if name == "" {
		return "X"
	}
	if c := name[0]; c >= 'A' && c <= 'Z' {
		return name
	}
	if c := name[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + name[1:]
	}
	return "X" + name
}

func writeEscape(b *strings.Builder, r rune) {
	b.WriteString("0x")
	b.WriteString(strings.ToUpper(strconv.FormatInt(int64(r), 16)))
}

type wordMode int

const (
	modeBoundary wordMode = iota
	modeLower
	modeUpper
)

// pascal splits s into words and capitalizes each one. A word ends before an
// upper-case letter that follows a lower-case one, and before the last
// upper-case letter of a run that is followed by a lower-case letter. Digits
// carry the mode of the letter before them. s must be ASCII.
func pascal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	mode := modeBoundary
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i+1 == len(s) {
			writeWord(&b, s[start:])
			break
		}
		next := s[i+1]
		nextMode := mode
		if isLowerByte(c) {
			nextMode = modeLower
		} else if isUpperByte(c) {
			nextMode = modeUpper
		}
		switch {
		case nextMode == modeLower && isUpperByte(next):
			writeWord(&b, s[start:i+1])
			start = i + 1
			mode = modeBoundary
		case mode == modeUpper && isUpperByte(c) && isLowerByte(next):
			writeWord(&b, s[start:i])
			start = i
			mode = modeBoundary
		default:
			mode = nextMode
		}
	}
	return b.String()
}

func writeWord(b *strings.Builder, w string) {
	if w == "" {
		return
	}
	b.WriteString(strings.ToUpper(w[:1]))
	b.WriteString(strings.ToLower(w[1:]))
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLowerByte(c byte) bool { return c >= 'a' && c <= 'z' }

func isUpperByte(c byte) bool { return c >= 'A' && c <= 'Z' }
