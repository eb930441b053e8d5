package activeenum

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Representation is the set of scalar types an enum variant may be persisted as.
type Representation interface {
	string | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64
}

// Kind identifies the representation type of an enum at runtime.
type Kind int

const (
	// KindInvalid is the zero Kind.
	KindInvalid Kind = iota
	// KindString is a character sequence representation.
	KindString
	// KindInt8 is an 8-bit signed integer representation.
	KindInt8
	// KindInt16 is a 16-bit signed integer representation.
	KindInt16
	// KindInt32 is a 32-bit signed integer representation.
	KindInt32
	// KindInt64 is a 64-bit signed integer representation.
	KindInt64
	// KindUint8 is an 8-bit unsigned integer representation.
	KindUint8
	// KindUint16 is a 16-bit unsigned integer representation.
	KindUint16
	// KindUint32 is a 32-bit unsigned integer representation.
	KindUint32
	// KindUint64 is a 64-bit unsigned integer representation.
	KindUint64
)

var kindNames = map[Kind]string{
	KindString: "string",
	KindInt8:   "int8",
	KindInt16:  "int16",
	KindInt32:  "int32",
	KindInt64:  "int64",
	KindUint8:  "uint8",
	KindUint16: "uint16",
	KindUint32: "uint32",
	KindUint64: "uint64",
}

// String returns the Go type name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool {
	return k >= KindInt8 && k <= KindInt64
}

// IsUnsigned reports whether k is an unsigned integer kind.
func (k Kind) IsUnsigned() bool {
	return k >= KindUint8 && k <= KindUint64
}

// IsInteger reports whether k is any integer kind.
func (k Kind) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

// ParseKind resolves a representation type name such as "string", "i16" or
// "uint8". Rust-style short names are accepted for configuration files.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str", "text":
		return KindString, nil
	case "int8", "i8":
		return KindInt8, nil
	case "int16", "i16":
		return KindInt16, nil
	case "int32", "i32":
		return KindInt32, nil
	case "int64", "i64":
		return KindInt64, nil
	case "uint8", "u8":
		return KindUint8, nil
	case "uint16", "u16":
		return KindUint16, nil
	case "uint32", "u32":
		return KindUint32, nil
	case "uint64", "u64":
		return KindUint64, nil
	}
	return KindInvalid, fmt.Errorf("activeenum: unknown representation type %q", name)
}

// KindOf returns the Kind of the representation type R.
func KindOf[R Representation]() Kind {
	var zero R
	switch any(zero).(type) {
	case string:
		return KindString
	case int8:
		return KindInt8
	case int16:
		return KindInt16
	case int32:
		return KindInt32
	case int64:
		return KindInt64
	case uint8:
		return KindUint8
	case uint16:
		return KindUint16
	case uint32:
		return KindUint32
	case uint64:
		return KindUint64
	}
	return KindInvalid
}

// bits returns the width of an integer kind.
func (k Kind) bits() int {
	switch k {
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32:
		return 32
	case KindInt64, KindUint64:
		return 64
	}
	return 0
}

// Convert coerces a loosely typed value, as produced by configuration
// decoders or database drivers, into the Go type of kind k. Integers that do
// not fit the width of k are rejected.
func (k Kind) Convert(v any) (any, error) {
	if k == KindString {
		switch v := v.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		}
		return nil, fmt.Errorf("cannot use %T as %s", v, k)
	}
	if k.IsSigned() {
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return k.fromInt64(n)
	}
	if k.IsUnsigned() {
		n, err := toUint64(v)
		if err != nil {
			return nil, err
		}
		return k.fromUint64(n)
	}
	return nil, fmt.Errorf("cannot convert to %s", k)
}

func (k Kind) fromInt64(n int64) (any, error) {
	lo, hi := int64(math.MinInt64), int64(math.MaxInt64)
	if b := k.bits(); b < 64 {
		lo, hi = -1<<(b-1), 1<<(b-1)-1
	}
	if n < lo || n > hi {
		return nil, fmt.Errorf("%d overflows %s", n, k)
	}
	switch k {
	case KindInt8:
		return int8(n), nil
	case KindInt16:
		return int16(n), nil
	case KindInt32:
		return int32(n), nil
	default:
		return n, nil
	}
}

func (k Kind) fromUint64(n uint64) (any, error) {
	if b := k.bits(); b < 64 && n > 1<<b-1 {
		return nil, fmt.Errorf("%d overflows %s", n, k)
	}
	switch k {
	case KindUint8:
		return uint8(n), nil
	case KindUint16:
		return uint16(n), nil
	case KindUint32:
		return uint32(n), nil
	default:
		return n, nil
	}
}

func toInt64(v any) (int64, error) {
	switch v := v.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return toInt64(uint64(v))
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", v)
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	}
	return 0, fmt.Errorf("cannot use %T as an integer", v)
}

func toUint64(v any) (uint64, error) {
	switch v := v.(type) {
	case string:
		return strconv.ParseUint(v, 10, 64)
	case []byte:
		return strconv.ParseUint(string(v), 10, 64)
	case uint:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%d overflows unsigned integer", n)
	}
	return uint64(n), nil
}

// formatValue renders a representation for labels and messages.
func formatValue[R Representation](r R) string {
	switch v := any(r).(type) {
	case string:
		return v
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return fmt.Sprint(r)
}
