package activeenum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// DriverValue returns the database/sql value of v. Integer representations
// are widened to int64; uint64 values above math.MaxInt64 are rejected
// because database/sql cannot bind them.
func (e *Enum[E, R]) DriverValue(v E) (driver.Value, error) {
	r, ok := e.Lookup(v)
	if !ok {
		return nil, fmt.Errorf("activeenum: %v is not a variant of %s enum", v, e.name)
	}
	switch x := any(r).(type) {
	case string:
		return x, nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("activeenum: %s enum value %d overflows int64", e.name, x)
		}
		return int64(x), nil
	}
	return toInt64(any(r))
}

// Scan returns the variant stored in src, a value produced by a
// database/sql driver.
func (e *Enum[E, R]) Scan(src any) (E, error) {
	if b, ok := src.([]byte); ok {
		src = string(b)
	}
	var zero E
	if src == nil {
		return zero, &TypeMismatchError{Enum: e.name, Value: nil}
	}
	v, err := e.kind.Convert(src)
	if err != nil {
		return zero, &TypeMismatchError{Enum: e.name, Value: src}
	}
	return e.TryFromValue(v.(R))
}

// MarshalText returns the textual form of the representation of v.
func (e *Enum[E, R]) MarshalText(v E) ([]byte, error) {
	r, ok := e.Lookup(v)
	if !ok {
		return nil, fmt.Errorf("activeenum: %v is not a variant of %s enum", v, e.name)
	}
	return []byte(formatValue(r)), nil
}

// UnmarshalText parses the textual form produced by MarshalText.
func (e *Enum[E, R]) UnmarshalText(text []byte) (E, error) {
	return e.Scan(string(text))
}

// MarshalJSON encodes the representation of v as a JSON string or number.
func (e *Enum[E, R]) MarshalJSON(v E) ([]byte, error) {
	r, ok := e.Lookup(v)
	if !ok {
		return nil, fmt.Errorf("activeenum: %v is not a variant of %s enum", v, e.name)
	}
	return json.Marshal(r)
}

// UnmarshalJSON decodes a representation and returns its variant.
func (e *Enum[E, R]) UnmarshalJSON(data []byte) (E, error) {
	var r R
	if err := json.Unmarshal(data, &r); err != nil {
		var zero E
		return zero, fmt.Errorf("activeenum: decode %s enum: %w", e.name, err)
	}
	return e.TryFromValue(r)
}

// EncodeMsgpack writes the representation of v to enc.
func (e *Enum[E, R]) EncodeMsgpack(enc *msgpack.Encoder, v E) error {
	r, ok := e.Lookup(v)
	if !ok {
		return fmt.Errorf("activeenum: %v is not a variant of %s enum", v, e.name)
	}
	return enc.Encode(r)
}

// DecodeMsgpack reads a representation from dec and returns its variant.
func (e *Enum[E, R]) DecodeMsgpack(dec *msgpack.Decoder) (E, error) {
	var r R
	if err := dec.Decode(&r); err != nil {
		var zero E
		return zero, fmt.Errorf("activeenum: decode %s enum: %w", e.name, err)
	}
	return e.TryFromValue(r)
}
