package activeenum

import (
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lib/pq"
)

// Row is the part of a query result that array decoding reads from.
// *sql.Rows satisfies it once Next has returned true.
type Row interface {
	Columns() ([]string, error)
	Scan(dest ...any) error
}

// ColIdx addresses a column of a Row by position or by name.
type ColIdx interface {
	fmt.Stringer
	resolve(columns []string) (int, error)
}

// Index addresses a column by its 0-based position.
type Index int

func (i Index) String() string {
	return fmt.Sprintf("#%d", int(i))
}

func (i Index) resolve(columns []string) (int, error) {
	if int(i) < 0 || int(i) >= len(columns) {
		return 0, fmt.Errorf("index %d out of range [0, %d)", int(i), len(columns))
	}
	return int(i), nil
}

// Column addresses a column by name.
type Column string

func (c Column) String() string {
	return string(c)
}

func (c Column) resolve(columns []string) (int, error) {
	for i, name := range columns {
		if name == string(c) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no column named %q", string(c))
}

// ArrayCodec selects the library that parses array literals.
type ArrayCodec int

const (
	// CodecPQ decodes with lib/pq array scanners.
	CodecPQ ArrayCodec = iota
	// CodecPGX decodes with the pgx/v5 pgtype type map.
	CodecPGX
)

// ArrayOptions configures an ArrayDecoder.
type ArrayOptions struct {
	Capabilities Capabilities
	Codec        ArrayCodec
}

// ArrayDecoder reads native arrays of representations from result rows.
//
// Arrays of unsigned integers have no database encoding, so decoding them
// always panics. Arrays of strings and signed integers decode only when
// Capabilities.Arrays is set and panic otherwise. Both panics carry an
// *UnsupportedOperationError: they signal a deployment mistake that retrying
// cannot fix.
type ArrayDecoder[R Representation] struct {
	kind Kind
	opts ArrayOptions
}

// NewArrayDecoder returns a decoder for arrays of R.
func NewArrayDecoder[R Representation](opts ArrayOptions) *ArrayDecoder[R] {
	return &ArrayDecoder[R]{kind: KindOf[R](), opts: opts}
}

// Supported reports whether TryGetVecBy can succeed under the decoder's options.
func (d *ArrayDecoder[R]) Supported() bool {
	return !d.kind.IsUnsigned() && d.opts.Capabilities.Arrays
}

// TryGetVecBy decodes the array stored at column idx of row.
func (d *ArrayDecoder[R]) TryGetVecBy(row Row, idx ColIdx) ([]R, error) {
	switch {
	case d.kind.IsUnsigned():
		panic(&UnsupportedOperationError{Op: "array decode", Kind: d.kind, Reason: "not supported by native array decoding"})
	case !d.opts.Capabilities.Arrays:
		panic(&UnsupportedOperationError{Op: "array decode", Kind: d.kind, Reason: "native array support is not enabled"})
	}

	columns, err := row.Columns()
	if err != nil {
		return nil, &TryGetError{Column: idx.String(), Err: err}
	}
	pos, err := idx.resolve(columns)
	if err != nil {
		return nil, &TryGetError{Column: idx.String(), Err: err}
	}
	dest := make([]any, len(columns))
	for i := range dest {
		dest[i] = new(any)
	}

	if d.kind == KindString {
		var elems []string
		dest[pos] = d.scanner(&elems)
		if err := row.Scan(dest...); err != nil {
			return nil, &TryGetError{Column: idx.String(), Err: err}
		}
		out := make([]R, len(elems))
		for i, s := range elems {
			out[i] = any(s).(R)
		}
		return out, nil
	}

	var elems []int64
	dest[pos] = d.scanner(&elems)
	if err := row.Scan(dest...); err != nil {
		return nil, &TryGetError{Column: idx.String(), Err: err}
	}
	out := make([]R, len(elems))
	for i, n := range elems {
		v, err := d.kind.fromInt64(n)
		if err != nil {
			return nil, &TryGetError{Column: idx.String(), Err: fmt.Errorf("element %d: %w", i, err)}
		}
		out[i] = v.(R)
	}
	return out, nil
}

func (d *ArrayDecoder[R]) scanner(target any) sql.Scanner {
	if d.opts.Codec == CodecPGX {
		// pgtype.Map caches scan plans and is not safe for concurrent use.
		return pgtype.NewMap().SQLScanner(target)
	}
	return pq.Array(target)
}

// TryGetVec decodes an array column and maps every element to its variant.
func (e *Enum[E, R]) TryGetVec(dec *ArrayDecoder[R], row Row, idx ColIdx) ([]E, error) {
	values, err := dec.TryGetVecBy(row, idx)
	if err != nil {
		return nil, err
	}
	out := make([]E, len(values))
	for i, r := range values {
		v, err := e.TryFromValue(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
