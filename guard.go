package activeenum

// TryFromUint64 rejects building a variant from a numeric surrogate key.
// Enum columns used as primary keys must not be auto-increment, so no id
// ever maps to a variant, zero included.
func (e *Enum[E, R]) TryFromUint64(id uint64) (E, error) {
	return TryFromUint64[E](e.name, id)
}

// TryFromUint64 is the free-standing form of Enum.TryFromUint64 for callers
// that only hold the enum name.
func TryFromUint64[E any](name Name, id uint64) (E, error) {
	var zero E
	return zero, &ConversionUnsupportedError{Enum: name, Value: id}
}
