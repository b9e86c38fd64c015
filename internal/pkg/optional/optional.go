package optional

import "encoding/json"

// Field is a JSON field that distinguishes absent, null and a concrete
// value in PUT/PATCH bodies. A zero Field means the key was not present;
// Set without Valid means an explicit null.
type Field[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Of builds a present, non-null field. Mostly useful in tests.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Valid: true, Value: v}
}

// Null builds a present field holding an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Valid = false
		var zero T
		f.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Get returns the value and whether a non-null value was supplied.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Set && f.Valid
}
