// Package patch implements partial updates: only the keys a client sent are
// applied to the stored record.
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Field is an optional value in a partial update. Set reports whether the
// key was present in the request at all.
type Field[T any] struct {
	Value T
	Set   bool
}

func Some[T any](value T) Field[T] {
	return Field[T]{Value: value, Set: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) Or(current T) T {
	if f.Set {
		return f.Value
	}
	return current
}

// Apply overwrites dst when the field was sent.
func Apply[T any](dst *T, f Field[T]) {
	if f.Set {
		*dst = f.Value
	}
}

// ApplyNonZero overwrites dst only when the field was sent with a non-zero
// value. Empty strings keep the stored value.
func ApplyNonZero[T comparable](dst *T, f Field[T]) {
	var zero T
	if f.Set && f.Value != zero {
		*dst = f.Value
	}
}

// ApplyNullable overwrites a nullable reference when the field was sent. A
// zero value clears it.
func ApplyNullable[T comparable](dst **T, f Field[T]) {
	if !f.Set {
		return
	}
	var zero T
	if f.Value == zero {
		*dst = nil
		return
	}
	value := f.Value
	*dst = &value
}

// Values is the flat set of fields submitted in a multipart form or a JSON
// object. Scalars are kept as their string form.
type Values map[string]string

func FromForm(form map[string][]string) Values {
	values := make(Values, len(form))
	for key, vals := range form {
		if len(vals) == 0 {
			continue
		}
		values[key] = vals[0]
	}
	return values
}

// FromJSON decodes a JSON object. Nested objects and arrays are kept as
// their JSON text and null becomes an empty string.
func FromJSON(r io.Reader) (Values, error) {
	raw := map[string]json.RawMessage{}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return Values{}, nil
		}
		return nil, err
	}
	values := make(Values, len(raw))
	for key, msg := range raw {
		value, err := scalarString(msg)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		values[key] = value
	}
	return values, nil
}

func scalarString(msg json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] != '"' {
		return string(trimmed), nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", err
	}
	return s, nil
}

func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

func (v Values) Get(key string) string {
	return v[key]
}

func (v Values) String(key string) Field[string] {
	value, ok := v[key]
	if !ok {
		return Field[string]{}
	}
	return Some(value)
}

// Int parses an integer field. A present but empty value yields zero.
func (v Values) Int(key string) (Field[int], error) {
	value, ok := v[key]
	if !ok {
		return Field[int]{}, nil
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return Some(0), nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return Field[int]{}, fmt.Errorf("%s must be an integer", key)
	}
	return Some(n), nil
}

// Float parses a numeric field. A present but empty value yields zero.
func (v Values) Float(key string) (Field[float64], error) {
	value, ok := v[key]
	if !ok {
		return Field[float64]{}, nil
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return Some(0.0), nil
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Field[float64]{}, fmt.Errorf("%s must be a number", key)
	}
	return Some(n), nil
}
