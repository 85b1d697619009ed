package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrFieldMissing = errors.New("field missing")
	ErrFieldNull    = errors.New("field is null")
	ErrFieldType    = errors.New("field has unexpected type")
)

// FieldMap is an insertion-ordered map from symbol name to value. Values are one of nil,
// string, int64, bool, time.Time, []byte, FieldMap or []FieldMap. Re-setting a key keeps
// its original position.
type FieldMap struct {
	keys   []string
	values map[string]any
}

// NewFieldMap returns an empty map with room for n fields.
func NewFieldMap(n int) FieldMap {
	return FieldMap{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// Set stores value under key. Plain int values are normalized to int64 and a nil blob is
// stored as null.
func (m *FieldMap) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	switch v := value.(type) {
	case int:
		value = int64(v)
	case []byte:
		if v == nil {
			value = nil
		}
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// SetOpt stores *value under key only when value is non-nil.
func SetOpt[T any](m *FieldMap, key string, value *T) {
	if value != nil {
		m.Set(key, *value)
	}
}

// SetNullable stores *value under key, or an explicit null when value is nil.
func SetNullable[T any](m *FieldMap, key string, value *T) {
	if value == nil {
		m.Set(key, nil)
		return
	}
	m.Set(key, *value)
}

func (m FieldMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m FieldMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the field names in insertion order.
func (m FieldMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m FieldMap) Len() int { return len(m.keys) }

// Clone returns a deep copy; nested maps, lists and blobs are copied too.
func (m FieldMap) Clone() FieldMap {
	out := NewFieldMap(len(m.keys))
	for _, k := range m.keys {
		out.Set(k, cloneValue(m.values[k]))
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case []byte:
		if tv == nil {
			return tv
		}
		return append([]byte(nil), tv...)
	case FieldMap:
		return tv.Clone()
	case []FieldMap:
		list := make([]FieldMap, len(tv))
		for i := range tv {
			list[i] = tv[i].Clone()
		}
		return list
	default:
		return v
	}
}

func (m FieldMap) lookup(key string) (any, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldMissing, key)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrFieldNull, key)
	}
	return v, nil
}

func typeError(key string, v any, want string) error {
	return fmt.Errorf("%w: %s is %T, want %s", ErrFieldType, key, v, want)
}

// String returns a required string field.
func (m FieldMap) String(key string) (string, error) {
	v, err := m.lookup(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(key, v, "string")
	}
	return s, nil
}

// Int returns a required integer field. Any Go integer type that fits in int64 is accepted.
func (m FieldMap) Int(key string) (int64, error) {
	v, err := m.lookup(key)
	if err != nil {
		return 0, err
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, typeError(key, v, "int")
	}
	return n, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		if n > 1<<63-1 {
			return 0, false
		}
		return int64(n), true
	case uint32:
		return int64(n), true
	default:
		return 0, false
	}
}

// Bool returns a required boolean field.
func (m FieldMap) Bool(key string) (bool, error) {
	v, err := m.lookup(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeError(key, v, "bool")
	}
	return b, nil
}

// Time returns a required timestamp field.
func (m FieldMap) Time(key string) (time.Time, error) {
	v, err := m.lookup(key)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, typeError(key, v, "timestamp")
	}
	return t, nil
}

// Bytes returns a required blob field.
func (m FieldMap) Bytes(key string) ([]byte, error) {
	v, err := m.lookup(key)
	if err != nil {
		return nil, err
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, typeError(key, v, "blob")
	}
	return b, nil
}

// List returns a required list of nested field maps.
func (m FieldMap) List(key string) ([]FieldMap, error) {
	v, err := m.lookup(key)
	if err != nil {
		return nil, err
	}
	l, ok := v.([]FieldMap)
	if !ok {
		return nil, typeError(key, v, "list")
	}
	return l, nil
}

// optional wraps a required getter: an absent or null field yields (nil, nil).
func optional[T any](m FieldMap, key string, get func(string) (T, error)) (*T, error) {
	if v, ok := m.values[key]; !ok || v == nil {
		return nil, nil
	}
	out, err := get(key)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (m FieldMap) OptString(key string) (*string, error) { return optional(m, key, m.String) }

func (m FieldMap) OptInt(key string) (*int64, error) { return optional(m, key, m.Int) }

func (m FieldMap) OptBool(key string) (*bool, error) { return optional(m, key, m.Bool) }

func (m FieldMap) OptTime(key string) (*time.Time, error) { return optional(m, key, m.Time) }

// OptBytes returns a blob field, or nil when absent or null.
func (m FieldMap) OptBytes(key string) ([]byte, error) {
	if v, ok := m.values[key]; !ok || v == nil {
		return nil, nil
	}
	return m.Bytes(key)
}
