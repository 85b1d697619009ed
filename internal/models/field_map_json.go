package models

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"stb-telemetry/internal/symbols"
)

// TimestampLayout is the millisecond ISO-8601 form used for timestamps in JSON renderings.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var ErrInvalidJSON = errors.New("invalid json field map")

// MarshalJSON renders the map as a JSON object in insertion order. Blobs are hex strings and
// timestamps use TimestampLayout in UTC.
func (m FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := marshalJSONValue(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalJSONValue(v any) ([]byte, error) {
	switch tv := v.(type) {
	case time.Time:
		return json.Marshal(tv.UTC().Format(TimestampLayout))
	case []byte:
		if tv == nil {
			return []byte("null"), nil
		}
		return json.Marshal(hex.EncodeToString(tv))
	case FieldMap:
		return tv.MarshalJSON()
	case []FieldMap:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i := range tv {
			if i > 0 {
				buf.WriteByte(',')
			}
			item, err := tv[i].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(item)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return json.Marshal(tv)
	}
}

// FieldMapFromJSON parses a JSON object keyed by symbol names. Field order is preserved and
// every value is converted to the type the schema declares for its symbol.
func FieldMapFromJSON(data []byte, schema *symbols.Schema) (FieldMap, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	m, err := decodeObject(dec, schema)
	if err != nil {
		return FieldMap{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return FieldMap{}, fmt.Errorf("%w: trailing data after object", ErrInvalidJSON)
	}
	return m, nil
}

func decodeObject(dec *json.Decoder, schema *symbols.Schema) (FieldMap, error) {
	tok, err := dec.Token()
	if err != nil {
		return FieldMap{}, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return FieldMap{}, fmt.Errorf("%w: expected object", ErrInvalidJSON)
	}

	m := NewFieldMap(8)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return FieldMap{}, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
		}
		key, _ := tok.(string)
		typ, ok := schema.Type(key)
		if !ok {
			return FieldMap{}, fmt.Errorf("%w: unknown field %q", ErrInvalidJSON, key)
		}

		if typ == symbols.TypeList {
			list, err := decodeList(dec, schema)
			if err != nil {
				return FieldMap{}, fmt.Errorf("field %s: %w", key, err)
			}
			m.Set(key, list)
			continue
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return FieldMap{}, fmt.Errorf("%w: field %s: %w", ErrInvalidJSON, key, err)
		}
		val, err := convertJSONScalar(raw, typ)
		if err != nil {
			return FieldMap{}, fmt.Errorf("%w: field %s: %w", ErrInvalidJSON, key, err)
		}
		m.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return FieldMap{}, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return m, nil
}

func decodeList(dec *json.Decoder, schema *symbols.Schema) ([]FieldMap, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if tok == nil {
		return nil, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("%w: expected array", ErrInvalidJSON)
	}
	list := make([]FieldMap, 0)
	for dec.More() {
		item, err := decodeObject(dec, schema)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return list, nil
}

func convertJSONScalar(raw any, typ symbols.ValueType) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch typ {
	case symbols.TypeString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case symbols.TypeInt:
		if n, ok := raw.(json.Number); ok {
			return n.Int64()
		}
	case symbols.TypeBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case symbols.TypeTimestamp:
		if s, ok := raw.(string); ok {
			return time.Parse(time.RFC3339Nano, s)
		}
	case symbols.TypeBlob:
		if s, ok := raw.(string); ok {
			return hex.DecodeString(s)
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", typ, raw)
}
