package codecs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"stb-telemetry/internal/models"
	"stb-telemetry/internal/symbols"

	"github.com/fxamacker/cbor/v2"
)

// CBOR major types used by the document layout.
const (
	majorArray byte = 4
	majorMap   byte = 5

	cborNull byte = 0xf6
)

// selfDescribed is tag 55799, which marks the bytes as CBOR without changing their meaning.
var selfDescribed = []byte{0xd9, 0xd9, 0xf7}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.EncOptions{
		Time:    cbor.TimeRFC3339Nano,
		TimeTag: cbor.EncTagRequired,
	}.EncMode()
	if err != nil {
		panic("codecs: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		TimeTag:     cbor.DecTagRequired,
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic("codecs: CBOR decoder initialization failed: " + err.Error())
	}
}

// cborCodec writes a document as
//
//	55799([schema-name, schema-version, {code: value, ...}])
//
// Every field map is a definite-length CBOR map keyed by symbol code in insertion order, so
// field order survives a round trip. Timestamps are tag-0 RFC 3339 strings with nanoseconds.
type cborCodec struct{}

func NewCBORCodec() Codec {
	return cborCodec{}
}

func (cborCodec) Encode(tree models.FieldMap, schema *symbols.Schema) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(selfDescribed)
	buf.Write(appendHead(nil, majorArray, 3))

	for _, v := range []any{schema.Name(), schema.Version()} {
		encoded, err := encMode.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}

	if err := encodeMap(&buf, tree, schema); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeMap(buf *bytes.Buffer, m models.FieldMap, schema *symbols.Schema) error {
	keys := m.Keys()
	buf.Write(appendHead(nil, majorMap, uint64(len(keys))))
	for _, key := range keys {
		code, ok := schema.Code(key)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSymbol, key)
		}
		typ, _ := schema.Type(key)

		encoded, err := encMode.Marshal(code)
		if err != nil {
			return err
		}
		buf.Write(encoded)

		value, _ := m.Get(key)
		if err := encodeValue(buf, key, value, typ, schema); err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(buf *bytes.Buffer, key string, value any, typ symbols.ValueType, schema *symbols.Schema) error {
	if value == nil {
		buf.WriteByte(cborNull)
		return nil
	}

	var v any
	switch typ {
	case symbols.TypeString:
		s, ok := value.(string)
		if !ok {
			return valueTypeError(key, value, typ)
		}
		v = s
	case symbols.TypeInt:
		n, ok := toInt64(value)
		if !ok {
			return valueTypeError(key, value, typ)
		}
		v = n
	case symbols.TypeBool:
		b, ok := value.(bool)
		if !ok {
			return valueTypeError(key, value, typ)
		}
		v = b
	case symbols.TypeTimestamp:
		t, ok := value.(time.Time)
		if !ok {
			return valueTypeError(key, value, typ)
		}
		v = t.UTC()
	case symbols.TypeBlob:
		b, ok := value.([]byte)
		if !ok {
			return valueTypeError(key, value, typ)
		}
		if b == nil {
			buf.WriteByte(cborNull)
			return nil
		}
		v = b
	case symbols.TypeList:
		list, ok := value.([]models.FieldMap)
		if !ok {
			return valueTypeError(key, value, typ)
		}
		buf.Write(appendHead(nil, majorArray, uint64(len(list))))
		for _, item := range list {
			if err := encodeMap(buf, item, schema); err != nil {
				return err
			}
		}
		return nil
	default:
		return valueTypeError(key, value, typ)
	}

	encoded, err := encMode.Marshal(v)
	if err != nil {
		return fmt.Errorf("field %s: %w", key, err)
	}
	buf.Write(encoded)
	return nil
}

func toInt64(value any) (int64, bool) {
	switch n := value.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > 1<<63-1 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func valueTypeError(key string, value any, typ symbols.ValueType) error {
	return fmt.Errorf("%w: %s is %T, want %s", ErrValueType, key, value, typ)
}

func (cborCodec) Decode(data []byte, schema *symbols.Schema) (models.FieldMap, error) {
	if err := decMode.Wellformed(data); err != nil {
		return models.FieldMap{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if !bytes.HasPrefix(data, selfDescribed) {
		return models.FieldMap{}, fmt.Errorf("%w: missing self-describe tag", ErrMalformed)
	}

	major, n, rest, err := readHead(data[len(selfDescribed):])
	if err != nil {
		return models.FieldMap{}, err
	}
	if major != majorArray || n != 3 {
		return models.FieldMap{}, fmt.Errorf("%w: expected document envelope", ErrMalformed)
	}

	dec := decMode.NewDecoder(bytes.NewReader(rest))
	var name string
	var version int
	if err := dec.Decode(&name); err != nil {
		return models.FieldMap{}, fmt.Errorf("%w: schema name: %w", ErrMalformed, err)
	}
	if err := dec.Decode(&version); err != nil {
		return models.FieldMap{}, fmt.Errorf("%w: schema version: %w", ErrMalformed, err)
	}
	if name != schema.Name() || version != schema.Version() {
		return models.FieldMap{}, fmt.Errorf("%w: document is %s v%d, decoder is %s v%d",
			ErrSchemaMismatch, name, version, schema.Name(), schema.Version())
	}

	var root cbor.RawMessage
	if err := dec.Decode(&root); err != nil {
		return models.FieldMap{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return decodeMap(root, schema)
}

func decodeMap(raw cbor.RawMessage, schema *symbols.Schema) (models.FieldMap, error) {
	major, n, rest, err := readHead(raw)
	if err != nil {
		return models.FieldMap{}, err
	}
	if major != majorMap {
		return models.FieldMap{}, fmt.Errorf("%w: expected map, got major type %d", ErrMalformed, major)
	}

	m := models.NewFieldMap(int(n))
	dec := decMode.NewDecoder(bytes.NewReader(rest))
	for i := uint64(0); i < n; i++ {
		var code uint64
		if err := dec.Decode(&code); err != nil {
			return models.FieldMap{}, fmt.Errorf("%w: map key: %w", ErrMalformed, err)
		}
		sym, ok := schema.Lookup(code)
		if !ok {
			return models.FieldMap{}, fmt.Errorf("%w: code %d", ErrUnknownSymbol, code)
		}
		if m.Has(sym.Name) {
			return models.FieldMap{}, fmt.Errorf("%w: duplicate field %s", ErrMalformed, sym.Name)
		}

		var value cbor.RawMessage
		if err := dec.Decode(&value); err != nil {
			return models.FieldMap{}, fmt.Errorf("%w: field %s: %w", ErrMalformed, sym.Name, err)
		}
		decoded, err := decodeValue(value, sym, schema)
		if err != nil {
			return models.FieldMap{}, err
		}
		m.Set(sym.Name, decoded)
	}
	return m, nil
}

func decodeValue(raw cbor.RawMessage, sym symbols.Symbol, schema *symbols.Schema) (any, error) {
	if len(raw) == 1 && raw[0] == cborNull {
		return nil, nil
	}

	var (
		out any
		err error
	)
	switch sym.Type {
	case symbols.TypeString:
		var s string
		err = decMode.Unmarshal(raw, &s)
		out = s
	case symbols.TypeInt:
		var n int64
		err = decMode.Unmarshal(raw, &n)
		out = n
	case symbols.TypeBool:
		var b bool
		err = decMode.Unmarshal(raw, &b)
		out = b
	case symbols.TypeTimestamp:
		var t time.Time
		err = decMode.Unmarshal(raw, &t)
		out = t.UTC()
	case symbols.TypeBlob:
		var b []byte
		err = decMode.Unmarshal(raw, &b)
		out = b
	case symbols.TypeList:
		return decodeList(raw, sym, schema)
	default:
		return nil, fmt.Errorf("%w: field %s has no wire form", ErrValueType, sym.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: field %s: %w", ErrValueType, sym.Name, err)
	}
	return out, nil
}

func decodeList(raw cbor.RawMessage, sym symbols.Symbol, schema *symbols.Schema) ([]models.FieldMap, error) {
	major, n, rest, err := readHead(raw)
	if err != nil {
		return nil, err
	}
	if major != majorArray {
		return nil, fmt.Errorf("%w: field %s: expected array", ErrValueType, sym.Name)
	}

	list := make([]models.FieldMap, 0, n)
	dec := decMode.NewDecoder(bytes.NewReader(rest))
	for i := uint64(0); i < n; i++ {
		var item cbor.RawMessage
		if err := dec.Decode(&item); err != nil {
			return nil, fmt.Errorf("%w: field %s[%d]: %w", ErrMalformed, sym.Name, i, err)
		}
		m, err := decodeMap(item, schema)
		if err != nil {
			return nil, fmt.Errorf("field %s[%d]: %w", sym.Name, i, err)
		}
		list = append(list, m)
	}
	return list, nil
}

// appendHead appends a definite-length CBOR item head.
func appendHead(dst []byte, major byte, n uint64) []byte {
	mt := major << 5
	switch {
	case n < 24:
		return append(dst, mt|byte(n))
	case n <= 0xff:
		return append(dst, mt|24, byte(n))
	case n <= 0xffff:
		return binary.BigEndian.AppendUint16(append(dst, mt|25), uint16(n))
	case n <= 0xffffffff:
		return binary.BigEndian.AppendUint32(append(dst, mt|26), uint32(n))
	default:
		return binary.BigEndian.AppendUint64(append(dst, mt|27), n)
	}
}

// readHead parses a definite-length item head and returns the bytes that follow it.
func readHead(data []byte) (major byte, n uint64, rest []byte, err error) {
	if len(data) == 0 {
		return 0, 0, nil, fmt.Errorf("%w: %w", ErrMalformed, io.ErrUnexpectedEOF)
	}
	major = data[0] >> 5
	info := data[0] & 0x1f

	var size int
	switch {
	case info < 24:
		return major, uint64(info), data[1:], nil
	case info == 24:
		size = 1
	case info == 25:
		size = 2
	case info == 26:
		size = 4
	case info == 27:
		size = 8
	default:
		return 0, 0, nil, fmt.Errorf("%w: indefinite or reserved length", ErrMalformed)
	}
	if len(data) < 1+size {
		return 0, 0, nil, fmt.Errorf("%w: %w", ErrMalformed, io.ErrUnexpectedEOF)
	}

	arg := data[1 : 1+size]
	switch size {
	case 1:
		n = uint64(arg[0])
	case 2:
		n = uint64(binary.BigEndian.Uint16(arg))
	case 4:
		n = uint64(binary.BigEndian.Uint32(arg))
	default:
		n = binary.BigEndian.Uint64(arg)
	}
	return major, n, data[1+size:], nil
}
