package codecs

import (
	"errors"

	"stb-telemetry/internal/models"
	"stb-telemetry/internal/symbols"
)

var (
	ErrUnknownSymbol  = errors.New("unknown symbol")
	ErrValueType      = errors.New("value does not match symbol type")
	ErrMalformed      = errors.New("malformed document")
	ErrSchemaMismatch = errors.New("document schema mismatch")
)

// Codec turns an ordered field tree into self-describing bytes and back. Field names are
// interned through the schema so only integer codes reach the wire.
//
//go:generate mockgen -source=codec.go -destination=./mocks/codec_mock.go -package=mocks
type Codec interface {
	Encode(tree models.FieldMap, schema *symbols.Schema) ([]byte, error)
	Decode(data []byte, schema *symbols.Schema) (models.FieldMap, error)
}
