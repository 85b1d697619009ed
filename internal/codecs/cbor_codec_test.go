package codecs

import (
	"strings"
	"testing"
	"time"

	"stb-telemetry/internal/models"
	"stb-telemetry/internal/symbols"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() models.FieldMap {
	ts := time.Date(2019, 6, 12, 10, 30, 0, 123456000, time.UTC)

	event := models.NewFieldMap(6)
	event.Set(symbols.EventKind, 13)
	event.Set(symbols.Timestamp, ts)
	event.Set(symbols.AppSessionID, ts.Add(-time.Hour))
	event.Set(symbols.PageName, nil)
	event.Set(symbols.SelectorTrackID, []byte{0x01, 0x02, 0x03})
	event.Set(symbols.ContentDuration, int64(-5))

	marker := models.NewFieldMap(2)
	marker.Set(symbols.EventKind, 4)
	marker.Set(symbols.Timestamp, ts)

	doc := models.NewFieldMap(5)
	doc.Set(symbols.DocVersion, "1.0.0")
	doc.Set(symbols.CustomerPanel, 7)
	doc.Set(symbols.DisplayOn, true)
	doc.Set(symbols.DeviceHwID, []byte{0xca, 0xfe})
	doc.Set(symbols.Batch, []models.FieldMap{event, marker})
	return doc
}

func TestCBORCodec_RoundTripKeepsOrderAndTypes(t *testing.T) {
	t.Parallel()

	codec := NewCBORCodec()
	doc := sampleDocument()

	data, err := codec.Encode(doc, symbols.V1())
	require.NoError(t, err)

	back, err := codec.Decode(data, symbols.V1())
	require.NoError(t, err)
	assert.Equal(t, doc.Keys(), back.Keys())

	panel, err := back.Int(symbols.CustomerPanel)
	require.NoError(t, err)
	assert.Equal(t, int64(7), panel)

	on, err := back.Bool(symbols.DisplayOn)
	require.NoError(t, err)
	assert.True(t, on)

	batch, err := back.List(symbols.Batch)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	wantBatch, _ := doc.List(symbols.Batch)
	assert.Equal(t, wantBatch[0].Keys(), batch[0].Keys())

	ts, err := batch[0].Time(symbols.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, 6, 12, 10, 30, 0, 123456000, time.UTC), ts)

	page, ok := batch[0].Get(symbols.PageName)
	assert.True(t, ok)
	assert.Nil(t, page)

	duration, err := batch[0].Int(symbols.ContentDuration)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), duration)

	track, err := batch[0].Bytes(symbols.SelectorTrackID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, track)
}

func TestCBORCodec_EncodeIsDeterministic(t *testing.T) {
	t.Parallel()

	codec := NewCBORCodec()
	first, err := codec.Encode(sampleDocument(), symbols.V1())
	require.NoError(t, err)
	second, err := codec.Encode(sampleDocument(), symbols.V1())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCBORCodec_OutputIsWellFormedCBOR(t *testing.T) {
	t.Parallel()

	data, err := NewCBORCodec().Encode(sampleDocument(), symbols.V1())
	require.NoError(t, err)

	require.NoError(t, cbor.Wellformed(data))
	diag, err := cbor.Diagnose(data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(diag, "55799(["), diag)
	assert.Contains(t, diag, `"stb.engagement.format"`)
}

func TestCBORCodec_EncodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		build   func() models.FieldMap
		wantErr error
	}{
		{
			name: "unknown symbol",
			build: func() models.FieldMap {
				m := models.NewFieldMap(1)
				m.Set("not-a-symbol", "x")
				return m
			},
			wantErr: ErrUnknownSymbol,
		},
		{
			name: "string where int expected",
			build: func() models.FieldMap {
				m := models.NewFieldMap(1)
				m.Set(symbols.EventKind, "13")
				return m
			},
			wantErr: ErrValueType,
		},
		{
			name: "nested unknown symbol",
			build: func() models.FieldMap {
				inner := models.NewFieldMap(1)
				inner.Set("nope", 1)
				m := models.NewFieldMap(1)
				m.Set(symbols.Batch, []models.FieldMap{inner})
				return m
			},
			wantErr: ErrUnknownSymbol,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCBORCodec().Encode(tt.build(), symbols.V1())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCBORCodec_DecodeErrors(t *testing.T) {
	t.Parallel()

	valid, err := NewCBORCodec().Encode(sampleDocument(), symbols.V1())
	require.NoError(t, err)

	plainMap, err := cbor.Marshal(map[uint64]string{10: "1.0.0"})
	require.NoError(t, err)

	wrongSchema, err := cbor.Marshal(cbor.Tag{Number: 55799, Content: []any{"other", 1, map[uint64]string{}}})
	require.NoError(t, err)

	unknownCode, err := cbor.Marshal(cbor.Tag{Number: 55799, Content: []any{symbols.SchemaName, symbols.SchemaVersion, map[uint64]string{9999: "x"}}})
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "truncated", data: valid[:len(valid)-3], wantErr: ErrMalformed},
		{name: "no self-describe tag", data: plainMap, wantErr: ErrMalformed},
		{name: "schema mismatch", data: wrongSchema, wantErr: ErrSchemaMismatch},
		{name: "unknown code", data: unknownCode, wantErr: ErrUnknownSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCBORCodec().Decode(tt.data, symbols.V1())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHead_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range []uint64{0, 23, 24, 255, 256, 65535, 65536, 1 << 32} {
		head := appendHead(nil, majorMap, n)
		major, got, rest, err := readHead(head)
		require.NoError(t, err)
		assert.Equal(t, majorMap, major)
		assert.Equal(t, n, got)
		assert.Empty(t, rest)
	}
}
