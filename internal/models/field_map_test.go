package models

import (
	"testing"
	"time"

	"stb-telemetry/internal/symbols"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMap_SetKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	m := NewFieldMap(3)
	m.Set("b", "1")
	m.Set("a", 2)
	m.Set("c", true)
	m.Set("b", "overwritten")

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, "overwritten", v)

	n, err := m.Int("a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestFieldMap_RequiredAccessors(t *testing.T) {
	t.Parallel()

	m := NewFieldMap(4)
	m.Set("null", nil)
	m.Set("str", "x")
	m.Set("big", uint64(1<<63))

	_, err := m.String("absent")
	assert.ErrorIs(t, err, ErrFieldMissing)

	_, err = m.String("null")
	assert.ErrorIs(t, err, ErrFieldNull)

	_, err = m.Int("str")
	assert.ErrorIs(t, err, ErrFieldType)

	_, err = m.Int("big")
	assert.ErrorIs(t, err, ErrFieldType)
}

func TestFieldMap_OptionalAccessors(t *testing.T) {
	t.Parallel()

	m := NewFieldMap(3)
	m.Set("null", nil)
	m.Set("n", uint64(7))
	m.Set("s", 5)

	v, err := m.OptInt("absent")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = m.OptInt("null")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = m.OptInt("n")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(7), *v)

	_, err = m.OptString("s")
	assert.ErrorIs(t, err, ErrFieldType)
}

func TestFieldMap_SetOptAndNullable(t *testing.T) {
	t.Parallel()

	m := NewFieldMap(4)
	title := "News"
	SetOpt(&m, "present", &title)
	SetOpt[string](&m, "skipped", nil)
	SetNullable[string](&m, "null", nil)

	assert.Equal(t, []string{"present", "null"}, m.Keys())
	v, ok := m.Get("null")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestFieldMap_CloneIsDeep(t *testing.T) {
	t.Parallel()

	inner := NewFieldMap(1)
	inner.Set("k", "v")
	m := NewFieldMap(2)
	m.Set("blob", []byte{1, 2})
	m.Set("list", []FieldMap{inner})

	clone := m.Clone()
	blob, _ := clone.Bytes("blob")
	blob[0] = 9
	list, _ := clone.List("list")
	list[0].Set("k", "changed")

	orig, _ := m.Bytes("blob")
	assert.Equal(t, byte(1), orig[0])
	origList, _ := m.List("list")
	s, _ := origList[0].String("k")
	assert.Equal(t, "v", s)
}

func TestFieldMap_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	ts := time.Date(2019, 6, 12, 10, 30, 0, 123000000, time.UTC)
	event := NewFieldMap(4)
	event.Set(symbols.EventKind, 32)
	event.Set(symbols.Timestamp, ts)
	event.Set(symbols.PageName, "player")
	event.Set(symbols.PreviousPage, nil)

	doc := NewFieldMap(3)
	doc.Set(symbols.DocVersion, "1.0.0")
	doc.Set(symbols.DeviceHwID, []byte{0xca, 0xfe})
	doc.Set(symbols.Batch, []FieldMap{event})

	data, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"document-version": "1.0.0",
		"gizmo-id": "cafe",
		"batch": [{
			"event-idClass": 32,
			"timestamp": "2019-06-12T10:30:00.123Z",
			"navigation-page": "player",
			"navigation-previousPage": null
		}]
	}`, string(data))

	back, err := FieldMapFromJSON(data, symbols.V1())
	require.NoError(t, err)
	assert.Equal(t, doc.Keys(), back.Keys())

	hwID, err := back.Bytes(symbols.DeviceHwID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xca, 0xfe}, hwID)

	batch, err := back.List(symbols.Batch)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, event.Keys(), batch[0].Keys())
	got, err := batch[0].Time(symbols.Timestamp)
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}

func TestFieldMapFromJSON_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		json string
	}{
		{name: "not an object", json: `[1,2]`},
		{name: "unknown field", json: `{"nope": 1}`},
		{name: "wrong type", json: `{"event-idClass": "32"}`},
		{name: "bad timestamp", json: `{"timestamp": "yesterday"}`},
		{name: "bad blob", json: `{"gizmo-id": "zz"}`},
		{name: "trailing data", json: `{"event-idClass": 1} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FieldMapFromJSON([]byte(tt.json), symbols.V1())
			assert.ErrorIs(t, err, ErrInvalidJSON)
		})
	}
}
