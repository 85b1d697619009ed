package stores

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"stb-telemetry/internal/codecs"
	codecmocks "stb-telemetry/internal/codecs/mocks"
	"stb-telemetry/internal/models"
	"stb-telemetry/internal/shared/filestorages"
	"stb-telemetry/internal/shared/filestorages/mocks"
	"stb-telemetry/internal/symbols"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func packedDeviceContext() models.FieldMap {
	m := models.NewFieldMap(3)
	m.Set(symbols.EventKind, int64(64))
	m.Set(symbols.Timestamp, time.Date(2019, 6, 12, 9, 0, 0, 0, time.UTC))
	m.Set(symbols.HardwareVersion, "HW-2")
	return m
}

func TestDeviceContextStore_SaveLoad_OnDisk(t *testing.T) {
	t.Parallel()

	fileStorage, err := filestorages.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	store := NewDeviceContextStore(fileStorage, codecs.NewCBORCodec(), symbols.V1())
	ctx := context.Background()

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrDeviceContextNotFound)

	require.NoError(t, store.Save(ctx, packedDeviceContext()))

	newer := packedDeviceContext()
	newer.Set(symbols.HardwareVersion, "HW-3")
	require.NoError(t, store.Save(ctx, newer))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	hw, err := got.String(symbols.HardwareVersion)
	require.NoError(t, err)
	assert.Equal(t, "HW-3", hw)
	assert.Equal(t, newer.Keys(), got.Keys())

	names, err := NewBatchFileStore(fileStorage, "").List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names, "the state file is not listed as a batch")
}

func TestDeviceContextStore_Save_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(codec *codecmocks.MockCodec, fs *mocks.MockFileStorage)
		wantErrMsg string
	}{
		{
			name: "encode failure",
			setup: func(codec *codecmocks.MockCodec, _ *mocks.MockFileStorage) {
				codec.EXPECT().Encode(gomock.Any(), gomock.Any()).Return(nil, errors.New("bad symbol"))
			},
			wantErrMsg: "failed to encode device context: bad symbol",
		},
		{
			name: "put failure",
			setup: func(codec *codecmocks.MockCodec, fs *mocks.MockFileStorage) {
				codec.EXPECT().Encode(gomock.Any(), gomock.Any()).Return([]byte{1}, nil)
				fs.EXPECT().
					Put(gomock.Any(), "state/device-context.cbor", gomock.Any(), filestorages.PutOptions{AllowOverwrite: true}).
					Return(nil, errors.New("read-only"))
			},
			wantErrMsg: "failed to put device context: read-only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			codec := codecmocks.NewMockCodec(ctrl)
			fs := mocks.NewMockFileStorage(ctrl)
			tt.setup(codec, fs)

			store := NewDeviceContextStore(fs, codec, symbols.V1())
			assert.EqualError(t, store.Save(context.Background(), packedDeviceContext()), tt.wantErrMsg)
		})
	}
}

func TestDeviceContextStore_Load_DecodeError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	codec := codecmocks.NewMockCodec(ctrl)
	fs := mocks.NewMockFileStorage(ctrl)
	schema := symbols.V1()

	fs.EXPECT().Get(gomock.Any(), "state/device-context.cbor").
		Return(io.NopCloser(bytes.NewReader([]byte{0xff})), nil)
	codec.EXPECT().Decode([]byte{0xff}, schema).Return(models.FieldMap{}, codecs.ErrMalformed)

	store := NewDeviceContextStore(fs, codec, schema)
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, codecs.ErrMalformed)
}
