package stores

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"stb-telemetry/internal/codecs"
	"stb-telemetry/internal/models"
	"stb-telemetry/internal/shared/filestorages"
	"stb-telemetry/internal/symbols"
)

var ErrDeviceContextNotFound = errors.New("device context not found")

// DeviceContextStore keeps the last device context across restarts, so batches can be
// written before the box reports a fresh one. Each Save replaces the previous snapshot.
//
//go:generate mockgen -source=device_context_store.go -destination=./mocks/device_context_store_mock.go -package=mocks
type DeviceContextStore interface {
	Save(ctx context.Context, packed models.FieldMap) error
	Load(ctx context.Context) (models.FieldMap, error)
}

type deviceContextStore struct {
	fileStorage filestorages.FileStorage
	codec       codecs.Codec
	schema      *symbols.Schema
	key         string
}

func NewDeviceContextStore(fileStorage filestorages.FileStorage, codec codecs.Codec, schema *symbols.Schema) DeviceContextStore {
	return &deviceContextStore{
		fileStorage: fileStorage,
		codec:       codec,
		schema:      schema,
		key:         "state/device-context" + BatchFileExt,
	}
}

func (s *deviceContextStore) Save(ctx context.Context, packed models.FieldMap) error {
	data, err := s.codec.Encode(packed, s.schema)
	if err != nil {
		return fmt.Errorf("failed to encode device context: %w", err)
	}
	_, err = s.fileStorage.Put(ctx, s.key, bytes.NewReader(data), filestorages.PutOptions{AllowOverwrite: true})
	if err != nil {
		return fmt.Errorf("failed to put device context: %w", err)
	}
	return nil
}

func (s *deviceContextStore) Load(ctx context.Context) (models.FieldMap, error) {
	rc, err := s.fileStorage.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return models.FieldMap{}, ErrDeviceContextNotFound
		}
		return models.FieldMap{}, fmt.Errorf("failed to get device context: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return models.FieldMap{}, fmt.Errorf("failed to read device context: %w", err)
	}
	packed, err := s.codec.Decode(data, s.schema)
	if err != nil {
		return models.FieldMap{}, fmt.Errorf("failed to decode device context: %w", err)
	}
	return packed, nil
}
