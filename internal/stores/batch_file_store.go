package stores

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"stb-telemetry/internal/shared/filestorages"
)

var (
	ErrBatchFileAlreadyExists = errors.New("batch file already exists")
	ErrBatchFileNotFound      = errors.New("batch file not found")
)

// BatchFileExt is the extension of encoded batch files.
const BatchFileExt = ".cbor"

// BatchFilename names the file for a batch flushed at now by the device clientID:
// YYYYMMDD-HHMMSS followed by six digits of microseconds, an underscore and the client id.
func BatchFilename(now time.Time, clientID string) string {
	now = now.UTC()
	return fmt.Sprintf("%s%06d_%s%s", now.Format("20060102-150405"), now.Nanosecond()/int(time.Microsecond), clientID, BatchFileExt)
}

// BatchFileStore persists encoded batches. Put never replaces an existing file, so two
// flushes that derive the same name fail loudly instead of losing a batch.
//
//go:generate mockgen -source=batch_file_store.go -destination=./mocks/batch_file_store_mock.go -package=mocks
type BatchFileStore interface {
	Put(ctx context.Context, filename string, data []byte) error
	Get(ctx context.Context, filename string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

type batchFileStore struct {
	fileStorage filestorages.FileStorage
	dir         string
}

// NewBatchFileStore stores batches under dir inside the storage root; an empty dir means the
// root itself.
func NewBatchFileStore(fileStorage filestorages.FileStorage, dir string) BatchFileStore {
	return &batchFileStore{fileStorage: fileStorage, dir: dir}
}

func (s *batchFileStore) Put(ctx context.Context, filename string, data []byte) error {
	_, err := s.fileStorage.Put(ctx, s.key(filename), bytes.NewReader(data), filestorages.PutOptions{AllowOverwrite: false})
	if err != nil {
		if errors.Is(err, filestorages.ErrFileAlreadyExists) {
			return fmt.Errorf("%w: %s", ErrBatchFileAlreadyExists, filename)
		}
		return fmt.Errorf("failed to put batch file: %w", err)
	}
	return nil
}

func (s *batchFileStore) Get(ctx context.Context, filename string) ([]byte, error) {
	rc, err := s.fileStorage.Get(ctx, s.key(filename))
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBatchFileNotFound, filename)
		}
		return nil, fmt.Errorf("failed to get batch file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return data, nil
}

// List returns batch filenames in name order, which is flush order.
func (s *batchFileStore) List(ctx context.Context) ([]string, error) {
	keys, err := s.fileStorage.List(ctx, s.dir, BatchFileExt)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch files: %w", err)
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, path.Base(key))
	}
	return names, nil
}

func (s *batchFileStore) key(filename string) string {
	if s.dir == "" {
		return filename
	}
	return path.Join(s.dir, filename)
}
