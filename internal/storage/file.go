package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/thereayou/geotrack/internal/models"
)

// FileStore appends records to a local JSON-lines file. Write-only: it is a
// dump for offline inspection, not a source the server reads back.
type FileStore struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

func OpenFileStore(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}

	return &FileStore{
		f:   f,
		enc: json.NewEncoder(f),
	}, nil
}

func (s *FileStore) SaveLocation(_ context.Context, rec *models.LocationUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("append history file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.f.Close()
}
