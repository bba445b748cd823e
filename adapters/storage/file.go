package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"ebill/internal/errors"
)

// FileStore appends records to a JSON-lines file
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore creates a file store, creating the parent directory
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.Connection("no file path configured for file backend", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Connection("create storage directory", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Save(ctx context.Context, record *BillRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	stored.ID = uuid.New().String()

	data, err := json.Marshal(&stored)
	if err != nil {
		return "", errors.Write("marshal bill", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", errors.Connection("open "+s.path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return "", errors.Write("append bill", err)
	}
	if err := f.Sync(); err != nil {
		return "", errors.Write("sync "+s.path, err)
	}
	return stored.ID, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*BillRecord, error) {
	records, err := s.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, errors.NotFound("bill", id)
}

func (s *FileStore) List(ctx context.Context, filter *ListFilter) ([]*BillRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Connection("open "+s.path, err)
	}
	defer f.Close()

	var results []*BillRecord
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var r BillRecord
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, errors.Write("decode bill", err).WithContext("line", line)
		}
		if filter.matches(&r) {
			results = append(results, &r)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Write("read "+s.path, err)
	}
	return filter.limit(results), nil
}

func (s *FileStore) Close(ctx context.Context) error {
	return nil
}
