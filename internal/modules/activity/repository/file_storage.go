package repository

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/oops"

	"telewatch/internal/modules/activity/domain"
	"telewatch/internal/shared/errors"
)

const activityFile = "activity.jsonl"

// FileStorage appends delivered records to a JSONL file. It exists so a
// session's activity survives restarts; the ring buffer stays the hot path.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage creates an append-only activity log under basePath.
func NewFileStorage(basePath string) (*FileStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create storage directory").Wrap(err)
	}
	return &FileStorage{path: filepath.Join(basePath, activityFile)}, nil
}

func (s *FileStorage) Append(record *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(record)
	if err != nil {
		return oops.With("path", s.path).Wrapf(errors.ErrPersistence, "failed to marshal record: %v", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return oops.With("path", s.path).Wrapf(errors.ErrPersistence, "failed to open activity log: %v", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return oops.With("path", s.path).Wrapf(errors.ErrPersistence, "failed to append record: %v", err)
	}
	return nil
}

// Recent returns up to limit records from the end of the log, newest first.
func (s *FileStorage) Recent(limit int) ([]*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Record{}, nil
		}
		return nil, oops.With("path", s.path, "context", "failed to open activity log").Wrap(err)
	}
	defer f.Close()

	var records []*domain.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec domain.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, oops.With("path", s.path, "context", "failed to read activity log").Wrap(err)
	}

	// Newest first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
