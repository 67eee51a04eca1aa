package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/oops"

	"telewatch/internal/modules/channel/domain"
	"telewatch/internal/shared/errors"
)

const (
	channelsFile  = "channels.json"
	selectionFile = "selection.json"
)

// FileStorage implements channel.Repository on top of two JSON documents.
// Writes go through a temp file plus rename so a crash mid-write never
// leaves a half-updated record behind.
type FileStorage struct {
	basePath string
	mu       sync.Mutex
}

// NewFileStorage creates a new file-based channel repository
func NewFileStorage(basePath string) (Repository, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create storage directory").Wrap(err)
	}

	return &FileStorage{basePath: basePath}, nil
}

func (s *FileStorage) SaveChannels(channels []*domain.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAtomic(channelsFile, channels)
}

func (s *FileStorage) LoadChannels() ([]*domain.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var channels []*domain.Channel
	if err := s.readJSON(channelsFile, &channels); err != nil {
		return nil, err
	}
	if channels == nil {
		channels = []*domain.Channel{}
	}
	return channels, nil
}

func (s *FileStorage) SaveSelection(ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ids == nil {
		ids = []int64{}
	}
	return s.writeAtomic(selectionFile, ids)
}

func (s *FileStorage) LoadSelection() ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int64
	if err := s.readJSON(selectionFile, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// readJSON loads a record; a missing file reads as the zero value rather
// than failing.
func (s *FileStorage) readJSON(name string, v any) error {
	path := filepath.Join(s.basePath, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return oops.With("path", path, "context", "failed to read record").Wrap(err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return oops.With("path", path, "context", "failed to unmarshal record").Wrap(err)
	}
	return nil
}

func (s *FileStorage) writeAtomic(name string, v any) error {
	path := filepath.Join(s.basePath, name)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return oops.With("path", path, "context", "failed to marshal record").Wrap(errors.ErrPersistence)
	}

	tmp, err := os.CreateTemp(s.basePath, name+".tmp-*")
	if err != nil {
		return oops.With("path", path).Wrapf(errors.ErrPersistence, "failed to create temp file: %v", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return oops.With("path", path).Wrapf(errors.ErrPersistence, "failed to write temp file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return oops.With("path", path).Wrapf(errors.ErrPersistence, "failed to close temp file: %v", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return oops.With("path", path).Wrapf(errors.ErrPersistence, "failed to replace record: %v", err)
	}
	return nil
}
