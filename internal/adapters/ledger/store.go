// Package ledger implements the history ledger as a JSON array on the local filesystem.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.HistoryLedger using a flat JSON file.
//
// Every mutation is a read-modify-write of the whole file under a single mutex, so concurrent
// Append and Upsert calls in one process never lose records. The file is replaced atomically.
type Store struct {
	path     string
	capacity int
	logger   ports.Logger
	mu       sync.Mutex
}

// NewStore creates a Store backed by the file at path. The file and its directory are created on
// first write.
func NewStore(path string, capacity int, logger ports.Logger) *Store {
	if capacity <= 0 {
		capacity = domain.HistoryCapacity
	}
	return &Store{
		path:     filepath.Clean(path),
		capacity: capacity,
		logger:   logger,
	}
}

// Append prepends record and drops the oldest entries beyond capacity.
func (s *Store) Append(_ context.Context, record domain.TaskRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.read()
	records = append([]domain.TaskRecord{record}, records...)
	s.write(s.truncate(records))
}

// Upsert replaces the first record with the same task id in place, or prepends it.
func (s *Store) Upsert(_ context.Context, record domain.TaskRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.read()
	for i := range records {
		if records[i].TaskID == record.TaskID {
			if record.CreatedAt.IsZero() {
				record.CreatedAt = records[i].CreatedAt
			}
			if len(record.OriginalImageURLs) == 0 {
				record.OriginalImageURLs = records[i].OriginalImageURLs
			}
			records[i] = record
			s.write(records)
			return
		}
	}

	records = append([]domain.TaskRecord{record}, records...)
	s.write(s.truncate(records))
}

// FindByID returns the first record with the given task id.
func (s *Store) FindByID(_ context.Context, taskID string) (domain.TaskRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.read() {
		if r.TaskID == taskID {
			return r, true
		}
	}
	return domain.TaskRecord{}, false
}

// All returns every record, newest first.
func (s *Store) All(_ context.Context) []domain.TaskRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

func (s *Store) truncate(records []domain.TaskRecord) []domain.TaskRecord {
	if len(records) > s.capacity {
		return records[:s.capacity]
	}
	return records
}

// read returns the persisted records. A missing, empty or corrupt file reads as empty.
func (s *Store) read() []domain.TaskRecord {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.warn(zerr.Wrap(err, "failed to read history"))
		}
		return []domain.TaskRecord{}
	}

	if len(data) == 0 {
		return []domain.TaskRecord{}
	}

	var records []domain.TaskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.warn(zerr.Wrap(err, "failed to unmarshal history"))
		return []domain.TaskRecord{}
	}
	if records == nil {
		records = []domain.TaskRecord{}
	}
	return records
}

func (s *Store) write(records []domain.TaskRecord) {
	if err := s.save(records); err != nil {
		s.warn(err)
	}
}

func (s *Store) save(records []domain.TaskRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal history")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory for history")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary history file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to write history")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to close temporary history file")
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to set history file permissions")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to replace history file")
	}
	return nil
}

func (s *Store) warn(err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn("history ledger unavailable",
		"error", domain.WithKind(domain.ErrPersistence, zerr.With(err, "path", s.path)).Error())
}
