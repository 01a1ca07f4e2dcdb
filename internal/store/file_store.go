package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const backupLayout = "20060102_150405"

// FileStore persists the working schedule document as a single JSON file.
// Every save first copies the current file into the backup directory with a
// timestamped name, then replaces the file atomically.
type FileStore struct {
	path      string
	backupDir string
	mu        sync.Mutex
}

// NewFileStore creates a store writing to path, with backups under backupDir.
func NewFileStore(path, backupDir string) *FileStore {
	return &FileStore{path: path, backupDir: backupDir}
}

// Path returns the data file location.
func (s *FileStore) Path() string { return s.path }

// Exists reports whether a schedule document has been saved.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save writes the document, backing up the previous version first. The
// payload must be valid JSON.
func (s *FileStore) Save(doc json.RawMessage) error {
	if !json.Valid(doc) {
		return fmt.Errorf("store: payload is not valid JSON")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("store: create data dir: %w", err)
	}
	if err := s.backup(); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, doc, 0o644); err != nil {
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("store: replace data file: %w", err)
	}
	return nil
}

// Load returns the saved document, or an empty object when nothing has been
// saved yet.
func (s *FileStore) Load() (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return json.RawMessage("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read data file: %w", err)
	}
	return data, nil
}

// backup copies the current data file into the backup directory. Missing data
// file means there is nothing to back up.
func (s *FileStore) backup() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: read for backup: %w", err)
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return fmt.Errorf("store: create backup dir: %w", err)
	}
	name := fmt.Sprintf("schedule_backup_%s.json", time.Now().Format(backupLayout))
	if err := os.WriteFile(filepath.Join(s.backupDir, name), data, 0o644); err != nil {
		return fmt.Errorf("store: write backup: %w", err)
	}
	return nil
}
