package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type sessionFile struct {
	Version int      `yaml:"version"`
	Session *Session `yaml:"session"`
}

// FileStore keeps the session in a YAML file so it survives between runs.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Path() string {
	return f.path
}

// Load returns the stored session, or nil when there is none.
func (f *FileStore) Load() (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var file sessionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse session file %q: %w", f.path, err)
	}
	if file.Session == nil || file.Session.AccessToken == "" {
		return nil, nil
	}
	return file.Session, nil
}

// Save writes s atomically. A nil session clears the file.
func (f *FileStore) Save(s *Session) error {
	if s == nil {
		return f.Clear()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := yaml.Marshal(sessionFile{Version: 1, Session: s})
	if err != nil {
		return err
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpPath, f.path)
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
