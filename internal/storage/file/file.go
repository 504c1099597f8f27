// Package file provides a KV store persisted as a YAML document on local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// yamlDocument is the on-disk layout.
type yamlDocument struct {
	Values map[string]string `yaml:"values"`
}

// Store is a KV backed by one YAML file. Every Set rewrites the file
// atomically via a temporary file and rename.
// It is safe for concurrent use within one process.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store reading and writing path. The file is created on the first Set.
//
// Precondition: path must be non-empty.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get implements storage.KV. A missing file is treated as an empty store.
//
// Postcondition: Returns an error only when the file exists but cannot be read or parsed.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readLocked()
	if err != nil {
		return "", false, err
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

// Set implements storage.KV.
//
// Postcondition: On success the file contains value under key and all other keys unchanged.
// An unreadable existing file is replaced rather than blocking the write.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readLocked()
	if err != nil {
		doc = yamlDocument{}
	}
	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}
	doc.Values[key] = value

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.path, err)
	}
	return s.writeLocked(data)
}

func (s *Store) readLocked() (yamlDocument, error) {
	var doc yamlDocument
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return yamlDocument{}, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *Store) writeLocked(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
