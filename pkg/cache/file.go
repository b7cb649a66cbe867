package cache

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/rstfmt/rstfmt/pkg/observability"
)

// manifestSchema guards against reading manifests written by an
// incompatible layout; a mismatch discards the cache.
const manifestSchema = 1

// FileStore keeps all fingerprints in a single JSON manifest. The
// manifest is read once at construction and written once per Flush, so
// formatting N files costs two cache I/O operations, not 2N.
//
// A manifest that cannot be decoded is discarded and rebuilt from
// scratch; corruption never fails a run.
type FileStore struct {
	fs   afero.Fs
	path string

	mu      sync.Mutex
	entries map[string]struct{}
	dirty   bool
}

type manifest struct {
	Schema       int      `json:"schema"`
	Fingerprints []string `json:"fingerprints"`
}

// NewFileStore loads the manifest at path, creating an empty store when
// it does not exist or is corrupt.
func NewFileStore(fs afero.Fs, path string) (*FileStore, error) {
	s := &FileStore{
		fs:      fs,
		path:    path,
		entries: make(map[string]struct{}),
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		// Missing manifest is a cold cache. Any other read error is
		// treated the same way: start empty, rebuild on flush.
		return s, nil
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil || m.Schema != manifestSchema {
		_ = fs.Remove(path)
		s.dirty = true
		return s, nil
	}
	for _, fp := range m.Fingerprints {
		s.entries[fp] = struct{}{}
	}
	return s, nil
}

// Lookup reports whether fingerprint was recorded.
func (s *FileStore) Lookup(_ context.Context, fingerprint string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[fingerprint]
	return ok, nil
}

// Store records fingerprint in memory; Flush persists it.
func (s *FileStore) Store(_ context.Context, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[fingerprint]; !ok {
		s.entries[fingerprint] = struct{}{}
		s.dirty = true
	}
	return nil
}

// Flush writes the manifest atomically: a temp file in the same
// directory, then a rename over the old manifest.
func (s *FileStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	observability.Cache().OnCacheFlush(ctx, len(s.entries))

	m := manifest{Schema: manifestSchema, Fingerprints: make([]string, 0, len(s.entries))}
	for fp := range s.entries {
		m.Fingerprints = append(m.Fingerprints, fp)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return err
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	s.dirty = false
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error {
	return nil
}

// Len reports the number of recorded fingerprints.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear drops every entry; the next Flush writes an empty manifest.
func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) > 0 {
		s.entries = make(map[string]struct{})
	}
	s.dirty = true
}

var _ Store = (*FileStore)(nil)
