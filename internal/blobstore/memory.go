package blobstore

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryStore is a process-local Store used in tests and when no redis is
// configured.
type MemoryStore struct {
	mu         sync.RWMutex
	containers map[string]map[string][]byte
}

// NewMemoryStore builds an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{containers: make(map[string]map[string][]byte)}
}

// List returns blob names in the container, sorted.
func (s *MemoryStore) List(_ context.Context, container string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blobs := s.containers[container]
	names := make([]string, 0, len(blobs))
	for name := range blobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Put stores a blob, overwriting any existing blob of the same name.
func (s *MemoryStore) Put(_ context.Context, container, name string, data []byte) error {
	if name == "" {
		return errors.New("blob name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	blobs, ok := s.containers[container]
	if !ok {
		blobs = make(map[string][]byte)
		s.containers[container] = blobs
	}
	blobs[name] = append([]byte(nil), data...)
	return nil
}

// Delete removes a blob, reporting ErrBlobNotFound when absent.
func (s *MemoryStore) Delete(_ context.Context, container, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blobs, ok := s.containers[container]
	if !ok {
		return ErrBlobNotFound
	}
	if _, ok := blobs[name]; !ok {
		return ErrBlobNotFound
	}
	delete(blobs, name)
	return nil
}

// Get returns a stored blob's bytes; used by tests.
func (s *MemoryStore) Get(_ context.Context, container, name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.containers[container][name]
	return data, ok
}
