package storage

import (
	"context"
	"errors"
	"io"
	"sync"
)

// MemoryStore keeps uploads in memory. FailPut makes the next Put calls fail.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	FailPut bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, key string, f File) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPut {
		return "", errors.New("memory store: put failed")
	}
	b, err := io.ReadAll(f.Body)
	if err != nil {
		return "", err
	}
	s.objects[key] = b
	return key, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) URL(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", ErrObjectNotFound
	}
	return "memory://" + key, nil
}

func (s *MemoryStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
