package memory

import (
	"sync"

	"github.com/descry/descry/cache"
)

// New implements an ephemeral in-memory store. Useful for testing.
func New() *memoryStore {
	return &memoryStore{
		manifests: map[string]string{},
	}
}

// Assert Store implementation
var _ cache.Store = &memoryStore{}

type memoryStore struct {
	mu        sync.Mutex
	manifests map[string]string
}

func (s *memoryStore) Get(endpoint string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.manifests[endpoint]
	if !ok {
		return "", cache.ErrNotFound
	}
	return raw, nil
}

func (s *memoryStore) Set(endpoint string, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[endpoint] = raw
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
