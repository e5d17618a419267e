package prefs

import (
	"context"
	"runmap-service/internal/ports"
	"sync"
)

// In-process PreferenceStore. Values are lost on restart.
type MemoryPreferenceStore struct {
	mu sync.RWMutex
	m  map[string]string
}

var _ ports.PreferenceStore = (*MemoryPreferenceStore)(nil)

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{m: make(map[string]string)}
}

func (s *MemoryPreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryPreferenceStore) Set(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
