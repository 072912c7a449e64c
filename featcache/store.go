// Package featcache caches computed spectrograms in memory and in a persistent store.
package featcache

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by a Store for a missing key
var ErrNotFound = errors.New("featcache: not found")

// Store is a byte key value store
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// Memory is a Store held in a map
type Memory struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemory creates an empty memory store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

// Get returns the value under key, or ErrNotFound.
func (s *Memory) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

// Set stores a copy of value under key.
func (s *Memory) Set(key string, value []byte) error {
	s.mu.Lock()
	s.m[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *Memory) Close() error {
	return nil
}
