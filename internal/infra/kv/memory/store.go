// Package memory implements kv.Store in process memory. It backs tests and
// ephemeral development runs.
package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
)

var _ kv.Store = (*Store)(nil)

type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	v, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, kv.ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.data[key] = bytes.Clone(value)
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Update holds the write lock for the whole read-modify-write cycle.
func (s *Store) Update(ctx context.Context, key string, fn kv.UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, found := s.data[key]
	next, err := fn(bytes.Clone(current), found)
	if err != nil {
		return err
	}
	s.data[key] = bytes.Clone(next)
	return nil
}

func (s *Store) Close() error { return nil }
