// Package memory is an in-process KV store used for tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/randomtoy/tarot-studio/internal/domain"
)

// Store keeps values in a map and enforces a byte quota over all values.
// A quota of zero or less disables the check.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
	quota  int64
}

func NewStore(quota int64) *Store {
	return &Store{values: make(map[string][]byte), quota: quota}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 {
		var used int64
		for k, v := range s.values {
			if k != key {
				used += int64(len(v))
			}
		}
		if used+int64(len(value)) > s.quota {
			return fmt.Errorf("set %s: %w", key, domain.ErrQuotaExceeded)
		}
	}
	s.values[key] = slices.Clone(value)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}
