package memory

import (
	"context"
	"sync"

	"giftledger/internal/slot"
)

type Store struct {
	mu       sync.Mutex
	items    map[string][]byte
	writes   int
	failWith error
}

func New() *Store {
	return &Store{items: map[string][]byte{}}
}

// NewSeeded returns a store that already holds the given slots.
func NewSeeded(seed map[string][]byte) *Store {
	s := New()
	for k, v := range seed {
		s.items[k] = append([]byte(nil), v...)
	}
	return s
}

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, slot.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores a copy of value, or returns the configured failure.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	if key == "" {
		return slot.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.items[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// FailWrites makes every following Put return err. Pass nil to recover.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// Writes counts successful Put calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
