package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore реализует Store в памяти.
type MemoryStore struct {
	data map[string]string
	fail error
	mu   sync.RWMutex
}

// NewMemoryStore создаёт новый MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]string),
	}
}

// Fail заставляет все последующие операции возвращать err (nil снимает ошибку).
func (s *MemoryStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fail = err
}

// Get возвращает значение по ключу.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(ctx); err != nil {
		return "", false, err
	}

	value, ok := s.data[key]

	return value, ok, nil
}

// Set сохраняет значение по ключу.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return err
	}

	s.data[key] = value

	return nil
}

// SetMulti сохраняет все пары под одной блокировкой.
func (s *MemoryStore) SetMulti(ctx context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx); err != nil {
		return err
	}

	for key, value := range entries {
		s.data[key] = value
	}

	return nil
}

// Close ничего не делает.
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if s.fail != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, s.fail)
	}

	return nil
}
