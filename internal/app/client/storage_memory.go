package client

import (
	"encoding/json"
	"sync"

	"freshcart/internal/domain/cart"
)

// MemoryStorage - временное in-memory хранилище. Используется как запасной
// вариант, когда SQLite недоступен, и в тестах.
type MemoryStorage struct {
	mu       sync.Mutex
	snapshot []byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) SaveCart(state *cart.CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.snapshot = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) LoadCart() (*cart.CartState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshot == nil {
		return nil, nil
	}

	var state cart.CartState
	if err := json.Unmarshal(m.snapshot, &state); err != nil {
		return nil, nil
	}

	return &state, nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
