package db

import (
	"errors"
	"sync"
)

// Memory is a map-backed Database for tests and short-lived trees.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ Database = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	ret := make([]byte, len(v))
	copy(ret, v)
	return ret, nil
}

func (m *Memory) NewTransaction() Transaction {
	return &memoryTransaction{db: m, staged: make(map[string][]byte)}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

type memoryTransaction struct {
	db     *Memory
	staged map[string][]byte
}

var _ Transaction = (*memoryTransaction)(nil)

func (t *memoryTransaction) Get(key []byte) ([]byte, error) {
	if t.staged == nil {
		return nil, errors.New("get: transaction already committed")
	}
	if v, ok := t.staged[string(key)]; ok {
		ret := make([]byte, len(v))
		copy(ret, v)
		return ret, nil
	}
	return t.db.Get(key)
}

func (t *memoryTransaction) Set(key, value []byte) error {
	if t.staged == nil {
		return errors.New("set: transaction already committed")
	}
	v := make([]byte, len(value))
	copy(v, value)
	t.staged[string(key)] = v
	return nil
}

func (t *memoryTransaction) Commit() error {
	if t.staged == nil {
		return errors.New("commit: transaction already committed")
	}
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	for k, v := range t.staged {
		t.db.data[k] = v
	}
	t.staged = nil
	return nil
}

func (t *memoryTransaction) Discard() {
	t.staged = nil
}
