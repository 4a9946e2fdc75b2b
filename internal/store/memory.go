// Package store provides entity-data store implementations keyed by
// host.Identity. Memory is the default; the sqlite subpackage persists the
// same contract to disk.
package store

import (
	"fmt"
	"sync"

	"railwatch/server/internal/host"
)

// Memory is a process-local entity store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]any)}
}

func (m *Memory) Get(id host.Identity) (any, bool, error) {
	if !id.Valid() {
		return nil, false, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[id.Name()]
	return value, ok, nil
}

func (m *Memory) Set(id host.Identity, value any) error {
	if !id.Valid() {
		return fmt.Errorf("store: cannot attach data to invalid identity %q", id.Name())
	}
	m.mu.Lock()
	m.data[id.Name()] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(id host.Identity) error {
	m.mu.Lock()
	delete(m.data, id.Name())
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
