package snapshot

import (
	"context"
	"sync"
)

// Memory keeps the snapshot in memory. It exists for tests and dry runs.
type Memory struct {
	mu    sync.Mutex
	text  string
	saves int
}

// NewMemory builds an in-memory store, optionally seeded with text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

// Load returns the stored text.
func (m *Memory) Load(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// Save replaces the stored text.
func (m *Memory) Save(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.saves++
	return nil
}

// Saves reports how many commits happened, for test assertions.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
