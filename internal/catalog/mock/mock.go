package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/jon4hz/decksmith/internal/card"
	"github.com/jon4hz/decksmith/internal/catalog"
)

var _ catalog.Accessor = (*MockCatalog)(nil)

// MockCatalog is an in-memory implementation of catalog.Accessor for testing.
type MockCatalog struct {
	mu    sync.RWMutex
	cards []card.Card

	// Error simulation
	FindByNameError error
	FindExactError  error
	AllError        error

	// Call counters
	AllCalls int
}

// NewMockCatalog creates a catalog holding the given cards in order.
func NewMockCatalog(cards ...card.Card) *MockCatalog {
	return &MockCatalog{cards: append([]card.Card(nil), cards...)}
}

// Add appends cards to the catalog.
func (m *MockCatalog) Add(cards ...card.Card) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards = append(m.cards, cards...)
}

// Reset clears all cards and errors.
func (m *MockCatalog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards = nil
	m.FindByNameError = nil
	m.FindExactError = nil
	m.AllError = nil
	m.AllCalls = 0
}

// FindByName implements catalog.Accessor.
func (m *MockCatalog) FindByName(_ context.Context, substr string) ([]card.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindByNameError != nil {
		return nil, m.FindByNameError
	}

	needle := strings.ToLower(strings.TrimSpace(substr))
	result := make([]card.Card, 0)
	seen := make(map[string]bool)
	for _, c := range m.cards {
		if seen[c.Name] || !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		seen[c.Name] = true
		result = append(result, c)
	}
	return result, nil
}

// FindExact implements catalog.Accessor.
func (m *MockCatalog) FindExact(_ context.Context, name string) (card.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindExactError != nil {
		return card.Card{}, m.FindExactError
	}
	for _, c := range m.cards {
		if c.Name == name {
			return c, nil
		}
	}
	return card.Card{}, catalog.ErrCardNotFound
}

// All implements catalog.Accessor.
func (m *MockCatalog) All(_ context.Context) ([]card.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AllCalls++
	if m.AllError != nil {
		return nil, m.AllError
	}
	result := make([]card.Card, 0, len(m.cards))
	seen := make(map[string]bool)
	for _, c := range m.cards {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		result = append(result, c)
	}
	return result, nil
}
