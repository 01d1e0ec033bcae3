// Package catalog provides read-only access to the card catalog.
package catalog

import (
	"context"
	"errors"

	"github.com/jon4hz/decksmith/internal/card"
)

// ErrCardNotFound is returned when an exact name lookup has no match.
var ErrCardNotFound = errors.New("card not found")

// Accessor is the read-only view of the card catalog used by the deck engine
// and the search views.
type Accessor interface {
	// FindByName returns cards whose name contains substr (case-insensitive), distinct by name.
	FindByName(ctx context.Context, substr string) ([]card.Card, error)
	// FindExact returns the card with exactly this name or ErrCardNotFound.
	FindExact(ctx context.Context, name string) (card.Card, error)
	// All returns every card in the catalog, distinct by name.
	All(ctx context.Context) ([]card.Card, error)
}
