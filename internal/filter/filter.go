// Package filter narrows card lists down for display and groups them by type.
package filter

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/decksmith/internal/card"
)

// Filterer defines the interface for card filters.
type Filterer interface {
	fmt.Stringer
	// Apply returns the cards that pass the filter, keeping their order.
	Apply(context.Context, []card.Card) ([]card.Card, error)
}

// Filter applies all provided filters sequentially to cards.
type Filter struct {
	filters []Filterer
}

// NewChain creates a new Filter with the given filters.
func NewChain(filters ...Filterer) *Filter {
	return &Filter{
		filters: filters,
	}
}

// New builds the filter chain for a spec. Filters whose spec field is empty
// are left out. Without an explicit color selection the cards are held to
// the color identity of the given commanders, if there are any.
func New(spec Spec, commanders []card.Card) *Filter {
	spec = spec.Normalize()

	var filters []Filterer
	if spec.Name != "" {
		filters = append(filters, nameFilter(spec.Name))
	}
	if spec.Type != "" {
		filters = append(filters, typeFilter(spec.Type))
	}
	if spec.Subtype != "" {
		filters = append(filters, subtypeFilter(spec.Subtype))
	}
	if spec.Text != "" {
		filters = append(filters, textFilter(spec.Text))
	}
	if spec.MinManaValue != nil || spec.MaxManaValue != nil {
		filters = append(filters, manaValueFilter(spec.MinManaValue, spec.MaxManaValue))
	}
	switch {
	case len(spec.Colors) > 0:
		filters = append(filters, colorFilter(card.NewColors(spec.Colors...)))
	case len(commanders) > 0:
		filters = append(filters, identityFilter(card.ColorIdentity(commanders)))
	}
	return NewChain(filters...)
}

// Len returns the number of filters in the chain.
func (f *Filter) Len() int {
	return len(f.filters)
}

// ApplyAll applies all filters sequentially to the provided cards.
func (f *Filter) ApplyAll(ctx context.Context, cards []card.Card) ([]card.Card, error) {
	var err error
	filtered := cards

	for _, filter := range f.filters {
		preFilterCount := len(filtered)
		filtered, err = filter.Apply(ctx, filtered)
		if err != nil {
			log.Error("Failed to apply filter.", "filter", filter.String(), "error", err)
			return nil, err
		}
		log.Debug("Filter applied.", "filter", filter.String(), "remaining_cards", len(filtered), "filtered_out", preFilterCount-len(filtered))
	}

	return filtered, nil
}

// Match reports whether a single card passes every filter.
func (f *Filter) Match(ctx context.Context, c card.Card) bool {
	out, err := f.ApplyAll(ctx, []card.Card{c})
	return err == nil && len(out) == 1
}
