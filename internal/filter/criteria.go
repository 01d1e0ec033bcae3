package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/jon4hz/decksmith/internal/card"
)

// predicateFilter keeps the cards for which match returns true.
type predicateFilter struct {
	name  string
	match func(card.Card) bool
}

var _ Filterer = (*predicateFilter)(nil)

// String returns the name of the filter.
func (f *predicateFilter) String() string { return f.name }

// Apply implements Filterer.
func (f *predicateFilter) Apply(ctx context.Context, cards []card.Card) ([]card.Card, error) {
	filtered := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if f.match(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func nameFilter(substr string) *predicateFilter {
	needle := strings.ToLower(substr)
	return &predicateFilter{
		name: "Name Filter",
		match: func(c card.Card) bool {
			return strings.Contains(strings.ToLower(c.Name), needle)
		},
	}
}

// typeFilter matches a whole type tag, e.g. "creature" but not "creat".
func typeFilter(tag string) *predicateFilter {
	tag = strings.ToLower(tag)
	return &predicateFilter{
		name: "Type Filter",
		match: func(c card.Card) bool {
			for _, t := range c.LowerTypes() {
				if t == tag {
					return true
				}
			}
			return false
		},
	}
}

func subtypeFilter(substr string) *predicateFilter {
	needle := strings.ToLower(substr)
	return &predicateFilter{
		name: "Subtype Filter",
		match: func(c card.Card) bool {
			for _, st := range c.Subtypes {
				if strings.Contains(strings.ToLower(st), needle) {
					return true
				}
			}
			return false
		},
	}
}

func textFilter(substr string) *predicateFilter {
	return &predicateFilter{
		name:  "Text Filter",
		match: func(c card.Card) bool { return c.TextContains(substr) },
	}
}

// manaValueFilter keeps cards within [lo, hi]. A nil bound is open. Cards
// without a mana value count as 0.
func manaValueFilter(lo, hi *float64) *predicateFilter {
	return &predicateFilter{
		name: "Mana Value Filter",
		match: func(c card.Card) bool {
			mv := c.ManaValueOrZero()
			if lo != nil && mv < *lo {
				return false
			}
			if hi != nil && mv > *hi {
				return false
			}
			return true
		},
	}
}

// colorFilter applies an explicit color selection. Cards with colored pips
// must only use selected colors. Cards without colored pips need "C".
func colorFilter(selected card.Colors) *predicateFilter {
	colored := selected.Colored()
	return &predicateFilter{
		name: fmt.Sprintf("Color Filter %v", selected.Sorted()),
		match: func(c card.Card) bool {
			pips := c.ColoredPips()
			if len(pips) == 0 {
				return selected.Has(card.Colorless)
			}
			return pips.SubsetOf(colored)
		},
	}
}

// identityFilter keeps cards whose colored pips lie within the commanders' color identity.
func identityFilter(identity card.Colors) *predicateFilter {
	return &predicateFilter{
		name: fmt.Sprintf("Color Identity Filter %v", identity.Sorted()),
		match: func(c card.Card) bool {
			return c.ColoredPips().SubsetOf(identity)
		},
	}
}
