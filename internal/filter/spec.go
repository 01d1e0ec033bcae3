package filter

import (
	"strings"

	"github.com/jon4hz/decksmith/internal/card"
	"github.com/samber/lo"
)

// Spec holds the search inputs of a card search.
type Spec struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
	Text         string   `json:"text"`
	MinManaValue *float64 `json:"minManaValue,omitempty"`
	MaxManaValue *float64 `json:"maxManaValue,omitempty"`
	Colors       []string `json:"colors,omitempty"`
}

// Normalize trims the text fields, upper-cases and dedups colors, drops
// unknown colors and swaps an inverted mana value range.
func (s Spec) Normalize() Spec {
	s.Name = strings.TrimSpace(s.Name)
	s.Type = strings.TrimSpace(s.Type)
	s.Subtype = strings.TrimSpace(s.Subtype)
	s.Text = strings.TrimSpace(s.Text)

	colors := lo.Map(s.Colors, func(c string, _ int) string { return strings.ToUpper(strings.TrimSpace(c)) })
	s.Colors = lo.Uniq(lo.Filter(colors, func(c string, _ int) bool {
		return lo.Contains(card.ColorOrder, card.Color(c))
	}))

	if s.MinManaValue != nil && s.MaxManaValue != nil && *s.MinManaValue > *s.MaxManaValue {
		s.MinManaValue, s.MaxManaValue = s.MaxManaValue, s.MinManaValue
	}
	return s
}

// IsZero reports whether the spec filters nothing.
func (s Spec) IsZero() bool {
	n := s.Normalize()
	return n.Name == "" && n.Type == "" && n.Subtype == "" && n.Text == "" &&
		n.MinManaValue == nil && n.MaxManaValue == nil && len(n.Colors) == 0
}
