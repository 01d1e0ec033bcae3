package card

import (
	"strings"

	"github.com/samber/lo"
)

// Card is a read-only card record from the catalog.
// Catalog rows and stored decks don't always carry every field, so optional
// scalars are pointers and should be read through the accessor helpers.
type Card struct {
	Name       string   `json:"name"`
	UUID       string   `json:"uuid,omitempty"`
	ManaCost   *string  `json:"manaCost,omitempty"`
	ManaValue  *float64 `json:"manaValue,omitempty"`
	TypeLine   *string  `json:"type,omitempty"`
	Types      []string `json:"types,omitempty"`
	Supertypes []string `json:"supertypes,omitempty"`
	Subtypes   []string `json:"subtypes,omitempty"`
	Text       *string  `json:"text,omitempty"`
	Power      *string  `json:"power,omitempty"`
	Toughness  *string  `json:"toughness,omitempty"`
	Loyalty    *string  `json:"loyalty,omitempty"`
	Rarity     *string  `json:"rarity,omitempty"`
	ImageURL   *string  `json:"imageUrl,omitempty"`
}

// Named returns a card that only carries a name.
func Named(name string) Card {
	return Card{Name: name}
}

// ManaCostOrEmpty returns the symbolic mana cost, e.g. "{2}{R}".
func (c Card) ManaCostOrEmpty() string { return deref(c.ManaCost) }

// ManaValueOrZero returns the mana value, treating a missing value as 0.
func (c Card) ManaValueOrZero() float64 {
	if c.ManaValue == nil {
		return 0
	}
	return *c.ManaValue
}

// TypeLineOrEmpty returns the printed type line.
func (c Card) TypeLineOrEmpty() string { return deref(c.TypeLine) }

// TextOrEmpty returns the rules text.
func (c Card) TextOrEmpty() string { return deref(c.Text) }

// PowerOrEmpty returns the power, which may be non-numeric like "*".
func (c Card) PowerOrEmpty() string { return deref(c.Power) }

// ToughnessOrEmpty returns the toughness, which may be non-numeric like "*".
func (c Card) ToughnessOrEmpty() string { return deref(c.Toughness) }

// LoyaltyOrEmpty returns the starting loyalty of a planeswalker.
func (c Card) LoyaltyOrEmpty() string { return deref(c.Loyalty) }

// RarityOrEmpty returns the rarity.
func (c Card) RarityOrEmpty() string { return deref(c.Rarity) }

// ImageURLOrEmpty returns the card image link, if the catalog has one.
func (c Card) ImageURLOrEmpty() string { return deref(c.ImageURL) }

// HasType reports whether the card has the given type (case-insensitive).
func (c Card) HasType(t string) bool { return containsFold(c.Types, t) }

// HasSupertype reports whether the card has the given supertype (case-insensitive).
func (c Card) HasSupertype(t string) bool { return containsFold(c.Supertypes, t) }

// HasSubtype reports whether the card has the given subtype (case-insensitive).
func (c Card) HasSubtype(t string) bool { return containsFold(c.Subtypes, t) }

// TextContains reports whether the rules text contains s, ignoring case.
func (c Card) TextContains(s string) bool {
	return strings.Contains(strings.ToLower(c.TextOrEmpty()), strings.ToLower(s))
}

// LowerTypes returns the card's types lower-cased.
func (c Card) LowerTypes() []string {
	return lo.Map(c.Types, func(t string, _ int) string { return strings.ToLower(t) })
}

// Ptr is a small helper for building cards in code and tests.
func Ptr[T any](v T) *T { return &v }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func containsFold(list []string, s string) bool {
	return lo.ContainsBy(list, func(v string) bool {
		return strings.EqualFold(v, s)
	})
}
