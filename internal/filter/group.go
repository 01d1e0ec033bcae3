package filter

import (
	"cmp"
	"slices"

	"github.com/jon4hz/decksmith/internal/card"
	"github.com/samber/lo"
)

const (
	// TagCommander is the group of cards that are commanders of the deck.
	TagCommander = "commander"
	// TagOther collects cards without a known type.
	TagOther = "other"
)

// TagOrder is the order in which groups are shown. A card is placed in the
// first group whose tag is one of its types.
var TagOrder = []string{
	TagCommander, "artifact", "battle", "conspiracy", "creature", "dungeon",
	"enchantment", "instant", "kindred", "land", "phenomenon", "plane",
	"planeswalker", "scheme", "sorcery", "vanguard",
}

// Group is a display section of cards sharing a tag.
type Group struct {
	Tag   string      `json:"tag"`
	Cards []card.Card `json:"cards"`
}

// Row is a card shown once with the number of copies.
type Row struct {
	Card  card.Card `json:"card"`
	Count int       `json:"count"`
}

// Tag returns the group tag of a card. Commanders win over the card's types.
func Tag(c card.Card, commanderNames []string) string {
	if slices.Contains(commanderNames, c.Name) {
		return TagCommander
	}
	types := c.LowerTypes()
	for _, tag := range TagOrder[1:] {
		if slices.Contains(types, tag) {
			return tag
		}
	}
	return TagOther
}

// GroupCards groups cards by Tag. Groups come in TagOrder followed by other,
// empty groups are left out. Within a group cards are ordered by mana value,
// keeping the input order for equal values.
func GroupCards(cards []card.Card, commanderNames []string) []Group {
	byTag := lo.GroupBy(cards, func(c card.Card) string { return Tag(c, commanderNames) })

	groups := make([]Group, 0, len(byTag))
	for _, tag := range append(slices.Clone(TagOrder), TagOther) {
		members, ok := byTag[tag]
		if !ok {
			continue
		}
		slices.SortStableFunc(members, func(a, b card.Card) int {
			return cmp.Compare(a.ManaValueOrZero(), b.ManaValueOrZero())
		})
		groups = append(groups, Group{Tag: tag, Cards: members})
	}
	return groups
}

// Consolidate merges cards with the same name into one row, in order of first appearance.
func Consolidate(cards []card.Card) []Row {
	rows := make([]Row, 0, len(cards))
	index := make(map[string]int, len(cards))
	for _, c := range cards {
		if i, ok := index[c.Name]; ok {
			rows[i].Count++
			continue
		}
		index[c.Name] = len(rows)
		rows = append(rows, Row{Card: c, Count: 1})
	}
	return rows
}
