package filter

import (
	"testing"

	"github.com/jon4hz/decksmith/internal/card"
	"github.com/jon4hz/decksmith/internal/card/cardtest"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTag(t *testing.T) {
	tests := []struct {
		name       string
		card       card.Card
		commanders []string
		want       string
	}{
		{"commander wins over creature", cardtest.Marwyn, []string{"Marwyn, the Nurturer"}, TagCommander},
		{"creature", cardtest.Marwyn, nil, "creature"},
		{"first tag in canonical order", card.Card{Name: "Dryad Arbor", Types: []string{"Land", "Creature"}}, nil, "creature"},
		{"artifact creature", card.Card{Name: "Solemn", Types: []string{"Creature", "Artifact"}}, nil, "artifact"},
		{"case insensitive", card.Card{Name: "Opt", Types: []string{"INSTANT"}}, nil, "instant"},
		{"unknown type", card.Card{Name: "Token", Types: []string{"Token"}}, nil, TagOther},
		{"no types", card.Named("Mystery"), nil, TagOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tag(tt.card, tt.commanders))
		})
	}
}

func TestGroupCards(t *testing.T) {
	cards := []card.Card{
		cardtest.Counterspell,
		card.Named("Mystery"),
		cardtest.Marwyn,
		cardtest.ElvishArchdruid,
		cardtest.LlanowarElves,
		cardtest.Opt,
		cardtest.Forest,
		cardtest.SolRing,
	}

	groups := GroupCards(cards, []string{"Marwyn, the Nurturer"})

	tags := lo.Map(groups, func(g Group, _ int) string { return g.Tag })
	assert.Equal(t, []string{"commander", "artifact", "creature", "instant", "land", "other"}, tags)

	require.Len(t, groups, 6)
	assert.Equal(t, []string{"Marwyn, the Nurturer"}, names(groups[0].Cards))
	assert.Equal(t, []string{"Llanowar Elves", "Elvish Archdruid"}, names(groups[2].Cards))
	assert.Equal(t, []string{"Opt", "Counterspell"}, names(groups[3].Cards))
}

func TestGroupCards_StableForEqualManaValue(t *testing.T) {
	a := card.Card{Name: "A", ManaValue: lo.ToPtr(2.0), Types: []string{"Sorcery"}}
	b := card.Card{Name: "B", ManaValue: lo.ToPtr(1.0), Types: []string{"Sorcery"}}
	c := card.Card{Name: "C", ManaValue: lo.ToPtr(2.0), Types: []string{"Sorcery"}}
	d := card.Card{Name: "D", Types: []string{"Sorcery"}}

	groups := GroupCards([]card.Card{a, b, c, d}, nil)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"D", "B", "A", "C"}, names(groups[0].Cards))
}

func TestGroupCards_Empty(t *testing.T) {
	assert.Empty(t, GroupCards(nil, nil))
}

func TestConsolidate(t *testing.T) {
	rows := Consolidate([]card.Card{
		cardtest.Forest, cardtest.Opt, cardtest.Forest, cardtest.Forest, cardtest.SolRing,
	})

	require.Len(t, rows, 3)
	assert.Equal(t, "Forest", rows[0].Card.Name)
	assert.Equal(t, 3, rows[0].Count)
	assert.Equal(t, "Opt", rows[1].Card.Name)
	assert.Equal(t, 1, rows[1].Count)
	assert.Equal(t, "Sol Ring", rows[2].Card.Name)
}
