// Package cardtest provides catalog fixtures for tests.
package cardtest

import "github.com/jon4hz/decksmith/internal/card"

func creature(name, cost string, mv float64, supertypes []string, subtypes []string, text string) card.Card {
	typeLine := "Creature"
	if len(supertypes) > 0 {
		typeLine = supertypes[0] + " " + typeLine
	}
	return card.Card{
		Name:       name,
		ManaCost:   card.Ptr(cost),
		ManaValue:  card.Ptr(mv),
		TypeLine:   card.Ptr(typeLine),
		Types:      []string{"Creature"},
		Supertypes: supertypes,
		Subtypes:   subtypes,
		Text:       card.Ptr(text),
		Power:      card.Ptr("2"),
		Toughness:  card.Ptr("2"),
		Rarity:     card.Ptr("rare"),
	}
}

var (
	Forest = card.Card{
		Name: "Forest", TypeLine: card.Ptr("Basic Land — Forest"),
		Types: []string{"Land"}, Supertypes: []string{"Basic"}, Subtypes: []string{"Forest"},
	}
	// FakeForest has a basic land name but isn't a basic land.
	FakeForest = card.Card{Name: "Forest", Types: []string{"Creature"}}

	LlanowarElves = creature("Llanowar Elves", "{G}", 1, nil, []string{"Elf", "Druid"}, "{T}: Add {G}.")
	Counterspell  = card.Card{
		Name: "Counterspell", ManaCost: card.Ptr("{U}{U}"), ManaValue: card.Ptr(2.0),
		TypeLine: card.Ptr("Instant"), Types: []string{"Instant"}, Text: card.Ptr("Counter target spell."),
	}
	Opt = card.Card{
		Name: "Opt", ManaCost: card.Ptr("{U}"), ManaValue: card.Ptr(1.0),
		TypeLine: card.Ptr("Instant"), Types: []string{"Instant"}, Text: card.Ptr("Scry 1. Draw a card."),
	}
	FrostBite = card.Card{
		Name: "Frost Bite", ManaCost: card.Ptr("{R}"), ManaValue: card.Ptr(1.0),
		TypeLine: card.Ptr("Snow Instant"), Types: []string{"Instant"}, Supertypes: []string{"Snow"},
		Text: card.Ptr("Frost Bite deals 2 damage to target creature or planeswalker."),
	}
	SolRing = card.Card{
		Name: "Sol Ring", ManaCost: card.Ptr("{1}"), ManaValue: card.Ptr(1.0),
		TypeLine: card.Ptr("Artifact"), Types: []string{"Artifact"}, Text: card.Ptr("{T}: Add {C}{C}."),
	}
	GrowthSpiral = card.Card{
		Name: "Growth Spiral", ManaCost: card.Ptr("{G}{U}"), ManaValue: card.Ptr(2.0),
		TypeLine: card.Ptr("Instant"), Types: []string{"Instant"},
		Text: card.Ptr("Draw a card. You may put a land card from your hand onto the battlefield."),
	}
	Kogla = card.Card{
		Name: "Kogla and Yidaro", ManaCost: card.Ptr("{2}{R}{R}{G}{G}"), ManaValue: card.Ptr(6.0),
		Types: []string{"Creature"}, Supertypes: []string{"Legendary"},
	}
	ElvishArchdruid = creature("Elvish Archdruid", "{1}{G}{G}", 3, nil, []string{"Elf", "Druid"}, "Other Elf creatures you control get +1/+1.")

	// Marwyn is a mono green commander without partner or background.
	Marwyn = creature("Marwyn, the Nurturer", "{2}{G}", 3, []string{"Legendary"}, []string{"Elf", "Druid"},
		"Whenever another Elf enters the battlefield under your control, put a +1/+1 counter on Marwyn.")
	// Tymna has partner.
	Tymna = creature("Tymna the Weaver", "{1}{W}{B}", 3, []string{"Legendary"}, []string{"Human", "Cleric"},
		"Lifelink\nPartner (You can have two commanders if both have partner.)")
	// Thrasios has partner.
	Thrasios = creature("Thrasios, Triton Hero", "{G}{U}", 2, []string{"Legendary"}, []string{"Merfolk", "Wizard"},
		"{4}: Scry 1, then reveal the top card of your library.\nPartner (You can have two commanders if both have partner.)")
	// Wilson can choose a background.
	Wilson = creature("Wilson, Refined Grizzly", "{1}{G}", 2, []string{"Legendary"}, []string{"Bear", "Warrior"},
		"Reach, trample, ward {2}\nChoose a Background (You can have a Background as a second commander.)")
	// RaisedByGiants is a legendary background enchantment.
	RaisedByGiants = card.Card{
		Name: "Raised by Giants", ManaCost: card.Ptr("{5}{G}"), ManaValue: card.Ptr(6.0),
		TypeLine: card.Ptr("Legendary Enchantment — Background"), Types: []string{"Enchantment"},
		Supertypes: []string{"Legendary"}, Subtypes: []string{"Background"},
		Text: card.Ptr("Commander creatures you own have base power and toughness 10/10 and are Giants in addition to their other types."),
	}
	// Teferi is a planeswalker that can be your commander.
	Teferi = card.Card{
		Name: "Teferi, Temporal Archmage", ManaCost: card.Ptr("{4}{U}{U}"), ManaValue: card.Ptr(6.0),
		TypeLine: card.Ptr("Legendary Planeswalker — Teferi"), Types: []string{"Planeswalker"},
		Supertypes: []string{"Legendary"}, Subtypes: []string{"Teferi"}, Loyalty: card.Ptr("5"),
		Text: card.Ptr("Teferi, Temporal Archmage can be your commander."),
	}
	// Jace is a planeswalker that can't lead.
	Jace = card.Card{
		Name: "Jace Beleren", ManaCost: card.Ptr("{1}{U}{U}"), ManaValue: card.Ptr(3.0),
		Types: []string{"Planeswalker"}, Supertypes: []string{"Legendary"}, Loyalty: card.Ptr("3"),
		Text: card.Ptr("+2: Each player draws a card."),
	}
)

// Catalog returns every fixture in catalog order.
func Catalog() []card.Card {
	return []card.Card{
		Forest, LlanowarElves, Counterspell, Opt, FrostBite, SolRing, GrowthSpiral, Kogla,
		ElvishArchdruid, Marwyn, Tymna, Thrasios, Wilson, RaisedByGiants, Teferi, Jace,
	}
}
