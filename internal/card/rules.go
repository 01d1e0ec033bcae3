package card

import "slices"

var basicLandNames = []string{
	"Plains",
	"Island",
	"Swamp",
	"Mountain",
	"Forest",
	"Wastes",
	"Snow-Covered Plains",
	"Snow-Covered Island",
	"Snow-Covered Swamp",
	"Snow-Covered Mountain",
	"Snow-Covered Forest",
}

// IsBasicLand reports whether the card may appear in a deck more than once.
// The name must be one of the basic land names and the card must be a Basic Land.
func IsBasicLand(c Card) bool {
	return slices.Contains(basicLandNames, c.Name) &&
		c.HasType("Land") &&
		c.HasSupertype("Basic")
}

// CanLead reports whether the card may be chosen as the first commander:
// a legendary creature, or a legendary planeswalker that says it can be your commander.
func CanLead(c Card) bool {
	if !c.HasSupertype("Legendary") {
		return false
	}
	if c.HasType("Creature") {
		return true
	}
	return c.HasType("Planeswalker") && c.TextContains("can be your commander")
}

// HasPartner reports whether the card's text mentions partner.
func HasPartner(c Card) bool { return c.TextContains("partner") }

// HasBackground reports whether the card's text mentions a background.
func HasBackground(c Card) bool { return c.TextContains("background") }

// IsPartnerCandidate reports whether the card can join a partner commander.
func IsPartnerCandidate(c Card) bool {
	return c.HasSupertype("Legendary") && c.HasType("Creature") && HasPartner(c)
}

// IsBackgroundCandidate reports whether the card is a legendary Background enchantment.
func IsBackgroundCandidate(c Card) bool {
	return c.HasSupertype("Legendary") && c.HasType("Enchantment") && c.HasSubtype("Background")
}
