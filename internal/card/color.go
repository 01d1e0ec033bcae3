package card

import (
	"regexp"
	"strings"
)

// Color is a single mana color letter.
type Color string

const (
	White     Color = "W"
	Blue      Color = "U"
	Black     Color = "B"
	Red       Color = "R"
	Green     Color = "G"
	Colorless Color = "C"
)

// ColorOrder is the canonical display order.
var ColorOrder = []Color{White, Blue, Black, Red, Green, Colorless}

var pipPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Pips returns the symbolic tokens embedded in a mana cost, e.g. "{2}{W/U}" -> ["2", "W/U"].
func Pips(cost string) []string {
	matches := pipPattern.FindAllStringSubmatch(cost, -1)
	pips := make([]string, 0, len(matches))
	for _, m := range matches {
		pips = append(pips, strings.ToUpper(m[1]))
	}
	return pips
}

// Colors is a set of colors.
type Colors map[Color]struct{}

// NewColors builds a set from color letters. Unknown letters are ignored.
func NewColors(letters ...string) Colors {
	cs := make(Colors)
	for _, l := range letters {
		c := Color(strings.ToUpper(strings.TrimSpace(l)))
		if isKnown(c) {
			cs[c] = struct{}{}
		}
	}
	return cs
}

// Has reports whether c is in the set.
func (cs Colors) Has(c Color) bool {
	_, ok := cs[c]
	return ok
}

// Add inserts all colors of other into cs.
func (cs Colors) Add(other Colors) {
	for c := range other {
		cs[c] = struct{}{}
	}
}

// Colored returns the subset without colorless.
func (cs Colors) Colored() Colors {
	out := make(Colors, len(cs))
	for c := range cs {
		if c != Colorless {
			out[c] = struct{}{}
		}
	}
	return out
}

// SubsetOf reports whether every color of cs is in other.
func (cs Colors) SubsetOf(other Colors) bool {
	for c := range cs {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// Sorted returns the letters in WUBRG(C) order.
func (cs Colors) Sorted() []string {
	out := make([]string, 0, len(cs))
	for _, c := range ColorOrder {
		if cs.Has(c) {
			out = append(out, string(c))
		}
	}
	return out
}

// CostColors extracts the colors referenced by the pips of a mana cost.
// Hybrid and phyrexian pips ({W/U}, {G/P}) contribute every color they name.
func CostColors(cost string) Colors {
	cs := make(Colors)
	for _, pip := range Pips(cost) {
		for part := range strings.SplitSeq(pip, "/") {
			if c := Color(part); isKnown(c) {
				cs[c] = struct{}{}
			}
		}
	}
	return cs
}

// ColoredPips returns the colored (non-colorless) colors of a card's mana cost.
func (c Card) ColoredPips() Colors {
	return CostColors(c.ManaCostOrEmpty()).Colored()
}

// ColorIdentity is the union of the colored pips in the commanders' mana costs.
func ColorIdentity(commanders []Card) Colors {
	identity := make(Colors)
	for _, c := range commanders {
		identity.Add(c.ColoredPips())
	}
	return identity
}

func isKnown(c Color) bool {
	switch c {
	case White, Blue, Black, Red, Green, Colorless:
		return true
	}
	return false
}
