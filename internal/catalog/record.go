package catalog

import (
	"strings"

	"github.com/jon4hz/decksmith/internal/card"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record is a single printing in the cards table.
type Record struct {
	ID         uint   `gorm:"primaryKey"`
	UUID       string `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"index;not null"`
	NameLower  string `gorm:"index"`
	ManaCost   *string
	ManaValue  *float64
	TypeLine   *string
	Types      datatypes.JSONSlice[string]
	Supertypes datatypes.JSONSlice[string]
	Subtypes   datatypes.JSONSlice[string]
	Text       *string
	Power      *string
	Toughness  *string
	Loyalty    *string
	Rarity     *string
	ImageURL   *string
	Language   string `gorm:"index"`
	SetCode    string
}

// TableName keeps the table name of the original catalog.
func (Record) TableName() string { return "cards" }

// BeforeSave keeps the lower-cased name used by name searches in sync.
// SQLite's LOWER only folds ASCII, so the folding happens here.
func (r *Record) BeforeSave(_ *gorm.DB) error {
	r.NameLower = strings.ToLower(r.Name)
	return nil
}

// ToCard converts the record to the domain card type.
func (r Record) ToCard() card.Card {
	return card.Card{
		Name:       r.Name,
		UUID:       r.UUID,
		ManaCost:   r.ManaCost,
		ManaValue:  r.ManaValue,
		TypeLine:   r.TypeLine,
		Types:      []string(r.Types),
		Supertypes: []string(r.Supertypes),
		Subtypes:   []string(r.Subtypes),
		Text:       r.Text,
		Power:      r.Power,
		Toughness:  r.Toughness,
		Loyalty:    r.Loyalty,
		Rarity:     r.Rarity,
		ImageURL:   r.ImageURL,
	}
}

// ToCards converts a slice of records.
func ToCards(records []Record) []card.Card {
	result := make([]card.Card, len(records))
	for i, r := range records {
		result[i] = r.ToCard()
	}
	return result
}
