package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

const importBatchSize = 500

// SourceCard is a single printing as found in an MTGJSON dump.
type SourceCard struct {
	Name              string   `json:"name"`
	UUID              string   `json:"uuid"`
	ManaCost          *string  `json:"manaCost"`
	ManaValue         *float64 `json:"manaValue"`
	ConvertedManaCost *float64 `json:"convertedManaCost"`
	Type              *string  `json:"type"`
	Types             []string `json:"types"`
	Supertypes        []string `json:"supertypes"`
	Subtypes          []string `json:"subtypes"`
	Text              *string  `json:"text"`
	Power             *string  `json:"power"`
	Toughness         *string  `json:"toughness"`
	Loyalty           *string  `json:"loyalty"`
	Rarity            *string  `json:"rarity"`
	Language          string   `json:"language"`
	SetCode           string   `json:"setCode"`
	Identifiers       struct {
		ScryfallID string `json:"scryfallId"`
	} `json:"identifiers"`
	PurchaseURLs struct {
		CardKingdom string `json:"cardKingdom"`
	} `json:"purchaseUrls"`
}

const scryfallImageURL = "https://cards.scryfall.io/normal/front/%s/%s/%s.jpg"

// ImageURL returns the scryfall image of the printing, or the card kingdom
// page if the printing has no scryfall id.
func (s SourceCard) ImageURL() *string {
	if id := strings.ToLower(strings.TrimSpace(s.Identifiers.ScryfallID)); len(id) >= 2 {
		u := fmt.Sprintf(scryfallImageURL, id[:1], id[1:2], id)
		return &u
	}
	if u := strings.TrimSpace(s.PurchaseURLs.CardKingdom); u != "" {
		return &u
	}
	return nil
}

type setFile struct {
	Code  string       `json:"code"`
	Cards []SourceCard `json:"cards"`
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Read     int
	Skipped  int
	Inserted int64
}

// ParseSource reads cards from an MTGJSON AllPrintings file, a single set
// file or a bare array of cards.
func ParseSource(r io.Reader) ([]SourceCard, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read card source: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var cards []SourceCard
		if err := json.Unmarshal(data, &cards); err != nil {
			return nil, fmt.Errorf("failed to decode card list: %w", err)
		}
		return cards, nil
	}

	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Cards []SourceCard    `json:"cards"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode card source: %w", err)
	}
	if envelope.Cards != nil {
		return envelope.Cards, nil
	}
	if len(envelope.Data) == 0 {
		return nil, fmt.Errorf("card source has neither data nor cards")
	}

	// AllPrintings keys sets by code, a single set file puts the set under data
	var single setFile
	if err := json.Unmarshal(envelope.Data, &single); err == nil && single.Cards != nil {
		return withSetCode(single.Cards, single.Code), nil
	}
	var sets map[string]setFile
	if err := json.Unmarshal(envelope.Data, &sets); err != nil {
		return nil, fmt.Errorf("failed to decode sets: %w", err)
	}
	var cards []SourceCard
	for code, set := range sets {
		if set.Code == "" {
			set.Code = code
		}
		cards = append(cards, withSetCode(set.Cards, set.Code)...)
	}
	return cards, nil
}

func withSetCode(cards []SourceCard, code string) []SourceCard {
	for i := range cards {
		if cards[i].SetCode == "" {
			cards[i].SetCode = code
		}
	}
	return cards
}

// ToRecord converts a source card to a database record.
func (s SourceCard) ToRecord() Record {
	manaValue := s.ManaValue
	if manaValue == nil {
		manaValue = s.ConvertedManaCost
	}
	subtypes := s.Subtypes
	if len(subtypes) == 0 && s.Type != nil {
		subtypes = subtypesFromTypeLine(*s.Type)
	}
	id := s.UUID
	if id == "" {
		id = uuid.NewString()
	}
	return Record{
		UUID:       id,
		Name:       s.Name,
		ManaCost:   s.ManaCost,
		ManaValue:  manaValue,
		TypeLine:   s.Type,
		Types:      datatypes.JSONSlice[string](s.Types),
		Supertypes: datatypes.JSONSlice[string](s.Supertypes),
		Subtypes:   datatypes.JSONSlice[string](subtypes),
		Text:       s.Text,
		Power:      s.Power,
		Toughness:  s.Toughness,
		Loyalty:    s.Loyalty,
		Rarity:     s.Rarity,
		ImageURL:   s.ImageURL(),
		Language:   s.Language,
		SetCode:    s.SetCode,
	}
}

// subtypesFromTypeLine returns the words after the dash of a type line,
// e.g. "Legendary Creature — Elf Druid" yields Elf and Druid.
func subtypesFromTypeLine(typeLine string) []string {
	for _, sep := range []string{"—", " - "} {
		if _, after, ok := strings.Cut(typeLine, sep); ok {
			return strings.Fields(after)
		}
	}
	return nil
}

// Import inserts the given cards. Printings whose uuid already exists are left untouched.
func (r *Repository) Import(ctx context.Context, cards []SourceCard) (ImportResult, error) {
	result := ImportResult{Read: len(cards)}

	records := make([]Record, 0, len(cards))
	for _, c := range cards {
		if strings.TrimSpace(c.Name) == "" {
			result.Skipped++
			continue
		}
		records = append(records, c.ToRecord())
	}
	if len(records) == 0 {
		return result, nil
	}

	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "uuid"}}, DoNothing: true}).
		CreateInBatches(&records, importBatchSize)
	if tx.Error != nil {
		log.Error("failed to import cards", "error", tx.Error)
		return result, fmt.Errorf("failed to import cards: %w", tx.Error)
	}
	result.Inserted = tx.RowsAffected

	log.Info("Imported cards", "read", result.Read, "inserted", result.Inserted, "skipped", result.Skipped)
	return result, nil
}
