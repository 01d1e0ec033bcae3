package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jon4hz/decksmith/internal/card"
)

// legacyTimeLayouts are tried after RFC 3339 for updated_at values written
// without a zone, which are UTC.
var legacyTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type rawDeck struct {
	Cards      json.RawMessage `json:"cards"`
	Commanders json.RawMessage `json:"commanders"`
	Commander  json.RawMessage `json:"commander"`
	Favorite   bool            `json:"favorite"`
	UpdatedAt  *string         `json:"updated_at"`
}

// UnmarshalJSON accepts the current deck object as well as older shapes:
// a bare list of cards, a single "commander" string or list and cards
// stored as plain names.
func (d *Deck) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*d = Deck{Cards: []card.Card{}, Commanders: []card.Card{}}

	if len(data) > 0 && data[0] == '[' {
		cards, err := decodeCards(data)
		if err != nil {
			return err
		}
		d.Cards = cards
		return nil
	}

	var raw rawDeck
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode deck: %w", err)
	}

	cards, err := decodeCards(raw.Cards)
	if err != nil {
		return err
	}
	d.Cards = cards

	commanders := raw.Commanders
	if isEmptyJSON(commanders) {
		commanders = raw.Commander
	}
	if d.Commanders, err = decodeCards(commanders); err != nil {
		return err
	}

	d.Favorite = raw.Favorite
	if raw.UpdatedAt != nil {
		d.UpdatedAt = parseUpdatedAt(*raw.UpdatedAt)
	}
	return nil
}

// decodeCards decodes null, a single name or card object, or a list of both.
func decodeCards(data json.RawMessage) ([]card.Card, error) {
	result := []card.Card{}
	if isEmptyJSON(data) {
		return result, nil
	}

	if data[0] == '"' || data[0] == '{' {
		c, err := decodeCard(data)
		if err != nil {
			return nil, err
		}
		if c.Name != "" {
			result = append(result, c)
		}
		return result, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode card list: %w", err)
	}
	for _, item := range items {
		c, err := decodeCard(item)
		if err != nil {
			return nil, err
		}
		if c.Name == "" {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func decodeCard(data json.RawMessage) (card.Card, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return card.Card{}, fmt.Errorf("failed to decode card name: %w", err)
		}
		return card.Named(name), nil
	}
	var c card.Card
	if err := json.Unmarshal(data, &c); err != nil {
		return card.Card{}, fmt.Errorf("failed to decode card: %w", err)
	}
	// empty lists are dropped on save, so load them the same way
	c.Types = nilIfEmpty(c.Types)
	c.Supertypes = nilIfEmpty(c.Supertypes)
	c.Subtypes = nilIfEmpty(c.Subtypes)
	return c, nil
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func isEmptyJSON(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}

func parseUpdatedAt(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC()
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// decodeDecks decodes a deck file. The second return value reports whether the
// file used the legacy list-of-names format.
func decodeDecks(data []byte) (Decks, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Decks{}, false, nil
	}

	if data[0] == '[' {
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return nil, false, fmt.Errorf("failed to decode legacy deck list: %w", err)
		}
		decks := make(Decks, len(names))
		for _, name := range names {
			decks[name] = Deck{Cards: []card.Card{}, Commanders: []card.Card{}}
		}
		return decks, true, nil
	}

	var decks Decks
	if err := json.Unmarshal(data, &decks); err != nil {
		return nil, false, err
	}
	if decks == nil {
		decks = Decks{}
	}
	return decks, false, nil
}
