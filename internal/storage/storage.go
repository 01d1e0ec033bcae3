// Package storage persists users and their decks as JSON documents.
//
// Both stores work on whole collections: a load returns every record of the
// collection, a save replaces it. Reads never fail because of missing or
// corrupt files; those degrade to an empty collection and a warning.
package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/jon4hz/decksmith/internal/card"
)

// ErrInvalidUsername is returned for usernames that can't be used as a file name.
var ErrInvalidUsername = errors.New("invalid username")

// Users maps usernames to password hashes.
type Users map[string]string

// Deck is a single named deck. The name is the key in Decks.
type Deck struct {
	Cards      []card.Card `json:"cards"`
	Commanders []card.Card `json:"commanders"`
	Favorite   bool        `json:"favorite"`
	UpdatedAt  time.Time   `json:"updated_at,omitzero"`
}

// NewDeck returns an empty deck updated at now.
func NewDeck(now time.Time) Deck {
	return Deck{
		Cards:      []card.Card{},
		Commanders: []card.Card{},
		UpdatedAt:  now.UTC(),
	}
}

// Decks maps deck names to decks of a single user.
type Decks map[string]Deck

// UserStore is the credential store.
type UserStore interface {
	LoadUsers() Users
	SaveUsers(users Users) error
	// UpdateUsers runs fn on the current collection and saves it if fn reports a change.
	// No other update of the collection interleaves with fn.
	UpdateUsers(fn func(users Users) (changed bool, err error)) error
}

// DeckStore is the per-user deck store.
type DeckStore interface {
	LoadDecks(username string) (Decks, error)
	SaveDecks(username string, decks Decks) error
	// UpdateDecks runs fn on the user's current decks and saves them if fn reports a change.
	// No other update of the same user's decks interleaves with fn.
	UpdateDecks(username string, fn func(decks Decks) (changed bool, err error)) error
}

// ValidateUsername checks that a username is usable as a deck file name.
func ValidateUsername(username string) error {
	switch {
	case strings.TrimSpace(username) == "",
		username == ".", username == "..",
		strings.ContainsAny(username, `/\`+"\x00"),
		filepath.Base(username) != username:
		return ErrInvalidUsername
	}
	return nil
}
