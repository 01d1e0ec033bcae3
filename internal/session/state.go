// Package session holds the per-browser-session UI state and the actions
// that change it.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jon4hz/decksmith/internal/deck"
	"github.com/jon4hz/decksmith/internal/filter"
)

// Mode is the logged out view.
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// Messages are the user-visible feedback strings, one slot per form.
type Messages struct {
	Login     string `json:"login,omitempty"`
	Register  string `json:"register,omitempty"`
	Deck      string `json:"deck,omitempty"`
	Card      string `json:"card,omitempty"`
	Commander string `json:"commander,omitempty"`
}

// State is everything that decides what a session sees. It is not persisted
// beyond the session cookie.
type State struct {
	ID             string      `json:"id"`
	User           string      `json:"user,omitempty"`
	Mode           Mode        `json:"mode"`
	ActiveDeck     string      `json:"activeDeck,omitempty"`
	CardSearchOpen bool        `json:"cardSearchOpen"`
	Picker         deck.Stage  `json:"picker"`
	PickerQuery    string      `json:"pickerQuery,omitempty"`
	DeckSearch     string      `json:"deckSearch,omitempty"`
	CardInput      string      `json:"cardInput,omitempty"`
	Search         filter.Spec `json:"search"`
	Messages       Messages    `json:"messages"`
	Revision       uint64      `json:"revision"`
}

// NewState returns the state of a fresh session.
func NewState() *State {
	return &State{
		ID:     uuid.NewString(),
		Mode:   ModeLogin,
		Picker: deck.StageClosed,
	}
}

// LoggedIn reports whether a user is logged in.
func (s *State) LoggedIn() bool {
	return s.User != ""
}

// Reset returns the state to a fresh session. The id and the revision are kept.
func (s *State) Reset() {
	id, rev := s.ID, s.Revision
	*s = *NewState()
	s.ID = id
	s.Revision = rev
}

// bump marks the state as changed.
func (s *State) bump() {
	s.Revision++
}

func (s *State) closeDeckViews() {
	s.CardSearchOpen = false
	s.Picker = deck.StageClosed
	s.PickerQuery = ""
	s.CardInput = ""
	s.Messages.Card = ""
	s.Messages.Commander = ""
}

// Encode serializes the state for the session store.
func (s *State) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode session state: %w", err)
	}
	return string(data), nil
}

// Decode restores a state written by Encode. Unknown or broken input yields a fresh state.
func Decode(raw string) *State {
	if raw == "" {
		return NewState()
	}
	st := NewState()
	if err := json.Unmarshal([]byte(raw), st); err != nil {
		return NewState()
	}
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.Mode != ModeRegister {
		st.Mode = ModeLogin
	}
	if !st.Picker.Valid() {
		st.Picker = deck.StageClosed
	}
	return st
}
