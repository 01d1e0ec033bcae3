package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/decksmith/internal/auth"
	"github.com/jon4hz/decksmith/internal/deck"
	"github.com/jon4hz/decksmith/internal/filter"
	"github.com/jon4hz/decksmith/internal/storage"
)

// ErrInvalidCredentials is the kind of a failed login.
var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	msgInvalidCredentials = "❌ Invalid username or password"
	msgFillAllFields      = "❌ Please fill in all fields."
	msgPasswordMismatch   = "❌ Passwords do not match."
	msgUsernameTaken      = "❌ Username already exists."
	msgInvalidUsername    = "❌ Usernames can't contain slashes."
	msgDeckExists         = "ℹ️ A deck with this name already exists, it was opened instead."
	msgTooLong            = "❌ %s is too long (at most %d characters)."
	msgPasswordTooLong    = "❌ Passwords can be at most %d bytes."
)

// Input limits. Whatever a session keeps has to fit into its cookie.
const (
	MaxUsernameLength = 64
	MaxNameLength     = 150
	MaxQueryLength    = 100
	// bcrypt rejects longer passwords
	maxPasswordLength = 72
)

// checkLength returns a validation error if value is longer than limit bytes.
func checkLength(field, value string, limit int) error {
	if len(value) > limit {
		return deck.NewUserError(deck.ErrValidation, msgTooLong, field, limit)
	}
	return nil
}

// Service runs the actions of a session. Every action takes the session
// state explicitly, changes it in place and bumps its revision.
//
// User mistakes are returned as *deck.UserError and also written to the
// matching message slot of the state. Other errors are left to the caller.
type Service struct {
	users  storage.UserStore
	hasher auth.Hasher
	decks  *deck.Engine
}

// NewService creates a new session service.
func NewService(users storage.UserStore, hasher auth.Hasher, decks *deck.Engine) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		decks:  decks,
	}
}

// Decks returns the deck engine used by the service.
func (s *Service) Decks() *deck.Engine {
	return s.decks
}

// Login logs the user in if the password matches the stored hash.
func (s *Service) Login(_ context.Context, st *State, username, password string) error {
	defer st.bump()
	username = strings.TrimSpace(username)

	hash, ok := s.users.LoadUsers()[username]
	if username == "" || !ok || !s.hasher.Verify(hash, password) {
		log.Debug("Login failed", "user", username)
		return report(&st.Messages.Login, deck.NewUserError(ErrInvalidCredentials, msgInvalidCredentials))
	}

	st.Reset()
	st.User = username
	log.Info("User logged in", "user", username, "session", st.ID)
	return nil
}

// Register creates a user with an empty deck collection and logs them in.
func (s *Service) Register(_ context.Context, st *State, username, password, confirm string) error {
	defer st.bump()
	username = strings.TrimSpace(username)

	switch {
	case username == "" || strings.TrimSpace(password) == "" || strings.TrimSpace(confirm) == "":
		return report(&st.Messages.Register, deck.NewUserError(deck.ErrValidation, msgFillAllFields))
	case password != confirm:
		return report(&st.Messages.Register, deck.NewUserError(deck.ErrValidation, msgPasswordMismatch))
	case storage.ValidateUsername(username) != nil:
		return report(&st.Messages.Register, deck.NewUserError(deck.ErrValidation, msgInvalidUsername))
	case len(password) > maxPasswordLength:
		return report(&st.Messages.Register, deck.NewUserError(deck.ErrValidation, msgPasswordTooLong, maxPasswordLength))
	}
	if err := checkLength("Username", username, MaxUsernameLength); err != nil {
		return report(&st.Messages.Register, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	err = s.users.UpdateUsers(func(users storage.Users) (bool, error) {
		if _, exists := users[username]; exists {
			return false, deck.NewUserError(deck.ErrValidation, msgUsernameTaken)
		}
		users[username] = hash
		return true, nil
	})
	if err != nil {
		return report(&st.Messages.Register, err)
	}

	if err := s.decks.InitUser(username); err != nil {
		return fmt.Errorf("failed to create deck collection: %w", err)
	}

	st.Reset()
	st.User = username
	log.Info("User registered", "user", username, "session", st.ID)
	return nil
}

// Logout clears the user and resets every view.
func (s *Service) Logout(st *State) {
	defer st.bump()
	if st.LoggedIn() {
		log.Info("User logged out", "user", st.User, "session", st.ID)
	}
	st.Reset()
}

// SwitchMode toggles between the login and the register view while logged out.
func (s *Service) SwitchMode(st *State, mode Mode) error {
	defer st.bump()
	if mode != ModeLogin && mode != ModeRegister {
		return deck.NewUserError(deck.ErrValidation, "unknown mode %q", mode)
	}
	if st.LoggedIn() {
		return nil
	}
	st.Mode = mode
	st.Messages = Messages{}
	return nil
}

// OpenDeck makes the named deck the active deck. Unknown decks are ignored.
func (s *Service) OpenDeck(ctx context.Context, st *State, name string) error {
	defer st.bump()
	if !st.LoggedIn() {
		return deck.ErrUnauthenticated
	}
	_, ok, err := s.decks.Deck(ctx, st.User, name)
	if err != nil || !ok {
		return err
	}
	st.ActiveDeck = name
	st.closeDeckViews()
	st.Messages.Deck = ""
	return nil
}

// CloseDeck returns to the deck list.
func (s *Service) CloseDeck(st *State) {
	defer st.bump()
	st.ActiveDeck = ""
	st.closeDeckViews()
}

// SetDeckSearch sets the deck list filter text.
func (s *Service) SetDeckSearch(st *State, text string) error {
	defer st.bump()
	text = strings.TrimSpace(text)
	if err := checkLength("Search", text, MaxQueryLength); err != nil {
		return report(&st.Messages.Deck, err)
	}
	st.DeckSearch = text
	return nil
}

// CreateDeck creates a deck and opens it. An existing deck of the same name
// is opened unchanged.
func (s *Service) CreateDeck(ctx context.Context, st *State, name string) error {
	defer st.bump()
	if !st.LoggedIn() {
		return deck.ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if err := checkLength("Deck name", name, MaxNameLength); err != nil {
		return report(&st.Messages.Deck, err)
	}
	created, err := s.decks.CreateDeck(ctx, st.User, name)
	if err != nil {
		return report(&st.Messages.Deck, err)
	}

	st.ActiveDeck = name
	st.closeDeckViews()
	st.Messages.Deck = ""
	if !created {
		st.Messages.Deck = msgDeckExists
	}
	return nil
}

// DeleteDeck deletes a deck and closes it if it was open.
func (s *Service) DeleteDeck(ctx context.Context, st *State, name string) error {
	defer st.bump()
	if !st.LoggedIn() {
		return deck.ErrUnauthenticated
	}
	deleted, err := s.decks.DeleteDeck(ctx, st.User, name)
	if err != nil {
		return err
	}
	if deleted && st.ActiveDeck == name {
		st.ActiveDeck = ""
		st.closeDeckViews()
	}
	return nil
}

// ToggleFavorite flips the favorite flag of a deck.
func (s *Service) ToggleFavorite(ctx context.Context, st *State, name string) error {
	defer st.bump()
	if !st.LoggedIn() {
		return deck.ErrUnauthenticated
	}
	_, err := s.decks.ToggleFavorite(ctx, st.User, name)
	return err
}

// AddCard adds a card to the active deck and clears the card input on success.
func (s *Service) AddCard(ctx context.Context, st *State, cardName string) error {
	defer st.bump()
	if err := requireDeck(st); err != nil {
		return err
	}
	if err := checkLength("Card name", cardName, MaxNameLength); err != nil {
		st.CardInput = ""
		return report(&st.Messages.Card, err)
	}
	st.CardInput = cardName

	added, err := s.decks.AddCard(ctx, st.User, st.ActiveDeck, cardName)
	if err != nil {
		return report(&st.Messages.Card, err)
	}
	if added {
		st.CardInput = ""
		st.Messages.Card = ""
	}
	return nil
}

// RemoveCard removes every copy of a card from the active deck, commanders included.
func (s *Service) RemoveCard(ctx context.Context, st *State, cardName string) error {
	defer st.bump()
	if err := requireDeck(st); err != nil {
		return err
	}
	_, err := s.decks.RemoveCard(ctx, st.User, st.ActiveDeck, cardName)
	return err
}

// AddCommander adds a commander to the active deck without the picker rules.
func (s *Service) AddCommander(ctx context.Context, st *State, cardName string) error {
	defer st.bump()
	if err := requireDeck(st); err != nil {
		return err
	}
	if err := checkLength("Card name", cardName, MaxNameLength); err != nil {
		st.CardInput = ""
		return report(&st.Messages.Commander, err)
	}
	st.CardInput = cardName

	added, err := s.decks.AddCommander(ctx, st.User, st.ActiveDeck, cardName)
	if err != nil {
		return report(&st.Messages.Commander, err)
	}
	if added {
		st.CardInput = ""
		st.Messages.Commander = ""
	}
	return nil
}

// SetCardSearch opens or closes the card search and sets its filters.
func (s *Service) SetCardSearch(st *State, open bool, spec filter.Spec) error {
	defer st.bump()
	if err := requireDeck(st); err != nil {
		return err
	}
	spec = spec.Normalize()
	for _, field := range []struct{ label, value string }{
		{"Name", spec.Name}, {"Type", spec.Type}, {"Subtype", spec.Subtype}, {"Text", spec.Text},
	} {
		if err := checkLength(field.label, field.value, MaxQueryLength); err != nil {
			return report(&st.Messages.Card, err)
		}
	}
	st.CardSearchOpen = open
	st.Search = spec
	if open {
		st.Picker = deck.StageClosed
	}
	return nil
}

// OpenPicker opens the commander picker at the deck's next stage. A full
// command zone is reported instead.
func (s *Service) OpenPicker(ctx context.Context, st *State, query string) error {
	defer st.bump()
	if err := requireDeck(st); err != nil {
		return err
	}
	d, ok, err := s.decks.Deck(ctx, st.User, st.ActiveDeck)
	if err != nil {
		return err
	}
	if !ok {
		st.ActiveDeck = ""
		st.closeDeckViews()
		return nil
	}

	query = strings.TrimSpace(query)
	if err := checkLength("Search", query, MaxQueryLength); err != nil {
		return report(&st.Messages.Commander, err)
	}
	stage, err := deck.NextStage(d)
	if err != nil {
		st.Picker = deck.StageClosed
		return report(&st.Messages.Commander, err)
	}
	st.Picker = stage
	st.PickerQuery = query
	st.CardSearchOpen = false
	st.Messages.Commander = ""
	return nil
}

// ClosePicker closes the commander picker.
func (s *Service) ClosePicker(st *State) {
	defer st.bump()
	st.Picker = deck.StageClosed
	st.PickerQuery = ""
}

// ChooseCommander adds the picked card at the current picker stage and closes the picker.
func (s *Service) ChooseCommander(ctx context.Context, st *State, cardName string) error {
	defer st.bump()
	if err := requireDeck(st); err != nil {
		return err
	}
	if st.Picker == deck.StageClosed {
		return report(&st.Messages.Commander, deck.NewUserError(deck.ErrValidation, "⚠️ Open the commander picker first."))
	}
	if err := checkLength("Card name", cardName, MaxNameLength); err != nil {
		return report(&st.Messages.Commander, err)
	}

	if _, err := s.decks.ChooseCommander(ctx, st.User, st.ActiveDeck, st.Picker, cardName); err != nil {
		return report(&st.Messages.Commander, err)
	}
	st.Picker = deck.StageClosed
	st.PickerQuery = ""
	st.Messages.Commander = ""
	return nil
}

func requireDeck(st *State) error {
	if !st.LoggedIn() {
		return deck.ErrUnauthenticated
	}
	if st.ActiveDeck == "" {
		return deck.NewUserError(deck.ErrValidation, "No deck is open.")
	}
	return nil
}

// report writes the message of a user error to slot. The error is returned either way.
func report(slot *string, err error) error {
	if msg, ok := deck.UserMessage(err); ok {
		*slot = msg
	}
	return err
}
