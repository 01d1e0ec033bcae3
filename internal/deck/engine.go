// Package deck implements all mutations of a user's decks.
//
// Every mutation is a single load-modify-save step on the user's deck
// collection. Unknown decks are ignored, unknown cards are reported.
package deck

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/decksmith/internal/card"
	"github.com/jon4hz/decksmith/internal/catalog"
	"github.com/jon4hz/decksmith/internal/storage"
	"github.com/samber/lo"
)

// MaxCommanders is the size of the command zone.
const MaxCommanders = 2

// Engine mutates decks in a DeckStore and resolves card names through the catalog.
type Engine struct {
	store   storage.DeckStore
	catalog catalog.Accessor
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the clock used for updated_at.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates a new deck engine.
func New(store storage.DeckStore, cat catalog.Accessor, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		catalog: cat,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decks returns all decks of the user.
func (e *Engine) Decks(_ context.Context, user string) (storage.Decks, error) {
	if user == "" {
		return nil, ErrUnauthenticated
	}
	return e.store.LoadDecks(user)
}

// Deck returns a single deck of the user.
func (e *Engine) Deck(ctx context.Context, user, name string) (storage.Deck, bool, error) {
	decks, err := e.Decks(ctx, user)
	if err != nil {
		return storage.Deck{}, false, err
	}
	d, ok := decks[name]
	return d, ok, nil
}

// InitUser gives a new user an empty deck collection.
func (e *Engine) InitUser(user string) error {
	return e.store.SaveDecks(user, storage.Decks{})
}

// CreateDeck creates an empty deck. It reports false if the deck already existed,
// in which case nothing is changed.
func (e *Engine) CreateDeck(_ context.Context, user, name string) (bool, error) {
	if user == "" {
		return false, ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false, NewUserError(ErrValidation, "❌ Please enter a deck name.")
	}

	created := false
	err := e.store.UpdateDecks(user, func(decks storage.Decks) (bool, error) {
		if _, ok := decks[name]; ok {
			return false, nil
		}
		decks[name] = storage.NewDeck(e.now())
		created = true
		return true, nil
	})
	if err != nil {
		return false, err
	}
	if created {
		log.Info("Created deck", "user", user, "deck", name)
	}
	return created, nil
}

// DeleteDeck removes a deck. Unknown decks are ignored.
func (e *Engine) DeleteDeck(_ context.Context, user, name string) (bool, error) {
	if user == "" {
		return false, ErrUnauthenticated
	}
	deleted := false
	err := e.store.UpdateDecks(user, func(decks storage.Decks) (bool, error) {
		if _, ok := decks[name]; !ok {
			return false, nil
		}
		delete(decks, name)
		deleted = true
		return true, nil
	})
	if err != nil {
		return false, err
	}
	if deleted {
		log.Info("Deleted deck", "user", user, "deck", name)
	}
	return deleted, nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
// The favorite flag is metadata, so updated_at is left alone.
func (e *Engine) ToggleFavorite(_ context.Context, user, name string) (bool, error) {
	if user == "" {
		return false, ErrUnauthenticated
	}
	favorite := false
	err := e.store.UpdateDecks(user, func(decks storage.Decks) (bool, error) {
		d, ok := decks[name]
		if !ok {
			return false, nil
		}
		d.Favorite = !d.Favorite
		favorite = d.Favorite
		decks[name] = d
		return true, nil
	})
	return favorite, err
}

// AddCard resolves cardName in the catalog and appends it to the deck.
// A card already in the deck is rejected unless it is a basic land.
func (e *Engine) AddCard(ctx context.Context, user, deckName, cardName string) (bool, error) {
	if user == "" {
		return false, ErrUnauthenticated
	}
	cardName = strings.TrimSpace(cardName)
	if cardName == "" {
		return false, nil
	}

	resolved, err := e.resolve(ctx, cardName)
	if err != nil {
		return false, err
	}

	added := false
	err = e.store.UpdateDecks(user, func(decks storage.Decks) (bool, error) {
		d, ok := decks[deckName]
		if !ok {
			return false, nil
		}
		if containsName(d.Cards, resolved.Name) && !card.IsBasicLand(resolved) {
			return false, NewUserError(ErrDuplicate, "⚠️ %s is already in the deck.", resolved.Name)
		}
		d.Cards = append(d.Cards, resolved)
		d.UpdatedAt = e.now().UTC()
		decks[deckName] = d
		added = true
		return true, nil
	})
	if err != nil {
		return false, err
	}
	if added {
		log.Debug("Added card", "user", user, "deck", deckName, "card", resolved.Name)
	}
	return added, nil
}

// RemoveCard removes every copy of cardName from the cards and the commanders of a deck.
func (e *Engine) RemoveCard(_ context.Context, user, deckName, cardName string) (bool, error) {
	if user == "" {
		return false, ErrUnauthenticated
	}
	removed := false
	err := e.store.UpdateDecks(user, func(decks storage.Decks) (bool, error) {
		d, ok := decks[deckName]
		if !ok {
			return false, nil
		}
		keep := func(c card.Card, _ int) bool { return c.Name != cardName }
		cards := lo.Filter(d.Cards, keep)
		commanders := lo.Filter(d.Commanders, keep)
		if len(cards) == len(d.Cards) && len(commanders) == len(d.Commanders) {
			return false, nil
		}
		d.Cards = cards
		d.Commanders = commanders
		d.UpdatedAt = e.now().UTC()
		decks[deckName] = d
		removed = true
		return true, nil
	})
	return removed, err
}

// AddCommander resolves cardName and adds it to the command zone. Adding a
// commander twice is a no-op. Eligibility is not checked here, only the
// size of the command zone; the picker flow uses ChooseCommander.
func (e *Engine) AddCommander(ctx context.Context, user, deckName, cardName string) (bool, error) {
	if user == "" {
		return false, ErrUnauthenticated
	}
	cardName = strings.TrimSpace(cardName)
	if cardName == "" {
		return false, nil
	}

	resolved, err := e.resolve(ctx, cardName)
	if err != nil {
		return false, err
	}
	return e.appendCommander(user, deckName, resolved, nil)
}

// ChooseCommander adds a commander picked at the given picker stage. The stage
// must be the deck's next stage and the card must be eligible for it.
func (e *Engine) ChooseCommander(ctx context.Context, user, deckName string, stage Stage, cardName string) (bool, error) {
	if user == "" {
		return false, ErrUnauthenticated
	}

	resolved, err := e.resolve(ctx, strings.TrimSpace(cardName))
	if err != nil {
		return false, err
	}
	if !Eligible(stage, resolved) {
		return false, NewUserError(ErrValidation, "⚠️ %s can't be chosen as a %s commander.", resolved.Name, stage)
	}

	return e.appendCommander(user, deckName, resolved, func(d storage.Deck) error {
		next, err := NextStage(d)
		if err != nil {
			return err
		}
		if next != stage {
			return NewUserError(ErrValidation, "⚠️ This deck needs a %s commander next.", next)
		}
		return nil
	})
}

func (e *Engine) appendCommander(user, deckName string, c card.Card, check func(storage.Deck) error) (bool, error) {
	added := false
	err := e.store.UpdateDecks(user, func(decks storage.Decks) (bool, error) {
		d, ok := decks[deckName]
		if !ok {
			return false, nil
		}
		if containsName(d.Commanders, c.Name) {
			return false, nil
		}
		if len(d.Commanders) >= MaxCommanders {
			return false, NewUserError(ErrCapacity, MsgCommandZoneFull)
		}
		if check != nil {
			if err := check(d); err != nil {
				return false, err
			}
		}
		d.Commanders = append(d.Commanders, c)
		d.UpdatedAt = e.now().UTC()
		decks[deckName] = d
		added = true
		return true, nil
	})
	if err != nil {
		return false, err
	}
	if added {
		log.Debug("Added commander", "user", user, "deck", deckName, "card", c.Name)
	}
	return added, nil
}

// CommanderColorIdentity returns the union of the colored pips of the deck's commanders.
func CommanderColorIdentity(d storage.Deck) card.Colors {
	return card.ColorIdentity(d.Commanders)
}

func (e *Engine) resolve(ctx context.Context, name string) (card.Card, error) {
	c, err := e.catalog.FindExact(ctx, name)
	if err != nil {
		if errors.Is(err, catalog.ErrCardNotFound) {
			return card.Card{}, NewUserError(ErrNotFound, "❌ Card not found: %s", name)
		}
		return card.Card{}, err
	}
	return c, nil
}

func containsName(cards []card.Card, name string) bool {
	return lo.ContainsBy(cards, func(c card.Card) bool { return c.Name == name })
}
