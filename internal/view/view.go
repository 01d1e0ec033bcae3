// Package view derives the render-model of a session from its state and the stores.
package view

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/jon4hz/decksmith/internal/card"
	"github.com/jon4hz/decksmith/internal/catalog"
	"github.com/jon4hz/decksmith/internal/deck"
	"github.com/jon4hz/decksmith/internal/filter"
	"github.com/jon4hz/decksmith/internal/session"
	"github.com/jon4hz/decksmith/internal/storage"
	"github.com/samber/lo"
)

// Screen is the top level view of a page.
type Screen string

const (
	ScreenLogin    Screen = "login"
	ScreenRegister Screen = "register"
	ScreenDecks    Screen = "decks"
	ScreenDeck     Screen = "deck"
)

const noCommander = "—"

// Page is the complete render-model of a session.
type Page struct {
	Revision   uint64           `json:"revision"`
	Screen     Screen           `json:"screen"`
	User       string           `json:"user,omitempty"`
	Messages   session.Messages `json:"messages"`
	DeckSearch string           `json:"deckSearch,omitempty"`
	Decks      []DeckRow        `json:"decks,omitempty"`
	Deck       *DeckView        `json:"deck,omitempty"`
}

// DeckRow is a line of the deck list.
type DeckRow struct {
	Name       string   `json:"name"`
	Favorite   bool     `json:"favorite"`
	Colors     []string `json:"colors"`
	Commanders string   `json:"commanders"`
	Cards      int      `json:"cards"`
	Updated    string   `json:"updated"`
}

// RowGroup is a titled section of consolidated deck rows.
type RowGroup struct {
	Tag   string       `json:"tag"`
	Title string       `json:"title"`
	Rows  []filter.Row `json:"rows"`
}

// CardGroup is a titled section of individual cards.
type CardGroup struct {
	Tag   string      `json:"tag"`
	Title string      `json:"title"`
	Cards []card.Card `json:"cards"`
}

// DeckView is the open deck.
type DeckView struct {
	Name          string      `json:"name"`
	Favorite      bool        `json:"favorite"`
	ColorIdentity []string    `json:"colorIdentity"`
	Commanders    []string    `json:"commanders"`
	CardCount     int         `json:"cardCount"`
	Updated       string      `json:"updated"`
	CardInput     string      `json:"cardInput,omitempty"`
	Groups        []RowGroup  `json:"groups"`
	Search        *SearchView `json:"search,omitempty"`
	Picker        *PickerView `json:"picker,omitempty"`
}

// SearchView is the open card search.
type SearchView struct {
	Spec      filter.Spec `json:"spec"`
	Groups    []CardGroup `json:"groups"`
	Total     int         `json:"total"`
	Truncated bool        `json:"truncated"`
}

// PickerView is the open commander picker.
type PickerView struct {
	Stage      deck.Stage  `json:"stage"`
	Query      string      `json:"query,omitempty"`
	Candidates []card.Card `json:"candidates"`
	Truncated  bool        `json:"truncated"`
}

// Builder builds pages. It never changes a store.
type Builder struct {
	decks      *deck.Engine
	catalog    catalog.Accessor
	maxResults int
}

// NewBuilder creates a page builder. maxResults caps search and picker lists.
func NewBuilder(decks *deck.Engine, cat catalog.Accessor, maxResults int) *Builder {
	return &Builder{
		decks:      decks,
		catalog:    cat,
		maxResults: maxResults,
	}
}

// Build derives the page for a session state.
func (b *Builder) Build(ctx context.Context, st *session.State) (*Page, error) {
	page := &Page{
		Revision: st.Revision,
		User:     st.User,
		Messages: st.Messages,
	}

	if !st.LoggedIn() {
		page.Screen = ScreenLogin
		if st.Mode == session.ModeRegister {
			page.Screen = ScreenRegister
		}
		return page, nil
	}

	decks, err := b.decks.Decks(ctx, st.User)
	if err != nil {
		return nil, err
	}

	if d, ok := decks[st.ActiveDeck]; ok && st.ActiveDeck != "" {
		page.Screen = ScreenDeck
		page.Deck, err = b.deckView(ctx, st, d)
		if err != nil {
			return nil, err
		}
		return page, nil
	}

	page.Screen = ScreenDecks
	page.DeckSearch = st.DeckSearch
	page.Decks = DeckRows(decks, st.DeckSearch)
	return page, nil
}

// DeckRows lists the decks whose name contains search, favorites first, then by name.
func DeckRows(decks storage.Decks, search string) []DeckRow {
	needle := strings.ToLower(strings.TrimSpace(search))
	rows := make([]DeckRow, 0, len(decks))
	for name, d := range decks {
		if !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		rows = append(rows, DeckRow{
			Name:       name,
			Favorite:   d.Favorite,
			Colors:     deck.CommanderColorIdentity(d).Sorted(),
			Commanders: commanderLabel(d.Commanders),
			Cards:      len(d.Cards),
			Updated:    FormatUpdated(d.UpdatedAt),
		})
	}
	slices.SortFunc(rows, func(a, b DeckRow) int {
		if a.Favorite != b.Favorite {
			if a.Favorite {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			cmp.Compare(a.Name, b.Name),
		)
	})
	return rows
}

// DeckGroups groups the commanders and cards of a deck for display. Copies
// of a card are merged into one row.
func DeckGroups(d storage.Deck) []RowGroup {
	all := slices.Concat(d.Commanders, d.Cards)
	groups := filter.GroupCards(all, cardNames(d.Commanders))
	return lo.Map(groups, func(g filter.Group, _ int) RowGroup {
		return RowGroup{Tag: g.Tag, Title: Title(g.Tag), Rows: filter.Consolidate(g.Cards)}
	})
}

func (b *Builder) deckView(ctx context.Context, st *session.State, d storage.Deck) (*DeckView, error) {
	v := &DeckView{
		Name:          st.ActiveDeck,
		Favorite:      d.Favorite,
		ColorIdentity: deck.CommanderColorIdentity(d).Sorted(),
		Commanders:    cardNames(d.Commanders),
		CardCount:     len(d.Cards),
		Updated:       FormatUpdated(d.UpdatedAt),
		CardInput:     st.CardInput,
		Groups:        DeckGroups(d),
	}

	if st.CardSearchOpen {
		search, err := b.searchView(ctx, st.Search, d)
		if err != nil {
			return nil, err
		}
		v.Search = search
	}

	if st.Picker != deck.StageClosed {
		picker, err := b.pickerView(ctx, st.Picker, st.PickerQuery, d)
		if err != nil {
			return nil, err
		}
		v.Picker = picker
	}
	return v, nil
}

func (b *Builder) searchView(ctx context.Context, spec filter.Spec, d storage.Deck) (*SearchView, error) {
	cards, err := b.catalog.All(ctx)
	if err != nil {
		return nil, err
	}
	matches, err := filter.New(spec, d.Commanders).ApplyAll(ctx, cards)
	if err != nil {
		return nil, err
	}

	view := &SearchView{Spec: spec, Total: len(matches)}
	if b.maxResults > 0 && len(matches) > b.maxResults {
		matches = matches[:b.maxResults]
		view.Truncated = true
	}
	view.Groups = lo.Map(filter.GroupCards(matches, cardNames(d.Commanders)), func(g filter.Group, _ int) CardGroup {
		return CardGroup{Tag: g.Tag, Title: Title(g.Tag), Cards: g.Cards}
	})
	return view, nil
}

func (b *Builder) pickerView(ctx context.Context, stage deck.Stage, query string, d storage.Deck) (*PickerView, error) {
	cards, err := b.catalog.All(ctx)
	if err != nil {
		return nil, err
	}
	if query != "" {
		cards, err = filter.New(filter.Spec{Name: query}, nil).ApplyAll(ctx, cards)
		if err != nil {
			return nil, err
		}
	}

	candidates := deck.Candidates(cards, stage, d)
	view := &PickerView{Stage: stage, Query: query}
	if b.maxResults > 0 && len(candidates) > b.maxResults {
		candidates = candidates[:b.maxResults]
		view.Truncated = true
	}
	view.Candidates = candidates
	return view, nil
}

func commanderLabel(commanders []card.Card) string {
	if len(commanders) == 0 {
		return noCommander
	}
	return strings.Join(cardNames(commanders), " | ")
}

func cardNames(cards []card.Card) []string {
	return lo.Map(cards, func(c card.Card, _ int) string { return c.Name })
}
