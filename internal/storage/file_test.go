package storage

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jon4hz/decksmith/internal/card"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*FileStore, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	store, err := NewFileStore(fsys, "/data")
	require.NoError(t, err)
	return store, fsys
}

func TestFileStore_Users(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Empty(t, store.LoadUsers())

	require.NoError(t, store.SaveUsers(Users{"alice": "hash-a"}))
	assert.Equal(t, Users{"alice": "hash-a"}, store.LoadUsers())

	err := store.UpdateUsers(func(users Users) (bool, error) {
		users["bob"] = "hash-b"
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, Users{"alice": "hash-a", "bob": "hash-b"}, store.LoadUsers())
}

func TestFileStore_UpdateUsersNoChangeOrError(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveUsers(Users{"alice": "hash-a"}))

	require.NoError(t, store.UpdateUsers(func(users Users) (bool, error) {
		users["ghost"] = "x"
		return false, nil
	}))

	boom := errors.New("boom")
	err := store.UpdateUsers(func(users Users) (bool, error) {
		users["ghost"] = "x"
		return true, boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, Users{"alice": "hash-a"}, store.LoadUsers())
}

func TestFileStore_CorruptFilesDegradeToEmpty(t *testing.T) {
	store, fsys := newTestStore(t)
	require.NoError(t, afero.WriteFile(fsys, "/data/users.json", []byte("{not json"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/data/decks/alice.json", []byte("]]"), 0o644))

	assert.Empty(t, store.LoadUsers())

	decks, err := store.LoadDecks("alice")
	require.NoError(t, err)
	assert.Empty(t, decks)
}

func TestFileStore_DecksRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	updated := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	decks := Decks{
		"Mono Green": {
			Cards: []card.Card{
				{Name: "Forest", Types: []string{"Land"}, Supertypes: []string{"Basic"}},
				{Name: "Llanowar Elves", ManaCost: card.Ptr("{G}"), ManaValue: card.Ptr(1.0), Types: []string{"Creature"}, Power: card.Ptr("1"), Toughness: card.Ptr("1")},
			},
			Commanders: []card.Card{{Name: "Marwyn, the Nurturer", ManaCost: card.Ptr("{2}{G}")}},
			Favorite:   true,
			UpdatedAt:  updated,
		},
		"Empty": NewDeck(updated),
	}
	require.NoError(t, store.SaveDecks("alice", decks))

	loaded, err := store.LoadDecks("alice")
	require.NoError(t, err)
	assert.Equal(t, decks, loaded)

	require.NoError(t, store.SaveDecks("alice", loaded))
	again, err := store.LoadDecks("alice")
	require.NoError(t, err)
	assert.Equal(t, loaded, again)
}

func TestFileStore_DecksAreIsolatedPerUser(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveDecks("alice", Decks{"A": NewDeck(time.Now())}))

	bob, err := store.LoadDecks("bob")
	require.NoError(t, err)
	assert.Empty(t, bob)
}

func TestFileStore_LegacyDeckListIsUpgraded(t *testing.T) {
	store, fsys := newTestStore(t)
	path := filepath.Join("/data", "decks", "alice.json")
	require.NoError(t, afero.WriteFile(fsys, path, []byte(`["Elves", "Burn"]`), 0o644))

	decks, err := store.LoadDecks("alice")
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Empty(t, decks["Elves"].Cards)
	assert.Empty(t, decks["Burn"].Commanders)

	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Elves": {`)
}

func TestDeck_UnmarshalLegacyShapes(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantCards      []string
		wantCommanders []string
		wantFavorite   bool
		wantUpdated    time.Time
	}{
		{
			name:      "bare card name list",
			input:     `{"D": ["Opt", "Shock"]}`,
			wantCards: []string{"Opt", "Shock"},
		},
		{
			name:           "single commander string",
			input:          `{"D": {"cards": ["Opt"], "commander": "Kenrith, the Returned King", "updated_at": "2024-05-01T10:00:00.123456"}}`,
			wantCards:      []string{"Opt"},
			wantCommanders: []string{"Kenrith, the Returned King"},
			wantUpdated:    time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC),
		},
		{
			name:  "empty commander string",
			input: `{"D": {"cards": [], "commander": ""}}`,
		},
		{
			name:           "commander list and favorite",
			input:          `{"D": {"cards": [{"name": "Opt", "manaCost": "{U}"}], "commander": ["Tymna the Weaver", "Thrasios, Triton Hero"], "favorite": true}}`,
			wantCards:      []string{"Opt"},
			wantCommanders: []string{"Tymna the Weaver", "Thrasios, Triton Hero"},
			wantFavorite:   true,
		},
		{
			name:           "current format wins over legacy commander",
			input:          `{"D": {"commanders": [{"name": "Atraxa, Praetors' Voice"}], "commander": "ignored"}}`,
			wantCommanders: []string{"Atraxa, Praetors' Voice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decks, legacy, err := decodeDecks([]byte(tt.input))
			require.NoError(t, err)
			assert.False(t, legacy)

			d := decks["D"]
			assert.Equal(t, tt.wantCards, names(d.Cards))
			assert.Equal(t, tt.wantCommanders, names(d.Commanders))
			assert.Equal(t, tt.wantFavorite, d.Favorite)
			assert.True(t, tt.wantUpdated.Equal(d.UpdatedAt), "updated_at = %s", d.UpdatedAt)
			assert.NotNil(t, d.Cards)
			assert.NotNil(t, d.Commanders)
		})
	}
}

func TestFileStore_UpdateDecksConcurrent(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.UpdateDecks("alice", func(decks Decks) (bool, error) {
				d := decks["Counter"]
				d.Cards = append(d.Cards, card.Named(string(rune('a'+i))))
				decks["Counter"] = d
				return true, nil
			})
		}()
	}
	wg.Wait()

	decks, err := store.LoadDecks("alice")
	require.NoError(t, err)
	assert.Len(t, decks["Counter"].Cards, 20)
}

func TestValidateUsername(t *testing.T) {
	for _, name := range []string{"alice", "Bob_99", "zoë"} {
		assert.NoError(t, ValidateUsername(name), name)
	}
	for _, name := range []string{"", "  ", ".", "..", "../etc", "a/b", `a\b`} {
		assert.ErrorIs(t, ValidateUsername(name), ErrInvalidUsername, name)
	}

	store, _ := newTestStore(t)
	_, err := store.LoadDecks("../users")
	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func names(cards []card.Card) []string {
	if len(cards) == 0 {
		return nil
	}
	result := make([]string, len(cards))
	for i, c := range cards {
		result[i] = c.Name
	}
	return result
}
