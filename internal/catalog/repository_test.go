package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/jon4hz/decksmith/internal/card"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo *Repository
	ctx  context.Context
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = NewRepository(openTestDB(s.T()), "English")
	s.Require().NoError(s.repo.Migrate())

	_, err := s.repo.Import(s.ctx, []SourceCard{
		{Name: "Llanowar Elves", UUID: "le-1", ManaCost: card.Ptr("{G}"), ManaValue: card.Ptr(1.0), Type: card.Ptr("Creature — Elf Druid"), Types: []string{"Creature"}, Language: "English", SetCode: "M19"},
		{Name: "Llanowar Elves", UUID: "le-2", ManaCost: card.Ptr("{G}"), ManaValue: card.Ptr(1.0), Type: card.Ptr("Creature — Elf Druid"), Types: []string{"Creature"}, Language: "English", SetCode: "DOM"},
		{Name: "Elvish Mystic", UUID: "em-1", ManaCost: card.Ptr("{G}"), ConvertedManaCost: card.Ptr(1.0), Type: card.Ptr("Creature — Elf Druid"), Types: []string{"Creature"}, Language: "English"},
		{Name: "Counterspell", UUID: "cs-1", ManaCost: card.Ptr("{U}{U}"), ManaValue: card.Ptr(2.0), Type: card.Ptr("Instant"), Types: []string{"Instant"}, Language: "English"},
		{Name: "Elfes de Llanowar", UUID: "le-fr", Type: card.Ptr("Créature — Elfe druide"), Types: []string{"Creature"}, Language: "French"},
	})
	s.Require().NoError(err)
}

func (s *RepositoryTestSuite) TearDownTest() {
	_ = s.repo.Close()
}

func (s *RepositoryTestSuite) TestFindByName_CaseInsensitiveDistinct() {
	cards, err := s.repo.FindByName(s.ctx, "ELV")
	s.Require().NoError(err)

	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	s.Equal([]string{"Elvish Mystic", "Llanowar Elves"}, names)
	s.Equal("le-1", cards[1].UUID, "first printing wins")
}

func (s *RepositoryTestSuite) TestFindByName_FiltersLanguage() {
	cards, err := s.repo.FindByName(s.ctx, "elfes")
	s.Require().NoError(err)
	s.Empty(cards)
}

func (s *RepositoryTestSuite) TestFindByName_NoMatch() {
	cards, err := s.repo.FindByName(s.ctx, "zzz")
	s.Require().NoError(err)
	s.Empty(cards)
}

func (s *RepositoryTestSuite) TestFindByName_MatchesLiterally() {
	_, err := s.repo.Import(s.ctx, []SourceCard{
		{Name: "Æther Vial", UUID: "av-1", Type: card.Ptr("Artifact"), Types: []string{"Artifact"}, Language: "English"},
	})
	s.Require().NoError(err)

	for _, query := range []string{"_", "%", "e_v", `\`, "%vial"} {
		cards, err := s.repo.FindByName(s.ctx, query)
		s.Require().NoError(err)
		s.Empty(cards, "query %q", query)
	}

	for _, query := range []string{"Æther", "æther vial", "ÆTHER VIAL", "vial"} {
		cards, err := s.repo.FindByName(s.ctx, query)
		s.Require().NoError(err)
		s.Require().Len(cards, 1, "query %q", query)
		s.Equal("Æther Vial", cards[0].Name)
	}
}

func (s *RepositoryTestSuite) TestMigrate_BackfillsSearchNames() {
	err := s.repo.db.Model(&Record{}).Where("uuid = ?", "cs-1").UpdateColumn("name_lower", "").Error
	s.Require().NoError(err)

	cards, err := s.repo.FindByName(s.ctx, "counter")
	s.Require().NoError(err)
	s.Empty(cards)

	s.Require().NoError(s.repo.Migrate())
	cards, err = s.repo.FindByName(s.ctx, "counter")
	s.Require().NoError(err)
	s.Require().Len(cards, 1)
	s.Equal("Counterspell", cards[0].Name)
}

func (s *RepositoryTestSuite) TestImport_ImageURL() {
	cards, err := ParseSource(strings.NewReader(`[
		{"name":"Sol Ring","uuid":"sr-1","language":"English","identifiers":{"scryfallId":"7A5CD03C-4227-4551-AA4B-7D119F0468B5"}},
		{"name":"Mox Opal","uuid":"mo-1","language":"English","purchaseUrls":{"cardKingdom":"https://mtgjson.com/links/abc"}}
	]`))
	s.Require().NoError(err)
	_, err = s.repo.Import(s.ctx, cards)
	s.Require().NoError(err)

	ring, err := s.repo.FindExact(s.ctx, "Sol Ring")
	s.Require().NoError(err)
	s.Equal("https://cards.scryfall.io/normal/front/7/a/7a5cd03c-4227-4551-aa4b-7d119f0468b5.jpg", ring.ImageURLOrEmpty())

	mox, err := s.repo.FindExact(s.ctx, "Mox Opal")
	s.Require().NoError(err)
	s.Equal("https://mtgjson.com/links/abc", mox.ImageURLOrEmpty())

	counterspell, err := s.repo.FindExact(s.ctx, "Counterspell")
	s.Require().NoError(err)
	s.Nil(counterspell.ImageURL)
}

func (s *RepositoryTestSuite) TestFindExact() {
	c, err := s.repo.FindExact(s.ctx, "Counterspell")
	s.Require().NoError(err)
	s.Equal("{U}{U}", c.ManaCostOrEmpty())
	s.Equal(2.0, c.ManaValueOrZero())
	s.Equal([]string{"Instant"}, c.Types)

	_, err = s.repo.FindExact(s.ctx, "counterspell")
	s.ErrorIs(err, ErrCardNotFound)

	_, err = s.repo.FindExact(s.ctx, "Black Lotus")
	s.ErrorIs(err, ErrCardNotFound)
}

func (s *RepositoryTestSuite) TestFindExact_ConvertedManaCostFallback() {
	c, err := s.repo.FindExact(s.ctx, "Elvish Mystic")
	s.Require().NoError(err)
	s.Equal(1.0, c.ManaValueOrZero())
	s.Equal([]string{"Elf", "Druid"}, c.Subtypes)
}

func (s *RepositoryTestSuite) TestAll_DistinctByName() {
	cards, err := s.repo.All(s.ctx)
	s.Require().NoError(err)
	s.Len(cards, 3)
}

func (s *RepositoryTestSuite) TestCounts() {
	total, err := s.repo.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(5), total)

	names, err := s.repo.CountNames(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(4), names)
}

func (s *RepositoryTestSuite) TestImport_SkipsExistingAndNameless() {
	res, err := s.repo.Import(s.ctx, []SourceCard{
		{Name: "Counterspell", UUID: "cs-1", Language: "English"},
		{Name: "  ", UUID: "blank"},
		{Name: "Opt", Language: "English"},
	})
	s.Require().NoError(err)
	s.Equal(3, res.Read)
	s.Equal(1, res.Skipped)
	s.Equal(int64(1), res.Inserted)

	opt, err := s.repo.FindExact(s.ctx, "Opt")
	s.Require().NoError(err)
	s.NotEmpty(opt.UUID)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNames []string
		wantSet   string
		wantErr   bool
	}{
		{
			name:      "bare array",
			input:     `[{"name":"Opt"},{"name":"Shock"}]`,
			wantNames: []string{"Opt", "Shock"},
		},
		{
			name:      "cards envelope",
			input:     `{"cards":[{"name":"Opt"}]}`,
			wantNames: []string{"Opt"},
		},
		{
			name:      "single set file",
			input:     `{"data":{"code":"XLN","cards":[{"name":"Opt"}]}}`,
			wantNames: []string{"Opt"},
			wantSet:   "XLN",
		},
		{
			name:      "all printings",
			input:     `{"data":{"DOM":{"cards":[{"name":"Shivan Fire"}]}}}`,
			wantNames: []string{"Shivan Fire"},
			wantSet:   "DOM",
		},
		{
			name:    "empty object",
			input:   `{}`,
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := ParseSource(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d cards", len(cards))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cards) != len(tt.wantNames) {
				t.Fatalf("got %d cards, want %d", len(cards), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				if cards[i].Name != want {
					t.Errorf("card %d = %q, want %q", i, cards[i].Name, want)
				}
				if tt.wantSet != "" && cards[i].SetCode != tt.wantSet {
					t.Errorf("card %d set = %q, want %q", i, cards[i].SetCode, tt.wantSet)
				}
			}
		})
	}
}

func TestSubtypesFromTypeLine(t *testing.T) {
	tests := map[string][]string{
		"Legendary Creature — Elf Druid": {"Elf", "Druid"},
		"Artifact - Equipment":           {"Equipment"},
		"Instant":                        nil,
	}
	for line, want := range tests {
		got := subtypesFromTypeLine(line)
		if len(got) != len(want) {
			t.Fatalf("%q: got %v, want %v", line, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%q: got %v, want %v", line, got, want)
			}
		}
	}
}
