package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"github.com/jon4hz/decksmith/internal/card"
	"github.com/jon4hz/decksmith/internal/config"
	"github.com/samber/lo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

var _ Accessor = (*Repository)(nil) // Ensure Repository implements Accessor

// Repository reads the cards table through gorm.
type Repository struct {
	db       *gorm.DB
	language string
}

// Open connects to the configured catalog database and migrates the cards table.
func Open(cfg *config.CatalogConfig) (*Repository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("catalog config is required")
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.CatalogDriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create catalog directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.Path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect catalog database: %w", err)
	}

	repo := NewRepository(db, cfg.Language)
	if err := repo.Migrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

// NewRepository wraps an existing connection.
func NewRepository(db *gorm.DB, language string) *Repository {
	return &Repository{db: db, language: language}
}

// Migrate creates or updates the cards table.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("failed to migrate catalog: %w", err)
	}
	return r.backfillNameLower()
}

// backfillNameLower fills the search column of rows written before it existed
// or by other tools.
func (r *Repository) backfillNameLower() error {
	var records []Record
	var filled int
	err := r.db.Where("name_lower IS NULL OR name_lower = ''").
		FindInBatches(&records, importBatchSize, func(tx *gorm.DB, _ int) error {
			for _, rec := range records {
				err := r.db.Model(&Record{}).Where("id = ?", rec.ID).
					UpdateColumn("name_lower", strings.ToLower(rec.Name)).Error
				if err != nil {
					return err
				}
			}
			filled += len(records)
			return nil
		}).Error
	if err != nil {
		return fmt.Errorf("failed to backfill card names: %w", err)
	}
	if filled > 0 {
		log.Info("Backfilled card search names", "rows", filled)
	}
	return nil
}

// Close closes the underlying connection.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *Repository) scoped(ctx context.Context) *gorm.DB {
	tx := r.db.WithContext(ctx)
	if r.language != "" {
		tx = tx.Where("language = ? OR language = ''", r.language)
	}
	return tx
}

// FindByName returns cards whose name contains substr, first printing per name.
func (r *Repository) FindByName(ctx context.Context, substr string) ([]card.Card, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(substr))) + "%"

	var records []Record
	result := r.scoped(ctx).
		Where(`name_lower LIKE ? ESCAPE '\'`, pattern).
		Order("name").Order("id").
		Find(&records)
	if result.Error != nil {
		log.Error("failed to search cards by name", "query", substr, "error", result.Error)
		return nil, result.Error
	}

	return ToCards(distinctByName(records)), nil
}

// FindExact returns the first printing with exactly this name.
func (r *Repository) FindExact(ctx context.Context, name string) (card.Card, error) {
	var record Record
	err := r.scoped(ctx).Where("name = ?", name).Order("id").First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return card.Card{}, ErrCardNotFound
		}
		log.Error("failed to get card by name", "name", name, "error", err)
		return card.Card{}, err
	}
	return record.ToCard(), nil
}

// All returns the first printing of every card name.
func (r *Repository) All(ctx context.Context) ([]card.Card, error) {
	var records []Record
	if err := r.scoped(ctx).Order("name").Order("id").Find(&records).Error; err != nil {
		log.Error("failed to get all cards", "error", err)
		return nil, err
	}
	return ToCards(distinctByName(records)), nil
}

// Count returns the number of printings in the catalog.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Record{}).Count(&count).Error
	return count, err
}

// CountNames returns the number of distinct card names in the catalog.
func (r *Repository) CountNames(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Record{}).Distinct("name").Count(&count).Error
	return count, err
}

// records must be ordered by name, id.
func distinctByName(records []Record) []Record {
	return lo.UniqBy(records, func(r Record) string { return r.Name })
}
