package scheduler

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
)

// CatalogRefreshJobID identifies the catalog refresh job.
const CatalogRefreshJobID = "catalog_refresh"

// Warmer reloads a cache from its source.
type Warmer interface {
	Warm(ctx context.Context) error
}

// AddCatalogRefresh schedules w to be warmed on the cron schedule and once right after start.
func (s *Scheduler) AddCatalogRefresh(schedule string, w Warmer) error {
	if err := s.AddSingletonJob(
		CatalogRefreshJobID,
		"Catalog Refresh",
		schedule,
		gocron.CronJob(schedule, false),
		w.Warm,
		true,
	); err != nil {
		return fmt.Errorf("failed to add catalog refresh job: %w", err)
	}
	return nil
}
