package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventlivechat/internal/domain"
)

type catalogService struct {
	fetcher   domain.CatalogFetcher
	eventRepo domain.EventRepository
	logger    *slog.Logger
}

// NewCatalogService creates the service that mirrors the external event
// catalog into the events table.
func NewCatalogService(fetcher domain.CatalogFetcher, eventRepo domain.EventRepository, logger *slog.Logger) domain.CatalogService {
	return &catalogService{
		fetcher:   fetcher,
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// SyncOnce fetches the catalog feed and upserts every row by title. Rows
// without a title are skipped; a fetch failure aborts the sync.
func (s *catalogService) SyncOnce(ctx context.Context) error {
	rows, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}
	synced := 0
	for _, row := range rows {
		if row.Title == "" {
			s.logger.Warn("skipping catalog row without title")
			continue
		}
		now := time.Now()
		event := domain.NewEvent(row.Title, row.Description, now, now)
		if err := s.eventRepo.UpsertByTitle(ctx, event); err != nil {
			s.logger.Error("failed to upsert catalog event", "title", row.Title, "err", err)
			continue
		}
		synced++
	}
	s.logger.Info("catalog sync complete", "rows", len(rows), "synced", synced)
	return nil
}

// RunCatalogSync runs an initial sync and then one per interval until the
// context is cancelled. Sync failures are logged, never fatal.
func RunCatalogSync(ctx context.Context, svc domain.CatalogService, interval time.Duration, logger *slog.Logger) {
	if err := svc.SyncOnce(ctx); err != nil {
		logger.Error("catalog sync failed", "err", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.SyncOnce(ctx); err != nil {
				logger.Error("catalog sync failed", "err", err)
			}
		}
	}
}
