package domain

import "context"

// CatalogRow is one entry from the external event catalog feed.
type CatalogRow struct {
	Title       string
	Description string
}

// CatalogFetcher retrieves the current event catalog from the external feed.
type CatalogFetcher interface {
	Fetch(ctx context.Context) ([]CatalogRow, error)
}

// CatalogService upserts events from the external catalog. Matching is by
// title so repeated syncs never duplicate an event.
type CatalogService interface {
	SyncOnce(ctx context.Context) error
}
