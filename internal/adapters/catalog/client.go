package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"eventlivechat/internal/domain"
)

// Column layout of the published spreadsheet feed: title in column 1,
// description in column 3.
const (
	titleColumn       = 1
	descriptionColumn = 3
	minColumns        = 4
)

type csvFetcher struct {
	client  *http.Client
	feedURL string
}

// NewCSVFetcher returns a fetcher that downloads and parses the published
// CSV event catalog.
func NewCSVFetcher(client *http.Client, feedURL string) domain.CatalogFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &csvFetcher{client: client, feedURL: feedURL}
}

func (f *csvFetcher) Fetch(ctx context.Context) ([]domain.CatalogRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog feed returned status: %d", resp.StatusCode)
	}
	return parseRows(resp.Body)
}

func parseRows(r io.Reader) ([]domain.CatalogRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Header row.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	var rows []domain.CatalogRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog row: %w", err)
		}
		if len(record) < minColumns {
			continue
		}
		title := strings.TrimSpace(record[titleColumn])
		description := strings.TrimSpace(record[descriptionColumn])
		if description == "" {
			description = "No description"
		}
		rows = append(rows, domain.CatalogRow{Title: title, Description: description})
	}
	return rows, nil
}
