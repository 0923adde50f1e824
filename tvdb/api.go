package tvdb

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/samber/mo"
)

// API defines the interface for TVDB show operations
type API interface {
	// SearchShows returns raw search results for a show name
	SearchShows(ctx context.Context, name string) ([]Record, error)

	// GetEpisodePages returns every page of raw episodes for a show id
	GetEpisodePages(ctx context.Context, showID string) ([][]Record, error)

	// GetShowDetails returns the projected show with all of its episodes
	GetShowDetails(ctx context.Context, name string) (*Show, error)

	// GetDetailsForAllShows returns details for every show that did not fail or get ignored
	GetDetailsForAllShows(ctx context.Context, names []string) []Show

	// CollectShowDetails is GetDetailsForAllShows with skip and failure reporting
	CollectShowDetails(ctx context.Context, names []string) *BatchResult
}

// Fetcher provides raw access to the envelope endpoints
type Fetcher interface {
	// Fetch fetches a single page of data
	Fetch(ctx context.Context, path string, params url.Values) (mo.Option[json.RawMessage], error)

	// FetchPaged fetches every page by following the next cursor
	FetchPaged(ctx context.Context, path string, params url.Values) (mo.Option[[][]Record], error)
}

var (
	_ API     = (*Client)(nil)
	_ Fetcher = (*Client)(nil)
)
