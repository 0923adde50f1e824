package tvdb

import (
	"net/http"
	"slices"
	"time"
)

// DefaultBaseURL is the root of TheTVDB v2 API
const DefaultBaseURL = "https://api.thetvdb.com"

const defaultTimeout = 30 * time.Second

// DefaultShowFields is the show field selection used when WithShowFields is not given.
var DefaultShowFields = []string{
	"id",
	"seriesName",
	"aliases",
	"status",
	"firstAired",
	"network",
	"overview",
	"slug",
}

// DefaultEpisodeFields is the episode field selection used when WithEpisodeFields is not given.
var DefaultEpisodeFields = []string{
	"id",
	"airedSeason",
	"airedEpisodeNumber",
	"episodeName",
	"firstAired",
	"overview",
}

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL       string
	timeout       time.Duration
	httpClient    *http.Client
	showFields    []string
	episodeFields []string
	showsToIgnore []string
	concurrency   int
	batchNameEcho bool
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:       DefaultBaseURL,
		timeout:       defaultTimeout,
		showFields:    slices.Clone(DefaultShowFields),
		episodeFields: slices.Clone(DefaultEpisodeFields),
		concurrency:   1,
	}
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout.
// It has no effect when WithHTTPClient is also used.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client used for all requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithShowFields sets the fields kept from each search result.
// Calling it with no fields keeps DefaultShowFields.
func WithShowFields(fields ...string) Option {
	return func(o *clientOptions) {
		if len(fields) > 0 {
			o.showFields = slices.Clone(fields)
		}
	}
}

// WithEpisodeFields sets the fields kept from each episode.
// Calling it with no fields keeps DefaultEpisodeFields.
func WithEpisodeFields(fields ...string) Option {
	return func(o *clientOptions) {
		if len(fields) > 0 {
			o.episodeFields = slices.Clone(fields)
		}
	}
}

// WithShowsToIgnore adds show names that batch aggregation skips.
func WithShowsToIgnore(names ...string) Option {
	return func(o *clientOptions) {
		o.showsToIgnore = append(o.showsToIgnore, names...)
	}
}

// WithConcurrency sets how many shows a batch processes at once.
// Values below 2 keep the batch sequential.
func WithConcurrency(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithBatchNameEcho makes batch records carry the whole input name list in show_name_obj
// instead of the record's own show name.
func WithBatchNameEcho(enabled bool) Option {
	return func(o *clientOptions) {
		o.batchNameEcho = enabled
	}
}
