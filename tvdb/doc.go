// Package tvdb provides a client for retrieving show and episode metadata from TheTVDB API.
//
// The client exchanges an API key for a bearer token when it is constructed, then issues
// authenticated GET requests against the search and episode endpoints. Raw JSON objects are
// projected down to a configured selection of fields before they are handed back.
//
// # Architecture
//
// The package is organized into three layers:
//
//   - Session: the login exchange and the immutable set of outbound headers
//   - Transport: single-page (Fetch) and cursor-driven multi-page (FetchPaged) retrieval
//   - Aggregation: GetShowDetails and the batch walk in GetDetailsForAllShows
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tvdb.NewClient(
//		"your-api-key",
//		logger,
//		tvdb.WithShowsToIgnore("Some Show"),
//		tvdb.WithEpisodeFields("id", "airedSeason", "airedEpisodeNumber", "episodeName"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	shows := client.GetDetailsForAllShows(ctx, []string{"Breaking Bad", "The Wire"})
//
// # Error Handling
//
// Authentication failures are fatal: NewClient returns an *AuthError and no client.
// Fetch and FetchPaged log non-success responses and return an empty mo.Option instead of an
// error. The aggregation methods turn that absence into ErrNoData, and an empty search result
// into ErrNoResultsFound. Only the batch methods swallow per-show errors; they are logged and
// reported through BatchResult.Failed.
package tvdb
