package tvdb

import (
	"context"
	"fmt"
	"net/url"

	"github.com/samber/lo"
)

// SearchShows returns the raw search results for name in service order
func (c *Client) SearchShows(ctx context.Context, name string) ([]Record, error) {
	params := url.Values{}
	params.Set("name", name)

	data, err := c.Fetch(ctx, "/search/series", params)
	if err != nil {
		return nil, fmt.Errorf("failed to search for %q: %w", name, err)
	}

	raw, ok := data.Get()
	if !ok {
		return nil, fmt.Errorf("search for %q: %w", name, ErrNoData)
	}

	results, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results for %q: %w", name, err)
	}

	c.logger.Debug().
		Str("query", name).
		Int("count", len(results)).
		Msg("Retrieved search results from TVDB")

	return results, nil
}

// GetEpisodePages returns every page of raw episodes for a show, unflattened
func (c *Client) GetEpisodePages(ctx context.Context, showID string) ([][]Record, error) {
	params := url.Values{}
	params.Set("id", showID)

	path := fmt.Sprintf("/series/%s/episodes", url.PathEscape(showID))
	data, err := c.FetchPaged(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get episodes for show %s: %w", showID, err)
	}

	pages, ok := data.Get()
	if !ok {
		return nil, fmt.Errorf("episodes for show %s: %w", showID, ErrNoData)
	}

	return pages, nil
}

// GetShowDetails searches for name, takes the first result and attaches all of its
// episodes. Both the show and its episodes are projected to the configured fields.
func (c *Client) GetShowDetails(ctx context.Context, name string) (*Show, error) {
	results, err := c.SearchShows(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("search for %q: %w", name, ErrNoResultsFound)
	}

	first := results[0]
	showID, ok := recordID(first)
	if !ok {
		return nil, fmt.Errorf("first search result for %q has no id: %w", name, ErrNoData)
	}

	pages, err := c.GetEpisodePages(ctx, showID)
	if err != nil {
		return nil, err
	}

	episodes := lo.Map(lo.Flatten(pages), func(episode Record, _ int) Record {
		return Project(episode, c.episodeFields)
	})

	c.logger.Debug().
		Str("show", name).
		Str("id", showID).
		Int("pages", len(pages)).
		Int("episodes", len(episodes)).
		Msg("Retrieved show details from TVDB")

	return &Show{
		Fields:   Project(first, c.showFields),
		Episodes: episodes,
	}, nil
}
