package tvdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"

	"github.com/samber/mo"
)

// doRequest performs an authenticated GET and decodes the envelope.
// ok is false when the service answered with a non-success status; that case is
// logged here and is not an error.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) (env *envelope, ok bool, err error) {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = c.session.Headers()

	c.logger.Trace().Str("url", requestURL).Msg("Making TVDB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Str("url", requestURL).
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("Error getting data from TVDB")
		return nil, false, nil
	}

	env = &envelope{}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, false, fmt.Errorf("failed to parse response from %s: %w", path, err)
	}

	return env, true, nil
}

// Fetch retrieves a single page and returns the data field of its envelope.
// A non-success status yields an empty Option and a nil error.
func (c *Client) Fetch(ctx context.Context, path string, params url.Values) (mo.Option[json.RawMessage], error) {
	env, ok, err := c.doRequest(ctx, path, params)
	if err != nil {
		return mo.None[json.RawMessage](), err
	}
	if !ok {
		return mo.None[json.RawMessage](), nil
	}

	return mo.Some(env.Data), nil
}

// FetchPaged follows links.next until it is null and returns every page's data in
// request order. A non-success status on any page abandons the walk and yields an
// empty Option; partial results are never returned. params is not modified.
func (c *Client) FetchPaged(ctx context.Context, path string, params url.Values) (mo.Option[[][]Record], error) {
	query := maps.Clone(params)
	if query == nil {
		query = url.Values{}
	}

	var pages [][]Record
	for {
		env, ok, err := c.doRequest(ctx, path, query)
		if err != nil {
			return mo.None[[][]Record](), err
		}
		if !ok {
			return mo.None[[][]Record](), nil
		}

		page, err := decodeRecords(env.Data)
		if err != nil {
			return mo.None[[][]Record](), fmt.Errorf("failed to parse page %d of %s: %w", len(pages)+1, path, err)
		}
		pages = append(pages, page)

		cursor, more := env.nextCursor().Get()
		if !more {
			break
		}

		c.logger.Debug().
			Str("path", path).
			Str("page", cursor).
			Msg("Fetching next page")
		query.Set("page", cursor)
	}

	return mo.Some(pages), nil
}
