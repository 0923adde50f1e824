package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Client represents a TheTVDB API client
type Client struct {
	baseURL       string
	httpClient    *http.Client
	session       *session
	showFields    []string
	episodeFields []string
	ignore        map[string]struct{}
	concurrency   int
	batchNameEcho bool
	logger        zerolog.Logger
}

// session holds the headers sent with every authenticated request.
// It is built once by authenticate and never modified afterwards.
type session struct {
	headers http.Header
}

func newSession(token string) *session {
	headers := jsonHeaders()
	headers.Set("Authorization", "Bearer "+token)
	return &session{headers: headers}
}

// Headers returns a copy of the session headers
func (s *session) Headers() http.Header {
	return s.headers.Clone()
}

func jsonHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	return headers
}

// NewClient creates a new TVDB client and authenticates it with apiKey.
// No client is returned when the login exchange fails.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	baseURL := strings.TrimRight(options.baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	client := &Client{
		baseURL:       baseURL,
		httpClient:    httpClient,
		showFields:    options.showFields,
		episodeFields: options.episodeFields,
		ignore:        lo.Keyify(options.showsToIgnore),
		concurrency:   options.concurrency,
		batchNameEcho: options.batchNameEcho,
		logger:        logger,
	}

	logger.Info().
		Str("base_url", baseURL).
		Strs("show_fields", client.showFields).
		Strs("episode_fields", client.episodeFields).
		Int("ignored", len(client.ignore)).
		Msg("TVDB client initialised")

	sess, err := client.authenticate(context.Background(), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with TVDB: %w", err)
	}
	client.session = sess

	return client, nil
}

// authenticate exchanges the API key for a token at the login endpoint
func (c *Client) authenticate(ctx context.Context, apiKey string) (*session, error) {
	payload, err := json.Marshal(loginRequest{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = jsonHeaders()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("TVDB authentication unsuccessful")
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var login loginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	if login.Token == "" {
		c.logger.Error().Str("body", string(body)).Msg("TVDB login response carried no token")
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: "missing token"}
	}

	c.logger.Debug().Msg("Authenticated with TVDB")
	return newSession(login.Token), nil
}

// Headers returns a copy of the headers sent with every authenticated request
func (c *Client) Headers() http.Header {
	return c.session.Headers()
}

// ShowFields returns the show field selection
func (c *Client) ShowFields() []string {
	return slices.Clone(c.showFields)
}

// EpisodeFields returns the episode field selection
func (c *Client) EpisodeFields() []string {
	return slices.Clone(c.episodeFields)
}

// IsIgnored reports whether batch aggregation skips name
func (c *Client) IsIgnored(name string) bool {
	_, ok := c.ignore[name]
	return ok
}
