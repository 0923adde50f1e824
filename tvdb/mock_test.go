package tvdb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey = "test-key"
	testToken  = "test-token"
)

// recordedRequest is a request the mock service received
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
}

// mockService imitates the login, search and episode endpoints
type mockService struct {
	loginStatus int

	// search name -> results
	shows map[string][]map[string]any
	// show id -> pages of episodes
	episodes map[string][][]map[string]any
	// search name -> forced status
	failSearch map[string]int
	// show id -> page number (1-based) -> forced status
	failEpisodes map[string]map[int]int
	// numericCursor sends links.next as a JSON number
	numericCursor bool

	mu       sync.Mutex
	requests []recordedRequest
}

func newMockService() *mockService {
	return &mockService{
		shows:        make(map[string][]map[string]any),
		episodes:     make(map[string][][]map[string]any),
		failSearch:   make(map[string]int),
		failEpisodes: make(map[string]map[int]int),
	}
}

// start serves the mock on an httptest server that is closed with the test
func (m *mockService) start(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(m)
	t.Cleanup(server.Close)
	return server
}

// newTestClient starts the mock and returns an authenticated client pointed at it
func (m *mockService) newTestClient(t *testing.T, logger zerolog.Logger, opts ...Option) *Client {
	t.Helper()
	server := m.start(t)
	client, err := NewClient(testAPIKey, logger, append([]Option{WithBaseURL(server.URL)}, opts...)...)
	require.NoError(t, err)
	return client
}

func (m *mockService) recorded() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.requests...)
}

// dataRequests returns recorded requests other than the login
func (m *mockService) dataRequests() []recordedRequest {
	var out []recordedRequest
	for _, r := range m.recorded() {
		if r.Path != "/login" {
			out = append(out, r)
		}
	}
	return out
}

func (m *mockService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	})
	m.mu.Unlock()

	if r.Method == http.MethodPost && r.URL.Path == "/login" {
		m.serveLogin(w, r)
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+testToken {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"Error": "Not authorized"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/search/series":
		m.serveSearch(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/series/") && strings.HasSuffix(r.URL.Path, "/episodes"):
		m.serveEpisodes(w, r)
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"Error": "Resource not found"})
	}
}

func (m *mockService) serveLogin(w http.ResponseWriter, r *http.Request) {
	if m.loginStatus != 0 && m.loginStatus != http.StatusOK {
		writeJSON(w, m.loginStatus, map[string]any{"Error": "API Key Required"})
		return
	}

	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.APIKey != testAPIKey {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"Error": "Not Authorized"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"token": testToken})
}

func (m *mockService) serveSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if status, ok := m.failSearch[name]; ok {
		writeJSON(w, status, map[string]any{"Error": "search failed"})
		return
	}

	results, ok := m.shows[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"Error": "Resource not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": results})
}

func (m *mockService) serveEpisodes(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/series/"), "/episodes")

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"Error": "invalid page"})
			return
		}
		page = n
	}

	if status, ok := m.failEpisodes[id][page]; ok {
		writeJSON(w, status, map[string]any{"Error": "episodes failed"})
		return
	}

	pages, ok := m.episodes[id]
	if !ok || page < 1 || page > len(pages) {
		writeJSON(w, http.StatusNotFound, map[string]any{"Error": "Resource not found"})
		return
	}

	var next any
	if page < len(pages) {
		if m.numericCursor {
			next = page + 1
		} else {
			next = strconv.Itoa(page + 1)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": pages[page-1],
		"links": map[string]any{
			"first": 1,
			"last":  len(pages),
			"next":  next,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logLine is one decoded zerolog JSON line
type logLine struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Show    string `json:"show"`
}

// syncBuffer is a goroutine safe log sink
type syncBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, string(p))
	return len(p), nil
}

func (b *syncBuffer) entries(t *testing.T) []logLine {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]logLine, 0, len(b.lines))
	for _, line := range b.lines {
		var entry logLine
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

// count returns how many entries match level and message
func (b *syncBuffer) count(t *testing.T, level, message string) int {
	t.Helper()
	var n int
	for _, entry := range b.entries(t) {
		if entry.Level == level && entry.Message == message {
			n++
		}
	}
	return n
}
