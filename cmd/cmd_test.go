package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/tvdb-fetch/config"
	"github.com/s0up4200/tvdb-fetch/tvdb"
)

// newTVDBServer serves a login, a search per known show and one page of episodes
func newTVDBServer(t *testing.T) *httptest.Server {
	t.Helper()

	shows := map[string][]map[string]any{
		"Lost":      {{"id": 73739, "seriesName": "Lost", "status": "Ended"}},
		"Severance": {{"id": 371980, "seriesName": "Severance", "status": "Continuing"}},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "cli-token"})
	})
	mux.HandleFunc("GET /search/series", func(w http.ResponseWriter, r *http.Request) {
		results, ok := shows[r.URL.Query().Get("name")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": results})
	})
	mux.HandleFunc("GET /series/{id}/episodes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  []map[string]any{{"id": 1, "airedSeason": 1, "airedEpisodeNumber": 1, "episodeName": "Pilot"}},
			"links": map[string]any{"next": nil},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// runCLI executes the root command against a config pointing at server
func runCLI(t *testing.T, serverURL, extraConfig string, args ...string) (string, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "tvdb:\n  url: " + serverURL + "\n  api_key: cli-key\nlogging:\n  level: error\n" + extraConfig
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	filterExpr, preset, outputFormat = "", "", "json"
	showEpisodes, showOverview, showSummary = false, false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", path}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	// Subcommands keep the context of their first run unless reset
	for _, c := range rootCmd.Commands() {
		c.SetContext(t.Context())
	}

	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestShowsCommand(t *testing.T) {
	server := newTVDBServer(t)

	t.Run("json output skips failures", func(t *testing.T) {
		out, err := runCLI(t, server.URL, "", "shows", "Lost", "Unknown", "Severance")
		require.NoError(t, err)

		var records []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		require.Len(t, records, 2)
		assert.Equal(t, "Lost", records[0]["seriesName"])
		assert.Equal(t, "Lost", records[0]["show_name_obj"])
		assert.Equal(t, "Severance", records[1]["seriesName"])

		episodes, ok := records[0]["all_episodes"].([]any)
		require.True(t, ok)
		assert.Len(t, episodes, 1)
	})

	t.Run("names from config with ignore list", func(t *testing.T) {
		extra := "shows:\n  names: [Lost, Severance]\n  ignore: [Lost]\n"
		out, err := runCLI(t, server.URL, extra, "shows")
		require.NoError(t, err)

		var records []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "Severance", records[0]["seriesName"])
	})

	t.Run("filter expression", func(t *testing.T) {
		out, err := runCLI(t, server.URL, "", "shows", "Lost", "Severance", "--filter", `status == "Ended"`)
		require.NoError(t, err)

		var records []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "Lost", records[0]["seriesName"])
	})

	t.Run("preset", func(t *testing.T) {
		extra := "filter:\n  presets:\n    running:\n      expression: status == \"Continuing\"\n"
		out, err := runCLI(t, server.URL, extra, "shows", "Lost", "Severance", "--preset", "running")
		require.NoError(t, err)
		assert.Contains(t, out, "Severance")
		assert.NotContains(t, out, `"Lost"`)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := runCLI(t, server.URL, "", "shows", "Lost", "--preset", "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "preset 'nope' not found")
	})

	t.Run("no names", func(t *testing.T) {
		_, err := runCLI(t, server.URL, "", "shows")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no show names given")
	})

	t.Run("text output", func(t *testing.T) {
		out, err := runCLI(t, server.URL, "", "shows", "Lost", "--format", "text", "--episodes")
		require.NoError(t, err)
		assert.Contains(t, out, "╰── Lost [73739]")
		assert.Contains(t, out, "S01E01 Pilot")
	})
}

func TestRepeatedRuns(t *testing.T) {
	server := newTVDBServer(t)

	for _, name := range []string{"Lost", "Severance"} {
		t.Run(name, func(t *testing.T) {
			out, err := runCLI(t, server.URL, "", "shows", name)
			require.NoError(t, err)

			var records []map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &records))
			require.Len(t, records, 1)
			assert.Equal(t, name, records[0]["seriesName"])
		})
	}
}

func TestShowAndSearchCommands(t *testing.T) {
	server := newTVDBServer(t)

	out, err := runCLI(t, server.URL, "", "show", "Lost")
	require.NoError(t, err)
	assert.Contains(t, out, `"all_episodes"`)
	assert.NotContains(t, out, "show_name_obj")

	_, err = runCLI(t, server.URL, "", "show", "Unknown")
	require.Error(t, err)

	out, err = runCLI(t, server.URL, "shows:\n  show_fields: [id, seriesName]\n", "search", "Severance")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": 371980, "seriesName": "Severance"}]`, out)
}

func TestTestCommand(t *testing.T) {
	server := newTVDBServer(t)

	out, err := runCLI(t, server.URL, "", "test")
	require.NoError(t, err)
	assert.Contains(t, out, "Authentication successful")
	assert.Contains(t, out, "Show fields: "+strings.Join(tvdb.DefaultShowFields, ", "))
}

func TestClientOptions(t *testing.T) {
	cfg := &config.Config{
		TVDB: config.TVDBConfig{Timeout: 5 * time.Second},
		Shows: config.ShowsConfig{
			Ignore:      []string{"Skip"},
			ShowFields:  []string{"id"},
			Concurrency: 3,
		},
	}

	server := newTVDBServer(t)
	cfg.TVDB.URL = server.URL

	c, err := tvdb.NewClient("key", zerolog.Nop(), clientOptions(cfg)...)
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, c.ShowFields())
	assert.Equal(t, tvdb.DefaultEpisodeFields, c.EpisodeFields())
	assert.True(t, c.IsIgnored("Skip"))
}

func TestResolveShowNames(t *testing.T) {
	assert.Equal(t, []string{"A"}, resolveShowNames([]string{"A"}, []string{"B", "C"}))
	assert.Equal(t, []string{"B", "C"}, resolveShowNames(nil, []string{"B", "C"}))
	assert.Empty(t, resolveShowNames(nil, nil))
}

func TestWriteRecords(t *testing.T) {
	var buf bytes.Buffer
	records := []tvdb.Record{
		{"id": json.Number("73739"), "seriesName": "Lost", "firstAired": "2004-09-22"},
		{"seriesName": "Untitled", "id": nil},
	}
	require.NoError(t, writeRecords(&buf, records, "text", false))
	assert.Equal(t, "• Lost [73739] (2004-09-22)\n• Untitled\n", buf.String())

	buf.Reset()
	require.NoError(t, writeRecords(&buf, nil, "json", false))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, writeShows(&buf, nil, "json", true, tvdb.FormatOptions{}))
	assert.Equal(t, "[]\n", buf.String())
}
