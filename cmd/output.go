package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/s0up4200/tvdb-fetch/tvdb"
)

// writeShows prints shows in the configured output format
func writeShows(w io.Writer, shows []tvdb.Show, format string, pretty bool, opts tvdb.FormatOptions) error {
	if format == "text" {
		_, err := fmt.Fprintln(w, tvdb.NewConsoleFormatter().FormatShowList(shows, opts))
		return err
	}

	if shows == nil {
		shows = []tvdb.Show{}
	}
	return writeJSON(w, shows, pretty)
}

// writeRecords prints search results in the configured output format
func writeRecords(w io.Writer, records []tvdb.Record, format string, pretty bool) error {
	if format != "text" {
		if records == nil {
			records = []tvdb.Record{}
		}
		return writeJSON(w, records, pretty)
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No shows found")
		return err
	}

	for _, record := range records {
		line := "• " + record.Text("seriesName")
		if id := record.Text("id"); id != "" {
			line += " [" + id + "]"
		}
		if aired := record.Text("firstAired"); aired != "" {
			line += " (" + aired + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
