package tvdb

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	// EpisodesKey is the key holding the flattened episode list in a serialized Show
	EpisodesKey = "all_episodes"
	// ShowNameKey is the key holding the batch input echo in a serialized Show
	ShowNameKey = "show_name_obj"
)

// Record is a JSON object reduced to a selection of fields.
// A nil value marks a requested field the service did not return.
type Record map[string]any

// Has reports whether field holds a value
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// Text returns the field formatted for display, or "" when it is absent
func (r Record) Text(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Project returns a Record holding exactly the given fields of raw.
// Fields missing from raw are present with a nil value.
func Project(raw Record, fields []string) Record {
	return lo.SliceToMap(fields, func(field string) (string, any) {
		return field, raw[field]
	})
}

// Show is a projected show with its flattened episode list
type Show struct {
	Fields   Record
	Episodes []Record

	// ShowName is the name the show was requested under in a batch
	ShowName string
	// BatchNames is the whole batch input, set only when WithBatchNameEcho is enabled
	BatchNames []string
}

// Title returns the series name, falling back to the requested name
func (s Show) Title() string {
	if name := s.Fields.Text("seriesName"); name != "" {
		return name
	}
	return s.ShowName
}

// Map returns the show as a single flat mapping: the projected fields plus
// all_episodes and, for batch records, show_name_obj.
func (s Show) Map() map[string]any {
	out := make(map[string]any, len(s.Fields)+2)
	for k, v := range s.Fields {
		out[k] = v
	}

	episodes := s.Episodes
	if episodes == nil {
		episodes = []Record{}
	}
	out[EpisodesKey] = episodes

	switch {
	case s.BatchNames != nil:
		out[ShowNameKey] = s.BatchNames
	case s.ShowName != "":
		out[ShowNameKey] = s.ShowName
	}

	return out
}

// MarshalJSON encodes the flat mapping returned by Map
func (s Show) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// BatchResult contains the outcome of a batch aggregation
type BatchResult struct {
	Requested int
	Shows     []Show
	Skipped   []string
	Failed    []*ShowError
}

type loginRequest struct {
	APIKey string `json:"apikey"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// envelope is the wrapper every data endpoint answers with
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Links *links          `json:"links,omitempty"`
}

type links struct {
	Next json.RawMessage `json:"next"`
}

// nextCursor returns the page cursor to request next. Strings are used verbatim,
// numbers keep their JSON text, and null or a missing link ends the walk.
func (e *envelope) nextCursor() mo.Option[string] {
	if e.Links == nil {
		return mo.None[string]()
	}

	raw := bytes.TrimSpace(e.Links.Next)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return mo.None[string]()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return mo.None[string]()
		}
		return mo.Some(s)
	}

	return mo.Some(string(raw))
}

// decodeRecords decodes a JSON array of objects, keeping numbers as json.Number
func decodeRecords(raw json.RawMessage) ([]Record, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []Record{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// recordID returns the id field of a raw record as a path segment
func recordID(r Record) (string, bool) {
	switch id := r["id"].(type) {
	case json.Number:
		return id.String(), true
	case string:
		return id, id != ""
	case float64:
		return fmt.Sprintf("%.0f", id), true
	default:
		return "", false
	}
}
