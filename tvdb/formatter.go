package tvdb

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowEpisodes bool
	ShowOverview bool
}

// ConsoleFormatter provides console output formatting for shows
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatShowList formats a list of shows for console display
func (f *ConsoleFormatter) FormatShowList(shows []Show, options FormatOptions) string {
	if len(shows) == 0 {
		return "No shows found"
	}

	var sb strings.Builder

	sb.WriteString("\nShow")
	if len(shows) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(shows))

	for i, show := range shows {
		isLast := i == len(shows)-1
		f.formatShow(&sb, show, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatShow(sb *strings.Builder, show Show, isLast bool, options FormatOptions) {
	prefix := "├"
	indent := "│   "
	if isLast {
		prefix = "╰"
		indent = "    "
	}

	fmt.Fprintf(sb, "%s── %s", prefix, show.Title())
	if id := show.Fields.Text("id"); id != "" {
		fmt.Fprintf(sb, " [%s]", id)
	}
	sb.WriteString("\n")

	if show.ShowName != "" && show.ShowName != show.Title() {
		fmt.Fprintf(sb, "%sRequested as: %s\n", indent, show.ShowName)
	}

	var infoParts []string
	if status := show.Fields.Text("status"); status != "" {
		infoParts = append(infoParts, fmt.Sprintf("Status: %s", status))
	}
	if aired := show.Fields.Text("firstAired"); aired != "" {
		infoParts = append(infoParts, fmt.Sprintf("First aired: %s", aired))
	}
	if network := show.Fields.Text("network"); network != "" {
		infoParts = append(infoParts, fmt.Sprintf("Network: %s", network))
	}
	if len(infoParts) > 0 {
		fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(infoParts, " | "))
	}

	if options.ShowOverview {
		if overview := show.Fields.Text("overview"); overview != "" {
			fmt.Fprintf(sb, "%sOverview: %s\n", indent, overview)
		}
	}

	fmt.Fprintf(sb, "%sEpisodes: %d\n", indent, len(show.Episodes))

	if options.ShowEpisodes {
		for _, episode := range show.Episodes {
			fmt.Fprintf(sb, "%s  %s\n", indent, episodeLabel(episode))
		}
	}
}

// episodeLabel renders an episode as S01E02 Title when the numbering fields are selected
func episodeLabel(episode Record) string {
	var label string
	season, number := episode.Text("airedSeason"), episode.Text("airedEpisodeNumber")
	if season != "" && number != "" {
		s, errS := strconv.Atoi(season)
		n, errN := strconv.Atoi(number)
		if errS == nil && errN == nil {
			label = fmt.Sprintf("S%02dE%02d", s, n)
		} else {
			label = fmt.Sprintf("S%sE%s", season, number)
		}
	}

	name := episode.Text("episodeName")
	switch {
	case label != "" && name != "":
		return label + " " + name
	case label != "":
		return label
	case name != "":
		return name
	default:
		return "#" + episode.Text("id")
	}
}
