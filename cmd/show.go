package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdb-fetch/tvdb"
)

// showCmd represents the single show command
var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Fetch details and episodes for one show",
	Long: `Search TheTVDB for the name, take the first result and print its
selected fields together with every episode.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search TheTVDB for shows by name",
	Long:  `Print every search result for the name, reduced to the configured show fields.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(searchCmd)

	showCmd.Flags().StringVar(&outputFormat, "format", "json", "output format (json or text)")
	showCmd.Flags().BoolVar(&showEpisodes, "episodes", false, "list episodes in text output")
	showCmd.Flags().BoolVar(&showOverview, "overview", false, "include the overview in text output")

	searchCmd.Flags().StringVar(&outputFormat, "format", "json", "output format (json or text)")
}

func runShow(cmd *cobra.Command, args []string) error {
	name := args[0]

	show, err := client.GetShowDetails(cmd.Context(), name)
	if err != nil {
		if errors.Is(err, tvdb.ErrNoResultsFound) {
			return fmt.Errorf("no show found for %q", name)
		}
		return fmt.Errorf("failed to get details for %q: %w", name, err)
	}

	logger.Debug().Str("show", name).Int("episodes", len(show.Episodes)).Msg("Show details fetched")

	return writeShows(cmd.OutOrStdout(), []tvdb.Show{*show}, cfg.Output.Format, cfg.Output.Pretty, formatOptions())
}

func runSearch(cmd *cobra.Command, args []string) error {
	results, err := client.SearchShows(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fields := client.ShowFields()
	projected := make([]tvdb.Record, 0, len(results))
	for _, raw := range results {
		projected = append(projected, tvdb.Project(raw, fields))
	}

	return writeRecords(cmd.OutOrStdout(), projected, cfg.Output.Format, cfg.Output.Pretty)
}
