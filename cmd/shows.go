package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdb-fetch/tvdb"
)

var showSummary bool

// showsCmd represents the batch command
var showsCmd = &cobra.Command{
	Use:   "shows [names...]",
	Short: "Fetch details and episodes for a batch of shows",
	Long: `Fetch show details and all episodes for every named show.

Names come from the arguments, or from shows.names in the config when none
are given. Shows listed in shows.ignore are skipped and shows that fail are
logged and left out, so one bad name never stops the batch.`,
	RunE: runShows,
}

func init() {
	rootCmd.AddCommand(showsCmd)

	showsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	showsCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	showsCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 1, "number of shows fetched in parallel")
	showsCmd.Flags().StringVar(&outputFormat, "format", "json", "output format (json or text)")
	showsCmd.Flags().BoolVar(&showEpisodes, "episodes", false, "list episodes in text output")
	showsCmd.Flags().BoolVar(&showOverview, "overview", false, "include overviews in text output")
	showsCmd.Flags().BoolVar(&showSummary, "summary", false, "print skipped and failed shows to stderr")
}

func runShows(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	names := resolveShowNames(args, cfg.Shows.Names)
	if len(names) == 0 {
		return errors.New("no show names given: pass names as arguments or set shows.names in config")
	}

	logger.Info().Int("shows", len(names)).Msg("Fetching show details")

	result := client.CollectShowDetails(ctx, names)

	shows, err := applyFilter(ctx, result.Shows)
	if err != nil {
		return err
	}

	logger.Info().
		Int("found", len(result.Shows)).
		Int("matched", len(shows)).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failed)).
		Msg("Show details collected")

	if showSummary {
		writeSummary(cmd, result)
	}

	return writeShows(cmd.OutOrStdout(), shows, cfg.Output.Format, cfg.Output.Pretty, formatOptions())
}

// resolveShowNames prefers names given on the command line over configured ones
func resolveShowNames(args, configured []string) []string {
	if len(args) > 0 {
		return args
	}
	return configured
}

func formatOptions() tvdb.FormatOptions {
	return tvdb.FormatOptions{
		ShowEpisodes: showEpisodes,
		ShowOverview: showOverview,
	}
}

func writeSummary(cmd *cobra.Command, result *tvdb.BatchResult) {
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "Requested: %d, found: %d\n", result.Requested, len(result.Shows))
	for _, name := range result.Skipped {
		fmt.Fprintf(out, "  - skipped %s\n", name)
	}
	for _, failure := range result.Failed {
		fmt.Fprintf(out, "  ✗ %s\n", failure.Error())
	}
}
