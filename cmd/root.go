package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdb-fetch/config"
	"github.com/s0up4200/tvdb-fetch/filter"
	"github.com/s0up4200/tvdb-fetch/tvdb"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *tvdb.Client
	filters *filter.Manager

	// Command flags
	filterExpr   string
	preset       string
	concurrency  int
	outputFormat string
	showEpisodes bool
	showOverview bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tvdb-fetch",
	Short: "Fetch show and episode details from TheTVDB",
	Long: `tvdb-fetch logs in to TheTVDB API and collects show details together
with every episode of each show, following the paginated episode listing.
Results can be narrowed with filter expressions and printed as JSON or text.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(testCmd)
}

// initializeApp loads configuration, sets up logging and logs in to TVDB
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Command line overrides
	if cmd.Flags().Changed("concurrency") {
		if concurrency < 1 {
			return fmt.Errorf("--concurrency must be at least 1")
		}
		cfg.Shows.Concurrency = concurrency
	}
	if cmd.Flags().Changed("format") {
		if outputFormat != "json" && outputFormat != "text" {
			return fmt.Errorf("invalid --format: %s (must be 'json' or 'text')", outputFormat)
		}
		cfg.Output.Format = outputFormat
	}

	logger = setupLogger(cfg.Logging, os.Stderr)

	filters = filter.NewManager()
	if err := filters.RegisterFilters(presetExpressions(cfg.Filter)); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	client, err = tvdb.NewClient(cfg.TVDB.APIKey, logger, clientOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("failed to create TVDB client: %w", err)
	}

	return nil
}

// clientOptions maps configuration onto client options
func clientOptions(cfg *config.Config) []tvdb.Option {
	return []tvdb.Option{
		tvdb.WithBaseURL(cfg.TVDB.URL),
		tvdb.WithTimeout(cfg.TVDB.Timeout),
		tvdb.WithShowFields(cfg.Shows.ShowFields...),
		tvdb.WithEpisodeFields(cfg.Shows.EpisodeFields...),
		tvdb.WithShowsToIgnore(cfg.Shows.Ignore...),
		tvdb.WithConcurrency(cfg.Shows.Concurrency),
		tvdb.WithBatchNameEcho(cfg.Shows.BatchNameEcho),
	}
}

func presetExpressions(cfg config.FilterConfig) map[string]string {
	presets := make(map[string]string, len(cfg.Presets))
	for name, p := range cfg.Presets {
		presets[name] = p.Expression
	}
	return presets
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out *os.File) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	// Console format, no colour when output is not a terminal
	color := cfg.Color && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()))
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the TVDB login",
	Long:  `Log in to TheTVDB with the configured API key and display the active settings.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// Login already happened during client creation
	fmt.Fprintf(out, "Testing connection to TVDB at %s...\n", cfg.TVDB.URL)
	fmt.Fprintln(out, "✓ Authentication successful!")

	fmt.Fprintf(out, "\nSettings:\n")
	fmt.Fprintf(out, "- Show fields: %s\n", strings.Join(client.ShowFields(), ", "))
	fmt.Fprintf(out, "- Episode fields: %s\n", strings.Join(client.EpisodeFields(), ", "))
	fmt.Fprintf(out, "- Configured shows: %d\n", len(cfg.Shows.Names))
	fmt.Fprintf(out, "- Ignored shows: %d\n", len(cfg.Shows.Ignore))
	fmt.Fprintf(out, "- Concurrency: %d\n", cfg.Shows.Concurrency)

	if names := filters.ListFilters(); len(names) > 0 {
		fmt.Fprintf(out, "\nFilter presets:\n")
		for _, name := range names {
			fmt.Fprintf(out, "  • %s: %s\n", name, cfg.Filter.Presets[name].Expression)
		}
	}

	return nil
}

// getFilterExpression determines the filter expression to use.
// The boolean is false when no filtering applies.
func getFilterExpression() (expression string, isPreset bool, err error) {
	// Priority: command line filter > preset > default
	if filterExpr != "" {
		return filterExpr, false, nil
	}

	if preset != "" {
		if _, ok := filters.GetFilter(preset); ok {
			return preset, true, nil
		}
		return "", false, fmt.Errorf("preset '%s' not found in config", preset)
	}

	return cfg.Filter.DefaultExpression, false, nil
}

// applyFilter narrows shows with the selected filter, if any
func applyFilter(ctx context.Context, shows []tvdb.Show) ([]tvdb.Show, error) {
	expression, isPreset, err := getFilterExpression()
	if err != nil {
		return nil, err
	}

	switch {
	case isPreset:
		logger.Debug().Str("preset", expression).Msg("Applying filter preset")
		return filters.EvaluateFilter(ctx, expression, shows)
	case expression != "":
		logger.Debug().Str("filter", expression).Msg("Applying filter")
		filtered, err := filters.EvaluateExpression(ctx, expression, shows)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return filtered, nil
	default:
		return shows, nil
	}
}
