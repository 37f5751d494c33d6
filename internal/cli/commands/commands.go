package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"wct/internal/cli"
	"wct/internal/config"
	"wct/internal/discovery"
	"wct/internal/domain"
	"wct/internal/logging"
	"wct/internal/registry"
	"wct/internal/storage"
	"wct/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	List    *ListCommand
	Fails   *FailsCommand
	History *HistoryCommand
}

// NewCommands creates all commands with dependencies. Anything that depends on
// flag values is built when a command executes.
func NewCommands(cfg *config.Config) *Commands {
	scanner := discovery.NewScanner(cfg.PathsToIgnore)
	filter := discovery.NewFilter()
	jsonStorage := storage.NewJSONStorage(cfg)

	return &Commands{
		Run:     NewRunCommand(cfg, filter, jsonStorage),
		List:    NewListCommand(cfg, scanner, filter, jsonStorage),
		Fails:   NewFailsCommand(cfg, jsonStorage),
		History: NewHistoryCommand(cfg),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	applyFlags := func(cmd *cobra.Command, args []string) error {
		flags.TimeoutSet = cmd.Flags().Changed("timeout")
		cfg.ApplyFlags(flags.ToConfigFlags())
		logging.Initialize(cmd.ErrOrStderr(), cfg.Debug())
		ui.SetupColor(cfg.Flags.NoColor)
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the conformance fixtures against a WACC compiler",
		Long:    "Invoke the compiler on every registered fixture in parallel and check its exit code against the fixture's category",
		RunE:    c.Run.Execute,
		PreRunE: applyFlags,
	}
	runCmd.Flags().StringVar(&flags.Compiler, "compiler", "", "Path to the compiler executable (default ./compile, or $WACC_COMPILER)")
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of fixtures compiled concurrently (default 4, or $WACC_PROCESSORS)")
	runCmd.Flags().DurationVar(&flags.Timeout, "timeout", config.DefaultTimeout, "Per-invocation timeout, 0 disables")
	runCmd.Flags().StringSliceVarP(&flags.Categories, "category", "c", nil, "Only run these categories (valid, invalid-syntax, invalid-semantic)")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter fixtures by name pattern (supports wildcards, e.g. 'while/*' or '*Overflow*')")
	runCmd.Flags().BoolVar(&flags.Execute, "execute", false, "Also assemble and emulate valid programs and check their exit codes")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop scheduling fixtures after the first failure")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only fixtures that failed in the last run (from storage/test-results.json)")
	runCmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the results document as JSON instead of the text report")
	runCmd.Flags().BoolVar(&flags.NoColor, "no-color", false, "Disable coloured output")
	runCmd.Flags().BoolVar(&flags.NoHistory, "no-history", false, "Do not record this run in the history database")
	runCmd.Flags().StringVar(&flags.Registry, "registry", "", "Load the fixture registry from this YAML file instead of the built-in one")
	runCmd.Flags().BoolVar(&flags.OpenFails, "open-fails", false, "Open the fails viewer when the run finishes with failures")
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Explain each failure and enable debug logging")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List registered fixtures",
		Long:    "Print the fixture registry without invoking the compiler, marking fixtures that failed in the last run",
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringSliceVarP(&flags.Categories, "category", "c", nil, "Only list these categories")
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter fixtures by name pattern")
	listCmd.Flags().StringVar(&flags.Registry, "registry", "", "Load the fixture registry from this YAML file instead of the built-in one")
	listCmd.Flags().BoolVar(&flags.Unregistered, "unregistered", false, "Compare the registry with the fixture tree on disk")
	listCmd.Flags().BoolVar(&flags.NoColor, "no-color", false, "Disable coloured output")
	rootCmd.AddCommand(listCmd)

	// Fails command
	failsCmd := &cobra.Command{
		Use:     "fails",
		Short:   "View fixture failures interactively",
		Long:    "Display the failures of the last run in an interactive viewer, where single fixtures can be marked resolved or re-run",
		RunE:    c.Fails.Execute,
		PreRunE: applyFlags,
	}
	failsCmd.Flags().BoolVar(&flags.Summary, "summary", false, "Print run statistics and a failure tree instead of opening the viewer")
	failsCmd.Flags().StringVar(&flags.Compiler, "compiler", "", "Compiler used for re-runs")
	failsCmd.Flags().DurationVar(&flags.Timeout, "timeout", config.DefaultTimeout, "Per-invocation timeout for re-runs, 0 disables")
	failsCmd.Flags().StringVar(&flags.Registry, "registry", "", "Fixture registry YAML used for re-runs")
	failsCmd.Flags().BoolVar(&flags.NoColor, "no-color", false, "Disable coloured output")
	rootCmd.AddCommand(failsCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:     "history [CATEGORY FIXTURE]",
		Short:   "Show previous runs",
		Long:    "List recent runs from the history database, show one run, or show how a single fixture fared over time",
		Args:    cobra.MatchAll(cobra.MaximumNArgs(2), rejectSingleArg),
		RunE:    c.History.Execute,
		PreRunE: applyFlags,
	}
	historyCmd.Flags().IntVarP(&flags.Limit, "limit", "n", config.DefaultHistoryLimit, "Number of runs to show")
	historyCmd.Flags().StringVar(&flags.RunID, "run", "", "Show the failing fixtures of one run, by id or unique id prefix")
	historyCmd.Flags().BoolVar(&flags.NoColor, "no-color", false, "Disable coloured output")
	rootCmd.AddCommand(historyCmd)
}

func rejectSingleArg(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return fmt.Errorf("expected both a category and a fixture, got %q", args[0])
	}
	return nil
}

// loadRegistry loads the configured registry and narrows it to the selected categories and name filter
func loadRegistry(cfg *config.Config, filter *discovery.Filter) (*registry.Registry, error) {
	reg, err := openRegistry(cfg)
	if err != nil {
		return nil, err
	}

	names := make([]domain.CategoryName, 0, len(cfg.Flags.Categories))
	for _, c := range cfg.Flags.Categories {
		names = append(names, domain.CategoryName(c))
	}
	reg, err = reg.Select(names)
	if err != nil {
		return nil, err
	}

	if pattern := cfg.Flags.NameFilter; pattern != "" {
		reg = reg.Narrow(func(_ domain.Category, f domain.Fixture) bool {
			return filter.Match(f.ID, pattern)
		})
	}
	return reg, nil
}

// openRegistry returns the embedded registry, or the one at cfg.RegistryFile when set
func openRegistry(cfg *config.Config) (*registry.Registry, error) {
	if cfg.RegistryFile != "" {
		return registry.LoadFile(cfg.RegistryFile)
	}
	return registry.Default()
}
