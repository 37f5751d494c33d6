package commands

import (
	"github.com/spf13/cobra"

	"wct/internal/config"
	"wct/internal/domain"
	"wct/internal/storage"
	"wct/internal/ui"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	config *config.Config
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(cfg *config.Config) *HistoryCommand {
	return &HistoryCommand{config: cfg}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	history, err := storage.OpenHistory(hc.config.GetHistoryPath())
	if err != nil {
		return err
	}
	defer history.Close()

	ctx := cmd.Context()
	formatter := ui.NewFormatter(cmd.OutOrStdout(), false)

	switch {
	case len(args) == 2:
		recs, err := history.FixtureTrend(ctx, domain.CategoryName(args[0]), domain.FixtureID(args[1]), hc.config.Flags.Limit)
		if err != nil {
			return err
		}
		formatter.PrintTrend(args[0], args[1], recs)
	case hc.config.Flags.RunID != "":
		run, err := history.Run(ctx, hc.config.Flags.RunID)
		if err != nil {
			return err
		}
		formatter.PrintRun(run)
	default:
		runs, err := history.Recent(ctx, hc.config.Flags.Limit)
		if err != nil {
			return err
		}
		formatter.PrintHistory(runs)
	}
	return nil
}
