package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wct/internal/config"
	"wct/internal/domain"
	"wct/internal/execution"
	"wct/internal/logging"
	"wct/internal/registry"
	"wct/internal/storage"
	"wct/internal/ui"
)

// FailsCommand handles the fails command
type FailsCommand struct {
	config  *config.Config
	storage storage.Storage
}

// NewFailsCommand creates a new FailsCommand
func NewFailsCommand(cfg *config.Config, st storage.Storage) *FailsCommand {
	return &FailsCommand{
		config:  cfg,
		storage: st,
	}
}

// Execute runs the command
func (fc *FailsCommand) Execute(cmd *cobra.Command, args []string) error {
	results, err := fc.storage.Load()
	if err != nil {
		return err
	}

	if fc.config.Flags.Summary || !ui.IsTerminal(os.Stdout) {
		ui.NewFormatter(cmd.OutOrStdout(), false).PrintMetaStats(results)
		return nil
	}

	var rerunner ui.Rerunner
	if reg, err := openRegistry(fc.config); err != nil {
		logging.Logger.Warn("re-runs disabled", "error", err)
	} else {
		rerunner = newFixtureRerunner(fc.config, reg)
	}

	return ui.NewFailureViewer(fc.storage, rerunner).View(cmd.Context(), results)
}

// fixtureRerunner runs one registered fixture through the same pipeline as a full run
type fixtureRerunner struct {
	registry *registry.Registry
	pipeline *execution.Pipeline
}

func newFixtureRerunner(cfg *config.Config, reg *registry.Registry) *fixtureRerunner {
	return &fixtureRerunner{
		registry: reg,
		pipeline: execution.NewPipeline(cfg, execution.NewRunner(cfg.ProjectPath, cfg.Timeout)),
	}
}

// Rerun implements ui.Rerunner
func (r *fixtureRerunner) Rerun(ctx context.Context, failure domain.FixtureFailure) (domain.FixtureOutcome, error) {
	cat, err := r.registry.Category(failure.Category)
	if err != nil {
		return domain.FixtureOutcome{}, err
	}
	// A failure past the compile stage can only be reproduced with the backend
	pipeline := r.pipeline
	if failure.Stage != "" && failure.Stage != domain.StageCompile {
		pipeline = pipeline.WithBackend(true)
	}
	for _, f := range cat.Fixtures {
		if f.ID == failure.Fixture {
			return pipeline.RunFixture(ctx, 1, cat, f), nil
		}
	}
	return domain.FixtureOutcome{}, fmt.Errorf("fixture %s is not registered in %s", failure.Fixture, failure.Category)
}
