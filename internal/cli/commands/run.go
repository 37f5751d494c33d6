package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wct/internal/config"
	"wct/internal/discovery"
	"wct/internal/domain"
	"wct/internal/execution"
	"wct/internal/logging"
	"wct/internal/registry"
	"wct/internal/storage"
	"wct/internal/ui"
)

// ErrRunFailed is returned by the run command when at least one fixture failed
var ErrRunFailed = errors.New("conformance run failed")

// RunCommand handles the run command
type RunCommand struct {
	config  *config.Config
	filter  *discovery.Filter
	storage storage.Storage
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config, filter *discovery.Filter, st storage.Storage) *RunCommand {
	return &RunCommand{
		config:  cfg,
		filter:  filter,
		storage: st,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := loadRegistry(rc.config, rc.filter)
	if err != nil {
		return err
	}
	if rc.config.Flags.OnlyFailed {
		if reg, err = rc.onlyFailed(reg); err != nil {
			return err
		}
	}

	if reg.Size() == 0 {
		color.Yellow("No fixtures to run")
		return nil
	}

	logging.Logger.Debug("starting run",
		"compiler", rc.config.GetCompilerPath(),
		"fixtures", reg.Size(),
		"workers", rc.config.Processors,
		"timeout", rc.config.Timeout,
		"execute", rc.config.Flags.Execute)

	runner := execution.NewRunner(rc.config.ProjectPath, rc.config.Timeout)
	pool := execution.NewWorkerPool(rc.config.Processors, execution.NewPipeline(rc.config, runner), rc.config.Flags.FailFast)

	var progressBar *ui.ProgressBar
	if !rc.config.Flags.JSON && ui.IsTerminal(os.Stderr) {
		progressBar = ui.NewProgressBar(reg.Size(), cmd.ErrOrStderr())
		pool.SetProgress(progressBar)
	}

	report, err := execution.NewOrchestrator(reg, pool, rc.config.GetCompilerPath()).RunAll(ctx)
	if progressBar != nil {
		progressBar.Finish()
	}
	if err != nil {
		return err
	}

	// Results are kept even when the run was interrupted
	persistCtx := context.WithoutCancel(ctx)
	if err := rc.storage.Save(report); err != nil {
		logging.Logger.Error("failed to save test results", "error", err)
	}
	if !rc.config.Flags.NoHistory {
		rc.record(persistCtx, report)
	}

	formatter := ui.NewFormatter(cmd.OutOrStdout(), rc.config.Flags.Verbose)
	if rc.config.Flags.JSON {
		if err := formatter.RenderJSON(report); err != nil {
			return err
		}
	} else {
		formatter.Render(report)
	}

	if report.Success() {
		return nil
	}

	if rc.config.Flags.OpenFails && ctx.Err() == nil && ui.IsTerminal(os.Stdout) {
		output := report.Output()
		viewer := ui.NewFailureViewer(rc.storage, newFixtureRerunner(rc.config, reg))
		if err := viewer.View(persistCtx, &output); err != nil {
			return err
		}
	}
	return ErrRunFailed
}

// onlyFailed narrows reg to the fixtures that failed in the last stored run
func (rc *RunCommand) onlyFailed(reg *registry.Registry) (*registry.Registry, error) {
	last, err := rc.storage.Load()
	if err != nil {
		return nil, fmt.Errorf("no previous results to take failures from: %w", err)
	}
	failed := failedSet(last)
	return reg.Narrow(func(c domain.Category, f domain.Fixture) bool {
		return failed[failureKey{c.Name, f.ID}]
	}), nil
}

func (rc *RunCommand) record(ctx context.Context, report domain.RunReport) {
	history, err := storage.OpenHistory(rc.config.GetHistoryPath())
	if err != nil {
		logging.Logger.Error("failed to open history", "error", err)
		return
	}
	defer history.Close()

	if err := history.Record(ctx, report); err != nil {
		logging.Logger.Error("failed to record run", "run", report.ID, "error", err)
	}
}

type failureKey struct {
	category domain.CategoryName
	fixture  domain.FixtureID
}

func failedSet(output *domain.TestResultsOutput) map[failureKey]bool {
	set := make(map[failureKey]bool, len(output.Details))
	for _, d := range output.Details {
		set[failureKey{d.Category, d.Fixture}] = true
	}
	return set
}
