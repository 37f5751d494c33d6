package execution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wct/internal/domain"
	"wct/internal/logging"
	"wct/internal/registry"
)

// ErrAccounting means a category report does not account for every registered fixture exactly once
var ErrAccounting = errors.New("fixture accounting mismatch")

// Orchestrator runs registry categories through a worker pool and builds reports
type Orchestrator struct {
	registry *registry.Registry
	pool     *WorkerPool
	compiler string
	now      func() time.Time
}

// NewOrchestrator creates an Orchestrator. compiler is only recorded in the run report.
func NewOrchestrator(reg *registry.Registry, pool *WorkerPool, compiler string) *Orchestrator {
	return &Orchestrator{
		registry: reg,
		pool:     pool,
		compiler: compiler,
		now:      time.Now,
	}
}

// RunCategory runs every fixture of a category and returns its report
func (o *Orchestrator) RunCategory(ctx context.Context, name domain.CategoryName) (domain.CategoryReport, error) {
	cat, err := o.registry.Category(name)
	if err != nil {
		return domain.CategoryReport{}, err
	}

	logging.Logger.Debug("running category", "category", cat.Name, "fixtures", len(cat.Fixtures), "workers", o.pool.Workers())

	report := domain.CategoryReport{
		Category:         cat.Name,
		Title:            cat.Title,
		ExpectedExitCode: cat.ExpectedExitCode,
		Outcomes:         o.pool.Execute(ctx, cat),
	}

	if err := checkAccounting(cat, report); err != nil {
		return report, err
	}
	return report, nil
}

// RunAll runs every category in registry order. The report is complete even
// when fixtures fail; an error means the harness itself misbehaved.
func (o *Orchestrator) RunAll(ctx context.Context) (domain.RunReport, error) {
	start := o.now()
	run := domain.RunReport{
		ID:        uuid.NewString(),
		StartedAt: start,
		Compiler:  o.compiler,
		Workers:   o.pool.Workers(),
	}

	for _, cat := range o.registry.Categories() {
		report, err := o.RunCategory(ctx, cat.Name)
		if err != nil {
			return run, fmt.Errorf("category %s: %w", cat.Name, err)
		}
		run.Categories = append(run.Categories, report)
	}

	run.Duration = o.now().Sub(start)
	return run, nil
}

// checkAccounting verifies every registered fixture appears exactly once, in order
func checkAccounting(cat domain.Category, report domain.CategoryReport) error {
	if report.Passed()+report.Failed() != len(cat.Fixtures) || report.Total() != len(cat.Fixtures) {
		return fmt.Errorf("%w: %d outcomes for %d fixtures", ErrAccounting, report.Total(), len(cat.Fixtures))
	}
	for i, f := range cat.Fixtures {
		if report.Outcomes[i].ID != f.ID {
			return fmt.Errorf("%w: outcome %d is %q, want %q", ErrAccounting, i, report.Outcomes[i].ID, f.ID)
		}
	}
	return nil
}
