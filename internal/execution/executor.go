package execution

import (
	"context"

	"wct/internal/domain"
)

// FixtureRunner drives one fixture through every stage and classifies it
type FixtureRunner interface {
	RunFixture(ctx context.Context, workerID int, cat domain.Category, f domain.Fixture) domain.FixtureOutcome
}

// Progress receives running totals while fixtures complete
type Progress interface {
	Update(successCount, failCount int)
	Finish()
}
