package storage

import (
	"time"

	"wct/internal/domain"
)

func sampleReport(id string, started time.Time) domain.RunReport {
	return domain.RunReport{
		ID:        id,
		StartedAt: started,
		Duration:  1500 * time.Millisecond,
		Compiler:  "/opt/wacc/compile",
		Workers:   2,
		Categories: []domain.CategoryReport{
			{
				Category:         domain.CategoryValid,
				Title:            "Valid Tests",
				ExpectedExitCode: 0,
				Outcomes: []domain.FixtureOutcome{
					{ID: "basic/exit/exitBasic.wacc", Path: "test/valid/basic/exit/exitBasic.wacc", Verdict: domain.Pass, Result: domain.ExitedWith(0)},
					{ID: "while/loop.wacc", Path: "test/valid/while/loop.wacc", Verdict: domain.Fail, Result: domain.ExecutionFailure("timeout after 1s"), Duration: time.Second},
				},
			},
			{
				Category:         domain.CategoryInvalidSyntax,
				Title:            "Invalid Syntax Tests",
				ExpectedExitCode: 100,
				Outcomes: []domain.FixtureOutcome{
					{ID: "while/whileNodo.wacc", Path: "test/invalid/syntaxErr/while/whileNodo.wacc", Verdict: domain.Fail, Result: domain.ExitedWith(0), Expected: 100},
				},
			},
		},
	}
}
