package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wct/internal/domain"
)

func TestFormatFailureDetails(t *testing.T) {
	code := 0
	failure := domain.FixtureFailure{
		Category: domain.CategoryInvalidSyntax,
		Fixture:  "while/whileNodo.wacc",
		Path:     "test/invalid/syntaxErr/while/whileNodo.wacc",
		Stage:    domain.StageCompile,
		Expected: 100,
		ExitCode: &code,
		Message:  "compile exited 0, want 100",
	}

	text := formatFailureDetails(failure, domain.FixtureOutcome{}, false)
	assert.Contains(t, text, "[cyan]Actual exit:[white] 0")
	assert.NotContains(t, text, "Execution failure")
	assert.NotContains(t, text, "Re-run")

	passed := domain.FixtureOutcome{Verdict: domain.Pass, Result: domain.ExitedWith(100), Expected: 100}
	assert.Contains(t, formatFailureDetails(failure, passed, true), "[green]PASS[white]")

	failed := domain.FixtureOutcome{Verdict: domain.Fail, Result: domain.ExecutionFailure("timeout after 1s")}
	assert.Contains(t, formatFailureDetails(failure, failed, true), "[red]FAIL[white] execution failure at compile: timeout after 1s")
}

func TestFormatFailureDetails_ExecutionFailure(t *testing.T) {
	failure := domain.FixtureFailure{
		Fixture: "hang.wacc",
		Stage:   domain.StageEmulate,
		Reason:  "signal: killed",
	}
	text := formatFailureDetails(failure, domain.FixtureOutcome{}, false)
	assert.Contains(t, text, "[cyan]Execution failure:[white] signal: killed")
	assert.NotContains(t, text, "Actual exit")
}
