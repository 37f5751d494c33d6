package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wct/internal/storage"
)

func intPtr(n int) *int { return &n }

func TestPrintHistory(t *testing.T) {
	runs := []storage.RunRecord{
		{
			ID:         "7d2e4c10-9d8a-4a53-8f0e-2f1d6c3b5a71",
			StartedAt:  time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
			Workers:    4,
			DurationMs: 1500,
			Passed:     3,
			Total:      3,
			Success:    true,
		},
		{
			ID:         "0b6c1f7e-9d8a-4a53-8f0e-2f1d6c3b5a71",
			StartedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Workers:    2,
			DurationMs: 61000,
			Passed:     1,
			Failed:     2,
			Total:      3,
		},
	}

	var buf bytes.Buffer
	NewFormatter(&buf, false).PrintHistory(runs)
	newGoldie(t).Assert(t, "history_list", buf.Bytes())
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewFormatter(&buf, false).PrintHistory(nil)
	assert.Equal(t, "No runs recorded yet\n", buf.String())
}

func TestPrintRun(t *testing.T) {
	run := &storage.RunRecord{
		ID:        "0b6c1f7e-9d8a-4a53-8f0e-2f1d6c3b5a71",
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Compiler:  "./compile",
		Passed:    1,
		Failed:    2,
		Total:     3,
		Fixtures: []storage.FixtureRecord{
			{Category: "valid", Fixture: "basic/exit/exitBasic.wacc", Verdict: "PASS", Stage: "compile", ExitCode: intPtr(0)},
			{Category: "valid", Fixture: "while/loop.wacc", Verdict: "FAIL", Stage: "compile", Reason: "timeout after 1s"},
			{Category: "valid", Fixture: "runtimeErr/divideByZero/divZero.wacc", Verdict: "FAIL", Stage: "emulate", ExitCode: intPtr(0), Expected: 255},
		},
	}

	var buf bytes.Buffer
	NewFormatter(&buf, false).PrintRun(run)
	newGoldie(t).Assert(t, "history_run", buf.Bytes())
}

func TestPrintRun_NoFailures(t *testing.T) {
	run := &storage.RunRecord{
		ID:       "run",
		Passed:   1,
		Total:    1,
		Fixtures: []storage.FixtureRecord{{Verdict: "PASS", ExitCode: intPtr(0)}},
	}

	var buf bytes.Buffer
	NewFormatter(&buf, false).PrintRun(run)
	assert.Contains(t, buf.String(), "Result:   1/1 fixtures passed\n\n✓ No failing fixtures\n")
	assert.NotContains(t, buf.String(), "CATEGORY")
}

func TestPrintTrend(t *testing.T) {
	recs := []storage.FixtureRecord{
		{RunID: "7d2e4c10-9d8a-4a53-8f0e-2f1d6c3b5a71", Verdict: "PASS", ExitCode: intPtr(100), Expected: 100},
		{RunID: "0b6c1f7e-9d8a-4a53-8f0e-2f1d6c3b5a71", Verdict: "FAIL", ExitCode: intPtr(0), Expected: 100},
	}

	var buf bytes.Buffer
	NewFormatter(&buf, false).PrintTrend("invalid-syntax", "while/whileNodo.wacc", recs)
	newGoldie(t).Assert(t, "history_trend", buf.Bytes())

	buf.Reset()
	NewFormatter(&buf, false).PrintTrend("valid", "gone.wacc", nil)
	assert.Equal(t, "valid/gone.wacc\nNo runs recorded for this fixture\n", buf.String())
}
