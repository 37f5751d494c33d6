package domain

import (
	"testing"
	"time"
)

func TestCategoryReport_Counts(t *testing.T) {
	r := CategoryReport{
		Category: CategoryInvalidSyntax,
		Outcomes: []FixtureOutcome{
			{ID: "a.wacc", Verdict: Pass, Result: ExitedWith(100), Expected: 100},
			{ID: "b.wacc", Verdict: Fail, Result: ExitedWith(0), Expected: 100},
			{ID: "c.wacc", Verdict: Fail, Result: ExecutionFailure("signal: killed")},
		},
	}

	if r.Total() != 3 || r.Passed() != 1 || r.Failed() != 2 {
		t.Fatalf("counts = %d/%d/%d, want 3/1/2", r.Total(), r.Passed(), r.Failed())
	}
	ids := r.FailedIDs()
	if len(ids) != 2 || ids[0] != "b.wacc" || ids[1] != "c.wacc" {
		t.Errorf("FailedIDs() = %v", ids)
	}
	if v, ok := r.Verdict("a.wacc"); !ok || v != Pass {
		t.Errorf("Verdict(a.wacc) = %v, %v", v, ok)
	}
	if _, ok := r.Verdict("missing.wacc"); ok {
		t.Error("Verdict(missing.wacc) should not be found")
	}
}

func TestCategoryReport_FailedIDsNeverNil(t *testing.T) {
	ids := CategoryReport{}.FailedIDs()
	if ids == nil || len(ids) != 0 {
		t.Errorf("FailedIDs() = %#v, want empty non-nil slice", ids)
	}
}

func TestFixtureOutcome_Describe(t *testing.T) {
	tests := []struct {
		name    string
		outcome FixtureOutcome
		want    string
	}{
		{"mismatch", FixtureOutcome{Result: ExitedWith(1), Expected: 200}, "compile exited 1, want 200"},
		{"exec failure", FixtureOutcome{Result: ExecutionFailure("timeout after 1s")}, "execution failure at compile: timeout after 1s"},
		{"emulate", FixtureOutcome{Result: ExitedWith(0).At(StageEmulate), Expected: 255}, "emulate exited 0, want 255"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.Describe(); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunReport_Success(t *testing.T) {
	pass := CategoryReport{Outcomes: []FixtureOutcome{{ID: "a.wacc", Verdict: Pass}}}
	fail := CategoryReport{Outcomes: []FixtureOutcome{{ID: "b.wacc", Verdict: Fail}}}

	tests := []struct {
		name   string
		report RunReport
		want   bool
	}{
		{"no categories", RunReport{}, true},
		{"all pass", RunReport{Categories: []CategoryReport{pass, pass}}, true},
		{"one failure", RunReport{Categories: []CategoryReport{pass, fail}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.Success(); got != tt.want {
				t.Errorf("Success() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunReport_Output(t *testing.T) {
	report := RunReport{
		ID:        "run",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Categories: []CategoryReport{
			{
				Category:         CategoryInvalidSemantic,
				ExpectedExitCode: 200,
				Outcomes: []FixtureOutcome{
					{ID: "ok.wacc", Verdict: Pass, Result: ExitedWith(200), Expected: 200},
					{ID: "bad.wacc", Path: "test/invalid/semanticErr/bad.wacc", Verdict: Fail, Result: ExitedWith(1), Expected: 200},
				},
			},
		},
	}

	out := report.Output()
	if out.Meta.Success || out.Meta.TotalFixtures != 2 || out.Meta.FailedFixtures != 1 {
		t.Errorf("meta = %+v", out.Meta)
	}
	if out.Meta.Timestamp != "2026-01-02T03:04:05Z" || out.Meta.DurationSeconds != 1.5 {
		t.Errorf("timing = %q %v", out.Meta.Timestamp, out.Meta.DurationSeconds)
	}
	if len(out.Details) != 1 {
		t.Fatalf("details = %d, want 1", len(out.Details))
	}
	d := out.Details[0]
	if d.Fixture != "bad.wacc" || d.ExitCode == nil || *d.ExitCode != 1 || d.Expected != 200 || d.Reason != "" {
		t.Errorf("detail = %+v", d)
	}
}
