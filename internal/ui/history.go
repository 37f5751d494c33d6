package ui

import (
	"fmt"
	"text/tabwriter"
	"time"

	"wct/internal/storage"
)

// PrintHistory prints recent runs, newest first
func (f *Formatter) PrintHistory(runs []storage.RunRecord) {
	if len(runs) == 0 {
		yellow.Fprintln(f.out, "No runs recorded yet")
		return
	}

	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tPASSED\tFAILED\tDURATION\tWORKERS\tRESULT")
	for _, r := range runs {
		result := "PASS"
		if !r.Success {
			result = "FAIL"
		}
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%d\t%s\t%d\t%s\n",
			shortID(r.ID),
			r.StartedAt.UTC().Format("2006-01-02 15:04:05Z"),
			r.Passed, r.Total,
			r.Failed,
			(time.Duration(r.DurationMs) * time.Millisecond).String(),
			r.Workers,
			result,
		)
	}
	w.Flush()
}

// PrintRun prints one stored run and its failing fixtures
func (f *Formatter) PrintRun(run *storage.RunRecord) {
	cyan.Fprintf(f.out, "Run %s\n", run.ID)
	fmt.Fprintf(f.out, "Compiler: %s\n", run.Compiler)
	fmt.Fprintf(f.out, "Started:  %s\n", run.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(f.out, "Result:   %d/%d fixtures passed\n\n", run.Passed, run.Total)

	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	failed := 0
	for _, fx := range run.Fixtures {
		if fx.Verdict == "PASS" {
			continue
		}
		if failed == 0 {
			fmt.Fprintln(w, "CATEGORY\tFIXTURE\tSTAGE\tRESULT")
		}
		failed++
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", fx.Category, fx.Fixture, fx.Stage, describeRecord(fx))
	}
	w.Flush()
	if failed == 0 {
		green.Fprintln(f.out, "✓ No failing fixtures")
	}
}

// PrintTrend prints the recent verdicts of one fixture, newest first
func (f *Formatter) PrintTrend(category, fixture string, recs []storage.FixtureRecord) {
	cyan.Fprintf(f.out, "%s/%s\n", category, fixture)
	if len(recs) == 0 {
		yellow.Fprintln(f.out, "No runs recorded for this fixture")
		return
	}
	for _, r := range recs {
		if r.Verdict == "PASS" {
			green.Fprintf(f.out, "  ✓ %s\n", shortID(r.RunID))
		} else {
			red.Fprintf(f.out, "  ✗ %s %s\n", shortID(r.RunID), describeRecord(r))
		}
	}
}

func describeRecord(r storage.FixtureRecord) string {
	if r.ExitCode == nil {
		return "execution failure: " + r.Reason
	}
	return fmt.Sprintf("exit %d, want %d", *r.ExitCode, r.Expected)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
