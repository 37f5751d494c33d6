package domain

import (
	"fmt"
	"time"
)

// ResultKind tells whether an invocation ran to an exit code or could not complete
type ResultKind int

const (
	// Exited means the process ran and exited normally with ExitCode
	Exited ResultKind = iota
	// ExecFailure means the process could not be launched, waited on, or finished
	ExecFailure
)

// Stage names the step of a fixture run that produced a result
type Stage string

const (
	StageCompile  Stage = "compile"
	StageAssemble Stage = "assemble"
	StageEmulate  Stage = "emulate"
)

// InvocationResult is the outcome of a single subprocess run
type InvocationResult struct {
	Kind     ResultKind
	ExitCode int    // Valid only when Kind == Exited
	Reason   string // Valid only when Kind == ExecFailure
	Stage    Stage
}

// ExitedWith returns a result for a process that exited with code
func ExitedWith(code int) InvocationResult {
	return InvocationResult{Kind: Exited, ExitCode: code, Stage: StageCompile}
}

// ExecutionFailure returns a result for a process that could not complete
func ExecutionFailure(reason string) InvocationResult {
	return InvocationResult{Kind: ExecFailure, Reason: reason, Stage: StageCompile}
}

// At returns a copy of r attributed to stage s
func (r InvocationResult) At(s Stage) InvocationResult {
	r.Stage = s
	return r
}

// IsExecFailure reports whether r is an execution failure
func (r InvocationResult) IsExecFailure() bool {
	return r.Kind == ExecFailure
}

func (r InvocationResult) String() string {
	if r.Kind == ExecFailure {
		return fmt.Sprintf("%s: execution failure: %s", r.Stage, r.Reason)
	}
	return fmt.Sprintf("%s: exit %d", r.Stage, r.ExitCode)
}

// Verdict is the PASS/FAIL outcome for one fixture
type Verdict string

const (
	Pass Verdict = "PASS"
	Fail Verdict = "FAIL"
)

// FixtureOutcome records what happened to a single fixture
type FixtureOutcome struct {
	ID       FixtureID
	Path     string
	Verdict  Verdict
	Result   InvocationResult
	Expected int // Exit code the deciding stage had to produce
	Duration time.Duration
}

// Describe explains a failing outcome in one line
func (o FixtureOutcome) Describe() string {
	if o.Result.IsExecFailure() {
		return fmt.Sprintf("execution failure at %s: %s", o.Result.Stage, o.Result.Reason)
	}
	return fmt.Sprintf("%s exited %d, want %d", o.Result.Stage, o.Result.ExitCode, o.Expected)
}

// CategoryReport holds the outcome of every fixture in one category, in registry order
type CategoryReport struct {
	Category         CategoryName
	Title            string
	ExpectedExitCode int
	Outcomes         []FixtureOutcome
}

// Total returns the number of recorded fixtures
func (r CategoryReport) Total() int {
	return len(r.Outcomes)
}

// Passed returns the number of passing fixtures
func (r CategoryReport) Passed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Verdict == Pass {
			n++
		}
	}
	return n
}

// Failed returns the number of failing fixtures
func (r CategoryReport) Failed() int {
	return r.Total() - r.Passed()
}

// Failures returns the failing outcomes in registry order
func (r CategoryReport) Failures() []FixtureOutcome {
	var failures []FixtureOutcome
	for _, o := range r.Outcomes {
		if o.Verdict != Pass {
			failures = append(failures, o)
		}
	}
	return failures
}

// FailedIDs returns the ids of failing fixtures in registry order
func (r CategoryReport) FailedIDs() []FixtureID {
	ids := []FixtureID{}
	for _, o := range r.Failures() {
		ids = append(ids, o.ID)
	}
	return ids
}

// Verdict returns the verdict recorded for id
func (r CategoryReport) Verdict(id FixtureID) (Verdict, bool) {
	for _, o := range r.Outcomes {
		if o.ID == id {
			return o.Verdict, true
		}
	}
	return "", false
}

// RunReport aggregates the category reports of a single harness run
type RunReport struct {
	ID         string
	StartedAt  time.Time
	Duration   time.Duration
	Compiler   string
	Workers    int
	Categories []CategoryReport
}

// Success is true iff no category recorded a failure
func (r RunReport) Success() bool {
	for _, c := range r.Categories {
		if c.Failed() > 0 {
			return false
		}
	}
	return true
}

// Category returns the report for name
func (r RunReport) Category(name CategoryName) (CategoryReport, bool) {
	for _, c := range r.Categories {
		if c.Category == name {
			return c, true
		}
	}
	return CategoryReport{}, false
}

// Totals returns passed, failed and total fixture counts across categories
func (r RunReport) Totals() (passed, failed, total int) {
	for _, c := range r.Categories {
		passed += c.Passed()
		failed += c.Failed()
		total += c.Total()
	}
	return passed, failed, total
}

// FailedCategories returns the number of categories with at least one failure
func (r RunReport) FailedCategories() int {
	n := 0
	for _, c := range r.Categories {
		if c.Failed() > 0 {
			n++
		}
	}
	return n
}

// CategorySummary is the per-category part of the stored results
type CategorySummary struct {
	Category         CategoryName `json:"category"`
	ExpectedExitCode int          `json:"expected_exit_code"`
	Total            int          `json:"total"`
	Passed           int          `json:"passed"`
	Failed           int          `json:"failed"`
	FailedFixtures   []FixtureID  `json:"failed_fixtures"`
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string            `json:"run_id"`
	Compiler        string            `json:"compiler"`
	TotalFixtures   int               `json:"total_fixtures"`
	PassedFixtures  int               `json:"passed_fixtures"`
	FailedFixtures  int               `json:"failed_fixtures"`
	Success         bool              `json:"success"`
	Duration        string            `json:"duration"`
	DurationSeconds float64           `json:"duration_seconds"`
	Workers         int               `json:"workers"`
	Timestamp       string            `json:"timestamp"`
	Categories      []CategorySummary `json:"categories"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta  `json:"meta"`
	Details []FixtureFailure `json:"details"`
}

// Output converts the report into its stored form
func (r RunReport) Output() TestResultsOutput {
	passed, failed, total := r.Totals()
	out := TestResultsOutput{
		Meta: TestResultsMeta{
			RunID:           r.ID,
			Compiler:        r.Compiler,
			TotalFixtures:   total,
			PassedFixtures:  passed,
			FailedFixtures:  failed,
			Success:         r.Success(),
			Duration:        r.Duration.String(),
			DurationSeconds: r.Duration.Seconds(),
			Workers:         r.Workers,
			Timestamp:       r.StartedAt.Format(time.RFC3339),
			Categories:      make([]CategorySummary, 0, len(r.Categories)),
		},
		Details: []FixtureFailure{},
	}
	for _, c := range r.Categories {
		out.Meta.Categories = append(out.Meta.Categories, CategorySummary{
			Category:         c.Category,
			ExpectedExitCode: c.ExpectedExitCode,
			Total:            c.Total(),
			Passed:           c.Passed(),
			Failed:           c.Failed(),
			FailedFixtures:   c.FailedIDs(),
		})
		for _, o := range c.Failures() {
			out.Details = append(out.Details, NewFixtureFailure(c.Category, o))
		}
	}
	return out
}
