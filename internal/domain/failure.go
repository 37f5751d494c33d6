package domain

// FixtureFailure represents a failed fixture in the stored results
type FixtureFailure struct {
	Category CategoryName `json:"category"`
	Fixture  FixtureID    `json:"fixture"`
	Path     string       `json:"path"`
	Stage    Stage        `json:"stage"`
	Expected int          `json:"expected_exit_code"`
	ExitCode *int         `json:"exit_code,omitempty"` // Nil for execution failures
	Reason   string       `json:"reason,omitempty"`
	Message  string       `json:"message"`
	Resolved bool         `json:"resolved,omitempty"` // Track if fixture is marked as resolved
}

// NewFixtureFailure builds the stored form of a failing outcome
func NewFixtureFailure(category CategoryName, o FixtureOutcome) FixtureFailure {
	f := FixtureFailure{
		Category: category,
		Fixture:  o.ID,
		Path:     o.Path,
		Stage:    o.Result.Stage,
		Expected: o.Expected,
		Message:  o.Describe(),
	}
	if o.Result.IsExecFailure() {
		f.Reason = o.Result.Reason
	} else {
		code := o.Result.ExitCode
		f.ExitCode = &code
	}
	return f
}
