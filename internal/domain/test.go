package domain

import "path/filepath"

// FixtureID identifies a fixture relative to its category root
type FixtureID string

// CategoryName names one of the expectation classes
type CategoryName string

const (
	CategoryValid           CategoryName = "valid"
	CategoryInvalidSyntax   CategoryName = "invalid-syntax"
	CategoryInvalidSemantic CategoryName = "invalid-semantic"
)

// KnownCategories lists every category name the harness understands, in report order.
var KnownCategories = []CategoryName{
	CategoryValid,
	CategoryInvalidSyntax,
	CategoryInvalidSemantic,
}

// IsKnown reports whether n is one of KnownCategories
func (n CategoryName) IsKnown() bool {
	for _, k := range KnownCategories {
		if k == n {
			return true
		}
	}
	return false
}

// Fixture is a single source program in a category
type Fixture struct {
	ID FixtureID
	// RunExitCode is the exit status the compiled program must produce when
	// the backend stage runs it. Nil means 0.
	RunExitCode *int
}

// ExpectedRunExitCode returns the exit code the compiled program must produce
func (f Fixture) ExpectedRunExitCode() int {
	if f.RunExitCode == nil {
		return 0
	}
	return *f.RunExitCode
}

// Category is a set of fixtures sharing one expected compiler exit code
type Category struct {
	Name             CategoryName
	Title            string   // Banner used by the reporter
	Root             string   // Directory prefix fixture ids are relative to
	ExpectedExitCode int      // Exit code the compiler must produce for every fixture
	Flags            []string // Extra compiler arguments placed after the fixture path
	Runnable         bool     // Whether the backend stage may assemble and run the output
	Fixtures         []Fixture
}

// FixturePath joins the category root and a fixture id under projectPath
func (c Category) FixturePath(projectPath string, id FixtureID) string {
	return filepath.Join(projectPath, c.Root, string(id))
}

// IDs returns the fixture ids in registry order
func (c Category) IDs() []FixtureID {
	ids := make([]FixtureID, len(c.Fixtures))
	for i, f := range c.Fixtures {
		ids[i] = f.ID
	}
	return ids
}
