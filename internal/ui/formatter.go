package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"wct/internal/domain"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// Formatter renders run reports, stored results and fixture listings
type Formatter struct {
	out     io.Writer
	verbose bool
}

// NewFormatter creates a Formatter writing to out. With verbose set, failing
// fixtures are annotated with what went wrong.
func NewFormatter(out io.Writer, verbose bool) *Formatter {
	return &Formatter{
		out:     out,
		verbose: verbose,
	}
}

// Render writes the text report of every category followed by the overall verdict
func (f *Formatter) Render(report domain.RunReport) {
	for _, c := range report.Categories {
		f.renderCategory(c)
	}

	if report.Success() {
		green.Fprintln(f.out, "✓ All categories passed")
	} else {
		red.Fprintf(f.out, "✗ %d of %d categories failed\n", report.FailedCategories(), len(report.Categories))
	}
}

func (f *Formatter) renderCategory(c domain.CategoryReport) {
	title := fmt.Sprintf("| %s |", c.Title)
	border := strings.Repeat("=", utf8.RuneCountInString(title))
	cyan.Fprintln(f.out, border)
	cyan.Fprintln(f.out, title)
	cyan.Fprintln(f.out, border)
	fmt.Fprintln(f.out)

	counts := green
	if c.Failed() > 0 {
		counts = red
	}
	counts.Fprintf(f.out, "%d/%d tests passed\n", c.Passed(), c.Total())
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "Failed tests:")
	for _, o := range c.Failures() {
		if f.verbose {
			red.Fprintf(f.out, "%s (%s)\n", o.ID, annotate(o))
		} else {
			red.Fprintln(f.out, o.ID)
		}
	}
	fmt.Fprintln(f.out, "----------")
	fmt.Fprintln(f.out)
}

// annotate tells an execution failure apart from an exit code mismatch
func annotate(o domain.FixtureOutcome) string {
	var note string
	if o.Result.IsExecFailure() {
		note = "execution failure: " + o.Result.Reason
	} else {
		note = fmt.Sprintf("exit %d, want %d", o.Result.ExitCode, o.Expected)
	}
	if o.Result.Stage != domain.StageCompile {
		note = string(o.Result.Stage) + " " + note
	}
	return note
}

// RenderJSON writes the stored-result document of the report
func (f *Formatter) RenderJSON(report domain.RunReport) error {
	data, err := json.MarshalIndent(report.Output(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = fmt.Fprintln(f.out, string(data))
	return err
}

// PrintMetaStats displays the statistics of a stored run and a tree of its failures
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) {
	meta := output.Meta

	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                   Conformance Run Statistics                  ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Run", meta.RunID, white},
		{"Compiler", meta.Compiler, white},
		{"Total Fixtures", fmt.Sprint(meta.TotalFixtures), white},
		{"Passed Fixtures", fmt.Sprint(meta.PassedFixtures), green},
		{"Failed Fixtures", fmt.Sprint(meta.FailedFixtures), red},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), white},
		{"Workers", fmt.Sprint(meta.Workers), white},
		{"Timestamp", meta.Timestamp, white},
	}
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row.label)
		row.c.Fprintf(f.out, "%-27s", truncate(row.value, 27))
		fmt.Fprintln(f.out, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.Success {
		green.Fprintln(f.out, "✓ All categories passed")
		return
	}
	failedCategories := 0
	for _, c := range meta.Categories {
		if c.Failed > 0 {
			failedCategories++
		}
	}
	red.Fprintf(f.out, "✗ %d fixture(s) failed in %d of %d categories\n", meta.FailedFixtures, failedCategories, len(meta.Categories))
	fmt.Fprintln(f.out)
	f.printFailureTree(output.Details)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return "…" + string(r[len(r)-n+1:])
}

// treeNode is a directory or fixture in the failure tree
type treeNode struct {
	name     string
	children map[string]*treeNode
	failure  *domain.FixtureFailure
}

func newTreeNode(name string) *treeNode {
	return &treeNode{name: name, children: make(map[string]*treeNode)}
}

// printFailureTree prints failing fixtures grouped by category and directory
func (f *Formatter) printFailureTree(failures []domain.FixtureFailure) {
	if len(failures) == 0 {
		return
	}

	root := newTreeNode("")
	for i := range failures {
		failure := &failures[i]
		parts := append([]string{string(failure.Category)}, strings.Split(string(failure.Fixture), "/")...)
		current := root
		for _, part := range parts {
			if part == "" {
				continue
			}
			if current.children[part] == nil {
				current.children[part] = newTreeNode(part)
			}
			current = current.children[part]
		}
		current.failure = failure
	}

	f.printTreeNode(root, "")
}

func (f *Formatter) printTreeNode(node *treeNode, prefix string) {
	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.children[key]
		last := i == len(keys)-1

		connector, childPrefix := "├── ", "│   "
		if last {
			connector, childPrefix = "└── ", "    "
		}

		if child.failure != nil {
			yellow.Fprintf(f.out, "%s%s%s", prefix, connector, child.name)
			if child.failure.Resolved {
				fmt.Fprint(f.out, " [resolved]")
			}
			fmt.Fprintln(f.out)
			red.Fprintf(f.out, "%s%s%s\n", prefix+childPrefix, "└── ", child.failure.Message)
			continue
		}
		cyan.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.name)
		f.printTreeNode(child, prefix+childPrefix)
	}
}

// FixtureListing is one category's fixtures as shown by the list command
type FixtureListing struct {
	Category domain.Category
	IDs      []domain.FixtureID
	// Failed marks fixtures that failed in the last stored run
	Failed map[domain.FixtureID]bool
}

// PrintFixtureList prints the registered fixtures of each listing as a tree
func (f *Formatter) PrintFixtureList(listings []FixtureListing) {
	total := 0
	for _, l := range listings {
		total += len(l.IDs)
	}
	green.Fprintf(f.out, "Found %d fixture(s) in %d categor%s:\n", total, len(listings), plural(len(listings), "y", "ies"))

	for _, l := range listings {
		fmt.Fprintln(f.out)
		cyan.Fprintf(f.out, "%s ", l.Category.Name)
		fmt.Fprintf(f.out, "(%s, expect exit %d, %d fixture(s))\n", l.Category.Root, l.Category.ExpectedExitCode, len(l.IDs))

		for i, id := range l.IDs {
			connector := "├── "
			if i == len(l.IDs)-1 {
				connector = "└── "
			}
			fmt.Fprintf(f.out, "%s%s", connector, id)
			if l.Failed[id] {
				fmt.Fprint(f.out, " ")
				red.Fprint(f.out, "[F]")
			}
			fmt.Fprintln(f.out)
		}
	}
}

// PrintDrift prints fixtures found on disk but not registered, and registered fixtures missing from disk
func (f *Formatter) PrintDrift(category domain.CategoryName, unregistered, missing []domain.FixtureID) {
	if len(unregistered) == 0 && len(missing) == 0 {
		green.Fprintf(f.out, "✓ %s: registry matches the fixture tree\n", category)
		return
	}
	if len(unregistered) > 0 {
		yellow.Fprintf(f.out, "%s: %d unregistered fixture(s)\n", category, len(unregistered))
		for _, id := range unregistered {
			fmt.Fprintf(f.out, "  + %s\n", id)
		}
	}
	if len(missing) > 0 {
		red.Fprintf(f.out, "%s: %d registered fixture(s) missing on disk\n", category, len(missing))
		for _, id := range missing {
			fmt.Fprintf(f.out, "  - %s\n", id)
		}
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
