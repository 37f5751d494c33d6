package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"wct/internal/domain"
	"wct/internal/logging"
	"wct/internal/storage"
)

// Rerunner runs a single stored failure again
type Rerunner interface {
	Rerun(ctx context.Context, failure domain.FixtureFailure) (domain.FixtureOutcome, error)
}

// FailureViewer displays the failures of the last stored run in an interactive TUI
type FailureViewer struct {
	storage  storage.Storage
	rerunner Rerunner

	mu     sync.Mutex
	reruns map[int]domain.FixtureOutcome
}

// NewFailureViewer creates a FailureViewer. rerunner may be nil, which disables re-runs.
func NewFailureViewer(st storage.Storage, rerunner Rerunner) *FailureViewer {
	return &FailureViewer{
		storage:  st,
		rerunner: rerunner,
		reruns:   make(map[int]domain.FixtureOutcome),
	}
}

// View runs the TUI until the user exits
func (fv *FailureViewer) View(ctx context.Context, results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No fixture failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	itemText := func(index int) string {
		failure := results.Details[index]
		label := fmt.Sprintf("%s/%s", failure.Category, failure.Fixture)
		if failure.Resolved {
			return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, label)
		}
		return fmt.Sprintf("[yellow]%d.[white] %s", index+1, label)
	}

	for i := range results.Details {
		list.AddItem(itemText(i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	keys := "[yellow]R[white] resolve"
	if fv.rerunner != nil {
		keys += ", [yellow]X[white] re-run"
	}
	updateHeader := func() {
		unresolved := 0
		for _, failure := range results.Details {
			if !failure.Resolved {
				unresolved++
			}
		}
		headerView.SetText(fmt.Sprintf(" Fixture Failures (%d total, %d unresolved) | ↑↓ navigate, %s, → details, ← back, Ctrl+C exit ",
			len(results.Details), unresolved, keys))
	}

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(results.Details) {
			return
		}
		failure := results.Details[index]
		statsView.SetText(formatFailureStats(failure))
		rerun, ok := fv.rerun(index)
		detailsView.SetText(formatFailureDetails(failure, rerun, ok))
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			index := list.GetCurrentItem()
			if index < 0 || index >= len(results.Details) {
				return event
			}
			switch event.Rune() {
			case 'r', 'R':
				results.Details[index].Resolved = !results.Details[index].Resolved
				list.SetItemText(index, itemText(index), "")
				updateHeader()
				updateDetails()
				if err := fv.storage.SaveOutput(results); err != nil {
					logging.Logger.Error("failed to save resolved status", "error", err)
				}
				return nil
			case 'x', 'X':
				if fv.rerunner == nil {
					return nil
				}
				detailsView.SetText("[yellow]Running " + string(results.Details[index].Fixture) + "...[white]")
				failure := results.Details[index]
				go func() {
					outcome, err := fv.rerunner.Rerun(ctx, failure)
					if err != nil {
						logging.Logger.Error("re-run failed", "fixture", failure.Fixture, "error", err)
						outcome = domain.FixtureOutcome{
							ID:      failure.Fixture,
							Verdict: domain.Fail,
							Result:  domain.ExecutionFailure(err.Error()),
						}
					}
					fv.setRerun(index, outcome)
					app.QueueUpdateDraw(updateDetails)
				}()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})

	updateHeader()
	updateDetails()

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func (fv *FailureViewer) rerun(index int) (domain.FixtureOutcome, bool) {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	o, ok := fv.reruns[index]
	return o, ok
}

func (fv *FailureViewer) setRerun(index int, o domain.FixtureOutcome) {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	fv.reruns[index] = o
}

// formatFailureDetails formats a failure using tview color tags
func formatFailureDetails(failure domain.FixtureFailure, rerun domain.FixtureOutcome, hasRerun bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", failure.Fixture)
	fmt.Fprintf(&b, "[cyan]Path:[white] %s\n", failure.Path)
	fmt.Fprintf(&b, "[cyan]Stage:[white] %s\n", failure.Stage)
	fmt.Fprintf(&b, "[cyan]Expected exit:[white] %d\n", failure.Expected)
	if failure.ExitCode != nil {
		fmt.Fprintf(&b, "[cyan]Actual exit:[white] %d\n", *failure.ExitCode)
	}
	if failure.Reason != "" {
		fmt.Fprintf(&b, "[cyan]Execution failure:[white] %s\n", failure.Reason)
	}
	fmt.Fprintf(&b, "\n[yellow]Message:[white]\n%s\n", failure.Message)

	if hasRerun {
		b.WriteString("\n[yellow]Re-run:[white]\n")
		if rerun.Verdict == domain.Pass {
			b.WriteString("[green]PASS[white]\n")
		} else {
			fmt.Fprintf(&b, "[red]FAIL[white] %s\n", rerun.Describe())
		}
	}
	return b.String()
}

func formatFailureStats(failure domain.FixtureFailure) string {
	return fmt.Sprintf("[cyan]category:[white] [yellow]%s[white]  [cyan]fixture:[white] [yellow]%s[white]\n",
		failure.Category, failure.Fixture)
}
