package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wct/internal/config"
	"wct/internal/discovery"
	"wct/internal/domain"
	"wct/internal/storage"
	"wct/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config  *config.Config
	scanner *discovery.Scanner
	filter  *discovery.Filter
	storage storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:  cfg,
		scanner: scanner,
		filter:  filter,
		storage: st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	formatter := ui.NewFormatter(cmd.OutOrStdout(), false)

	if lc.config.Flags.Unregistered {
		return lc.drift(formatter)
	}

	reg, err := loadRegistry(lc.config, lc.filter)
	if err != nil {
		return err
	}
	if reg.Size() == 0 {
		color.Yellow("No fixtures found")
		return nil
	}

	// Mark fixtures that failed in the last run, if any
	var failed map[failureKey]bool
	if last, err := lc.storage.Load(); err == nil {
		failed = failedSet(last)
	}

	var listings []ui.FixtureListing
	for _, cat := range reg.Categories() {
		listing := ui.FixtureListing{
			Category: cat,
			IDs:      cat.IDs(),
			Failed:   make(map[domain.FixtureID]bool),
		}
		for _, id := range listing.IDs {
			if failed[failureKey{cat.Name, id}] {
				listing.Failed[id] = true
			}
		}
		listings = append(listings, listing)
	}

	formatter.PrintFixtureList(listings)
	return nil
}

// drift compares each selected category with the fixture files on disk
func (lc *ListCommand) drift(formatter *ui.Formatter) error {
	reg, err := openRegistry(lc.config)
	if err != nil {
		return err
	}
	names := make([]domain.CategoryName, 0, len(lc.config.Flags.Categories))
	for _, c := range lc.config.Flags.Categories {
		names = append(names, domain.CategoryName(c))
	}
	if reg, err = reg.Select(names); err != nil {
		return err
	}

	for _, cat := range reg.Categories() {
		unregistered, err := lc.scanner.Unregistered(lc.config.ProjectPath, cat)
		if err != nil {
			return fmt.Errorf("scan %s: %w", cat.Root, err)
		}
		pattern := lc.config.Flags.NameFilter
		formatter.PrintDrift(cat.Name,
			lc.filter.FilterByName(unregistered, pattern),
			lc.filter.FilterByName(lc.scanner.Missing(lc.config.ProjectPath, cat), pattern),
		)
	}
	return nil
}
