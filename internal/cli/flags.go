package cli

import (
	"time"

	"wct/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	Processors   int
	Timeout      time.Duration
	TimeoutSet   bool
	Compiler     string
	Registry     string
	Categories   []string
	NameFilter   string
	Execute      bool
	FailFast     bool
	OnlyFailed   bool
	JSON         bool
	NoColor      bool
	NoHistory    bool
	Verbose      bool
	OpenFails    bool
	Unregistered bool
	Summary      bool
	Limit        int
	RunID        string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors:   f.Processors,
		Timeout:      f.Timeout,
		TimeoutSet:   f.TimeoutSet,
		Compiler:     f.Compiler,
		Registry:     f.Registry,
		Categories:   append([]string(nil), f.Categories...),
		NameFilter:   f.NameFilter,
		Execute:      f.Execute,
		FailFast:     f.FailFast,
		OnlyFailed:   f.OnlyFailed,
		JSON:         f.JSON,
		NoColor:      f.NoColor,
		NoHistory:    f.NoHistory,
		Verbose:      f.Verbose,
		OpenFails:    f.OpenFails,
		Unregistered: f.Unregistered,
		Summary:      f.Summary,
		Limit:        f.Limit,
		RunID:        f.RunID,
	}
}
