package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wct/internal/cli"
	"wct/internal/cli/commands"
	"wct/internal/config"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "wct",
		Short:         "WACC compiler conformance tester",
		Long:          `Runs a WACC compiler over a registry of valid, syntactically invalid and semantically invalid programs in parallel and checks that it accepts or rejects each one with the right exit code.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults, then apply .env and the environment
	cfg := config.New()
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	cmds := commands.NewCommands(cfg)
	cmds.Register(rootCmd, &flags, cfg)

	if err := rootCmd.Execute(); err != nil {
		// The report already explains a failed run
		if !errors.Is(err, commands.ErrRunFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
