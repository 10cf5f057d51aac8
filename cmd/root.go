// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the alumnet CLI.
// It implements the account commands (sign in, sign up, sign out), profile
// management and view navigation using the Cobra CLI framework.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"alumnet/cli/internal/backend"
	"alumnet/cli/internal/config"
	"alumnet/cli/internal/httperrors"
	"alumnet/cli/internal/logging"
	"alumnet/cli/internal/manifest"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
	verbose     bool
)

// errReported marks a failure the user has already been shown. Execute exits
// non-zero without printing it again.
var errReported = errors.New("reported")

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "alumnet",
	Short:         "alumnet CLI for the campus network",
	Long:          `alumnet is a command-line client for the campus network of students, professors and alumni. It signs you in, keeps your session fresh and manages your member profile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			os.Setenv(logging.VerboseEnv, "1")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			m, err := manifest.Resolve(cfg.BackendURL, cfg.AnonKey)
			if err != nil {
				return err
			}

			stop := startInlineSpinner(os.Stderr, "contacting "+m.Host(), spinnerFrames, spinnerInterval)
			backendVersion, err := backend.New(m).GetVersion(ctx)
			stop()
			if err != nil {
				httperrors.NewReporter(os.Stderr, m.Host()).Report("checking the backend version", err)
				backendVersion = "unknown"
			}

			fmt.Printf("alumnet %s\nbackend %s (%s)\n", Version, backendVersion, m.Host())
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, logging.PresentError("Error", err))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and backend version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug output")
}
