// Package cli implements the Cobra command hierarchy for the sver CLI tool:
// calc, list, validate, and version.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/spf13/cobra"
)

// flagValues holds the parsed global flag values, populated by BindFlags
// during command initialization and validated in PersistentPreRunE.
var flagValues *FlagValues

var rootCmd = &cobra.Command{
	Use:   "sver",
	Short: "Deterministic, content-addressed versions for subtrees of a git repository.",
	Long: `sver computes a deterministic version identifier for a path within a git
repository, derived from the tracked content that path and its declared
dependencies resolve to — not from commit history or tags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ResolveFlags(cmd, flagValues); err != nil {
			return err
		}

		level := ResolveLogLevel(flagValues.Verbose, flagValues.Quiet)
		format := ResolveLogFormat()
		SetupLogging(level, format)

		slog.Debug("flags resolved", "repo", flagValues.Repo, "length", flagValues.Length, "output", flagValues.Output)
		return nil
	},
}

func init() {
	flagValues = BindFlags(rootCmd)

	rootCmd.RegisterFlagCompletionFunc("length", completeLength)
	rootCmd.RegisterFlagCompletionFunc("output", completeOutput)

	rootCmd.SetFlagErrorFunc(usageFlagError)
}

// usageFlagError classifies cobra's own flag-parsing failures (unknown
// flags, bad values for cobra-typed flags) as ExitUsage (2). Cobra walks
// parent commands for a FlagErrorFunc, so setting it once on rootCmd covers
// every subcommand.
func usageFlagError(cmd *cobra.Command, err error) error {
	return NewUsageError(fmt.Sprintf("%s: invalid flags", cmd.CommandPath()), err)
}

// usageArgs wraps a cobra.PositionalArgs validator so an argument-count
// failure surfaces as ExitUsage (2) rather than the generic ExitError (1).
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return NewUsageError(fmt.Sprintf("%s: invalid arguments", cmd.CommandPath()), err)
		}
		return nil
	}
}

func completeLength(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"short", "long"}, cobra.ShellCompDirectiveNoFileComp
}

func completeOutput(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"version-only", "toml", "json"}, cobra.ShellCompDirectiveNoFileComp
}

// Execute runs the root command and returns the process exit code.
// If the error is an *ExitError, its Code is used.
// Generic errors return ExitError (1). Nil returns ExitSuccess (0).
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		return extractExitCode(err)
	}
	return int(ExitSuccess)
}

// extractExitCode determines the process exit code from an error.
// If the error is an *ExitError, its Code field is used.
// Otherwise, ExitError (1) is returned for any non-nil error.
func extractExitCode(err error) int {
	if err == nil {
		return int(ExitSuccess)
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return int(ExitError)
}

// RootCmd returns the root cobra.Command for use in testing and subcommand registration.
func RootCmd() *cobra.Command {
	return rootCmd
}

// GlobalFlags returns the parsed global flag values. Available after
// PersistentPreRunE has run. Subcommands use this to access shared configuration.
func GlobalFlags() *FlagValues {
	return flagValues
}

func openRepo() (*gitrepo.Repository, error) {
	repo, err := gitrepo.Open(flagValues.Repo)
	if err != nil {
		return nil, NewError("opening repository", err)
	}
	return repo, nil
}
