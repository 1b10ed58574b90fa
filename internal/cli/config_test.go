package cli

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both invalid-flag cases below use a throwaway command rather than the
// shared rootCmd: ResolveFlags leaves the invalid value (and a "changed"
// flag) behind on error, which would otherwise leak into later tests that
// reuse rootCmd without passing --length/--output themselves.

func TestResolveFlagsRejectsInvalidLength(t *testing.T) {
	cmd := &cobra.Command{Use: "sver-test"}
	fv := BindFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--length", "medium"}))

	err := ResolveFlags(cmd, fv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--length")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "invalid --length must be an ExitError")
	assert.Equal(t, int(ExitUsage), exitErr.Code)
}

func TestResolveFlagsRejectsInvalidOutput(t *testing.T) {
	cmd := &cobra.Command{Use: "sver-test"}
	fv := BindFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--output", "yaml"}))

	err := ResolveFlags(cmd, fv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "invalid --output must be an ExitError")
	assert.Equal(t, int(ExitUsage), exitErr.Code)
}

func TestResolveFlagsEnvOverridesDefault(t *testing.T) {
	t.Setenv(EnvLength, "long")

	// A fresh, throwaway command (not the shared rootCmd) so the flag's
	// "changed" state can't leak in from some other test's parse.
	cmd := &cobra.Command{Use: "sver-test"}
	fv := BindFlags(cmd)

	require.NoError(t, ResolveFlags(cmd, fv))
	assert.Equal(t, "long", fv.Length, "env var should override the built-in default when --length was never passed")
}

func TestResolveFlagsExplicitFlagBeatsEnv(t *testing.T) {
	t.Setenv(EnvLength, "long")

	cmd := &cobra.Command{Use: "sver-test"}
	fv := BindFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--length", "short"}))

	require.NoError(t, ResolveFlags(cmd, fv))
	assert.Equal(t, "short", fv.Length, "an explicitly-passed flag should win over the environment")
}
