package cli

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/providers/confmap"
	koanf "github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// Environment variable overrides for the global flags. Named SVER_ rather
// than sver.toml's own keys to keep process-level CLI config clearly
// separate from the per-directory, version-affecting domain config.
const (
	EnvLength = "SVER_LENGTH"
	EnvOutput = "SVER_OUTPUT"
)

// FlagValues holds the parsed global flag values, shared by every
// subcommand.
type FlagValues struct {
	Repo    string
	Length  string
	Output  string
	Verbose bool
	Quiet   bool
}

// BindFlags registers the persistent flags shared by every subcommand on
// cmd and returns the struct they populate.
func BindFlags(cmd *cobra.Command) *FlagValues {
	fv := &FlagValues{}
	cmd.PersistentFlags().StringVar(&fv.Repo, "repo", ".", "path to the repository (or a subdirectory of it)")
	cmd.PersistentFlags().StringVar(&fv.Length, "length", "short", "digest length: short or long")
	cmd.PersistentFlags().StringVar(&fv.Output, "output", "version-only", "calc output format: version-only, toml, or json")
	cmd.PersistentFlags().BoolVarP(&fv.Verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&fv.Quiet, "quiet", "q", false, "suppress all logging except errors")
	return fv
}

// ResolveFlags layers built-in defaults, SVER_* environment variables, and
// explicitly-set CLI flags (in that precedence order) into fv, then
// validates the result. Flags the user didn't actually pass are not
// treated as overrides, so an env var can still take effect.
func ResolveFlags(cmd *cobra.Command, fv *FlagValues) error {
	k := koanf.New(".")

	defaults := map[string]any{"length": "short", "output": "version-only"}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return fmt.Errorf("loading defaults: %w", err)
	}

	env := map[string]any{}
	if v := os.Getenv(EnvLength); v != "" {
		env["length"] = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		env["output"] = v
	}
	if len(env) > 0 {
		if err := k.Load(confmap.Provider(env, "."), nil); err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
	}

	flags := map[string]any{}
	if cmd.Flags().Changed("length") {
		flags["length"] = fv.Length
	}
	if cmd.Flags().Changed("output") {
		flags["output"] = fv.Output
	}
	if len(flags) > 0 {
		if err := k.Load(confmap.Provider(flags, "."), nil); err != nil {
			return fmt.Errorf("loading flags: %w", err)
		}
	}

	fv.Length = k.String("length")
	fv.Output = k.String("output")
	return validateFlags(fv)
}

func validateFlags(fv *FlagValues) error {
	switch fv.Length {
	case "short", "long":
	default:
		return NewUsageError("invalid --length", fmt.Errorf("%q: must be short or long", fv.Length))
	}
	switch fv.Output {
	case "version-only", "toml", "json":
	default:
		return NewUsageError("invalid --output", fmt.Errorf("%q: must be version-only, toml, or json", fv.Output))
	}
	return nil
}
