package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/mitoma/sver/internal/gitrepo"
	"github.com/mitoma/sver/internal/hasher"
	"github.com/mitoma/sver/internal/profileconfig"
	"github.com/mitoma/sver/internal/resolver"
)

var calcCmd = &cobra.Command{
	Use:   "calc <path>[:<profile>] ...",
	Short: "Compute the content-addressed version of one or more paths",
	Long: `calc resolves each given path (optionally qualified with :<profile>) and
its declared dependencies, then hashes the result into a single digest.

With --output version-only (the default), each digest is printed as soon as
it is computed; calc still exits 1 on the first failed target. With
--output toml or --output json, nothing is printed unless every target in
the batch resolves successfully — a partial batch prints nothing and exits 1.`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)
}

// calcResult is one target's outcome, rendered by --output toml/json per
// spec.md §6.1: repository_root, path, version. HeadCommit is additional,
// purely informational metadata (never an input to the digest itself) and
// is omitted when the repository has no commits yet.
type calcResult struct {
	RepositoryRoot string `toml:"repository_root" json:"repository_root"`
	Path           string `toml:"path" json:"path"`
	Version        string `toml:"version" json:"version"`
	HeadCommit     string `toml:"head_commit,omitempty" json:"head_commit,omitempty"`
}

func runCalc(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}

	if flagValues.Output == "version-only" {
		return runCalcStreaming(cmd, repo, args)
	}
	return runCalcBatch(cmd, repo, args)
}

// runCalcStreaming prints each digest as soon as it is computed, stopping at
// the first failure.
func runCalcStreaming(cmd *cobra.Command, repo *gitrepo.Repository, args []string) error {
	out := cmd.OutOrStdout()
	for _, raw := range args {
		ref := profileconfig.ParseDependency(raw)
		version, err := calcOne(repo, ref)
		if err != nil {
			return NewError(fmt.Sprintf("calc %s", raw), err)
		}
		fmt.Fprintln(out, version)
	}
	return nil
}

// runCalcBatch computes every target before printing anything, so a single
// failure anywhere in the batch suppresses the whole batch's output.
func runCalcBatch(cmd *cobra.Command, repo *gitrepo.Repository, args []string) error {
	results := make([]calcResult, 0, len(args))
	for _, raw := range args {
		ref := profileconfig.ParseDependency(raw)
		version, err := calcOne(repo, ref)
		if err != nil {
			return NewError(fmt.Sprintf("calc %s", raw), err)
		}
		result := calcResult{RepositoryRoot: repo.Root(), Path: ref.Path, Version: version}
		if commit, ok := repo.HeadCommit(); ok {
			result.HeadCommit = commit.String()
		}
		results = append(results, result)
	}

	out := cmd.OutOrStdout()
	switch flagValues.Output {
	case "toml":
		return encodeCalcTOML(out, results)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	default:
		return fmt.Errorf("unsupported --output %q", flagValues.Output)
	}
}

// encodeCalcTOML writes results as an array of tables named "versions", per
// spec.md §6.1.
func encodeCalcTOML(out io.Writer, results []calcResult) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string][]calcResult{"versions": results}); err != nil {
		return err
	}
	_, err := out.Write(buf.Bytes())
	return err
}

func calcOne(repo *gitrepo.Repository, ref profileconfig.DependencyRef) (string, error) {
	entries, err := resolver.Resolve(repo, ref.Path, ref.Profile)
	if err != nil {
		return "", err
	}
	digest, err := hasher.Hash(repo, entries)
	if err != nil {
		return "", err
	}
	if flagValues.Length == "long" {
		return digest.Long(), nil
	}
	return digest.Short(), nil
}
