package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mitoma/sver/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every sver.toml in the repository for invalid entries",
	Long: `validate walks every sver.toml tracked in the repository's index and
checks, for each profile it defines, that every dependency and exclude
actually resolves to something. It never stops at the first problem: every
file and profile is checked and every finding is reported before exiting.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}

	verdicts, ok := validator.Validate(repo)
	out := cmd.OutOrStdout()
	printVerdicts(out, verdicts)

	if !ok {
		return NewError("validate", fmt.Errorf("one or more sver.toml files failed validation"))
	}
	return nil
}

func printVerdicts(out io.Writer, verdicts []validator.Verdict) {
	for _, v := range verdicts {
		if v.ParseErr != "" {
			fmt.Fprintf(out, "NG  %s  parse_error: %s\n", v.File, v.ParseErr)
			continue
		}

		status := "OK"
		if !v.OK {
			status = "NG"
		}
		fmt.Fprintf(out, "%s  %s:%s\n", status, v.File, v.Profile)

		for _, d := range v.InvalidDependency {
			fmt.Fprintf(out, "    invalid_dependency: %s%s\n", d, suggestionSuffix(v, d))
		}
		for _, e := range v.InvalidExclude {
			fmt.Fprintf(out, "    invalid_exclude: %s%s\n", e, suggestionSuffix(v, e))
		}
	}

	fmt.Fprintf(out, "\n%d profile(s) checked, %d failed\n", len(verdicts), countFailed(verdicts))
}

func suggestionSuffix(v validator.Verdict, entry string) string {
	matches, ok := v.Suggestions[entry]
	if !ok || len(matches) == 0 {
		return ""
	}
	sorted := append([]string(nil), matches...)
	sort.Strings(sorted)
	return fmt.Sprintf(" (did you mean one of: %v?)", sorted)
}

func countFailed(verdicts []validator.Verdict) int {
	n := 0
	for _, v := range verdicts {
		if v.ParseErr != "" || !v.OK {
			n++
		}
	}
	return n
}
