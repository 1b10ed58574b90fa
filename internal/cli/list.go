package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitoma/sver/internal/profileconfig"
	"github.com/mitoma/sver/internal/resolver"
)

var listCmd = &cobra.Command{
	Use:   "list <path>[:<profile>] ...",
	Short: "List the tracked paths that contribute to a version",
	Long: `list resolves each given path (optionally qualified with :<profile>) the
same way calc does, then prints the contributing paths in sorted order.
Phantom directory markers created while crossing a symlink are not
themselves printed.`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	multi := len(args) > 1

	for _, raw := range args {
		ref := profileconfig.ParseDependency(raw)
		entries, err := resolver.Resolve(repo, ref.Path, ref.Profile)
		if err != nil {
			return NewError(fmt.Sprintf("list %s", raw), err)
		}
		for _, e := range entries {
			if e.Phantom {
				continue
			}
			if multi {
				fmt.Fprintf(out, "%s:%s %s\n", ref.Path, ref.Profile, e.Path)
			} else {
				fmt.Fprintln(out, e.Path)
			}
		}
	}
	return nil
}
