package cmd

import (
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/zerowidth/tlmgr-complete/pkg/completion"
	"github.com/zerowidth/tlmgr-complete/pkg/shell"
)

func newCompleteCmd(opts *options) *cobra.Command {
	var format, match string

	cmd := &cobra.Command{
		Use:   "complete <kind> [qualifier]",
		Short: "Print completion candidates of one kind",
		Long: `Print the candidates of the given kind, one per line, in the order tlmgr
lists them. Lists are served from the cache while fresh, and fetched from
tlmgr otherwise.

Formats:

  zsh  - "value:description" lines, for _describe
  bash - bare values, for compgen or COMPREPLY
  json - the whole result, including its status

If there's nothing to offer, nothing is printed to stdout: the diagnostic
goes to stderr (or into the JSON document) and the exit status is 1, so the
completion function can fall back to completing files.

Run "tlmgr-complete kinds" for the list of kinds.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeKindArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := shell.ParseFormat(format)
			if err != nil {
				return err
			}

			env, err := opts.environment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			var qualifier string
			if len(args) > 1 {
				qualifier = args[1]
			}

			result := env.provider.CompleteMatching(cmd.Context(), args[0], qualifier, match)
			return shell.Present(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(shell.FormatZsh), "output format: zsh, bash or json")
	cmd.Flags().StringVar(&match, "match", "", "only print candidates matching the word being completed")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(shell.Formats, func(f shell.Format, _ int) string { return string(f) }), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// completeKindArgs completes the kind, then the qualifier it accepts
func completeKindArgs(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		var completions []string
		for _, kind := range completion.Kinds() {
			if strings.HasPrefix(kind.Name, toComplete) {
				completions = append(completions, kind.Name+"\t"+kind.Description)
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	case 1:
		kind, ok := completion.Lookup(args[0])
		if !ok {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return lo.Filter(kind.Qualifiers, func(q string, _ int) bool {
			return strings.HasPrefix(q, toComplete)
		}), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
