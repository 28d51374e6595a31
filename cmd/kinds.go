package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zerowidth/tlmgr-complete/pkg/completion"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the kinds of data that can be completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, kind := range completion.Kinds() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", kind.Name, usage(kind), kind.Description)
			}
			return w.Flush()
		},
	}
}

func usage(kind completion.Kind) string {
	switch {
	case len(kind.Qualifiers) == 0:
		return ""
	case kind.Required:
		return "<" + strings.Join(kind.Qualifiers, "|") + ">"
	default:
		return "[" + strings.Join(kind.Qualifiers, "|") + "]"
	}
}
