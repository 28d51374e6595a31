package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCacheCmd(opts *options) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the completion cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached completion lists and their age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.environment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			entries, err := env.store.List()
			if err != nil {
				return fmt.Errorf("could not list cache in %s: %w", env.cfg.CacheDir, err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, entry := range entries {
				state := "stale"
				if env.store.Fresh(entry) {
					state = "fresh"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					entry.Key,
					humanize.Comma(int64(len(entry.Values))),
					humanize.Time(entry.StoredAt),
					state)
			}
			return w.Flush()
		},
	})

	return cacheCmd
}
