package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zerowidth/tlmgr-complete/pkg/helpdoc"
)

func newHelpdocCmd() *cobra.Command {
	var dir, numbers string

	cmd := &cobra.Command{
		Use:   "helpdoc",
		Short: "Split `tlmgr help` output into per-action files",
		Long: `Read the output of "tlmgr help" from stdin and write its OPTIONS section
and every action's documentation to separate files, along with a map of the
line each section starts on. These are the raw material for completion
descriptions.

  tlmgr help | tlmgr-complete helpdoc --dir help_sections`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading help text: %w", err)
			}

			doc := helpdoc.Parse(string(text))
			if len(doc.Actions) == 0 {
				return fmt.Errorf("no actions found in help text")
			}

			written, err := doc.WriteSections(dir)
			if err != nil {
				return err
			}
			if len(numbers) > 0 {
				if err := os.WriteFile(numbers, []byte(doc.Structure(time.Now())), 0644); err != nil {
					return fmt.Errorf("writing %s: %w", numbers, err)
				}
				written = append(written, numbers)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files for %d actions to %s\n", len(written), len(doc.Actions), dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "help_sections", "directory to write sections to")
	cmd.Flags().StringVar(&numbers, "numbers", "section_numbers.txt", "file to write the section map to, none if empty")

	return cmd
}
