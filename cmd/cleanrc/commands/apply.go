package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/cleanrc/cleanrc/pkg/cleaner"
)

// NewApplyCmd creates the apply command
func NewApplyCmd(opts *RootOpts) *cobra.Command {
	var (
		note      string
		out       string
		asciiFold bool
	)

	cmd := &cobra.Command{
		Use:   "apply [find replace]",
		Short: "Apply a transformation to the corpus and record it in the history",
		Long: `Apply runs a find/replace rule (or, with --ascii, a unicode-to-ASCII fold)
over the corpus. When a history file is configured it is replayed first,
extended with the new step, and written back, keeping the pipeline
reproducible from the original data.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if asciiFold == (len(args) == 2) {
				return errors.New("provide either <find> <replace> arguments or --ascii")
			}

			c, err := opts.NewCleaner(ctx, true)
			if err != nil {
				return err
			}

			if asciiFold {
				err = c.NormalizeUnicodeToASCII(ctx)
			} else {
				err = c.Replace(ctx, cleaner.Rule{Find: args[0], Replace: args[1], Note: note})
			}
			if err != nil {
				return err
			}

			if opts.HistoryFile != "" {
				if err := c.SaveOperationHistory(ctx, opts.HistoryFile); err != nil {
					return err
				}
			}

			if out != "" {
				return writeDocs(out, c.Docs())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "note to record alongside the operation")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the transformed corpus here ('-' for stdout)")
	cmd.Flags().BoolVar(&asciiFold, "ascii", false, "normalize unicode to ASCII instead of a find/replace")

	return cmd
}
