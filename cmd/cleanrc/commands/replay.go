package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/cleanrc/cleanrc/pkg/report"
)

// NewReplayCmd creates the replay command
func NewReplayCmd(opts *RootOpts) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild the corpus by replaying the history file against the original documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if opts.HistoryFile == "" {
				return errors.New("--history is required for replay")
			}

			c, err := opts.NewCleaner(ctx, false)
			if err != nil {
				return err
			}

			// NewCleaner already replayed an existing history file; a
			// missing one is an error here rather than a clean slate
			if len(c.History()) == 0 {
				if err := c.LoadOperationHistory(ctx, opts.HistoryFile); err != nil {
					return err
				}
				if err := c.RefreshLatestDocs(ctx); err != nil {
					return err
				}
			}

			pterm.Info.Println(report.CountsLine(c.Docs()))

			if out != "" {
				return writeDocs(out, c.Docs())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the rebuilt corpus here ('-' for stdout)")

	return cmd
}
