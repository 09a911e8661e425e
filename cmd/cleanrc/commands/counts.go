package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleanrc/cleanrc/pkg/report"
)

// NewCountsCmd creates the counts command
func NewCountsCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show document and word counts for the corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			docs, err := opts.LoadDocs(ctx)
			if err != nil {
				return err
			}

			pterm.Info.Println(report.CountsLine(docs))
			return nil
		},
	}
}
