package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/cleanrc/cleanrc/pkg/cleaner"
	"github.com/cleanrc/cleanrc/pkg/report"
)

// NewPreviewCmd creates the preview command
func NewPreviewCmd(opts *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <find> <replace>",
		Short: "Preview a find/replace pattern against the corpus without applying it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			find, replace := args[0], args[1]

			c, err := opts.NewCleaner(ctx, false)
			if err != nil {
				return err
			}

			preview, err := c.PreviewReplace(ctx, find, replace, "")
			if errors.Is(err, cleaner.ErrEmptyResult) {
				// a no-op pattern is worth knowing about, not a failure
				pterm.Warning.Println("No matches found!")
				return nil
			}
			if err != nil {
				return err
			}

			pterm.Println(report.FormatSamples(preview.Samples))
			summary := pterm.Sprintf("%d matches shown across %d documents", len(preview.Samples), preview.DocsWithMatches)
			if preview.Truncated {
				summary += " (sample cap reached, more matches exist)"
			}
			pterm.Info.Println(summary)
			return nil
		},
	}
}
