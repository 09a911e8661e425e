package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleanrc/cleanrc/pkg/report"
)

// NewCharsCmd creates the chars command
func NewCharsCmd(opts *RootOpts) *cobra.Command {
	var (
		pattern  string
		printAll bool
	)

	cmd := &cobra.Command{
		Use:   "chars",
		Short: "Report prohibited characters remaining in the corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			docs, err := opts.LoadDocs(ctx)
			if err != nil {
				return err
			}

			r, err := report.ProhibitedChars(docs, pattern)
			if err != nil {
				return err
			}

			pterm.Info.Println(r.Summary())

			if printAll {
				for _, cc := range r.MostCommon(-1) {
					pterm.Println(fmt.Sprintf("%c (%d)  e.g. %q", cc.Char, cc.Count, r.Examples[cc.Char]))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", report.DefaultProhibitedPattern, "regex matching prohibited characters")
	cmd.Flags().BoolVar(&printAll, "all", false, "list every prohibited character with an example context")

	return cmd
}
