package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleanrc/cleanrc/cmd/cleanrc/commands"
)

var (
	// Flags
	globs   []string
	perLine bool
	debug   bool

	rootOpts commands.RootOpts
)

// newRootCmd wires the shared corpus and cleaner flags into every
// subcommand.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanrc",
		Short: "Clean text document collections with reproducible find/replace pipelines",
		Long: `cleanrc applies previewable, reapplyable find/replace transformations to a
collection of text documents, recording every step in an operation history so
the whole pipeline can be replayed against the original data.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
			rootOpts.Globs = globs
			rootOpts.PerLine = perLine
		},
	}

	cmd.PersistentFlags().StringArrayVarP(&globs, "glob", "g", nil, "glob pattern for corpus files (repeatable)")
	cmd.PersistentFlags().BoolVar(&perLine, "per-line", false, "treat each line as its own document")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&rootOpts.HistoryFile, "history", "", "operation history file (.yaml, .json, .hcl, or .cleanrc)")
	cmd.PersistentFlags().BoolVar(&rootOpts.NormalizeSpaces, "normalize-spaces", true, "collapse whitespace runs after every substitution")
	cmd.PersistentFlags().BoolVar(&rootOpts.DropEmpty, "drop-empty", true, "drop documents that end up empty after a substitution")
	cmd.PersistentFlags().IntVar(&rootOpts.NumSamples, "samples", 10, "number of match samples to preview")
	cmd.PersistentFlags().IntVar(&rootOpts.ContextChars, "context", 25, "characters of context around each sampled match")

	cmd.AddCommand(commands.NewCountsCmd(&rootOpts))
	cmd.AddCommand(commands.NewCharsCmd(&rootOpts))
	cmd.AddCommand(commands.NewPreviewCmd(&rootOpts))
	cmd.AddCommand(commands.NewApplyCmd(&rootOpts))
	cmd.AddCommand(commands.NewReplayCmd(&rootOpts))

	return cmd
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
