// Package commands contains the cleanrc subcommands. They are thin
// collaborators over the library packages: the cleaner exposes data and the
// commands render it.
package commands

import (
	"context"
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/cleanrc/cleanrc/pkg/cleaner"
	"github.com/cleanrc/cleanrc/pkg/corpus"
	"github.com/cleanrc/cleanrc/pkg/report"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Globs   []string
	PerLine bool

	HistoryFile     string
	NormalizeSpaces bool
	DropEmpty       bool
	NumSamples      int
	ContextChars    int
}

// LoadDocs reads the corpus named by the glob flags.
func (o *RootOpts) LoadDocs(ctx context.Context) ([]string, error) {
	if len(o.Globs) == 0 {
		return nil, errors.New("at least one --glob pattern is required")
	}
	docs, err := corpus.Load(ctx, o.Globs, corpus.Options{PerLine: o.PerLine})
	if err != nil {
		return nil, errors.Errorf("loading corpus: %w", err)
	}
	return docs, nil
}

// NewCleaner builds a cleaner over the corpus with a console reporter
// attached, and replays the history file into it when one is configured.
func (o *RootOpts) NewCleaner(ctx context.Context, verbose bool) (*cleaner.Cleaner, error) {
	docs, err := o.LoadDocs(ctx)
	if err != nil {
		return nil, err
	}

	c, err := cleaner.New(docs, cleaner.Options{
		NormalizeSpaces: o.NormalizeSpaces,
		DropEmpty:       o.DropEmpty,
		NumSamples:      o.NumSamples,
		ContextChars:    o.ContextChars,
		Verbose:         verbose,
		Reporter:        report.NewConsoleReporter(),
	})
	if err != nil {
		return nil, err
	}

	if o.HistoryFile != "" {
		if _, statErr := os.Stat(o.HistoryFile); statErr == nil {
			if err := c.LoadOperationHistory(ctx, o.HistoryFile); err != nil {
				return nil, err
			}
			if err := c.RefreshLatestDocs(ctx); err != nil {
				return nil, errors.Errorf("replaying history file: %w", err)
			}
		}
	}
	return c, nil
}

// writeDocs writes the collection one document per line, to stdout when path
// is empty or "-".
func writeDocs(path string, docs []string) error {
	content := strings.Join(docs, "\n") + "\n"
	if path == "" || path == "-" {
		_, err := os.Stdout.WriteString(content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Errorf("writing output: %w", err)
	}
	return nil
}
