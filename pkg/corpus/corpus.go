// Package corpus builds a document collection from files on disk. It is a
// collaborator of the cleaner, not part of it: the cleaner only ever sees an
// ordered sequence of strings.
package corpus

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// readConcurrency bounds how many files are read at once.
const readConcurrency = 8

// Options configures how files become documents.
type Options struct {
	// PerLine treats every line of every file as its own document
	// instead of one document per file
	PerLine bool
}

// Load reads every file matching the doublestar glob patterns and returns
// the documents in a deterministic order: paths sorted lexically, duplicates
// removed, file content in path order.
func Load(ctx context.Context, patterns []string, opts Options) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	paths, err := expand(patterns)
	if err != nil {
		return nil, err
	}
	logger.Debug().Strs("patterns", patterns).Int("files", len(paths)).Msg("loading corpus")

	contents := make([]string, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Errorf("reading %s: %w", path, err)
			}
			contents[i] = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !opts.PerLine {
		return contents, nil
	}

	var docs []string
	for _, content := range contents {
		content = strings.TrimSuffix(content, "\n")
		if content == "" {
			continue
		}
		for _, line := range strings.Split(content, "\n") {
			docs = append(docs, strings.TrimSuffix(line, "\r"))
		}
	}
	return docs, nil
}

// expand resolves the glob patterns to a sorted, de-duplicated path list.
func expand(patterns []string) ([]string, error) {
	seen := map[string]struct{}{}
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Errorf("bad glob pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
