package cleaner

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/cleanrc/cleanrc/pkg/normalize"
	"github.com/cleanrc/cleanrc/pkg/textmatch"
)

// Preview is the read-only result of previewing a pending pattern against
// the current collection.
type Preview struct {
	// Samples are up to NumSamples match locations across the collection
	Samples []textmatch.Sample

	// DocsWithMatches counts the distinct documents the samples came from
	DocsWithMatches int

	// Truncated reports that scanning stopped early at the sample cap, so
	// the totals cover only the scanned prefix of the collection
	Truncated bool
}

// PreviewReplace samples the effect of a find/replace pattern on the current
// collection without mutating it, and records the triple as the pending
// preview for ApplyLastPreviewed. When space normalization is enabled each
// sample's replacement text is normalized too, so the preview shows exactly
// the post-normalization outcome.
//
// A pattern that matches nothing returns ErrEmptyResult and leaves the
// pending preview unset.
func (c *Cleaner) PreviewReplace(ctx context.Context, find, replace, note string) (*Preview, error) {
	logger := zerolog.Ctx(ctx)

	samples, truncated, err := textmatch.FindMatches(c.current, find, replace, c.opts.NumSamples, c.opts.ContextChars)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		c.pending = nil
		return nil, errors.Errorf("%w: %q would be a no-op", ErrEmptyResult, find)
	}

	if c.opts.NormalizeSpaces {
		for i := range samples {
			samples[i].Replacement = normalize.Spaces(samples[i].Replacement)
		}
	}

	docsSeen := map[int]struct{}{}
	for _, s := range samples {
		docsSeen[s.DocIndex] = struct{}{}
	}

	c.pending = &pendingPreview{find: find, replace: replace, note: note}

	logger.Debug().
		Str("find", find).
		Int("samples", len(samples)).
		Int("docs_with_matches", len(docsSeen)).
		Bool("truncated", truncated).
		Msg("previewed replacement")

	return &Preview{
		Samples:         samples,
		DocsWithMatches: len(docsSeen),
		Truncated:       truncated,
	}, nil
}
