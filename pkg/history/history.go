// Package history holds the ordered log of cleaning operations applied to a
// document collection, and rebuilds the current collection by replaying the
// log against the original documents.
package history

import (
	"context"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/cleanrc/cleanrc/pkg/normalize"
	"github.com/cleanrc/cleanrc/pkg/textmatch"
)

// Kind distinguishes the operation an entry records.
type Kind string

const (
	// KindReplace is a regular-expression find/replace step
	KindReplace Kind = "replace"

	// KindASCIIFold decomposes accented characters and strips non-ASCII
	KindASCIIFold Kind = "ascii_fold"

	// KindEquivalents replaces typographic characters with ASCII stand-ins
	KindEquivalents Kind = "equivalents"
)

// Entry is a single recorded operation. NormalizeSpaces and DropEmpty are
// frozen at apply time so a later replay repeats them at the same pipeline
// position, regardless of how the cleaner is configured by then.
type Entry struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Find    string `json:"find,omitempty" yaml:"find,omitempty"`
	Replace string `json:"replace" yaml:"replace"`
	Note    string `json:"note,omitempty" yaml:"note,omitempty"`

	NormalizeSpaces bool `json:"normalize_spaces" yaml:"normalize_spaces"`
	DropEmpty       bool `json:"drop_empty" yaml:"drop_empty"`
}

// History is an ordered, append-only log of entries. It is mutated only
// through Append and ReplaceAll so the current documents can never silently
// drift from the record of how they were derived.
type History struct {
	entries []Entry
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// Append adds an entry to the end of the log.
func (h *History) Append(e Entry) {
	h.entries = append(h.entries, e)
}

// ReplaceAll swaps the log wholesale. The caller is responsible for
// refreshing any document collection derived from the previous log.
func (h *History) ReplaceAll(entries []Entry) {
	h.entries = slices.Clone(entries)
}

// Entries returns a copy of the log in order.
func (h *History) Entries() []Entry {
	return slices.Clone(h.entries)
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}

// ApplyEntry applies a single entry to docs and returns the resulting
// collection plus the prior indices of any documents dropped for being empty.
// The input slice is never mutated.
func ApplyEntry(docs []string, e Entry) (out []string, dropped []int, err error) {
	switch e.Kind {
	case KindReplace, "":
		out, err = textmatch.Apply(docs, e.Find, e.Replace)
		if err != nil {
			return nil, nil, err
		}
	case KindASCIIFold:
		out = mapDocs(docs, normalize.ASCIIFold)
	case KindEquivalents:
		out = mapDocs(docs, normalize.Equivalents)
	default:
		return nil, nil, errors.Errorf("%w: unknown entry kind %q", ErrHistoryFormat, e.Kind)
	}

	if e.NormalizeSpaces {
		for i, doc := range out {
			out[i] = normalize.Spaces(doc)
		}
	}

	if e.DropEmpty {
		kept := make([]string, 0, len(out))
		for i, doc := range out {
			if strings.TrimSpace(doc) == "" {
				dropped = append(dropped, i)
				continue
			}
			kept = append(kept, doc)
		}
		out = kept
	}

	return out, dropped, nil
}

// Replay rebuilds the current collection by applying every entry of h, in
// order, to a copy of original. Replaying the same history against the same
// original always yields byte-identical output.
func Replay(ctx context.Context, original []string, h *History) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("entries", h.Len()).Int("docs", len(original)).Msg("replaying operation history")

	docs := slices.Clone(original)
	for i, e := range h.entries {
		var err error
		docs, _, err = ApplyEntry(docs, e)
		if err != nil {
			return nil, errors.Errorf("replaying entry %d: %w", i, err)
		}
	}
	return docs, nil
}

func mapDocs(docs []string, fn func(string) string) []string {
	out := make([]string, len(docs))
	for i, doc := range docs {
		out[i] = fn(doc)
	}
	return out
}
