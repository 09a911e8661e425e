// Copyright 2025 the cleanrc authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cleaner provides the text-cleaning orchestrator: it owns the
// original documents, the current documents, and the operation history, and
// exposes the preview/apply/replace/refresh operations users invoke.
package cleaner

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/cleanrc/cleanrc/pkg/history"
	"github.com/cleanrc/cleanrc/pkg/textmatch"
)

var (
	// ErrEmptyDataset indicates construction with zero documents
	ErrEmptyDataset = errors.New("document collection is empty")

	// ErrEmptyResult indicates a previewed pattern matched nothing
	ErrEmptyResult = errors.New("pattern matched no documents")

	// ErrNoPendingPreview indicates apply was called with nothing previewed
	ErrNoPendingPreview = errors.New("no pending preview to apply")

	// ErrPattern mirrors the pattern matcher's invalid-regexp error so
	// callers can check the whole taxonomy in one place
	ErrPattern = textmatch.ErrPattern
)

// Rule is a single find/replace instruction with an optional note.
type Rule struct {
	Find    string
	Replace string
	Note    string
}

// StepReport describes one completed mutating step. Before and After are
// snapshots of the document collection around the step; DroppedIndices are
// the prior positions of documents removed for being empty.
type StepReport struct {
	Entry          history.Entry
	Before         []string
	After          []string
	DroppedIndices []int
}

// 📢 Reporter receives a StepReport after every successful mutating step when
// the cleaner is verbose. Implementations render counts, diffs, and dropped
// documents however they see fit; the cleaner only hands over data.
type Reporter interface {
	StepApplied(ctx context.Context, report StepReport)
}

// 🔧 Options configures a Cleaner.
type Options struct {
	// NormalizeSpaces runs the space normalizer after every substitution
	NormalizeSpaces bool

	// DropEmpty removes documents that are empty after trimming once a
	// substitution has been applied
	DropEmpty bool

	// NumSamples caps how many match samples a preview collects
	NumSamples int

	// ContextChars is the number of characters shown on each side of a
	// sampled match
	ContextChars int

	// Verbose reports every mutating step to Reporter
	Verbose bool

	// Reporter receives step reports; ignored unless Verbose is set
	Reporter Reporter
}

// DefaultOptions mirror the defaults of the interactive workflow.
func DefaultOptions() Options {
	return Options{
		NormalizeSpaces: true,
		DropEmpty:       true,
		NumSamples:      10,
		ContextChars:    25,
	}
}

// pendingPreview holds the last previewed triple until it is applied,
// overwritten, or invalidated.
type pendingPreview struct {
	find    string
	replace string
	note    string
}

// 🎯 Cleaner owns a document collection and the record of how it was cleaned.
// A Cleaner is not safe for concurrent use; it assumes a single caller and a
// single dataset in memory.
type Cleaner struct {
	opts     Options
	original []string
	current  []string
	history  *history.History
	pending  *pendingPreview
}

// 🏭 New creates a Cleaner over a copy of docs. The original collection is
// immutable from here on; every mutation applies to the working copy and is
// recorded in the history.
func New(docs []string, opts Options) (*Cleaner, error) {
	if len(docs) == 0 {
		return nil, errors.Errorf("%w: need at least one document", ErrEmptyDataset)
	}
	if opts.NumSamples <= 0 {
		opts.NumSamples = DefaultOptions().NumSamples
	}
	if opts.ContextChars <= 0 {
		opts.ContextChars = DefaultOptions().ContextChars
	}

	return &Cleaner{
		opts:     opts,
		original: slices.Clone(docs),
		current:  slices.Clone(docs),
		history:  history.New(),
	}, nil
}

// Original returns a copy of the untouched input collection.
func (c *Cleaner) Original() []string {
	return slices.Clone(c.original)
}

// Docs returns a copy of the current working collection.
func (c *Cleaner) Docs() []string {
	return slices.Clone(c.current)
}

// History returns a copy of the recorded operation entries in order.
func (c *Cleaner) History() []history.Entry {
	return c.history.Entries()
}

// Pending returns the last previewed rule, if any.
func (c *Cleaner) Pending() (Rule, bool) {
	if c.pending == nil {
		return Rule{}, false
	}
	return Rule{Find: c.pending.find, Replace: c.pending.replace, Note: c.pending.note}, true
}

// ApplyLastPreviewed applies exactly the pattern that was last previewed,
// records it, and clears the pending preview. A non-empty note overrides the
// note given at preview time.
func (c *Cleaner) ApplyLastPreviewed(ctx context.Context, note string) error {
	if c.pending == nil {
		return errors.Errorf("%w: call PreviewReplace first", ErrNoPendingPreview)
	}

	p := *c.pending
	if note != "" {
		p.note = note
	}

	if err := c.applyRule(ctx, Rule{Find: p.find, Replace: p.replace, Note: p.note}); err != nil {
		return err
	}
	c.pending = nil
	return nil
}

// Replace applies one or more find/replace rules directly to the current
// collection, without a preview step, appending each to the history in order.
func (c *Cleaner) Replace(ctx context.Context, rules ...Rule) error {
	for i, rule := range rules {
		if err := c.applyRule(ctx, rule); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

// NormalizeUnicodeToASCII decomposes accented characters to their base ASCII
// letters and strips remaining non-ASCII characters from every document. It
// is recorded as a distinguished history entry so replay reproduces it.
func (c *Cleaner) NormalizeUnicodeToASCII(ctx context.Context) error {
	return c.applyEntry(ctx, history.Entry{
		Kind:            history.KindASCIIFold,
		NormalizeSpaces: c.opts.NormalizeSpaces,
		DropEmpty:       c.opts.DropEmpty,
	})
}

// ReplaceEquivalents swaps smart quotes and similar typographic characters
// for plain ASCII, recorded as a distinguished history entry.
func (c *Cleaner) ReplaceEquivalents(ctx context.Context) error {
	return c.applyEntry(ctx, history.Entry{
		Kind:            history.KindEquivalents,
		NormalizeSpaces: c.opts.NormalizeSpaces,
		DropEmpty:       c.opts.DropEmpty,
	})
}

// RefreshLatestDocs recomputes the current collection by replaying the whole
// history against the original documents. Use it after replacing or loading
// the history.
func (c *Cleaner) RefreshLatestDocs(ctx context.Context) error {
	docs, err := history.Replay(ctx, c.original, c.history)
	if err != nil {
		return errors.Errorf("refreshing documents: %w", err)
	}
	c.current = docs
	c.pending = nil
	return nil
}

// ReplaceHistory swaps the operation log wholesale. The current collection
// is left untouched until RefreshLatestDocs is called, so unintended edits
// are never silently discarded.
func (c *Cleaner) ReplaceHistory(entries []history.Entry) {
	c.history.ReplaceAll(entries)
}

// LoadOperationHistory replaces the history with the contents of a persisted
// history file. Entries that do not spell out their normalization and
// empty-drop flags (tuple form in particular) inherit the cleaner's current
// options. Like ReplaceHistory it does not mutate the current collection;
// call RefreshLatestDocs to resynchronize.
func (c *Cleaner) LoadOperationHistory(ctx context.Context, path string) error {
	loaded, err := history.LoadWithDefaults(ctx, path, history.Defaults{
		NormalizeSpaces: c.opts.NormalizeSpaces,
		DropEmpty:       c.opts.DropEmpty,
	})
	if err != nil {
		return errors.Errorf("loading operation history: %w", err)
	}
	c.history.ReplaceAll(loaded.Entries())
	return nil
}

// SaveOperationHistory persists the history so the same pipeline can be
// re-applied later, possibly to a different original dataset.
func (c *Cleaner) SaveOperationHistory(ctx context.Context, path string) error {
	return history.Save(ctx, path, c.history)
}

// applyRule validates the pattern before mutating anything, then records and
// applies a replace entry with the cleaner's current option flags frozen in.
func (c *Cleaner) applyRule(ctx context.Context, rule Rule) error {
	if _, err := textmatch.Compile(rule.Find); err != nil {
		return err
	}
	return c.applyEntry(ctx, history.Entry{
		Kind:            history.KindReplace,
		Find:            rule.Find,
		Replace:         rule.Replace,
		Note:            rule.Note,
		NormalizeSpaces: c.opts.NormalizeSpaces,
		DropEmpty:       c.opts.DropEmpty,
	})
}

func (c *Cleaner) applyEntry(ctx context.Context, entry history.Entry) error {
	logger := zerolog.Ctx(ctx)

	before := c.current
	after, dropped, err := history.ApplyEntry(before, entry)
	if err != nil {
		return err
	}

	c.current = after
	c.history.Append(entry)

	logger.Debug().
		Str("kind", string(entry.Kind)).
		Str("find", entry.Find).
		Int("docs_before", len(before)).
		Int("docs_after", len(after)).
		Ints("dropped", dropped).
		Msg("applied operation")

	if c.opts.Verbose && c.opts.Reporter != nil {
		c.opts.Reporter.StepApplied(ctx, StepReport{
			Entry:          entry,
			Before:         slices.Clone(before),
			After:          slices.Clone(after),
			DroppedIndices: dropped,
		})
	}
	return nil
}
