// Package textmatch applies regular-expression find/replace patterns across a
// document collection and samples match locations with surrounding context.
// Matching uses Go's RE2 engine, so a pathological pattern cannot trigger
// catastrophic backtracking.
package textmatch

import (
	"regexp"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// ErrPattern indicates the find pattern is not a valid regular expression.
var ErrPattern = errors.New("invalid find pattern")

// Sample describes a single match location within a document collection.
// Context slices are taken from the original, unmodified document text and
// are clipped at document boundaries.
type Sample struct {
	// DocIndex is the position of the document within the collection
	DocIndex int

	// Position is the byte offset of the match within the document
	Position int

	// MatchNumber is the 1-based number of this match within its document
	MatchNumber int

	// MatchesInDoc is the total number of matches in the same document
	MatchesInDoc int

	// Matched is the exact text the pattern matched
	Matched string

	// Replacement is the locally-substituted replacement text, with
	// capture-group references expanded
	Replacement string

	// ContextBefore and ContextAfter surround the match, clipped at the
	// document bounds
	ContextBefore string
	ContextAfter  string

	// MoreBefore and MoreAfter report whether the document continues
	// beyond the context slices
	MoreBefore bool
	MoreAfter  bool
}

// Compile compiles find, wrapping syntax failures in ErrPattern.
func Compile(find string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(find)
	if err != nil {
		return nil, errors.Errorf("%w: %v", ErrPattern, err)
	}
	return re, nil
}

// Apply performs the substitution on every document independently and returns
// the resulting collection. The inputs are never mutated. Capture-group
// references in replace use the $1 syntax of regexp.Expand.
func Apply(docs []string, find, replace string) ([]string, error) {
	re, err := Compile(find)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(docs))
	for i, doc := range docs {
		out[i] = re.ReplaceAllString(doc, replace)
	}
	return out, nil
}

// FindMatches scans documents in index order, and matches within each
// document left to right, collecting up to maxSamples samples across the
// whole collection. Scanning stops as soon as the cap is reached; truncated
// reports whether it did. contextChars counts characters, not bytes.
func FindMatches(docs []string, find, replace string, maxSamples, contextChars int) (samples []Sample, truncated bool, err error) {
	re, err := Compile(find)
	if err != nil {
		return nil, false, err
	}

	for docIndex, doc := range docs {
		locs := re.FindAllStringSubmatchIndex(doc, -1)
		if len(locs) == 0 {
			continue
		}

		for matchIdx, loc := range locs {
			if maxSamples >= 0 && len(samples) >= maxSamples {
				return samples, true, nil
			}

			start, end := loc[0], loc[1]
			before, moreBefore := contextBefore(doc, start, contextChars)
			after, moreAfter := contextAfter(doc, end, contextChars)

			samples = append(samples, Sample{
				DocIndex:      docIndex,
				Position:      start,
				MatchNumber:   matchIdx + 1,
				MatchesInDoc:  len(locs),
				Matched:       doc[start:end],
				Replacement:   string(re.ExpandString(nil, replace, doc, loc)),
				ContextBefore: before,
				ContextAfter:  after,
				MoreBefore:    moreBefore,
				MoreAfter:     moreAfter,
			})
		}
	}

	return samples, false, nil
}

// contextBefore returns up to n characters of doc ending at byte offset pos,
// and whether any text precedes the slice.
func contextBefore(doc string, pos, n int) (string, bool) {
	start := pos
	for i := 0; i < n && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(doc[:start])
		start -= size
	}
	return doc[start:pos], start > 0
}

// contextAfter returns up to n characters of doc starting at byte offset pos,
// and whether any text follows the slice.
func contextAfter(doc string, pos, n int) (string, bool) {
	end := pos
	for i := 0; i < n && end < len(doc); i++ {
		_, size := utf8.DecodeRuneInString(doc[end:])
		end += size
	}
	return doc[pos:end], end < len(doc)
}
