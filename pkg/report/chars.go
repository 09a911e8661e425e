package report

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cleanrc/cleanrc/pkg/textmatch"
)

// DefaultProhibitedPattern matches everything outside the plain-ASCII
// character set a cleaned corpus is usually reduced to.
const DefaultProhibitedPattern = `[^A-Za-z0-9 .,]`

// exampleContextChars is how much surrounding text a character example keeps.
const exampleContextChars = 20

// CharCount pairs a character with its occurrence count.
type CharCount struct {
	Char  rune
	Count int
}

// CharReport summarizes the occurrences of prohibited characters across a
// document collection.
type CharReport struct {
	// Total is the overall number of prohibited-character occurrences
	Total int

	// Counts maps each prohibited character to its occurrence count
	Counts map[rune]int

	// Examples holds one context snippet per character, from its first
	// occurrence
	Examples map[rune]string
}

// ProhibitedChars scans every document for characters matching pattern and
// reports per-character counts with example contexts. An empty pattern uses
// DefaultProhibitedPattern.
func ProhibitedChars(docs []string, pattern string) (*CharReport, error) {
	if pattern == "" {
		pattern = DefaultProhibitedPattern
	}
	re, err := textmatch.Compile(pattern)
	if err != nil {
		return nil, err
	}

	r := &CharReport{
		Counts:   map[rune]int{},
		Examples: map[rune]string{},
	}
	for _, doc := range docs {
		for _, loc := range re.FindAllStringIndex(doc, -1) {
			for _, ch := range doc[loc[0]:loc[1]] {
				r.Counts[ch]++
				r.Total++
				if _, ok := r.Examples[ch]; !ok {
					r.Examples[ch] = snippet(doc, loc[0], loc[1])
				}
			}
		}
	}
	return r, nil
}

// MostCommon returns up to n characters ordered by descending count,
// breaking ties by code point for stable output.
func (r *CharReport) MostCommon(n int) []CharCount {
	out := make([]CharCount, 0, len(r.Counts))
	for ch, count := range r.Counts {
		out = append(out, CharCount{Char: ch, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Char < out[j].Char
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Summary renders the totals plus the up-to-10 most common characters, one
// "char (count)" pair each.
func (r *CharReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total of %d occurrences of %d prohibited characters.", r.Total, len(r.Counts))

	top := r.MostCommon(10)
	if len(top) == 0 {
		return b.String()
	}

	pairs := make([]string, 0, len(top))
	for _, cc := range top {
		pairs = append(pairs, fmt.Sprintf("%c (%d)", cc.Char, cc.Count))
	}
	fmt.Fprintf(&b, "\nMost common (up to 10 displayed): %s", strings.Join(pairs, ", "))
	return b.String()
}

// snippet slices up to exampleContextChars bytes of context on each side of
// doc[start:end], clamped to rune boundaries.
func snippet(doc string, start, end int) string {
	from := start - exampleContextChars
	if from < 0 {
		from = 0
	}
	for from > 0 && !utf8.RuneStart(doc[from]) {
		from--
	}

	to := end + exampleContextChars
	if to > len(doc) {
		to = len(doc)
	}
	for to < len(doc) && !utf8.RuneStart(doc[to]) {
		to++
	}

	return doc[from:to]
}
