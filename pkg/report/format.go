package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/cleanrc/cleanrc/pkg/textmatch"
)

var (
	matchedColor     = color.New(color.FgRed)
	replacementColor = color.New(color.FgGreen)
)

// FormatSample renders one match sample as a two-line before/after pair, the
// matched text in red and the replacement in green. Clipped context gets
// ellipsis markers.
func FormatSample(s textmatch.Sample) string {
	before := s.ContextBefore
	if s.MoreBefore {
		before = "..." + before
	}
	after := s.ContextAfter
	if s.MoreAfter {
		after += "..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "doc %d, match %d/%d:\n", s.DocIndex, s.MatchNumber, s.MatchesInDoc)
	fmt.Fprintf(&b, "  - %s%s%s\n", before, matchedColor.Sprint(s.Matched), after)
	fmt.Fprintf(&b, "  + %s%s%s", before, replacementColor.Sprint(s.Replacement), after)
	return b.String()
}

// FormatSamples renders all samples separated by blank lines.
func FormatSamples(samples []textmatch.Sample) string {
	parts := make([]string, len(samples))
	for i, s := range samples {
		parts[i] = FormatSample(s)
	}
	return strings.Join(parts, "\n")
}
