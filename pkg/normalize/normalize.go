// Package normalize provides the stateless text normalizers used between and
// after replacement steps: whitespace collapsing, unicode-to-ASCII folding,
// and a small table of ASCII equivalents for common typographic characters.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Spaces replaces every maximal run of whitespace with a single ordinary
// space and trims leading and trailing whitespace. Idempotent.
func Spaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ASCIIFold decomposes accented characters to their base ASCII letters and
// drops any remaining non-ASCII characters. "café" becomes "cafe".
func ASCIIFold(s string) string {
	// NFKD first so accents become combining marks, then strip the marks,
	// then drop whatever still falls outside ASCII
	chain := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	folded, _, err := transform.String(chain, s)
	if err != nil {
		// the chain above cannot fail on valid input; fall back to a
		// plain non-ASCII strip for garbage bytes
		return strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return -1
			}
			return r
		}, s)
	}
	return folded
}

// equivalents maps typographic characters to plain ASCII stand-ins.
var equivalents = strings.NewReplacer(
	"’", "'", // right single quote
	"‘", "'", // left single quote
	"ʾ", "'", // modifier letter right half ring
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"…", "...", // horizontal ellipsis
)

// Equivalents replaces smart quotes and similar typographic characters with
// their plain ASCII equivalents, leaving everything else untouched.
func Equivalents(s string) string {
	return equivalents.Replace(s)
}
