// Package report provides the presentation-side collaborators of the text
// cleaner: document and word counting, prohibited-character reporting,
// colorized preview formatting, and a console reporter for mutating steps.
// The cleaner itself only exposes data; everything user-facing lives here.
package report

import (
	"fmt"
	"strings"
)

// WordCount counts words in s, where a word is a maximal run of
// non-whitespace characters. No tokenizer involved.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// DocWordCounts returns the number of documents and the total word count
// across the collection.
func DocWordCounts(docs []string) (docCount, wordCount int) {
	for _, doc := range docs {
		wordCount += WordCount(doc)
	}
	return len(docs), wordCount
}

// CountsLine renders the counts the way the interactive workflow prints
// them after every operation.
func CountsLine(docs []string) string {
	docCount, wordCount := DocWordCounts(docs)
	return fmt.Sprintf("%d words in %d documents.", wordCount, docCount)
}
