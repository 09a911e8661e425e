package report

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeStats compares two document collections position by position and
// returns the number of characters inserted and deleted. Documents past the
// end of the shorter collection count wholly as deletions (or insertions).
func ChangeStats(before, after []string) (inserted, deleted int) {
	dmp := diffmatchpatch.New()

	n := len(before)
	if len(after) < n {
		n = len(after)
	}

	for i := 0; i < n; i++ {
		if before[i] == after[i] {
			continue
		}
		for _, d := range dmp.DiffMain(before[i], after[i], false) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				inserted += utf8.RuneCountInString(d.Text)
			case diffmatchpatch.DiffDelete:
				deleted += utf8.RuneCountInString(d.Text)
			}
		}
	}

	for _, doc := range before[n:] {
		deleted += utf8.RuneCountInString(doc)
	}
	for _, doc := range after[n:] {
		inserted += utf8.RuneCountInString(doc)
	}
	return inserted, deleted
}
