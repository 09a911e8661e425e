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

package report

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/cleanrc/cleanrc/pkg/cleaner"
	"github.com/cleanrc/cleanrc/pkg/history"
)

// 📢 ConsoleReporter renders mutating steps to the terminal so a replacement
// that silently empties half the corpus is always visible.
type ConsoleReporter struct{}

// 🎯 NewConsoleReporter creates a reporter that logs debug detail through the
// context logger and prints user-facing summaries with pterm.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// StepApplied implements cleaner.Reporter.
func (r *ConsoleReporter) StepApplied(ctx context.Context, report cleaner.StepReport) {
	logger := zerolog.Ctx(ctx)

	docsBefore, wordsBefore := DocWordCounts(report.Before)
	docsAfter, wordsAfter := DocWordCounts(report.After)
	inserted, deleted := ChangeStats(report.Before, report.After)

	pterm.Info.Println(describeEntry(report.Entry))
	pterm.Success.Printf("%d words in %d documents (was %d words in %d documents, +%d/-%d chars)\n",
		wordsAfter, docsAfter, wordsBefore, docsBefore, inserted, deleted)

	if len(report.DroppedIndices) > 0 {
		pterm.Warning.Printf("dropped %d empty documents (indices %v)\n",
			len(report.DroppedIndices), report.DroppedIndices)
	}

	logger.Debug().
		Str("kind", string(report.Entry.Kind)).
		Int("docs_before", docsBefore).
		Int("docs_after", docsAfter).
		Int("words_before", wordsBefore).
		Int("words_after", wordsAfter).
		Msg("step reported")
}

// describeEntry renders an entry as a one-line human description.
func describeEntry(e history.Entry) string {
	switch e.Kind {
	case history.KindASCIIFold:
		return "normalized unicode to ASCII"
	case history.KindEquivalents:
		return "replaced typographic characters with ASCII equivalents"
	default:
		desc := fmt.Sprintf("replaced /%s/ with %q", e.Find, e.Replace)
		if e.Note != "" {
			desc += fmt.Sprintf(" (%s)", e.Note)
		}
		return desc
	}
}
