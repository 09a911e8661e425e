package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanrc/cleanrc/pkg/textmatch"
)

func TestHistory_AppendAndEntries(t *testing.T) {
	h := New()
	assert.Equal(t, 0, h.Len())

	h.Append(Entry{Kind: KindReplace, Find: "a", Replace: "b"})
	h.Append(Entry{Kind: KindASCIIFold})
	require.Equal(t, 2, h.Len())

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Find)
	assert.Equal(t, KindASCIIFold, entries[1].Kind)

	// the returned slice is a copy, mutating it must not touch the log
	entries[0].Find = "mutated"
	assert.Equal(t, "a", h.Entries()[0].Find)
}

func TestHistory_ReplaceAll(t *testing.T) {
	h := New()
	h.Append(Entry{Kind: KindReplace, Find: "old", Replace: ""})

	replacement := []Entry{
		{Kind: KindReplace, Find: "x", Replace: "y"},
		{Kind: KindEquivalents},
	}
	h.ReplaceAll(replacement)

	require.Equal(t, 2, h.Len())
	assert.Equal(t, "x", h.Entries()[0].Find)

	// wholesale replacement copies, later edits to the input are invisible
	replacement[0].Find = "mutated"
	assert.Equal(t, "x", h.Entries()[0].Find)
}

func TestApplyEntry(t *testing.T) {
	tests := []struct {
		name        string
		docs        []string
		entry       Entry
		want        []string
		wantDropped []int
		wantErr     error
	}{
		{
			name:  "replace",
			docs:  []string{"a (1) b", "(2) c d"},
			entry: Entry{Kind: KindReplace, Find: `\(\d\)`, Replace: ""},
			want:  []string{"a  b", " c d"},
		},
		{
			name:  "replace_with_space_normalization",
			docs:  []string{"a  (1) b", "(2) c d"},
			entry: Entry{Kind: KindReplace, Find: `\(\d\)`, Replace: "", NormalizeSpaces: true},
			want:  []string{"a b", "c d"},
		},
		{
			name:        "drop_empty_records_prior_indices",
			docs:        []string{"x", "(1)", "y", " (2) "},
			entry:       Entry{Kind: KindReplace, Find: `\(\d\)`, Replace: "", DropEmpty: true},
			want:        []string{"x", "y"},
			wantDropped: []int{1, 3},
		},
		{
			name:  "ascii_fold",
			docs:  []string{"café", "naïve"},
			entry: Entry{Kind: KindASCIIFold},
			want:  []string{"cafe", "naive"},
		},
		{
			name:  "equivalents",
			docs:  []string{"it’s “ok”"},
			entry: Entry{Kind: KindEquivalents},
			want:  []string{`it's "ok"`},
		},
		{
			name:  "empty_kind_defaults_to_replace",
			docs:  []string{"aa"},
			entry: Entry{Find: "a", Replace: "b"},
			want:  []string{"bb"},
		},
		{
			name:    "invalid_pattern",
			docs:    []string{"x"},
			entry:   Entry{Kind: KindReplace, Find: "(", Replace: ""},
			wantErr: textmatch.ErrPattern,
		},
		{
			name:    "unknown_kind",
			docs:    []string{"x"},
			entry:   Entry{Kind: "bogus"},
			wantErr: ErrHistoryFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped, err := ApplyEntry(tt.docs, tt.entry)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDropped, dropped)
		})
	}
}

func TestApplyEntry_DoesNotMutateInput(t *testing.T) {
	docs := []string{"a  b", ""}
	_, _, err := ApplyEntry(docs, Entry{Kind: KindReplace, Find: "a", Replace: "x", NormalizeSpaces: true, DropEmpty: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a  b", ""}, docs)
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	original := []string{"a  (1) b", "(2) c d"}

	h := New()
	h.Append(Entry{Kind: KindReplace, Find: `\(\d\)`, Replace: "", NormalizeSpaces: true})

	got, err := Replay(ctx, original, h)
	require.NoError(t, err)
	assert.Equal(t, []string{"a b", "c d"}, got)

	// the original collection is untouched
	assert.Equal(t, []string{"a  (1) b", "(2) c d"}, original)
}

func TestReplay_Deterministic(t *testing.T) {
	ctx := context.Background()
	original := []string{"one (1)", "café  two", "", "three…"}

	h := New()
	h.Append(Entry{Kind: KindReplace, Find: `\(\d\)`, Replace: "", NormalizeSpaces: true, DropEmpty: true})
	h.Append(Entry{Kind: KindEquivalents})
	h.Append(Entry{Kind: KindASCIIFold, NormalizeSpaces: true})

	first, err := Replay(ctx, original, h)
	require.NoError(t, err)
	second, err := Replay(ctx, original, h)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReplay_DropEmptyIsPerEntry(t *testing.T) {
	ctx := context.Background()
	original := []string{"x", ""}

	h := New()
	// the drop decision is recorded on the entry, so replay reproduces the
	// shorter collection even though nothing about the replay call says so
	h.Append(Entry{Kind: KindReplace, Find: `x`, Replace: "y", DropEmpty: true})

	got, err := Replay(ctx, original, h)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, got)
}

func TestReplay_EmptyHistoryCopiesOriginal(t *testing.T) {
	ctx := context.Background()
	original := []string{"a", "b"}

	got, err := Replay(ctx, original, New())
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestReplay_BadEntryFailsWholeCall(t *testing.T) {
	ctx := context.Background()
	h := New()
	h.Append(Entry{Kind: KindReplace, Find: "[", Replace: ""})

	_, err := Replay(ctx, []string{"x"}, h)
	assert.ErrorIs(t, err, textmatch.ErrPattern)
}
