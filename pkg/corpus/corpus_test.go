package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLoad_OneDocPerFile(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"b.txt":        "second doc",
		"a.txt":        "first doc",
		"sub/c.txt":    "third doc",
		"ignored.json": "not matched",
	})

	docs, err := Load(context.Background(), []string{filepath.Join(dir, "**/*.txt")}, Options{})
	require.NoError(t, err)

	// lexical path order keeps the collection deterministic
	assert.Equal(t, []string{"first doc", "second doc", "third doc"}, docs)
}

func TestLoad_PerLine(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"a.txt": "line one\nline two\n",
		"b.txt": "line three\r\nline four",
	})

	docs, err := Load(context.Background(), []string{filepath.Join(dir, "*.txt")}, Options{PerLine: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"line one", "line two", "line three", "line four"}, docs)
}

func TestLoad_DuplicatePatternsDeduplicated(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"a.txt": "once"})

	pattern := filepath.Join(dir, "*.txt")
	docs, err := Load(context.Background(), []string{pattern, pattern}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"once"}, docs)
}

func TestLoad_NoMatches(t *testing.T) {
	dir := t.TempDir()
	docs, err := Load(context.Background(), []string{filepath.Join(dir, "*.txt")}, Options{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoad_BadPattern(t *testing.T) {
	_, err := Load(context.Background(), []string{"[unclosed"}, Options{})
	require.Error(t, err)
}
