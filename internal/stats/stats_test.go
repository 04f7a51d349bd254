package stats

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TroyWilliams3687/md-tools/internal/markdown"
)

func scanFixture(t *testing.T, files map[string]string) *markdown.Tree {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	tree, err := markdown.ScanTree(context.Background(), root)
	require.NoError(t, err)
	return tree
}

func TestCollect(t *testing.T) {
	tree := scanFixture(t, map[string]string{
		"a.md": "# Title\n\none two three\n",
		"b.md": "---\nUUID: x\ntitle: skipped words here\n---\n\nfour five\n",
	})

	report, err := Collect(context.Background(), tree)
	require.NoError(t, err)

	require.Len(t, report.Documents, 2)
	assert.Equal(t, "a.md", report.Documents[0].File)
	assert.Equal(t, 5, report.Documents[0].Words)
	assert.Equal(t, "b.md", report.Documents[1].File)
	assert.Equal(t, 2, report.Documents[1].Words)
	assert.Equal(t, 7, report.Words)
	assert.InDelta(t, 7.0/500.0, report.Pages, 1e-9)
}

func TestCollectSkipsCodeFences(t *testing.T) {
	tree := scanFixture(t, map[string]string{
		"a.md": "real words\n```\nfenced words do not count at all\n```\n",
	})

	report, err := Collect(context.Background(), tree)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Words)
	assert.Equal(t, 7, report.CodeWords)
}

func TestRender(t *testing.T) {
	tree := scanFixture(t, map[string]string{
		"a.md": "one two\n",
	})

	report, err := Collect(context.Background(), tree)
	require.NoError(t, err)

	var buf bytes.Buffer
	report.Render(&buf)

	out := buf.String()
	assert.Contains(t, out, "a.md")
	assert.Contains(t, out, "1 DOCUMENTS")
}
