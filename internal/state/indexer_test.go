package state

import (
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

func TestIndexTree(t *testing.T) {
	store := openStore(t)

	tree := scanFixture(t, map[string]string{
		"index.md": "---\nUUID: 9205c4fa-cd62-4aeb-94a6-29add1a279bc\ntitle: Home\n---\n\n# Welcome\n\n[ch1](./ch1.md)\n\n![fig](./fig.png)\n",
		"ch1.md":   "# Chapter One\n\nsome words here\n",
		"fig.png":  "png",
	})

	summary, err := IndexTree(store, tree)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Indexed)
	assert.Equal(t, 2, summary.Links)
	assert.Equal(t, int64(0), summary.Pruned)

	doc, err := store.GetDocumentByPath("index.md")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Home", doc.Title)
	assert.Equal(t, "9205c4fa-cd62-4aeb-94a6-29add1a279bc", doc.UUID)
	assert.NotEmpty(t, doc.ContentHash)

	ch1, err := store.GetDocumentByPath("ch1.md")
	require.NoError(t, err)
	require.NotNil(t, ch1)
	assert.Equal(t, "Chapter One", ch1.Title)
	assert.Equal(t, 6, ch1.Words)

	links, err := store.LinksFrom("index.md")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, LinkKindRelative, links[0].Kind)
	assert.Equal(t, LinkKindImage, links[1].Kind)
}

func TestIndexTreePrunes(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.UpsertDocument(&Document{Path: "deleted.md"}))

	tree := scanFixture(t, map[string]string{"kept.md": "# Kept\n"})

	summary, err := IndexTree(store, tree)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Pruned)

	gone, err := store.GetDocumentByPath("deleted.md")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestIndexTreeReindexStable(t *testing.T) {
	store := openStore(t)
	tree := scanFixture(t, map[string]string{"a.md": "# A\n"})

	_, err := IndexTree(store, tree)
	require.NoError(t, err)
	first, err := store.GetDocumentByPath("a.md")
	require.NoError(t, err)

	_, err = IndexTree(store, tree)
	require.NoError(t, err)
	second, err := store.GetDocumentByPath("a.md")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ContentHash, second.ContentHash)
}
