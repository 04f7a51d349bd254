package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate())
	return store
}

func TestMigrate(t *testing.T) {
	store := openStore(t)

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, int64(1))
}

func TestUpsertDocument(t *testing.T) {
	store := openStore(t)

	doc := &Document{
		Path:        "ch1.md",
		UUID:        "9205c4fa-cd62-4aeb-94a6-29add1a279bc",
		Title:       "Chapter One",
		Words:       120,
		ContentHash: "abc",
	}
	require.NoError(t, store.UpsertDocument(doc))
	require.NotEmpty(t, doc.ID)
	assert.WithinDuration(t, time.Now().UTC(), doc.IndexedAt, time.Minute)

	// Upsert with the same path keeps the ID.
	id := doc.ID
	updated := &Document{Path: "ch1.md", Title: "Chapter One, Revised", Words: 150, ContentHash: "def"}
	require.NoError(t, store.UpsertDocument(updated))
	assert.Equal(t, id, updated.ID)

	got, err := store.GetDocumentByPath("ch1.md")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Chapter One, Revised", got.Title)
	assert.Equal(t, 150, got.Words)
}

func TestGetDocumentByUUID(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.UpsertDocument(&Document{
		Path: "ch1.md",
		UUID: "1e2ad0be-bf4e-4b39-b044-ef0bf4f6a5cf",
	}))

	got, err := store.GetDocumentByUUID("1e2ad0be-bf4e-4b39-b044-ef0bf4f6a5cf")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ch1.md", got.Path)

	missing, err := store.GetDocumentByUUID("not-there")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListAndPruneDocuments(t *testing.T) {
	store := openStore(t)

	for _, path := range []string{"a.md", "b.md", "c.md"} {
		require.NoError(t, store.UpsertDocument(&Document{Path: path}))
	}

	docs, err := store.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a.md", docs[0].Path)

	pruned, err := store.DeleteDocumentsExcept([]string{"a.md", "c.md"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	docs, err = store.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 2)
}

func TestReplaceLinks(t *testing.T) {
	store := openStore(t)

	links := []*Link{
		{Target: "./ch2.md", Line: 3, Kind: LinkKindRelative},
		{Target: "https://example.com", Line: 7, Kind: LinkKindAbsolute},
	}
	require.NoError(t, store.ReplaceLinks("ch1.md", links))

	got, err := store.LinksFrom("ch1.md")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "./ch2.md", got[0].Target)
	assert.Equal(t, LinkKindRelative, got[0].Kind)

	// Replacing drops the old rows.
	require.NoError(t, store.ReplaceLinks("ch1.md", []*Link{
		{Target: "./ch3.md", Line: 1, Kind: LinkKindRelative},
	}))
	got, err = store.LinksFrom("ch1.md")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "./ch3.md", got[0].Target)
}

func TestBacklinks(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.ReplaceLinks("a.md", []*Link{{Target: "./shared.md", Line: 1, Kind: LinkKindRelative}}))
	require.NoError(t, store.ReplaceLinks("b.md", []*Link{{Target: "./shared.md", Line: 4, Kind: LinkKindRelative}}))

	got, err := store.Backlinks("./shared.md")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.md", got[0].SourcePath)
	assert.Equal(t, "b.md", got[1].SourcePath)
}

func TestNotOpened(t *testing.T) {
	store := NewSQLiteStore()
	err := store.UpsertDocument(&Document{Path: "x.md"})
	assert.Error(t, err)
}
