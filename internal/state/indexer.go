package state

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/TroyWilliams3687/md-tools/internal/markdown"
)

// IndexSummary reports what an indexing pass did.
type IndexSummary struct {
	Indexed int   `json:"indexed"`
	Links   int   `json:"links"`
	Pruned  int64 `json:"pruned"`
}

// IndexTree refreshes the store from a scanned tree: every document is
// upserted with its links, and rows for files no longer on disk are
// pruned.
func IndexTree(store IndexStore, tree *markdown.Tree) (*IndexSummary, error) {
	summary := &IndexSummary{}

	var paths []string
	for _, doc := range tree.Docs {
		rel := tree.Rel(doc.Path)
		paths = append(paths, rel)

		row := &Document{
			Path:        rel,
			Words:       wordCount(doc),
			ContentHash: contentHash(doc),
			Title:       title(doc),
		}
		if doc.Meta != nil {
			row.UUID = doc.Meta.UUID
		}
		if err := store.UpsertDocument(row); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", rel, err)
		}
		summary.Indexed++

		links := collectLinks(doc)
		if err := store.ReplaceLinks(rel, links); err != nil {
			return nil, fmt.Errorf("failed to index links of %s: %w", rel, err)
		}
		summary.Links += len(links)
	}

	pruned, err := store.DeleteDocumentsExcept(paths)
	if err != nil {
		return nil, err
	}
	summary.Pruned = pruned

	return summary, nil
}

func collectLinks(doc *markdown.Document) []*Link {
	var links []*Link
	for _, l := range doc.AllLinks() {
		kind := LinkKindRelative
		if markdown.IsAbsoluteURL(l.URL) {
			kind = LinkKindAbsolute
		}
		links = append(links, &Link{Target: l.URL, Line: l.Line + 1, Kind: kind})
	}
	for _, l := range doc.ImageLinks() {
		links = append(links, &Link{Target: l.URL, Line: l.Line + 1, Kind: LinkKindImage})
	}
	return links
}

func wordCount(doc *markdown.Document) int {
	words := 0
	for _, nl := range markdown.OutsideFences(doc.Lines) {
		words += len(strings.Fields(nl.Line))
	}
	return words
}

func contentHash(doc *markdown.Document) string {
	sum := sha256.Sum256([]byte(strings.Join(doc.Lines, "\n")))
	return hex.EncodeToString(sum[:])
}

// title returns the metadata title when present, falling back to the
// first header.
func title(doc *markdown.Document) string {
	if doc.Meta != nil {
		if v, ok := doc.Meta.Fields["title"]; ok {
			return fmt.Sprintf("%v", v)
		}
	}
	if headers := doc.Headers(); len(headers) > 0 {
		return headers[0].Text
	}
	return ""
}
