package repair

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/TroyWilliams3687/md-tools/internal/markdown"
)

// HeaderFix records a section attribute added to an ATX header.
type HeaderFix struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Header    string `json:"header"`
	Attribute string `json:"attribute"`
}

// HeaderResult is the outcome of a header repair pass.
type HeaderResult struct {
	Fixes   []HeaderFix `json:"fixes"`
	Changed []string    `json:"changed,omitempty"`
}

// Headers appends a section attribute to every ATX header that lacks
// one, so pandoc-style cross references have a stable anchor. The
// attribute is {#sec:<fileid>_<ordinal>} where the file ID is derived
// from the document's path and the ordinal counts headers within the
// document.
func Headers(tree *markdown.Tree, opts Options) (*HeaderResult, error) {
	result := &HeaderResult{}

	for _, doc := range tree.Docs {
		rel := tree.Rel(doc.Path)
		id := fileID(rel)
		dirty := false

		for ordinal, header := range doc.Headers() {
			if markdown.HasSectionAttribute(doc.Lines[header.Line]) {
				continue
			}

			attribute := fmt.Sprintf("{#sec:%s_%d}", id, ordinal)
			doc.Lines[header.Line] = doc.Lines[header.Line] + " " + attribute
			dirty = true

			result.Fixes = append(result.Fixes, HeaderFix{
				File:      rel,
				Line:      header.Line + 1,
				Header:    header.Text,
				Attribute: attribute,
			})
		}

		if dirty && !opts.DryRun {
			if err := doc.Write(); err != nil {
				return nil, err
			}
			result.Changed = append(result.Changed, rel)
		}
	}

	return result, nil
}

// fileID derives a short stable identifier from a document path, ten
// hex digits of its SHA-256 grouped xxx-xxx-xxxx.
func fileID(rel string) string {
	sum := sha256.Sum256([]byte(filepath.ToSlash(rel)))
	h := hex.EncodeToString(sum[:])[:10]
	return h[:3] + "-" + h[3:6] + "-" + h[6:10]
}
