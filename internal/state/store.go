// Package state persists the document index in SQLite so the index
// command and the live preview server can answer queries without
// re-reading the whole tree.
package state

import "time"

// Document is an indexed markdown file.
type Document struct {
	ID          string
	Path        string
	UUID        string
	Title       string
	Words       int
	ContentHash string
	IndexedAt   time.Time
}

// Link is an indexed link occurrence between documents or out to an
// absolute URL.
type Link struct {
	ID         string
	SourcePath string
	Target     string
	Line       int
	Kind       LinkKind
}

// LinkKind classifies an indexed link.
type LinkKind string

const (
	LinkKindRelative LinkKind = "relative"
	LinkKindAbsolute LinkKind = "absolute"
	LinkKindImage    LinkKind = "image"
)

// IndexStore is the persistence interface for the document index.
type IndexStore interface {
	Open(path string) error
	Close() error
	Migrate() error

	UpsertDocument(doc *Document) error
	GetDocumentByPath(path string) (*Document, error)
	GetDocumentByUUID(id string) (*Document, error)
	ListDocuments() ([]*Document, error)
	DeleteDocumentsExcept(paths []string) (int64, error)

	ReplaceLinks(sourcePath string, links []*Link) error
	LinksFrom(sourcePath string) ([]*Link, error)
	Backlinks(target string) ([]*Link, error)
}
