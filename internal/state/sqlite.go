package state

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements IndexStore using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite index store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	} else {
		dsn = ":memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// --- Document operations ---

// UpsertDocument inserts a document or updates the row with the same
// path, preserving its ID.
func (s *SQLiteStore) UpsertDocument(doc *Document) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()

	existing, err := s.GetDocumentByPath(doc.Path)
	if err != nil {
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	if existing != nil {
		doc.ID = existing.ID
		doc.IndexedAt = now

		_, err := s.db.Exec(
			`UPDATE documents SET uuid = ?, title = ?, words = ?, content_hash = ?, indexed_at = ? WHERE id = ?`,
			doc.UUID, doc.Title, doc.Words, doc.ContentHash, doc.IndexedAt, doc.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}
	} else {
		if doc.ID == "" {
			doc.ID = generateID()
		}
		doc.IndexedAt = now

		_, err := s.db.Exec(
			`INSERT INTO documents (id, path, uuid, title, words, content_hash, indexed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			doc.ID, doc.Path, doc.UUID, doc.Title, doc.Words, doc.ContentHash, doc.IndexedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}

	return nil
}

// GetDocumentByPath retrieves a document by its root-relative path.
func (s *SQLiteStore) GetDocumentByPath(path string) (*Document, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	return s.getDocument(`SELECT id, path, uuid, title, words, content_hash, indexed_at FROM documents WHERE path = ?`, path)
}

// GetDocumentByUUID retrieves a document by its metadata UUID.
func (s *SQLiteStore) GetDocumentByUUID(id string) (*Document, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	return s.getDocument(`SELECT id, path, uuid, title, words, content_hash, indexed_at FROM documents WHERE uuid = ?`, id)
}

func (s *SQLiteStore) getDocument(query string, arg any) (*Document, error) {
	doc := &Document{}
	var docUUID, title sql.NullString

	err := s.db.QueryRow(query, arg).Scan(&doc.ID, &doc.Path, &docUUID, &title, &doc.Words, &doc.ContentHash, &doc.IndexedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, return nil without error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	if docUUID.Valid {
		doc.UUID = docUUID.String
	}
	if title.Valid {
		doc.Title = title.String
	}
	return doc, nil
}

// ListDocuments retrieves all indexed documents ordered by path.
func (s *SQLiteStore) ListDocuments() ([]*Document, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, path, uuid, title, words, content_hash, indexed_at FROM documents ORDER BY path`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc := &Document{}
		var docUUID, title sql.NullString

		if err := rows.Scan(&doc.ID, &doc.Path, &docUUID, &title, &doc.Words, &doc.ContentHash, &doc.IndexedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		if docUUID.Valid {
			doc.UUID = docUUID.String
		}
		if title.Valid {
			doc.Title = title.String
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// DeleteDocumentsExcept removes documents whose path is not in the
// given set and returns how many were removed. Used after a scan to
// drop files deleted from the tree.
func (s *SQLiteStore) DeleteDocumentsExcept(paths []string) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	if len(paths) == 0 {
		result, err := s.db.Exec(`DELETE FROM documents`)
		if err != nil {
			return 0, fmt.Errorf("failed to clear documents: %w", err)
		}
		return result.RowsAffected()
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(paths)), ",")
	args := make([]any, len(paths))
	for i, p := range paths {
		args[i] = p
	}

	result, err := s.db.Exec(
		fmt.Sprintf(`DELETE FROM documents WHERE path NOT IN (%s)`, placeholders),
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune documents: %w", err)
	}
	return result.RowsAffected()
}

// --- Link operations ---

// ReplaceLinks replaces the indexed links of a source document.
func (s *SQLiteStore) ReplaceLinks(sourcePath string, links []*Link) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM links WHERE source_path = ?`, sourcePath); err != nil {
		return fmt.Errorf("failed to delete existing links: %w", err)
	}

	for _, link := range links {
		if link.ID == "" {
			link.ID = generateID()
		}
		link.SourcePath = sourcePath
		_, err := tx.Exec(
			`INSERT INTO links (id, source_path, target, line, kind) VALUES (?, ?, ?, ?, ?)`,
			link.ID, link.SourcePath, link.Target, link.Line, link.Kind,
		)
		if err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LinksFrom retrieves the indexed links of a source document.
func (s *SQLiteStore) LinksFrom(sourcePath string) ([]*Link, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	return s.queryLinks(`SELECT id, source_path, target, line, kind FROM links WHERE source_path = ? ORDER BY line`, sourcePath)
}

// Backlinks retrieves the indexed links pointing at a target.
func (s *SQLiteStore) Backlinks(target string) ([]*Link, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	return s.queryLinks(`SELECT id, source_path, target, line, kind FROM links WHERE target = ? ORDER BY source_path, line`, target)
}

func (s *SQLiteStore) queryLinks(query string, arg any) ([]*Link, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []*Link
	for rows.Next() {
		link := &Link{}
		if err := rows.Scan(&link.ID, &link.SourcePath, &link.Target, &link.Line, &link.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

// Ensure SQLiteStore implements IndexStore interface
var _ IndexStore = (*SQLiteStore)(nil)
