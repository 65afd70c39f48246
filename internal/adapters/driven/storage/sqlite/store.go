package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/psdshow/vanilla/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
)

// databaseName is the file name of the database inside the data directory.
const databaseName = "embeds.db"

// Store is a SQLite database that provides the document and embed log
// stores through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.vanilla/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vanilla", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, databaseName)

	// WAL lets the TUI and a CLI invocation read the same file.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// EmbedLogStore returns an EmbedLogStore interface backed by this store.
func (s *Store) EmbedLogStore() driven.EmbedLogStore {
	return &embedLogStore{store: s}
}

// migrate runs all pending up migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, content string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(content); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document, replacing its body.
// Placeholders are dropped.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	createdAt, updatedAt := doc.CreatedAt, doc.UpdatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = now
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Title, createdAt.UTC(), updatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing nodes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (document_id, position, id, kind, text, embed)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing node insert: %w", err)
	}
	defer stmt.Close()

	for i, node := range doc.Durable() {
		embedJSON, err := encodeEmbed(node.Embed)
		if err != nil {
			return fmt.Errorf("encoding node %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, i, string(node.ID), node.Kind.String(),
			node.Text, embedJSON); err != nil {
			return fmt.Errorf("saving node %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document and its body by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, created_at, updated_at FROM documents WHERE id = ?
	`, id)

	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.Title, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, kind, text, embed FROM nodes WHERE document_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}

	return &doc, nil
}

// DeleteDocument removes a document. Its nodes cascade.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListDocuments returns all documents without bodies, most recently updated first.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, created_at, updated_at FROM documents
		ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

func scanNode(rows *sql.Rows) (domain.Node, error) {
	var node domain.Node
	var id, kind string
	var embedJSON sql.NullString
	if err := rows.Scan(&id, &kind, &node.Text, &embedJSON); err != nil {
		return node, fmt.Errorf("scanning node: %w", err)
	}

	k, err := domain.ParseNodeKind(kind)
	if err != nil {
		return node, err
	}
	node.ID = domain.NodeID(id)
	node.Kind = k

	if k.IsEmbed() {
		node.Embed, err = decodeEmbed(k, embedJSON.String)
		if err != nil {
			return node, fmt.Errorf("decoding node %s: %w", id, err)
		}
	}
	return node, nil
}

// ==================== Embed Log Store ====================

// embedLogStore implements driven.EmbedLogStore.
type embedLogStore struct {
	store *Store
}

var _ driven.EmbedLogStore = (*embedLogStore)(nil)

// Append records an entry.
func (s *embedLogStore) Append(ctx context.Context, entry domain.EmbedLogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO embed_log (id, document_id, lookup_key, kind, status, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.DocumentID, entry.Key, entry.Kind.String(), string(entry.Status),
		entry.Message, entry.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("appending embed log: %w", err)
	}
	return nil
}

// List returns the most recent entries for a document, newest first.
func (s *embedLogStore) List(ctx context.Context, documentID string, limit int) ([]domain.EmbedLogEntry, error) {
	query := `
		SELECT id, document_id, lookup_key, kind, status, message, created_at
		FROM embed_log`
	var args []any
	if documentID != "" {
		query += " WHERE document_id = ?"
		args = append(args, documentID)
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying embed log: %w", err)
	}
	defer rows.Close()

	var entries []domain.EmbedLogEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.EmbedLogEntry
		var kind, status string
		if err := rows.Scan(&entry.ID, &entry.DocumentID, &entry.Key, &kind, &status,
			&entry.Message, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning embed log: %w", err)
		}
		if entry.Kind, err = domain.ParseNodeKind(kind); err != nil {
			return nil, err
		}
		entry.Status = domain.EmbedStatus(status)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embed log: %w", err)
	}
	return entries, nil
}
