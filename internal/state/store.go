// Package state persists build history: one row per build plus per-document
// checksums, so consecutive scans can report what changed.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed build history store.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// DocumentRecord is the per-document row captured for each build.
type DocumentRecord struct {
	Identifier string
	Path       string
	Checksum   string
}

// Build summarizes one recorded build.
type Build struct {
	ID        string
	Started   time.Time
	Finished  time.Time
	Documents int
	Skipped   int
	Outcome   string
}

// Changes is the document-level diff between two builds.
type Changes struct {
	Added   []string
	Changed []string
	Removed []string
}

// Empty reports whether no documents were added, changed, or removed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Changed) == 0 && len(c.Removed) == 0
}

// Open opens (creating if needed) the store at dbPath.
// Use ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started INTEGER NOT NULL,
		finished INTEGER,
		documents INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		outcome TEXT NOT NULL DEFAULT 'running'
	);
	CREATE TABLE IF NOT EXISTS documents (
		build_id TEXT NOT NULL,
		identifier TEXT NOT NULL,
		path TEXT NOT NULL,
		checksum TEXT NOT NULL,
		PRIMARY KEY (build_id, identifier)
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// BeginBuild records the start of a build and returns its id.
func (s *Store) BeginBuild(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, started) VALUES (?, ?)",
		id, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert build: %w", err)
	}
	return id, nil
}

// FinishBuild records the outcome of a build along with its document set.
func (s *Store) FinishBuild(ctx context.Context, buildID, outcome string, docs []DocumentRecord, skipped int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"UPDATE builds SET finished = ?, documents = ?, skipped = ?, outcome = ? WHERE id = ?",
		time.Now().Unix(), len(docs), skipped, outcome, buildID,
	)
	if err != nil {
		return fmt.Errorf("update build: %w", err)
	}

	for _, doc := range docs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO documents (build_id, identifier, path, checksum) VALUES (?, ?, ?, ?)",
			buildID, doc.Identifier, doc.Path, doc.Checksum,
		)
		if err != nil {
			return fmt.Errorf("insert document %s: %w", doc.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit build: %w", err)
	}
	return nil
}

// LastBuild returns the most recently finished build, or nil when the store
// holds no finished builds yet.
func (s *Store) LastBuild(ctx context.Context) (*Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, started, finished, documents, skipped, outcome FROM builds WHERE finished IS NOT NULL ORDER BY started DESC, id DESC LIMIT 1")

	var b Build
	var started, finished int64
	if err := row.Scan(&b.ID, &started, &finished, &b.Documents, &b.Skipped, &b.Outcome); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query last build: %w", err)
	}
	b.Started = time.Unix(started, 0)
	b.Finished = time.Unix(finished, 0)
	return &b, nil
}

// ChangedSince diffs the current document set against the set recorded for
// the given build.
func (s *Store) ChangedSince(ctx context.Context, buildID string, current []DocumentRecord) (Changes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT identifier, checksum FROM documents WHERE build_id = ?", buildID)
	if err != nil {
		return Changes{}, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	previous := make(map[string]string)
	for rows.Next() {
		var id, checksum string
		if err := rows.Scan(&id, &checksum); err != nil {
			return Changes{}, fmt.Errorf("scan document: %w", err)
		}
		previous[id] = checksum
	}
	if err := rows.Err(); err != nil {
		return Changes{}, fmt.Errorf("iterate documents: %w", err)
	}

	var changes Changes
	seen := make(map[string]struct{}, len(current))
	for _, doc := range current {
		seen[doc.Identifier] = struct{}{}
		prev, ok := previous[doc.Identifier]
		switch {
		case !ok:
			changes.Added = append(changes.Added, doc.Identifier)
		case prev != doc.Checksum:
			changes.Changed = append(changes.Changed, doc.Identifier)
		}
	}
	for id := range previous {
		if _, ok := seen[id]; !ok {
			changes.Removed = append(changes.Removed, id)
		}
	}
	return changes, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
