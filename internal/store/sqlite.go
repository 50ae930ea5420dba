package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcliao/agent-recall/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id          TEXT PRIMARY KEY,
		ns          TEXT NOT NULL,
		key         TEXT NOT NULL,
		value       TEXT NOT NULL,
		layer       TEXT NOT NULL,
		type        TEXT NOT NULL DEFAULT 'episode',
		vector      BLOB,
		meta        TEXT,
		token_count INTEGER NOT NULL DEFAULT 0,
		created_at  INTEGER NOT NULL,
		updated_at  INTEGER NOT NULL,
		expires_at  INTEGER,
		compressed  INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_entries_ns_layer ON entries(ns, layer, created_at);
	CREATE INDEX IF NOT EXISTS idx_entries_ns_key ON entries(ns, key);
	`
	_, err := s.db.Exec(schema)
	return err
}

const entryColumns = `id, ns, key, value, layer, type, vector, meta,
	token_count, created_at, updated_at, expires_at, compressed`

func (s *SQLiteStore) Insert(ctx context.Context, e *model.Entry) error {
	args, err := entryArgs(e)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...)
	if err != nil {
		return fmt.Errorf("insert entry %s: %w", e.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, ns, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE ns = ? AND id = ?`, ns, id)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete %s/%s: %w", ns, id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) QueryByLayer(ctx context.Context, layer model.Layer, ns string) ([]model.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE ns = ? AND layer = ?
		 ORDER BY created_at ASC, id ASC`, ns, string(layer))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", layer, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *SQLiteStore) TrimToCapacity(ctx context.Context, layer model.Layer, ns string, maxEntries int) (int, error) {
	if maxEntries < 0 {
		return 0, fmt.Errorf("trim %s: negative capacity %d", layer, maxEntries)
	}
	// Keep the newest maxEntries rows; everything past the offset goes.
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM entries WHERE id IN (
			SELECT id FROM entries WHERE ns = ? AND layer = ?
			ORDER BY created_at DESC, id DESC
			LIMIT -1 OFFSET ?
		)`, ns, string(layer), maxEntries)
	if err != nil {
		return 0, fmt.Errorf("trim %s: %w", layer, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func entryArgs(e *model.Entry) ([]interface{}, error) {
	if e.Layer == model.LayerHot || !model.ValidLayers[e.Layer] {
		return nil, fmt.Errorf("insert entry %s: layer %q is not durable", e.ID, e.Layer)
	}

	var meta *string
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshal metadata: %w", err)
		}
		m := string(b)
		meta = &m
	}

	var expiresAt *int64
	if e.ExpiresAt != nil {
		ms := e.ExpiresAt.UnixMilli()
		expiresAt = &ms
	}

	compressed := 0
	if e.Compressed {
		compressed = 1
	}

	typ := e.Type
	if typ == "" {
		typ = model.TypeEpisode
	}

	return []interface{}{
		e.ID, e.Namespace, e.Key, e.Value, string(e.Layer), string(typ),
		encodeVector(e.Vector), meta, e.TokenCount,
		e.CreatedAt.UnixMilli(), e.UpdatedAt.UnixMilli(), expiresAt, compressed,
	}, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (model.Entry, error) {
	var e model.Entry
	var layer, typ string
	var vector []byte
	var meta sql.NullString
	var createdAt, updatedAt int64
	var expiresAt sql.NullInt64
	var compressed int

	err := row.Scan(
		&e.ID, &e.Namespace, &e.Key, &e.Value, &layer, &typ, &vector, &meta,
		&e.TokenCount, &createdAt, &updatedAt, &expiresAt, &compressed,
	)
	if err != nil {
		return e, err
	}

	e.Layer = model.Layer(layer)
	e.Type = model.EntryType(typ)
	e.Vector = decodeVector(vector)
	e.CreatedAt = time.UnixMilli(createdAt).UTC()
	e.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	e.Compressed = compressed != 0
	if meta.Valid {
		if err := json.Unmarshal([]byte(meta.String), &e.Metadata); err != nil {
			return e, fmt.Errorf("decode metadata for %s: %w", e.ID, err)
		}
	}
	if expiresAt.Valid {
		t := time.UnixMilli(expiresAt.Int64).UTC()
		e.ExpiresAt = &t
	}

	return e, nil
}

func scanEntries(rows *sql.Rows) ([]model.Entry, error) {
	var entries []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
