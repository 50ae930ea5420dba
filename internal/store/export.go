package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/agent-recall/internal/model"
)

// ExportAll returns all stored entries, optionally filtered by namespace.
func (s *SQLiteStore) ExportAll(ctx context.Context, ns string) ([]model.Entry, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if ns != "" {
		where = append(where, "ns = ?")
		args = append(args, ns)
	}

	query := `SELECT ` + entryColumns + ` FROM entries WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY ns, created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Import stores entries from an export, keeping their IDs and layers.
// Entries whose ID already exists are skipped.
func (s *SQLiteStore) Import(ctx context.Context, entries []model.Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for i := range entries {
		args, err := entryArgs(&entries[i])
		if err != nil {
			return 0, err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			args...)
		if err != nil {
			return 0, fmt.Errorf("import entry %s: %w", entries[i].ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}
