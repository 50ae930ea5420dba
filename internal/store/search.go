package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/agent-recall/internal/model"
)

// Search returns every stored entry of the requested layers in the
// namespace, newest first. No lexical or vector pre-filtering is applied, so
// purely semantic matches are never lost; the caller ranks the candidates.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Entry, error) {
	where := []string{"ns = ?"}
	args := []interface{}{p.NS}

	var placeholders []string
	for _, l := range p.Layers {
		if l == model.LayerHot {
			continue
		}
		placeholders = append(placeholders, "?")
		args = append(args, string(l))
	}
	if len(placeholders) == 0 {
		return nil, nil
	}
	where = append(where, "layer IN ("+strings.Join(placeholders, ", ")+")")

	query := fmt.Sprintf(`SELECT %s FROM entries WHERE %s ORDER BY created_at DESC, id ASC`,
		entryColumns, strings.Join(where, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}
