package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/agent-recall/internal/model"
)

// AggregateStats returns per-layer counts, token sums and age bounds.
func (s *SQLiteStore) AggregateStats(ctx context.Context, ns string) (*Aggregate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT layer, COUNT(*), COALESCE(SUM(token_count), 0), MIN(created_at), MAX(created_at)
		FROM entries WHERE ns = ?
		GROUP BY layer`, ns)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	defer rows.Close()

	agg := &Aggregate{ByLayer: make(map[model.Layer]LayerStats)}
	for rows.Next() {
		var layer string
		var st LayerStats
		var oldest, newest int64
		if err := rows.Scan(&layer, &st.Count, &st.Tokens, &oldest, &newest); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		st.Oldest = time.UnixMilli(oldest).UTC()
		st.Newest = time.UnixMilli(newest).UTC()
		agg.ByLayer[model.Layer(layer)] = st
	}
	return agg, rows.Err()
}
