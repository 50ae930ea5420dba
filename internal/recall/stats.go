package recall

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/agent-recall/internal/model"
)

// Stats summarizes every tier of the engine's namespace.
type Stats struct {
	Namespace    string              `json:"ns"`
	ByLayer      map[model.Layer]int `json:"by_layer"`
	TotalEntries int                 `json:"total_entries"`
	TotalTokens  int                 `json:"total_tokens"`
	Oldest       *time.Time          `json:"oldest,omitempty"`
	Newest       *time.Time          `json:"newest,omitempty"`
}

// Stats merges the durable store aggregate with a live scan of the hot tier.
func (c *Coordinator) Stats(ctx context.Context) (*Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	agg, err := c.store.AggregateStats(ctx, c.cfg.Namespace)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	st := &Stats{
		Namespace: c.cfg.Namespace,
		ByLayer:   make(map[model.Layer]int, len(model.Layers)),
	}
	for _, l := range model.Layers {
		st.ByLayer[l] = 0
	}

	observe := func(oldest, newest time.Time) {
		if st.Oldest == nil || oldest.Before(*st.Oldest) {
			o := oldest
			st.Oldest = &o
		}
		if st.Newest == nil || newest.After(*st.Newest) {
			n := newest
			st.Newest = &n
		}
	}

	for _, l := range model.DurableLayers {
		ls, ok := agg.ByLayer[l]
		if !ok || ls.Count == 0 {
			continue
		}
		st.ByLayer[l] = ls.Count
		st.TotalEntries += ls.Count
		st.TotalTokens += ls.Tokens
		observe(ls.Oldest, ls.Newest)
	}

	for _, e := range c.hot {
		st.ByLayer[model.LayerHot]++
		st.TotalEntries++
		st.TotalTokens += e.TokenCount
		observe(e.CreatedAt, e.CreatedAt)
	}

	return st, nil
}
