package recall

import (
	"context"
	"fmt"
	"sort"

	"github.com/rcliao/agent-recall/internal/model"
	"github.com/rcliao/agent-recall/internal/scoring"
	"github.com/rcliao/agent-recall/internal/store"
)

const (
	DefaultLimit     = 10
	DefaultThreshold = 0.3
)

// SearchParams holds parameters for a hybrid search.
type SearchParams struct {
	Query string
	// Layers restricts the search. Empty means all four tiers.
	Layers []model.Layer
	// Limit caps the result count. Zero or less means DefaultLimit.
	Limit int
	// Threshold is the minimum score kept. Nil means DefaultThreshold.
	Threshold *float64
}

// MinScore returns a Threshold of v.
func MinScore(v float64) *float64 {
	return &v
}

// Result is a scored search hit.
type Result struct {
	Entry     model.Entry       `json:"entry"`
	Score     float64           `json:"score"`
	MatchType scoring.MatchType `json:"match_type"`
}

// Search ranks entries of the requested tiers against query by hybrid score
// and returns at most Limit results scoring at least Threshold, best first.
// Expired entries are never returned.
func (c *Coordinator) Search(ctx context.Context, p SearchParams) ([]Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	results, err := c.search(ctx, p)
	if err != nil {
		return nil, err
	}
	c.emit(ctx, Event{Kind: EventSearched, Query: p.Query, Results: results})
	return results, nil
}

func (c *Coordinator) search(ctx context.Context, p SearchParams) ([]Result, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	threshold := DefaultThreshold
	if p.Threshold != nil {
		threshold = *p.Threshold
	}
	layers := p.Layers
	if len(layers) == 0 {
		layers = model.Layers
	}

	qvec := c.vec.Vectorize(p.Query)
	matcher := scoring.NewKeywordMatcher(p.Query)

	var candidates []model.Entry
	var durable []model.Layer
	for _, l := range layers {
		if l == model.LayerHot {
			candidates = append(candidates, c.hotSnapshot()...)
		} else {
			durable = append(durable, l)
		}
	}
	if len(durable) > 0 {
		stored, err := c.store.Search(ctx, store.SearchParams{
			NS:     c.cfg.Namespace,
			Query:  p.Query,
			Layers: durable,
			Vector: qvec,
		})
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		candidates = append(candidates, stored...)
	}

	now := c.now()
	results := []Result{}
	for _, e := range candidates {
		if e.Namespace != c.cfg.Namespace || e.Expired(now) {
			continue
		}
		s := matcher.Hybrid(qvec, e.Key, e.Value, e.Vector)
		if s.Total < threshold {
			continue
		}
		results = append(results, Result{Entry: e, Score: s.Total, MatchType: s.Match})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	for i := range results {
		results[i].Entry = results[i].Entry.Clone()
	}
	return results, nil
}
