package recall

import (
	"context"
	"math"

	"github.com/rcliao/agent-recall/internal/condense"
	"github.com/rcliao/agent-recall/internal/model"
	"github.com/rcliao/agent-recall/internal/scoring"
)

const (
	DefaultBudget     = 4000
	contextCandidates = 50
	minExcerptTokens  = 25
)

// ContextParams holds parameters for context assembly.
type ContextParams struct {
	Query  string
	Layers []model.Layer
	Budget int // max tokens in output
}

// ContextEntry is a scored entry packed into a context window.
type ContextEntry struct {
	Key       string            `json:"key"`
	Layer     model.Layer       `json:"layer"`
	Type      model.EntryType   `json:"type"`
	Value     string            `json:"value"`
	Score     float64           `json:"score"`
	MatchType scoring.MatchType `json:"match_type"`
	Excerpt   bool              `json:"excerpt,omitempty"`
}

// ContextResult is the assembled context response.
type ContextResult struct {
	Budget  int            `json:"budget"`
	Used    int            `json:"used"`
	Entries []ContextEntry `json:"entries"`
}

// Context assembles the best search results for query within a token budget.
func (c *Coordinator) Context(ctx context.Context, p ContextParams) (*ContextResult, error) {
	budget := p.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}

	c.mu.Lock()
	results, err := c.search(ctx, SearchParams{
		Query:  p.Query,
		Layers: p.Layers,
		Limit:  contextCandidates,
	})
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := &ContextResult{Budget: budget, Entries: []ContextEntry{}}
	for _, r := range results {
		ce := ContextEntry{
			Key:       r.Entry.Key,
			Layer:     r.Entry.Layer,
			Type:      r.Entry.Type,
			Value:     r.Entry.Value,
			Score:     math.Round(r.Score*100) / 100,
			MatchType: r.MatchType,
		}

		if out.Used+r.Entry.TokenCount <= budget {
			out.Entries = append(out.Entries, ce)
			out.Used += r.Entry.TokenCount
			continue
		}

		// Partial fit: excerpt the first entry that overflows, then stop.
		if remaining := budget - out.Used; remaining >= minExcerptTokens {
			ce.Value = excerpt(ce.Value, remaining)
			ce.Excerpt = true
			out.Entries = append(out.Entries, ce)
			out.Used += model.EstimateTokens(ce.Value)
		}
		break
	}

	return out, nil
}

// excerpt truncates value so its token estimate fits in tokens.
func excerpt(value string, tokens int) string {
	maxBytes := tokens * 4
	n := maxBytes - len(condense.Ellipsis)
	v := condense.Truncate(value, n)
	for n > 0 && len(v) > maxBytes {
		n -= len(v) - maxBytes
		v = condense.Truncate(value, n)
	}
	return v
}
