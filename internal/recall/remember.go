package recall

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/agent-recall/internal/model"
)

// RememberOptions holds the optional attributes of a new entry.
type RememberOptions struct {
	Type      model.EntryType
	Metadata  map[string]any
	ExpiresAt *time.Time
}

// Remember stores a new entry in the hot tier. When the hot tier reaches
// either capacity bound the whole flush pipeline runs before Remember
// returns. A token breach alone moves only aged entries. Store errors from
// that flush are the only errors Remember reports. The returned entry
// reflects the state at insertion, before any such flush.
func (c *Coordinator) Remember(ctx context.Context, key, value string, opts RememberOptions) (*model.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	typ := opts.Type
	if typ == "" {
		typ = model.TypeEpisode
	}

	e := model.Entry{
		ID:         c.newID(key, now),
		Namespace:  c.cfg.Namespace,
		Key:        key,
		Value:      value,
		Layer:      model.LayerHot,
		Type:       typ,
		Vector:     c.vec.Vectorize(value),
		Metadata:   opts.Metadata,
		TokenCount: model.EstimateTokens(value),
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  opts.ExpiresAt,
	}
	c.hot[e.ID] = e

	added := e.Clone()
	c.emit(ctx, Event{Kind: EventAdded, Entry: &added})

	if c.hotOverCapacity() {
		if err := c.flush(ctx); err != nil {
			return nil, fmt.Errorf("auto-flush: %w", err)
		}
	}
	out := e.Clone()
	return &out, nil
}
