package recall

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/agent-recall/internal/condense"
	"github.com/rcliao/agent-recall/internal/model"
)

// Flush runs every due tier transition in a fixed order: hot to warm, warm
// to cold, cold to archive, then compaction of warm, cold and archive. Each
// step completes before the next begins. The first store error aborts the
// pipeline and is returned.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flush(ctx)
}

// Drain moves every hot entry to warm regardless of age. Short-lived
// processes call it before exiting so the hot tier is not lost.
func (c *Coordinator) Drain(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.demoteHot(ctx, true, ReasonDrain); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	return nil
}

// Compact trims warm, cold and archive to their configured capacities.
func (c *Coordinator) Compact(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compact(ctx)
}

func (c *Coordinator) flush(ctx context.Context) error {
	// Only the entry cap forces young entries out; the token bound merely
	// triggers the flush from Remember.
	over := len(c.hot) >= c.cfg.Hot.MaxEntries
	reason := ReasonAge
	if over {
		reason = ReasonCapacity
	}
	if err := c.demoteHot(ctx, over, reason); err != nil {
		return fmt.Errorf("flush hot: %w", err)
	}

	if err := c.demote(ctx, model.LayerWarm, model.LayerCold, c.cfg.Warm.MaxAge(), compressAll); err != nil {
		return fmt.Errorf("flush warm: %w", err)
	}
	if err := c.demote(ctx, model.LayerCold, model.LayerArchive, c.cfg.Cold.MaxAge(), archiveAll); err != nil {
		return fmt.Errorf("flush cold: %w", err)
	}
	return c.compact(ctx)
}

// demoteHot moves hot entries older than the hot max age to warm, or every
// hot entry when all is set. Entries leave the arena only after their store
// insert succeeds, so a failure leaves the rest in hot.
func (c *Coordinator) demoteHot(ctx context.Context, all bool, reason string) error {
	now := c.now()
	var moved []model.Entry
	var err error

	for _, e := range c.hotSnapshot() {
		if !all && e.Age(now) <= c.cfg.Hot.MaxAge {
			continue
		}
		e.Layer = model.LayerWarm
		e.UpdatedAt = now
		if err = c.store.Insert(ctx, &e); err != nil {
			break
		}
		delete(c.hot, e.ID)
		moved = append(moved, e)
	}

	c.emitFlush(ctx, moved, model.LayerWarm, reason)
	return err
}

// demote moves entries of from older than maxAge into to, rewriting them
// with transform first. Each entry is deleted from its source layer before
// being inserted into the target.
func (c *Coordinator) demote(ctx context.Context, from, to model.Layer, maxAge time.Duration,
	transform func([]model.Entry) []model.Entry) error {
	ns := c.cfg.Namespace
	entries, err := c.store.QueryByLayer(ctx, from, ns)
	if err != nil {
		return err
	}

	now := c.now()
	var due []model.Entry
	for _, e := range entries {
		if e.Age(now) > maxAge {
			due = append(due, e)
		}
	}
	if len(due) == 0 {
		return nil
	}

	var moved []model.Entry
	for _, e := range transform(due) {
		e.Layer = to
		e.UpdatedAt = now
		if err = c.store.Delete(ctx, ns, e.ID); err != nil {
			break
		}
		if err = c.store.Insert(ctx, &e); err != nil {
			c.logger.Printf("entry %s lost moving %s to %s: %v", e.ID, from, to, err)
			break
		}
		moved = append(moved, e)
	}

	c.emitFlush(ctx, moved, to, ReasonAge)
	return err
}

func (c *Coordinator) compact(ctx context.Context) error {
	ns := c.cfg.Namespace
	tiers := []struct {
		layer model.Layer
		max   int
		skip  bool
	}{
		{model.LayerWarm, c.cfg.Warm.MaxEntries, false},
		{model.LayerCold, c.cfg.Cold.MaxEntries, false},
		{model.LayerArchive, c.cfg.Archive.MaxEntries, c.cfg.Archive.Unbounded},
	}

	for _, t := range tiers {
		if t.skip {
			continue
		}
		removed, err := c.store.TrimToCapacity(ctx, t.layer, ns, t.max)
		if err != nil {
			return fmt.Errorf("compact %s: %w", t.layer, err)
		}
		if removed > 0 {
			c.logger.Printf("compact: removed %d %s entries (max %d)", removed, t.layer, t.max)
			c.emit(ctx, Event{Kind: EventCompacted, Layer: t.layer, Count: removed})
		}
	}
	return nil
}

func (c *Coordinator) emitFlush(ctx context.Context, moved []model.Entry, target model.Layer, reason string) {
	if len(moved) == 0 {
		return
	}
	c.logger.Printf("flush: moved %d entries to %s (%s)", len(moved), target, reason)
	c.emit(ctx, Event{
		Kind:  EventFlushed,
		Flush: &FlushDecision{Entries: moved, TargetLayer: target, Reason: reason},
	})
}

// compressAll and archiveAll rewrite values and re-estimate tokens. Vectors
// are kept as computed at creation.
func compressAll(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, len(entries))
	for i, e := range entries {
		e.Value = condense.Compress(e.Value)
		e.TokenCount = model.EstimateTokens(e.Value)
		e.Compressed = true
		out[i] = e
	}
	return out
}

func archiveAll(entries []model.Entry) []model.Entry {
	out := condense.ExtractFacts(entries)
	for i := range out {
		out[i].Type = model.TypeFact
		out[i].TokenCount = model.EstimateTokens(out[i].Value)
	}
	return out
}
