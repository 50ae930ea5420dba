package recall

import (
	"context"
	"fmt"

	"github.com/rcliao/agent-recall/internal/model"
)

// EventKind names an engine notification.
type EventKind string

const (
	EventAdded     EventKind = "memory-added"
	EventFlushed   EventKind = "memory-flushed"
	EventSearched  EventKind = "memory-searched"
	EventCompacted EventKind = "memory-compacted"
)

// Flush reasons.
const (
	ReasonAge      = "age"
	ReasonCapacity = "capacity"
	ReasonDrain    = "drain"
)

// FlushDecision describes one batch of entries moved to a colder tier.
type FlushDecision struct {
	Entries     []model.Entry `json:"entries"`
	TargetLayer model.Layer   `json:"target_layer"`
	Reason      string        `json:"reason"`
}

// Event is delivered to listeners. Which fields are set depends on Kind:
// Entry for added, Flush for flushed, Query and Results for searched,
// Layer and Count for compacted.
type Event struct {
	Kind    EventKind
	Entry   *model.Entry
	Flush   *FlushDecision
	Query   string
	Results []Result
	Layer   model.Layer
	Count   int
}

// Listener receives engine events. A returned error is logged; it never
// aborts the operation that raised the event.
type Listener func(ctx context.Context, ev Event) error

// emit delivers ev to every listener in registration order. Callers must
// hold c.mu.
func (c *Coordinator) emit(ctx context.Context, ev Event) {
	for i, l := range c.listeners {
		if err := c.call(ctx, l, ev); err != nil {
			c.logger.Printf("listener %d failed on %s: %v", i, ev.Kind, err)
		}
	}
}

func (c *Coordinator) call(ctx context.Context, l Listener, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return l(ctx, ev)
}
