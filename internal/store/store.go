// Package store provides the durable tier storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/agent-recall/internal/model"
)

// ErrNotFound is returned when an entry does not exist in the namespace.
var ErrNotFound = errors.New("entry not found")

// SearchParams holds parameters for candidate retrieval.
type SearchParams struct {
	NS     string
	Query  string
	Layers []model.Layer
	// Vector is the query vector. Implementations may use it to pre-filter;
	// callers re-score every returned entry.
	Vector []float64
}

// LayerStats holds aggregate figures for one layer.
type LayerStats struct {
	Count  int       `json:"count"`
	Tokens int       `json:"tokens"`
	Oldest time.Time `json:"oldest"`
	Newest time.Time `json:"newest"`
}

// Aggregate holds per-layer statistics for a namespace.
type Aggregate struct {
	ByLayer map[model.Layer]LayerStats `json:"by_layer"`
}

// Store defines the durable tier storage interface. Every operation is
// scoped to a namespace. Only warm, cold and archive entries are stored.
type Store interface {
	// Insert persists an entry in the layer recorded on it.
	Insert(ctx context.Context, e *model.Entry) error

	// Delete removes an entry by ID.
	Delete(ctx context.Context, ns, id string) error

	// QueryByLayer returns every entry in a layer, oldest first.
	QueryByLayer(ctx context.Context, layer model.Layer, ns string) ([]model.Entry, error)

	// Search returns candidate entries for a query. The result may be a
	// superset of the relevant entries.
	Search(ctx context.Context, p SearchParams) ([]model.Entry, error)

	// TrimToCapacity deletes the oldest entries of a layer until at most
	// maxEntries remain. Returns the number removed.
	TrimToCapacity(ctx context.Context, layer model.Layer, ns string, maxEntries int) (int, error)

	// AggregateStats summarizes the stored layers of a namespace.
	AggregateStats(ctx context.Context, ns string) (*Aggregate, error)

	// Close closes the store.
	Close() error
}
