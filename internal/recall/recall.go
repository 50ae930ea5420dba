// Package recall implements the tiered recall engine: a fast in-process hot
// tier backed by warm, cold and archive tiers in a durable store, with
// hybrid keyword and vector search across all of them.
//
// A Coordinator serializes every operation behind one mutex. Remember may
// trigger a full Flush inside the same critical section, so no caller ever
// observes a hot tier that is over capacity and not yet flushed.
//
// Tier transitions delete the source record before inserting the target
// record. A store failure mid-flush therefore loses at most the entry being
// moved and never duplicates one; transitions are at-most-once.
package recall

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/agent-recall/internal/config"
	"github.com/rcliao/agent-recall/internal/model"
	"github.com/rcliao/agent-recall/internal/scoring"
	"github.com/rcliao/agent-recall/internal/store"
)

// Coordinator owns the hot tier and orchestrates tier transitions and search.
type Coordinator struct {
	mu        sync.Mutex
	hot       map[string]model.Entry
	store     store.Store
	cfg       config.Config
	vec       scoring.Vectorizer
	now       func() time.Time
	logger    *log.Logger
	listeners []Listener
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithVectorizer replaces the default hash vectorizer.
func WithVectorizer(v scoring.Vectorizer) Option {
	return func(c *Coordinator) { c.vec = v }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithLogger overrides the default stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithListener registers a listener at construction time.
func WithListener(l Listener) Option {
	return func(c *Coordinator) { c.listeners = append(c.listeners, l) }
}

// New creates a Coordinator over st. Invalid configuration is rejected here
// rather than at use time.
func New(st store.Store, cfg config.Config, opts ...Option) (*Coordinator, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: store is required", config.ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Coordinator{
		hot:    make(map[string]model.Entry),
		store:  st,
		cfg:    cfg,
		now:    time.Now,
		logger: log.New(os.Stderr, "[RECALL] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.vec == nil {
		var hv scoring.Vectorizer = scoring.NewHashVectorizer(cfg.Dimensions)
		if cfg.VectorCache > 0 {
			cv, err := scoring.NewCachedVectorizer(hv, int64(cfg.VectorCache))
			if err != nil {
				return nil, err
			}
			hv = cv
		}
		c.vec = hv
	}
	if c.vec.Dimensions() != cfg.Dimensions {
		return nil, fmt.Errorf("%w: vectorizer has %d dimensions, config wants %d",
			config.ErrInvalid, c.vec.Dimensions(), cfg.Dimensions)
	}
	return c, nil
}

// Close releases resources held by the vectorizer. The store is owned by
// the caller and stays open.
func (c *Coordinator) Close() {
	if cl, ok := c.vec.(interface{ Close() }); ok {
		cl.Close()
	}
}

// Namespace returns the namespace every entry of this engine belongs to.
func (c *Coordinator) Namespace() string {
	return c.cfg.Namespace
}

// Subscribe registers a listener for engine events. Listeners run
// synchronously while the engine lock is held and must not call back into
// the Coordinator.
func (c *Coordinator) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Hot returns deep copies of the hot tier entries in creation order.
// Callers may modify them freely.
func (c *Coordinator) Hot() []model.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.hotSnapshot()
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}

// hotSnapshot returns shallow copies of the hot entries ordered by creation
// time, then ID. Vectors and metadata stay shared with the arena. Callers
// must hold c.mu.
func (c *Coordinator) hotSnapshot() []model.Entry {
	out := make([]model.Entry, 0, len(c.hot))
	for _, e := range c.hot {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// hotUsage returns the entry count and summed tokens of the hot tier.
func (c *Coordinator) hotUsage() (int, int) {
	tokens := 0
	for _, e := range c.hot {
		tokens += e.TokenCount
	}
	return len(c.hot), tokens
}

// hotOverCapacity reports whether the hot tier breaches either bound. It
// decides whether Remember flushes, not which entries move.
func (c *Coordinator) hotOverCapacity() bool {
	n, tokens := c.hotUsage()
	return n >= c.cfg.Hot.MaxEntries || tokens >= c.cfg.Hot.MaxTokens
}

// newID builds "{ns}:{key}:{millis}-{suffix}". The suffix is the random
// half of a ULID, so equal keys created in the same millisecond differ.
func (c *Coordinator) newID(key string, created time.Time) string {
	suffix := strings.ToLower(ulid.Make().String()[10:])
	return fmt.Sprintf("%s:%s:%d-%s", c.cfg.Namespace, key, created.UnixMilli(), suffix)
}
