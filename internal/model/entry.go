// Package model defines the core recall data types.
package model

import (
	"maps"
	"slices"
	"time"
)

// Layer is the storage tier an entry currently lives in.
type Layer string

const (
	LayerHot     Layer = "hot"
	LayerWarm    Layer = "warm"
	LayerCold    Layer = "cold"
	LayerArchive Layer = "archive"
)

// Layers lists every tier, fastest first.
var Layers = []Layer{LayerHot, LayerWarm, LayerCold, LayerArchive}

// DurableLayers are the tiers persisted outside the process.
var DurableLayers = []Layer{LayerWarm, LayerCold, LayerArchive}

// EntryType is the semantic category of an entry.
type EntryType string

const (
	TypeEpisode     EntryType = "episode"
	TypeFact        EntryType = "fact"
	TypeImprovement EntryType = "improvement"
	TypeGoal        EntryType = "goal"
	TypeContext     EntryType = "context"
)

// ValidTypes are the allowed entry types.
var ValidTypes = map[EntryType]bool{
	TypeEpisode:     true,
	TypeFact:        true,
	TypeImprovement: true,
	TypeGoal:        true,
	TypeContext:     true,
}

// ValidLayers are the allowed layer names.
var ValidLayers = map[Layer]bool{
	LayerHot:     true,
	LayerWarm:    true,
	LayerCold:    true,
	LayerArchive: true,
}

// Entry is the atomic unit of memory.
type Entry struct {
	ID         string         `json:"id"`
	Namespace  string         `json:"ns"`
	Key        string         `json:"key"`
	Value      string         `json:"value"`
	Layer      Layer          `json:"layer"`
	Type       EntryType      `json:"type"`
	Vector     []float64      `json:"vector,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	TokenCount int            `json:"token_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	ExpiresAt  *time.Time     `json:"expires_at,omitempty"`
	Compressed bool           `json:"compressed"`
}

// Clone returns a copy of e that shares no Vector, Metadata or ExpiresAt
// storage with it. Metadata values are copied shallowly.
func (e *Entry) Clone() Entry {
	c := *e
	c.Vector = slices.Clone(e.Vector)
	c.Metadata = maps.Clone(e.Metadata)
	if e.ExpiresAt != nil {
		exp := *e.ExpiresAt
		c.ExpiresAt = &exp
	}
	return c
}

// Expired reports whether the entry has an expiry at or before now.
func (e *Entry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}

// Age returns how long ago the entry was created.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// EstimateTokens approximates the token count of text at four bytes per token.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
