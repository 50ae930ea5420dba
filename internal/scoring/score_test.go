package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordScore(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		key       string
		value     string
		want      float64
		wantExact bool
	}{
		{"exact value", "Alice", "user-name", "Alice", 1.0, true},
		{"exact value case-insensitive", "alice", "user-name", "ALICE", 1.0, true},
		{"exact key", "user-name", "User-Name", "Alice", 1.0, true},
		{"all words", "golang compiler", "lang", "the golang compiler is fast", 0.8, false},
		{"word in key", "user", "user-name", "Alice", 0.8, false},
		{"half the words", "golang rust", "k", "golang is great", 0.25, false},
		{"one of three", "golang rust zig", "k", "golang is great", 0.5 / 3, false},
		{"substring only", "lang", "k", "golang", 0.3, false},
		{"no match", "python", "k", "golang", 0, false},
		{"empty query", "", "k", "v", 0, false},
		{"regex metacharacters", "c++", "lang", "I write c++ daily", 0.3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, exact := KeywordScore(tt.query, tt.key, tt.value)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.wantExact, exact)
		})
	}
}

func TestKeywordMatcher_ReusedAcrossCandidates(t *testing.T) {
	m := NewKeywordMatcher("Golang Compiler")
	assert.Len(t, m.words, 2, "one pattern per query word")

	candidates := []struct{ key, value string }{
		{"lang", "the golang compiler is fast"},
		{"k", "golang is great"},
		{"golang compiler", "v"},
		{"k", "nothing here"},
	}
	for i, c := range candidates {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			gotScore, gotExact := m.Score(c.key, c.value)
			wantScore, wantExact := KeywordScore("Golang Compiler", c.key, c.value)
			assert.InDelta(t, wantScore, gotScore, 1e-9)
			assert.Equal(t, wantExact, gotExact)
		})
	}

	unit := Vector{1, 0}
	assert.Equal(t,
		Hybrid("Golang Compiler", unit, "lang", "the golang compiler is fast", unit),
		m.Hybrid(unit, "lang", "the golang compiler is fast", unit))
}

func TestHybrid_MatchTypes(t *testing.T) {
	unit := Vector{1, 0}

	s := Hybrid("Alice", unit, "user-name", "Alice", unit)
	assert.Equal(t, MatchExact, s.Match)
	assert.InDelta(t, 1.0, s.Total, 1e-9)

	s = Hybrid("zzz", unit, "k", "v", unit)
	assert.Equal(t, MatchSemantic, s.Match)
	assert.InDelta(t, 0.4, s.Total, 1e-9)

	s = Hybrid("golang", unit, "k", "golang rocks", Vector{0, 1})
	assert.Equal(t, MatchKeyword, s.Match)
	assert.InDelta(t, 0.48, s.Total, 1e-9)
}

func TestHybrid_NoVector(t *testing.T) {
	s := Hybrid("anything", Vector{1, 0}, "k", "v", nil)
	assert.Zero(t, s.Semantic, "semantic is 0 without a vector")
}
