package scoring

import (
	"regexp"
	"strings"
)

// Weights applied to the two signals of a hybrid score.
const (
	KeywordWeight  = 0.6
	SemanticWeight = 0.4
)

// Keyword score tiers.
const (
	ExactScore     = 1.0
	AllWordsScore  = 0.8
	PartialScale   = 0.5
	SubstringScore = 0.3
)

// MatchType names which signal produced a result.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchKeyword  MatchType = "keyword"
	MatchSemantic MatchType = "semantic"
)

// Score is the breakdown of a hybrid score for one candidate.
type Score struct {
	Keyword  float64
	Semantic float64
	Total    float64
	Match    MatchType
}

// KeywordMatcher holds a lower-cased query and its compiled word patterns so
// one query can be scored against many candidates.
type KeywordMatcher struct {
	query string
	words []*regexp.Regexp
}

// NewKeywordMatcher compiles query once.
func NewKeywordMatcher(query string) *KeywordMatcher {
	q := strings.ToLower(query)
	m := &KeywordMatcher{query: q}
	for _, w := range strings.Fields(q) {
		m.words = append(m.words, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return m
}

// Score rates how well the query matches key or value lexically.
// The bool result is true only when the exact-match tier fired.
func (m *KeywordMatcher) Score(key, value string) (float64, bool) {
	k := strings.ToLower(key)
	v := strings.ToLower(value)

	if k == m.query || v == m.query {
		return ExactScore, true
	}

	if len(m.words) > 0 {
		matched := 0
		for _, re := range m.words {
			if re.MatchString(k) || re.MatchString(v) {
				matched++
			}
		}
		if matched == len(m.words) {
			return AllWordsScore, false
		}
		if matched > 0 {
			return PartialScale * float64(matched) / float64(len(m.words)), false
		}
	}

	if m.query != "" && (strings.Contains(k, m.query) || strings.Contains(v, m.query)) {
		return SubstringScore, false
	}
	return 0, false
}

// Hybrid blends the keyword score of (key, value) with the vector
// similarity of queryVec and entryVec. A nil entryVec scores 0
// semantically.
func (m *KeywordMatcher) Hybrid(queryVec Vector, key, value string, entryVec Vector) Score {
	kw, exact := m.Score(key, value)

	var sem float64
	if len(entryVec) > 0 {
		sem = Similarity(queryVec, entryVec)
	}

	s := Score{
		Keyword:  kw,
		Semantic: sem,
		Total:    KeywordWeight*kw + SemanticWeight*sem,
	}
	switch {
	case exact:
		s.Match = MatchExact
	case sem > kw:
		s.Match = MatchSemantic
	default:
		s.Match = MatchKeyword
	}
	return s
}

// KeywordScore scores a single candidate. Use a KeywordMatcher when scoring
// many candidates against one query.
func KeywordScore(query, key, value string) (float64, bool) {
	return NewKeywordMatcher(query).Score(key, value)
}

// Hybrid scores a single candidate; see KeywordMatcher.Hybrid.
func Hybrid(query string, queryVec Vector, key, value string, entryVec Vector) Score {
	return NewKeywordMatcher(query).Hybrid(queryVec, key, value, entryVec)
}
