// Package scoring turns text into vectors and blends keyword and vector
// signals into a single relevance score.
package scoring

import (
	"math"
	"strings"
)

// Vector is a float64 embedding vector.
type Vector = []float64

// Vectorizer generates fixed-length vectors from text.
// Implementations must be deterministic for a given text.
type Vectorizer interface {
	Vectorize(text string) Vector
	Dimensions() int
}

// HashVectorizer is a dependency-free character hashing vectorizer.
// Similar spellings land in similar buckets; it carries no semantics.
type HashVectorizer struct {
	dims int
}

// NewHashVectorizer creates a hash vectorizer with the given dimension count.
func NewHashVectorizer(dims int) *HashVectorizer {
	if dims <= 0 {
		dims = 384
	}
	return &HashVectorizer{dims: dims}
}

func (h *HashVectorizer) Dimensions() int { return h.dims }

// Vectorize hashes each rune of each word into a bucket weighted by its
// position in the word and returns the L2-normalized result.
func (h *HashVectorizer) Vectorize(text string) Vector {
	vec := make(Vector, h.dims)
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return vec
	}

	weight := 1.0 / float64(len(words))
	for _, word := range words {
		pos := 0
		for _, r := range word {
			bucket := (int(r) * (pos + 1)) % h.dims
			vec[bucket] += weight
			pos++
		}
	}

	Normalize(vec)
	return vec
}

// Normalize performs in-place L2 normalization. A zero vector stays zero.
func Normalize(vec Vector) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

// Similarity is the dot product of two vectors. For unit vectors this is
// their cosine similarity. Mismatched lengths score 0.
func Similarity(a, b Vector) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}

// CosineSimilarity computes cosine similarity for vectors that may not be
// normalized.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
