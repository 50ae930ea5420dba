package scoring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingVectorizer struct {
	mu    sync.Mutex
	calls map[string]int
	inner *HashVectorizer
}

func (c *countingVectorizer) Vectorize(text string) Vector {
	c.mu.Lock()
	c.calls[text]++
	c.mu.Unlock()
	return c.inner.Vectorize(text)
}

func (c *countingVectorizer) Dimensions() int { return c.inner.Dimensions() }

func TestCachedVectorizer(t *testing.T) {
	inner := &countingVectorizer{calls: map[string]int{}, inner: NewHashVectorizer(64)}
	cv, err := NewCachedVectorizer(inner, 100)
	require.NoError(t, err)
	defer cv.Close()

	assert.Equal(t, 64, cv.Dimensions())

	first := cv.Vectorize("deploy on friday")
	cv.cache.Wait()
	second := cv.Vectorize("deploy on friday")

	want := NewHashVectorizer(64).Vectorize("deploy on friday")
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
	assert.Equal(t, 1, inner.calls["deploy on friday"], "second call is served from the cache")
}

func TestCachedVectorizerRejectsBadSize(t *testing.T) {
	_, err := NewCachedVectorizer(NewHashVectorizer(8), 0)
	assert.Error(t, err)
}
