package quote

import (
	"context"
	"math/rand"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestFetchPicksFromList(t *testing.T) {
	adapter := NewAdapterWithSource(rand.NewSource(42))

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		quote, err := adapter.Fetch(context.Background(), Params{})
		assert.Equal(t, nil, err)
		assert.NotEqual(t, "", quote.Text)
		assert.NotEqual(t, "", quote.Author)
		seen[quote.Text] = struct{}{}
	}

	assert.Equal(t, true, len(seen) > 1)
}

func TestFetchIsDeterministicForSource(t *testing.T) {
	first, _ := NewAdapterWithSource(rand.NewSource(7)).Fetch(context.Background(), Params{})
	second, _ := NewAdapterWithSource(rand.NewSource(7)).Fetch(context.Background(), Params{})
	assert.Equal(t, first, second)
}

func TestQuoteList(t *testing.T) {
	assert.Equal(t, 30, len(Quotes))
	assert.Equal(t, Quotes[0], NewAdapter().Fallback(Params{}))
}
