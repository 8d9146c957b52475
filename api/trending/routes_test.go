package trending

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/rs/zerolog"

	"github.com/termdetox/terminal-detox/cache"
	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/trending"
	"github.com/termdetox/terminal-detox/types"
)

type fakeAdapter struct {
	calls int
}

func (f *fakeAdapter) Name() string {
	return "Trending"
}

func (f *fakeAdapter) Fetch(ctx context.Context, params trending.Params) (types.SocialTrending, error) {
	f.calls++
	return types.SocialTrending{
		Twitter:    []types.TrendingTopic{},
		GitHub:     []types.TrendingRepo{{Name: "a/b", Stars: 10}},
		Reddit:     []types.TrendingSubreddit{},
		HackerNews: []types.TrendingStory{},
	}, nil
}

func TestGetIsCached(t *testing.T) {
	adapter := &fakeAdapter{}
	policy := &sources.Policy{Cache: cache.NewMemory(), TTL: time.Minute, Logger: zerolog.Nop()}
	router := Routes(policy, adapter)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/", nil)
		router.ServeHTTP(w, req)

		var raw struct {
			Data map[string]interface{} `json:"data"`
		}
		assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []interface{}{}, raw.Data["twitter"])
		assert.Equal(t, []interface{}{}, raw.Data["reddit"])
	}

	assert.Equal(t, 1, adapter.calls)
}
