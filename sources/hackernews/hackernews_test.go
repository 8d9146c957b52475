package hackernews

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/termdetox/terminal-detox/sources"
)

func newHackerNewsServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v0/topstories.json":
			fmt.Fprint(w, `[101, 102, 103, 104]`)
		case "/v0/item/101.json":
			fmt.Fprint(w, `{"id": 101, "title": "Show HN: a tiny database", "url": "https://example.com", "score": 256, "by": "dev", "time": 1760400000, "descendants": 12, "type": "story"}`)
		case "/v0/item/102.json":
			fmt.Fprint(w, `{"id": 102, "title": "Ask HN: what are you reading?", "time": 1760400100, "type": "story"}`)
		case "/v0/item/103.json":
			fmt.Fprint(w, `null`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchStories(t *testing.T) {
	server := newHackerNewsServer(t)
	adapter := NewAdapterWithURL(sources.NewClientFrom(server.Client()), server.URL)

	items, err := adapter.Fetch(context.Background(), Params{Type: "top", Limit: 30})
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, int64(101), items[0].ID)
	assert.Equal(t, 256, items[0].Score)

	// Defaults for an ask story without url or author
	assert.Equal(t, "https://news.ycombinator.com/item?id=102", items[1].URL)
	assert.Equal(t, "unknown", items[1].By)
	assert.Equal(t, 0, items[1].Descendants)
}

func TestFetchHonorsLimit(t *testing.T) {
	server := newHackerNewsServer(t)
	adapter := NewAdapterWithURL(sources.NewClientFrom(server.Client()), server.URL)

	items, err := adapter.Fetch(context.Background(), Params{Type: "top", Limit: 1})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(items))
}

func TestFetchListFailure(t *testing.T) {
	server := newHackerNewsServer(t)
	adapter := NewAdapterWithURL(sources.NewClientFrom(server.Client()), server.URL)

	_, err := adapter.Fetch(context.Background(), Params{Type: "best", Limit: 5})
	var upstream *sources.UpstreamError
	assert.Equal(t, true, errors.As(err, &upstream))
	assert.Equal(t, http.StatusInternalServerError, upstream.Status)
}

func TestFetchEveryItemFailing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v0/topstories.json" {
			fmt.Fprint(w, `[201, 202]`)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)
	adapter := NewAdapterWithURL(sources.NewClientFrom(server.Client()), server.URL)

	items, err := adapter.Fetch(context.Background(), Params{Type: "top", Limit: 5})
	assert.Equal(t, 0, len(items))
	var upstream *sources.UpstreamError
	assert.Equal(t, true, errors.As(err, &upstream))
	assert.Equal(t, http.StatusServiceUnavailable, upstream.Status)
}

func TestFetchEmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	t.Cleanup(server.Close)
	adapter := NewAdapterWithURL(sources.NewClientFrom(server.Client()), server.URL)

	items, err := adapter.Fetch(context.Background(), Params{Type: "new", Limit: 5})
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(items))
}

func TestValidateType(t *testing.T) {
	assert.Equal(t, nil, Params{Type: "show"}.Validate())
	assert.NotEqual(t, nil, Params{Type: "jobs"}.Validate())
}
