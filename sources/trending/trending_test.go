package trending

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/termdetox/terminal-detox/sources"
)

const trendingPage = `<html><body>
<article class="Box-row">
  <h2 class="h3 lh-condensed"><a href="/charmbracelet/bubbletea"> charmbracelet / <span>bubbletea</span> </a></h2>
  <p class="col-9 color-fg-muted">A powerful little TUI framework</p>
  <span itemprop="programmingLanguage">Go</span>
  <a href="/charmbracelet/bubbletea/stargazers"> 31,204 </a>
</article>
<article class="Box-row">
  <h2><a href="/someone/untitled"></a></h2>
</article>
</body></html>`

type upstreamOptions struct {
	trendingPage string
	redditStatus int
}

func newUpstream(t *testing.T, options upstreamOptions) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/trending":
			fmt.Fprint(w, options.trendingPage)
		case "/search/repositories":
			assert.Equal(t, "created:>2026-09-14", r.URL.Query().Get("q"))
			fmt.Fprint(w, `{"items": [{"full_name": "a/b", "description": null, "language": "Rust", "stargazers_count": 900, "html_url": "https://github.com/a/b"}]}`)
		case "/subreddits/popular.json":
			if options.redditStatus != 0 {
				w.WriteHeader(options.redditStatus)
				return
			}
			fmt.Fprint(w, `{"data": {"children": [
				{"data": {"display_name": "pics", "display_name_prefixed": "r/pics", "subscribers": 30000000, "public_description": ""}},
				{"data": {"display_name": "golang", "display_name_prefixed": "r/golang", "subscribers": 250000, "public_description": "Ask questions and post articles about Go"}}
			]}}`)
		case "/v0/topstories.json":
			fmt.Fprint(w, `[1, 2, 3, 4, 5, 6, 7]`)
		default:
			var id int
			if _, err := fmt.Sscanf(r.URL.Path, "/v0/item/%d.json", &id); err == nil {
				fmt.Fprintf(w, `{"id": %d, "title": "Story %d", "score": %d, "descendants": 4}`, id, id, id*10)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestAdapter(server *httptest.Server) *Adapter {
	adapter := NewAdapter(sources.NewClientFrom(server.Client()), URLs{
		GitHub:     server.URL,
		GitHubAPI:  server.URL,
		Reddit:     server.URL,
		HackerNews: server.URL,
	})
	adapter.now = func() time.Time {
		return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	}
	return adapter
}

func TestFetchScrapesTrendingPage(t *testing.T) {
	server := newUpstream(t, upstreamOptions{trendingPage: trendingPage})

	trending, err := newTestAdapter(server).Fetch(context.Background(), Params{})
	assert.Equal(t, nil, err)

	assert.Equal(t, 2, len(trending.GitHub))
	assert.Equal(t, "charmbracelet/bubbletea", trending.GitHub[0].Name)
	assert.Equal(t, "A powerful little TUI framework", trending.GitHub[0].Description)
	assert.Equal(t, "Go", trending.GitHub[0].Language)
	assert.Equal(t, 31204, trending.GitHub[0].Stars)
	assert.Equal(t, "No description", trending.GitHub[1].Description)
	assert.Equal(t, "Unknown", trending.GitHub[1].Language)

	assert.Equal(t, 2, len(trending.Reddit))
	assert.Equal(t, "r/pics", trending.Reddit[0].Description)
	assert.Equal(t, maxStories, len(trending.HackerNews))
	assert.Equal(t, 4, trending.HackerNews[0].Comments)
	assert.Equal(t, 0, len(trending.Twitter))
}

func TestFetchFallsBackToSearch(t *testing.T) {
	server := newUpstream(t, upstreamOptions{trendingPage: `<html><body>nothing here</body></html>`})

	trending, err := newTestAdapter(server).Fetch(context.Background(), Params{})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(trending.GitHub))
	assert.Equal(t, "a/b", trending.GitHub[0].Name)
	assert.Equal(t, "No description", trending.GitHub[0].Description)
	assert.Equal(t, "Rust", trending.GitHub[0].Language)
}

func TestFetchLeavesFailedListsEmpty(t *testing.T) {
	server := newUpstream(t, upstreamOptions{trendingPage: trendingPage, redditStatus: http.StatusForbidden})

	trending, err := newTestAdapter(server).Fetch(context.Background(), Params{})
	assert.Equal(t, nil, err)
	assert.NotEqual(t, nil, trending.Reddit)
	assert.Equal(t, 0, len(trending.Reddit))
	assert.Equal(t, 2, len(trending.GitHub))
}
