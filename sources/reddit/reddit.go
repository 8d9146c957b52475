package reddit

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/types"
)

// DefaultSubreddit is used when a request does not name one
const DefaultSubreddit = "all"

// Sorts are the listing orders accepted by Reddit
var Sorts = []string{"hot", "new", "top", "rising"}

var subredditPattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,21}$`)

// Reddit throttles unknown agents much harder than browsers
var browserHeaders = http.Header{
	"User-Agent":      []string{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"},
	"Accept":          []string{"application/json, text/plain, */*"},
	"Accept-Language": []string{"en-US,en;q=0.9"},
	"Cache-Control":   []string{"no-cache"},
}

// Params are the options of a subreddit listing request
type Params struct {
	Subreddit string
	Sort      string
	Limit     int
}

// CacheKey implements sources.Keyed
func (p Params) CacheKey() string {
	return fmt.Sprintf("%s:%s:%d", strings.ToLower(p.Subreddit), p.Sort, p.Limit)
}

// Validate checks the subreddit name and sort order
func (p Params) Validate() error {
	if !subredditPattern.MatchString(p.Subreddit) {
		return sources.NewInvalidParamError("subreddit", p.Subreddit, "must be 2-21 letters, digits or underscores")
	}

	for _, sort := range Sorts {
		if p.Sort == sort {
			return nil
		}
	}

	return sources.NewInvalidParamError("sort", p.Sort, "must be one of "+strings.Join(Sorts, ", "))
}

// Adapter fetches subreddit listings from the public JSON API
type Adapter struct {
	client  *sources.Client
	baseURL string
}

// NewAdapter creates a Reddit adapter against the public API
func NewAdapter(client *sources.Client) *Adapter {
	return NewAdapterWithURL(client, "https://www.reddit.com")
}

// NewAdapterWithURL creates a Reddit adapter against the given base URL
func NewAdapterWithURL(client *sources.Client, baseURL string) *Adapter {
	return &Adapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name gets the display name of the source
func (a *Adapter) Name() string {
	return "Reddit"
}

// Expected JSON from a listing request
type listing struct {
	Data struct {
		Children []struct {
			Kind string `json:"kind"`
			Data struct {
				ID          string  `json:"id"`
				Title       string  `json:"title"`
				Subreddit   string  `json:"subreddit"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				URL         string  `json:"url"`
				Permalink   string  `json:"permalink"`
				Author      string  `json:"author"`
				CreatedUTC  float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch gets the link posts of the subreddit listing;
// a listing without link posts is an error
func (a *Adapter) Fetch(ctx context.Context, params Params) ([]types.RedditPost, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/r/%s/%s.json?limit=%d", a.baseURL, params.Subreddit, params.Sort, params.Limit)
	var response listing
	err = a.client.GetJSON(ctx, a.Name(), url, browserHeaders, &response)
	if err != nil {
		return nil, err
	}

	posts := []types.RedditPost{}
	for _, child := range response.Data.Children {
		if child.Kind != "t3" {
			continue
		}

		post := child.Data
		posts = append(posts, types.RedditPost{
			ID:          post.ID,
			Title:       post.Title,
			Subreddit:   post.Subreddit,
			Score:       post.Score,
			NumComments: post.NumComments,
			URL:         post.URL,
			Permalink:   "https://reddit.com" + post.Permalink,
			Author:      post.Author,
			CreatedAt:   types.Timestamp(time.Unix(int64(post.CreatedUTC), 0)),
		})
	}

	if len(posts) == 0 {
		return nil, sources.NewEmptyResultError(a.Name())
	}
	if params.Limit > 0 && len(posts) > params.Limit {
		posts = posts[:params.Limit]
	}

	return posts, nil
}
