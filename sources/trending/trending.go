package trending

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/hackernews"
	"github.com/termdetox/terminal-detox/types"
)

const (
	maxSubreddits = 10
	maxStories    = 5
)

// Params are the (empty) options of a trending request
type Params struct{}

// CacheKey implements sources.Keyed
func (p Params) CacheKey() string {
	return "all"
}

// URLs are the upstream base URLs used by the trending adapter
type URLs struct {
	GitHub     string
	GitHubAPI  string
	Reddit     string
	HackerNews string
}

// DefaultURLs are the public upstreams
var DefaultURLs = URLs{
	GitHub:     "https://github.com",
	GitHubAPI:  "https://api.github.com",
	Reddit:     "https://www.reddit.com",
	HackerNews: "https://hacker-news.firebaseio.com",
}

// Adapter aggregates what is trending on GitHub, Reddit and Hacker News
type Adapter struct {
	client       *sources.Client
	githubURL    string
	githubAPIURL string
	redditURL    string
	hackerNews   *hackernews.Adapter
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAdapter creates a trending adapter against the given upstreams
func NewAdapter(client *sources.Client, urls URLs) *Adapter {
	return &Adapter{
		client:       client,
		githubURL:    strings.TrimRight(urls.GitHub, "/"),
		githubAPIURL: strings.TrimRight(urls.GitHubAPI, "/"),
		redditURL:    strings.TrimRight(urls.Reddit, "/"),
		hackerNews:   hackernews.NewAdapterWithURL(client, urls.HackerNews),
		logger:       log.With().Str("source", "trending").Logger(),
		now:          time.Now,
	}
}

// Name gets the display name of the source
func (a *Adapter) Name() string {
	return "Trending"
}

// Fetch gets all trending lists concurrently.
// A failing list is left empty instead of failing the whole payload;
// there is no public source for the twitter list so it is always empty
func (a *Adapter) Fetch(ctx context.Context, params Params) (types.SocialTrending, error) {
	trending := types.SocialTrending{
		Twitter:    []types.TrendingTopic{},
		GitHub:     []types.TrendingRepo{},
		Reddit:     []types.TrendingSubreddit{},
		HackerNews: []types.TrendingStory{},
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		repos, err := a.fetchGitHub(ctx)
		if err != nil {
			a.logger.Warn().Err(err).Msg("could not fetch GitHub trending")
			return
		}
		trending.GitHub = repos
	}()
	go func() {
		defer wg.Done()
		subreddits, err := a.fetchSubreddits(ctx)
		if err != nil {
			a.logger.Warn().Err(err).Msg("could not fetch popular subreddits")
			return
		}
		trending.Reddit = subreddits
	}()
	go func() {
		defer wg.Done()
		stories, err := a.fetchStories(ctx)
		if err != nil {
			a.logger.Warn().Err(err).Msg("could not fetch Hacker News top stories")
			return
		}
		trending.HackerNews = stories
	}()
	wg.Wait()

	return trending, nil
}

// Expected JSON from the popular subreddits listing
type subredditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				DisplayName         string `json:"display_name"`
				DisplayNamePrefixed string `json:"display_name_prefixed"`
				Subscribers         int    `json:"subscribers"`
				PublicDescription   string `json:"public_description"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (a *Adapter) fetchSubreddits(ctx context.Context) ([]types.TrendingSubreddit, error) {
	var listing subredditListing
	headers := http.Header{"Accept": []string{"application/json"}}
	err := a.client.GetJSON(ctx, "Reddit", a.redditURL+"/subreddits/popular.json?limit=10", headers, &listing)
	if err != nil {
		return nil, err
	}

	subreddits := []types.TrendingSubreddit{}
	for _, child := range listing.Data.Children {
		if len(subreddits) == maxSubreddits {
			break
		}

		description := child.Data.PublicDescription
		if description == "" {
			description = child.Data.DisplayNamePrefixed
		}
		subreddits = append(subreddits, types.TrendingSubreddit{
			Name:        child.Data.DisplayName,
			Subscribers: child.Data.Subscribers,
			Description: description,
		})
	}

	return subreddits, nil
}

func (a *Adapter) fetchStories(ctx context.Context) ([]types.TrendingStory, error) {
	ids, err := a.hackerNews.StoryIDs(ctx, "top")
	if err != nil {
		return nil, err
	}
	if len(ids) > maxStories {
		ids = ids[:maxStories]
	}

	items, err := a.hackerNews.Items(ctx, ids)
	if err != nil {
		return nil, err
	}

	stories := []types.TrendingStory{}
	for _, item := range items {
		stories = append(stories, types.TrendingStory{
			Title:    item.Title,
			Score:    item.Score,
			Comments: item.Descendants,
			URL:      item.URL,
		})
	}

	return stories, nil
}
