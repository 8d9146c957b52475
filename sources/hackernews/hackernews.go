package hackernews

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/types"
)

// Types are the story lists published by the Hacker News API
var Types = []string{"top", "new", "best", "ask", "show"}

// Params are the options of a story list request
type Params struct {
	Type  string
	Limit int
}

// CacheKey implements sources.Keyed
func (p Params) CacheKey() string {
	return fmt.Sprintf("%s:%d", p.Type, p.Limit)
}

// Validate checks the story list type
func (p Params) Validate() error {
	for _, storyType := range Types {
		if p.Type == storyType {
			return nil
		}
	}

	return sources.NewInvalidParamError("type", p.Type, "must be one of "+strings.Join(Types, ", "))
}

// Adapter fetches stories from the Firebase-backed Hacker News API
type Adapter struct {
	client  *sources.Client
	baseURL string
}

// NewAdapter creates a Hacker News adapter against the public API
func NewAdapter(client *sources.Client) *Adapter {
	return NewAdapterWithURL(client, "https://hacker-news.firebaseio.com")
}

// NewAdapterWithURL creates a Hacker News adapter against the given base URL
func NewAdapterWithURL(client *sources.Client, baseURL string) *Adapter {
	return &Adapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name gets the display name of the source
func (a *Adapter) Name() string {
	return "HackerNews"
}

// Expected JSON from an item request
type item struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Descendants int    `json:"descendants"`
	Type        string `json:"type"`
}

// Fetch gets the first stories of the list, in list order
func (a *Adapter) Fetch(ctx context.Context, params Params) ([]types.HackerNewsItem, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}

	ids, err := a.StoryIDs(ctx, params.Type)
	if err != nil {
		return nil, err
	}
	if params.Limit > 0 && len(ids) > params.Limit {
		ids = ids[:params.Limit]
	}

	return a.Items(ctx, ids)
}

// StoryIDs gets the ids of a story list
func (a *Adapter) StoryIDs(ctx context.Context, storyType string) ([]int64, error) {
	var ids []int64
	err := a.client.GetJSON(ctx, a.Name(), fmt.Sprintf("%s/v0/%sstories.json", a.baseURL, storyType), nil, &ids)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// Items fetches the items concurrently, keeping their order
// and leaving out any that failed or have no title. It only
// errors when every item failed, with the last failure seen
func (a *Adapter) Items(ctx context.Context, ids []int64) ([]types.HackerNewsItem, error) {
	fetched := make([]*item, len(ids))
	failures := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			var result item
			err := a.client.GetJSON(ctx, a.Name(), fmt.Sprintf("%s/v0/item/%d.json", a.baseURL, id), nil, &result)
			if err != nil {
				failures[i] = err
				return
			}
			fetched[i] = &result
		}(i, id)
	}
	wg.Wait()

	var lastErr error
	resolved := 0
	items := []types.HackerNewsItem{}
	for i, story := range fetched {
		if story == nil {
			lastErr = failures[i]
			continue
		}
		resolved++
		if story.Title == "" {
			continue
		}

		items = append(items, normalize(*story))
	}

	if resolved == 0 && lastErr != nil {
		return nil, lastErr
	}
	return items, nil
}

// Fills in the defaults for fields Hacker News omits
func normalize(story item) types.HackerNewsItem {
	url := story.URL
	if url == "" {
		url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", story.ID)
	}
	by := story.By
	if by == "" {
		by = "unknown"
	}

	return types.HackerNewsItem{
		ID:          story.ID,
		Title:       story.Title,
		URL:         url,
		Score:       story.Score,
		By:          by,
		Time:        story.Time,
		Descendants: story.Descendants,
		Type:        story.Type,
	}
}
