package news

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/ksuid"
	"golang.org/x/net/html"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/types"
)

// DefaultFeeds are the RSS feeds aggregated into the headline list
var DefaultFeeds = []string{
	"https://feeds.bbci.co.uk/news/rss.xml",
	"https://feeds.npr.org/1001/rss.xml",
	"https://www.theguardian.com/world/rss",
}

const (
	itemsPerFeed = 5
	maxItems     = 20
)

var rssHeaders = http.Header{
	"Accept": []string{"application/rss+xml, application/xml, text/xml"},
}

// Expected XML from an RSS 2.0 feed
type rssDocument struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

// FetchFeeds fetches every feed concurrently and merges their items:
// the first few items of each feed, deduplicated by title, newest first.
// Individual feeds may fail; an error is only returned if all of them did
func FetchFeeds(ctx context.Context, client *sources.Client, feeds []string) ([]types.NewsItem, error) {
	perFeed := make([][]types.NewsItem, len(feeds))
	errs := make([]error, len(feeds))

	var wg sync.WaitGroup
	for i, feedURL := range feeds {
		wg.Add(1)
		go func(i int, feedURL string) {
			defer wg.Done()
			perFeed[i], errs[i] = fetchFeed(ctx, client, feedURL)
		}(i, feedURL)
	}
	wg.Wait()

	var lastErr error
	failed := 0
	for i, err := range errs {
		if err != nil {
			log.Warn().Str("source", "news").Str("feed", feeds[i]).Err(err).Msg("could not fetch RSS feed")
			lastErr = err
			failed++
		}
	}
	if len(feeds) > 0 && failed == len(feeds) {
		return nil, lastErr
	}

	// Remove duplicate titles, keeping the first occurrence
	seen := make(map[string]struct{})
	items := []types.NewsItem{}
	for _, feedItems := range perFeed {
		for _, item := range feedItems {
			if _, ok := seen[item.Title]; ok {
				continue
			}
			seen[item.Title] = struct{}{}
			items = append(items, item)
		}
	}

	// The timestamp layout sorts lexically the same as chronologically
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt > items[j].PublishedAt
	})

	if len(items) > maxItems {
		items = items[:maxItems]
	}

	return items, nil
}

func fetchFeed(ctx context.Context, client *sources.Client, feedURL string) ([]types.NewsItem, error) {
	body, err := client.Get(ctx, "News", feedURL, rssHeaders)
	if err != nil {
		return nil, err
	}

	var document rssDocument
	err = xml.Unmarshal(body, &document)
	if err != nil {
		return nil, sources.NewDecodeError("News", err)
	}

	now := time.Now()
	items := []types.NewsItem{}
	for _, raw := range document.Channel.Items {
		if len(items) == itemsPerFeed {
			break
		}

		title := strings.TrimSpace(html.UnescapeString(raw.Title))
		link := strings.TrimSpace(raw.Link)
		if title == "" || link == "" {
			continue
		}

		items = append(items, types.NewsItem{
			ID:          "news-" + ksuid.New().String(),
			Title:       title,
			Source:      sourceName(link),
			URL:         link,
			PublishedAt: types.Timestamp(parsePubDate(raw.PubDate, now)),
			Category:    generalLabel,
		})
	}

	return items, nil
}

// Derives a display name from the link host ("www.theguardian.com" -> "Theguardian")
func sourceName(link string) string {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Hostname() == "" {
		return "News"
	}

	name := parsed.Hostname()
	name = strings.Replace(name, "www.", "", 1)
	name = strings.Replace(name, ".com", "", 1)
	name = strings.Replace(name, ".co.uk", "", 1)
	if name == "" {
		return "News"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
}

func parsePubDate(value string, fallback time.Time) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range pubDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}

	return fallback
}
