package news

import (
	"context"
	"errors"
	"time"

	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/types"
)

// Params are the options of a headline request
type Params struct {
	Category string
	Limit    int
}

// Provider bundles together the RSS feed fetcher
// and a cache in front of it that is refreshed periodically
//
// Safe to keep multiple references
type Provider struct {
	stopFetch   chan struct{}
	fetchPeriod time.Duration
	feeds       []string
	client      *sources.Client

	*Cache
}

// NewProvider creates the provider
// (doesn't fetch or start goroutines)
func NewProvider(client *sources.Client, feeds []string, fetchPeriod time.Duration) *Provider {
	return &Provider{
		stopFetch:   make(chan struct{}),
		fetchPeriod: fetchPeriod,
		feeds:       feeds,
		client:      client,
		Cache:       &Cache{},
	}
}

// Name gets the display name of the source
func (p *Provider) Name() string {
	return "News"
}

// Connect starts the goroutine that periodically refreshes the feeds.
// A non-positive fetch period disables background refreshes;
// headlines are then fetched on every request
func (p *Provider) Connect(ctx context.Context) error {
	if p.fetchPeriod <= 0 {
		return nil
	}

	go p.periodFetch()
	return nil
}

// Disconnect stops the periodic goroutine
func (p *Provider) Disconnect(ctx context.Context) error {
	if p.fetchPeriod <= 0 {
		return nil
	}

	select {
	case p.stopFetch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// Fetch gets the headlines for the category, from the cache when it is loaded
func (p *Provider) Fetch(ctx context.Context, params Params) ([]types.NewsItem, error) {
	items, err := p.Cache.GetAll()
	var notInitialized *CacheNotInitializedError
	if errors.As(err, &notInitialized) {
		items, err = FetchFeeds(ctx, p.client, p.feeds)
		if err != nil {
			return nil, err
		}
		p.Cache.Load(items, time.Now())

		// Hand out a copy since the cache now owns the slice
		items, err = p.Cache.GetAll()
	}
	if err != nil {
		return nil, err
	}

	filtered := Filter(items, params.Category)
	if params.Limit > 0 && len(filtered) > params.Limit {
		filtered = filtered[:params.Limit]
	}

	return filtered, nil
}

// Periodically fetches the feeds
// and stores the merged headlines into the cache
func (p *Provider) periodFetch() {
	humanDuration := durafmt.Parse(p.fetchPeriod).LimitFirstN(2).String()
	p.tryFetch(humanDuration)
	for {
		select {
		case <-p.stopFetch:
			return
		case <-time.After(p.fetchPeriod):
			p.tryFetch(humanDuration)
		}
	}
}

// Attempts to fetch and reload the cache,
// logging the error if it occurs
func (p *Provider) tryFetch(delayUntilNext string) {
	items, err := FetchFeeds(context.Background(), p.client, p.feeds)
	if err != nil {
		// Report error,
		// but continue the goroutine
		log.Error().Str("source", "news").Err(err).Msg("an error occurred while refreshing the RSS feed cache")
		return
	}

	p.Cache.Load(items, time.Now())
	log.Info().Str("source", "news").Int("headlines", len(items)).
		Msgf("reloaded RSS feed cache; fetching again in %s", delayUntilNext)
}
