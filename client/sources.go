package client

import (
	"context"

	"github.com/termdetox/terminal-detox/types"
)

// Weather fetches the current conditions and forecast for a location
func (c *Client) Weather(ctx context.Context, location string) types.Response[types.WeatherData] {
	return Fetch[types.WeatherData](ctx, c, "weather", c.WeatherURL(location))
}

// News fetches headlines for a category
func (c *Client) News(ctx context.Context, category string, limit int) types.Response[[]types.NewsItem] {
	return Fetch[[]types.NewsItem](ctx, c, "news", c.NewsURL(category, limit))
}

// Reddit fetches posts from a subreddit
func (c *Client) Reddit(ctx context.Context, subreddit string, limit int) types.Response[[]types.RedditPost] {
	return Fetch[[]types.RedditPost](ctx, c, "Reddit posts", c.RedditURL(subreddit, limit))
}

// HackerNews fetches stories of a listing type
func (c *Client) HackerNews(ctx context.Context, storyType string, limit int) types.Response[[]types.HackerNewsItem] {
	return Fetch[[]types.HackerNewsItem](ctx, c, "Hacker News", c.HackerNewsURL(storyType, limit))
}

// Trending fetches the combined trending view
func (c *Client) Trending(ctx context.Context) types.Response[types.SocialTrending] {
	return Fetch[types.SocialTrending](ctx, c, "trending", c.TrendingURL())
}

// Quote fetches a random quote
func (c *Client) Quote(ctx context.Context) types.Response[types.QuoteOfTheDay] {
	return Fetch[types.QuoteOfTheDay](ctx, c, "quote", c.QuoteURL())
}

// Crypto fetches USD prices keyed by coin id
func (c *Client) Crypto(ctx context.Context, ids []string) types.Response[map[string]types.CryptoPrice] {
	return Fetch[map[string]types.CryptoPrice](ctx, c, "crypto prices", c.CryptoURL(ids))
}

// CryptoSearch resolves a symbol or name to a coin
func (c *Client) CryptoSearch(ctx context.Context, query string) types.Response[types.CryptoMatch] {
	return Fetch[types.CryptoMatch](ctx, c, "crypto search", c.CryptoSearchURL(query))
}

// Stocks fetches quotes for the symbols over the requested periods
func (c *Client) Stocks(ctx context.Context, symbols []string, periods []string) types.Response[[]types.StockQuote] {
	return Fetch[[]types.StockQuote](ctx, c, "stocks", c.StocksURL(symbols, periods))
}
