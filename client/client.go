package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/termdetox/terminal-detox/types"
)

const (
	// DefaultBaseURL is where the dashboard looks for the API server
	DefaultBaseURL = "http://localhost:8080"
	// UserAgent identifies the dashboard to the API server
	UserAgent = "Terminal-Detox-App/1.0"

	maxBodyBytes = 4 << 20
)

// Client talks to the Terminal Detox API server.
// Every call answers with an envelope, failures included
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a new API client
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// BaseURL gets the server address the client sends requests to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL builds the absolute address of an API route.
// Empty query values are left out
func (c *Client) URL(path string, query url.Values) string {
	clean := url.Values{}
	for key, values := range query {
		for _, value := range values {
			if value != "" {
				clean.Add(key, value)
			}
		}
	}

	if len(clean) == 0 {
		return c.baseURL + path
	}

	return c.baseURL + path + "?" + clean.Encode()
}

// Fetch requests the URL and decodes the envelope.
// It never fails: network problems, bad statuses and malformed bodies all
// come back as an envelope carrying only an error message
func Fetch[T any](ctx context.Context, c *Client, what string, rawURL string) types.Response[T] {
	response, err := fetch[T](ctx, c, rawURL)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", rawURL).Msg("API fetch failed")
		return types.NewErrorResponse[T](fmt.Sprintf("Failed to fetch %s: %s", what, err))
	}

	return response
}

func fetch[T any](ctx context.Context, c *Client, rawURL string) (types.Response[T], error) {
	var response types.Response[T]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return response, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return response, err
	}
	defer res.Body.Close()

	body, err := ioutil.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return response, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// Error routes still answer with an envelope; prefer its message
		var failed types.Response[T]
		if json.Unmarshal(body, &failed) == nil && failed.Error != nil {
			return failed, nil
		}
		return response, fmt.Errorf("HTTP %d: %s", res.StatusCode, http.StatusText(res.StatusCode))
	}

	err = json.Unmarshal(body, &response)
	if err != nil {
		return response, fmt.Errorf("invalid response body: %s", err)
	}

	return response, nil
}

// WeatherURL is the address of the weather route for a location
func (c *Client) WeatherURL(location string) string {
	return c.URL("/api/weather", url.Values{"location": {location}})
}

// NewsURL is the address of the news route for a category
func (c *Client) NewsURL(category string, limit int) string {
	return c.URL("/api/news", url.Values{"category": {category}, "limit": {limitParam(limit)}})
}

// RedditURL is the address of the reddit route for a subreddit
func (c *Client) RedditURL(subreddit string, limit int) string {
	return c.URL("/api/reddit", url.Values{"subreddit": {subreddit}, "limit": {limitParam(limit)}})
}

// HackerNewsURL is the address of the hackernews route
func (c *Client) HackerNewsURL(storyType string, limit int) string {
	return c.URL("/api/hackernews", url.Values{"type": {storyType}, "limit": {limitParam(limit)}})
}

// TrendingURL is the address of the trending route
func (c *Client) TrendingURL() string {
	return c.URL("/api/trending", nil)
}

// QuoteURL is the address of the quote route
func (c *Client) QuoteURL() string {
	return c.URL("/api/quote", nil)
}

// CryptoURL is the address of the crypto prices route
func (c *Client) CryptoURL(ids []string) string {
	return c.URL("/api/crypto", url.Values{"ids": {strings.Join(ids, ",")}})
}

// CryptoSearchURL is the address of the crypto search route
func (c *Client) CryptoSearchURL(query string) string {
	return c.URL("/api/crypto/search", url.Values{"query": {query}})
}

// StocksURL is the address of the stocks route
func (c *Client) StocksURL(symbols []string, periods []string) string {
	return c.URL("/api/stocks", url.Values{
		"symbols": {strings.Join(symbols, ",")},
		"periods": {strings.Join(periods, ",")},
	})
}

func limitParam(limit int) string {
	if limit <= 0 {
		return ""
	}
	return strconv.Itoa(limit)
}
