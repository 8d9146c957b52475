package sources

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"time"
)

// DefaultUserAgent is sent to every upstream that does not need a browser-like agent
const DefaultUserAgent = "Terminal-Detox-App/1.0"

// Client wraps an HTTP client with the conventions shared by every upstream call:
// a user agent, a bounded response size and typed errors
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewClient creates a new upstream client
func NewClient(timeout time.Duration, maxBytes int64, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		maxBytes:   maxBytes,
	}
}

// NewClientFrom wraps an existing HTTP client (used in tests against httptest servers)
func NewClientFrom(httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		userAgent:  DefaultUserAgent,
		maxBytes:   2 << 20,
	}
}

// UserAgent gets the default user agent sent upstream
func (c *Client) UserAgent() string {
	return c.userAgent
}

// GetJSON sends a GET request and decodes a JSON body into out
func (c *Client) GetJSON(ctx context.Context, source string, url string, headers http.Header, out interface{}) error {
	body, err := c.Get(ctx, source, url, headers)
	if err != nil {
		return err
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return NewDecodeError(source, err)
	}

	return nil
}

// Get sends a GET request and reads the (size-limited) body,
// failing with an UpstreamError for any non-2xx status
func (c *Client) Get(ctx context.Context, source string, url string, headers http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewRequestError(source, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	for name, values := range headers {
		req.Header.Del(name)
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewRequestError(source, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// Drain a little of the body so the connection can be reused
		io.CopyN(ioutil.Discard, res.Body, 4096)
		return nil, NewUpstreamError(source, res.StatusCode)
	}

	body, err := ioutil.ReadAll(io.LimitReader(res.Body, c.maxBytes))
	if err != nil {
		return nil, NewRequestError(source, err)
	}

	return body, nil
}
