package sources

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/rs/zerolog"

	"github.com/termdetox/terminal-detox/cache"
)

type fakeParams struct {
	key string
}

func (p fakeParams) CacheKey() string {
	return p.key
}

type fakeAdapter struct {
	calls   int
	errs    []error
	payload string
}

func (f *fakeAdapter) Name() string {
	return "fake"
}

func (f *fakeAdapter) Fetch(ctx context.Context, params fakeParams) (string, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return f.payload, nil
}

type cosmeticAdapter struct {
	fakeAdapter
}

func (c *cosmeticAdapter) Fallback(params fakeParams) string {
	return "default"
}

func newTestPolicy(c cache.Cache) *Policy {
	return &Policy{
		Retries: 2,
		Backoff: 0,
		Cache:   c,
		TTL:     time.Minute,
		Logger:  zerolog.Nop(),
	}
}

func TestFetchRetriesTransientErrors(t *testing.T) {
	adapter := &fakeAdapter{
		errs:    []error{NewUpstreamError("fake", http.StatusBadGateway), NewRequestError("fake", errors.New("reset"))},
		payload: "ok",
	}

	result, err := Fetch[fakeParams, string](context.Background(), newTestPolicy(nil), adapter, fakeParams{})
	assert.Equal(t, nil, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, adapter.calls)
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	adapter := &fakeAdapter{errs: []error{NewUpstreamError("fake", http.StatusNotFound)}}

	_, err := Fetch[fakeParams, string](context.Background(), newTestPolicy(nil), adapter, fakeParams{})
	assert.NotEqual(t, nil, err)
	assert.Equal(t, 1, adapter.calls)
}

func TestFetchReturnsErrorAfterRetries(t *testing.T) {
	failure := NewUpstreamError("fake", http.StatusServiceUnavailable)
	adapter := &fakeAdapter{errs: []error{failure, failure, failure}}

	_, err := Fetch[fakeParams, string](context.Background(), newTestPolicy(nil), adapter, fakeParams{})
	assert.Equal(t, failure, err)
	assert.Equal(t, 3, adapter.calls)
}

func TestFetchFallsBackForCosmeticSources(t *testing.T) {
	failure := NewDecodeError("fake", errors.New("bad json"))
	adapter := &cosmeticAdapter{fakeAdapter{errs: []error{failure}}}

	result, err := Fetch[fakeParams, string](context.Background(), newTestPolicy(nil), adapter, fakeParams{})
	assert.Equal(t, nil, err)
	assert.Equal(t, "default", result)
}

func TestFetchServesFromCache(t *testing.T) {
	adapter := &fakeAdapter{payload: "fresh"}
	policy := newTestPolicy(cache.NewMemory())

	first, _ := Fetch[fakeParams, string](context.Background(), policy, adapter, fakeParams{key: "london"})
	adapter.payload = "changed"
	second, _ := Fetch[fakeParams, string](context.Background(), policy, adapter, fakeParams{key: "london"})
	third, _ := Fetch[fakeParams, string](context.Background(), policy, adapter, fakeParams{key: "paris"})

	assert.Equal(t, "fresh", first)
	assert.Equal(t, "fresh", second)
	assert.Equal(t, "changed", third)
	assert.Equal(t, 2, adapter.calls)
}

func TestIsRetryable(t *testing.T) {
	assert.Equal(t, true, IsRetryable(NewUpstreamError("x", http.StatusTooManyRequests)))
	assert.Equal(t, true, IsRetryable(NewUpstreamError("x", http.StatusInternalServerError)))
	assert.Equal(t, false, IsRetryable(NewUpstreamError("x", http.StatusForbidden)))
	assert.Equal(t, false, IsRetryable(NewDecodeError("x", errors.New("eof"))))
	assert.Equal(t, false, IsRetryable(NewRequestError("x", context.Canceled)))
	assert.Equal(t, true, IsRetryable(NewRequestError("x", errors.New("connection refused"))))
}
