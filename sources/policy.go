package sources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/termdetox/terminal-detox/cache"
)

// Adapter translates a single upstream data source into a payload
type Adapter[P any, T any] interface {
	Name() string
	Fetch(ctx context.Context, params P) (T, error)
}

// Fallbacker is implemented by cosmetic adapters (quote, crypto)
// that may answer with safe defaults instead of an error
type Fallbacker[P any, T any] interface {
	Fallback(params P) T
}

// Keyed is implemented by parameter structs whose results may be cached
type Keyed interface {
	CacheKey() string
}

// Policy is the retry/cache/fallback behavior applied uniformly to every adapter
type Policy struct {
	Retries int
	Backoff time.Duration
	Cache   cache.Cache
	TTL     time.Duration
	TTLs    map[string]time.Duration
	Logger  zerolog.Logger
}

// TTLFor gets the cache lifetime for the named source
func (p *Policy) TTLFor(source string) time.Duration {
	if ttl, ok := p.TTLs[source]; ok {
		return ttl
	}

	return p.TTL
}

// Fetch runs the adapter under the policy:
// a cache hit short-circuits, transient upstream failures are retried with backoff,
// and once retries are exhausted cosmetic adapters fall back to their defaults
func Fetch[P any, T any](ctx context.Context, policy *Policy, adapter Adapter[P, T], params P) (T, error) {
	name := adapter.Name()
	key := ""
	if keyed, ok := any(params).(Keyed); ok && policy.Cache != nil {
		key = name + ":" + keyed.CacheKey()
		if cached, ok := readCache[T](ctx, policy, key); ok {
			return cached, nil
		}
	}

	var result T
	var err error
	for attempt := 0; attempt <= policy.Retries; attempt++ {
		if attempt > 0 {
			policy.Logger.Debug().Str("source", name).Int("attempt", attempt).Err(err).Msg("retrying upstream fetch")
			if !sleep(ctx, policy.Backoff*time.Duration(attempt)) {
				break
			}
		}

		result, err = adapter.Fetch(ctx, params)
		if err == nil || !IsRetryable(err) {
			break
		}
	}

	if err == nil {
		if key != "" {
			writeCache(ctx, policy, key, name, result)
		}
		return result, nil
	}

	if fallbacker, ok := adapter.(Fallbacker[P, T]); ok {
		policy.Logger.Warn().Str("source", name).Err(err).Msg("upstream failed; serving fallback data")
		return fallbacker.Fallback(params), nil
	}

	policy.Logger.Error().Str("source", name).Err(err).Msg("upstream failed")
	var zero T
	return zero, err
}

// IsRetryable reports whether an error is worth another attempt:
// connection failures, rate limiting and 5xx responses
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Status >= 500 || upstream.Status == http.StatusTooManyRequests
	}

	var request *RequestError
	return errors.As(err, &request)
}

func readCache[T any](ctx context.Context, policy *Policy, key string) (T, bool) {
	var result T
	raw, ok, err := policy.Cache.Get(ctx, key)
	if err != nil {
		policy.Logger.Warn().Str("key", key).Err(err).Msg("could not read from the response cache")
		return result, false
	}
	if !ok {
		return result, false
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, false
	}

	return result, true
}

func writeCache[T any](ctx context.Context, policy *Policy, key string, source string, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	err = policy.Cache.Set(ctx, key, raw, policy.TTLFor(source))
	if err != nil {
		policy.Logger.Warn().Str("key", key).Err(err).Msg("could not write to the response cache")
	}
}

// Waits for the duration unless the context ends first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
