package widget

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/termdetox/terminal-detox/types"
)

func dataResponse(value string) types.Response[string] {
	return types.NewResponse(value)
}

type countingFetch struct {
	calls int32
	urls  []string
	mu    sync.Mutex
}

func (c *countingFetch) fetch(ctx context.Context, url string) types.Response[string] {
	atomic.AddInt32(&c.calls, 1)
	c.mu.Lock()
	c.urls = append(c.urls, url)
	c.mu.Unlock()
	return dataResponse("data for " + url)
}

func TestQueryLifecycle(t *testing.T) {
	fake := &countingFetch{}
	query := NewQuery(fake.fetch)

	assert.Equal(t, false, query.State().Loading)
	assert.Equal(t, false, query.SetURL(""))

	assert.Equal(t, true, query.SetURL("/api/weather?location=London"))
	query.Wait()

	state := query.State()
	assert.Equal(t, false, state.Loading)
	assert.Equal(t, "", state.Error)
	assert.Equal(t, "data for /api/weather?location=London", *state.Data)

	// The same URL does not refetch
	assert.Equal(t, false, query.SetURL("/api/weather?location=London"))
	query.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.calls))

	// Refetch always does
	assert.Equal(t, true, query.Refetch())
	query.Wait()
	assert.Equal(t, int32(2), atomic.LoadInt32(&fake.calls))
}

func TestQueryNeverResolving(t *testing.T) {
	started := make(chan struct{})
	query := NewQuery(func(ctx context.Context, url string) types.Response[string] {
		close(started)
		<-ctx.Done()
		return dataResponse("late")
	})

	query.SetURL("/api/news")
	<-started

	state := query.State()
	assert.Equal(t, true, state.Loading)
	assert.Equal(t, true, state.Data == nil)
	assert.Equal(t, "", state.Error)

	query.Close()
	query.Wait()

	// The cancelled request's result is discarded
	state = query.State()
	assert.Equal(t, true, state.Data == nil)
	assert.Equal(t, "", state.Error)
}

func TestQueryLastStartWins(t *testing.T) {
	release := make(chan struct{})
	query := NewQuery(func(ctx context.Context, url string) types.Response[string] {
		if url == "/slow" {
			<-release
			return dataResponse("slow")
		}
		return dataResponse("fast")
	})

	query.SetURL("/slow")
	query.SetURL("/fast")
	close(release)
	query.Wait()

	state := query.State()
	assert.Equal(t, false, state.Loading)
	assert.Equal(t, "fast", *state.Data)
}

func TestQueryStartCancelsPrevious(t *testing.T) {
	cancelled := make(chan struct{})
	query := NewQuery(func(ctx context.Context, url string) types.Response[string] {
		if url == "/first" {
			<-ctx.Done()
			close(cancelled)
			return types.NewErrorResponse[string]("cancelled")
		}
		return dataResponse("second")
	})

	query.SetURL("/first")
	query.SetURL("/second")

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("first request was not cancelled")
	}
	query.Wait()
	assert.Equal(t, "second", *query.State().Data)
	assert.Equal(t, "", query.State().Error)
}

func TestQueryErrorAndWarning(t *testing.T) {
	response := types.NewErrorResponse[string]("Failed to fetch news: HTTP 500: Internal Server Error")
	query := NewQuery(func(ctx context.Context, url string) types.Response[string] {
		return response
	})

	query.SetURL("/api/news")
	query.Wait()
	state := query.State()
	assert.Equal(t, true, state.Data == nil)
	assert.Equal(t, "Failed to fetch news: HTTP 500: Internal Server Error", state.Error)

	response = dataResponse("cached").WithWarning("stale")
	query.Refetch()
	query.Wait()
	state = query.State()
	assert.Equal(t, "cached", *state.Data)
	assert.Equal(t, "", state.Error)
	assert.Equal(t, "stale", state.Warning)
}

func TestQueryObservers(t *testing.T) {
	query := NewQuery(func(ctx context.Context, url string) types.Response[string] {
		return dataResponse("ok")
	})

	var mu sync.Mutex
	var loading []bool
	unsubscribe := query.Subscribe(func(state State[string]) {
		mu.Lock()
		defer mu.Unlock()
		loading = append(loading, state.Loading)
	})

	query.SetURL("/api/quote")
	query.Wait()

	mu.Lock()
	assert.Equal(t, []bool{true, false}, loading)
	mu.Unlock()

	unsubscribe()
	query.Refetch()
	query.Wait()

	mu.Lock()
	assert.Equal(t, 2, len(loading))
	mu.Unlock()
}

func TestPropsUpdate(t *testing.T) {
	props := NewProps(map[string]interface{}{"category": "general"})

	notified := 0
	props.Subscribe(func(map[string]interface{}) { notified++ })

	assert.Equal(t, false, props.Update(map[string]interface{}{"category": "general"}))
	assert.Equal(t, true, props.Update(map[string]interface{}{"category": "technology"}))
	assert.Equal(t, false, props.Update(map[string]interface{}{"category": "technology"}))
	assert.Equal(t, 1, notified)
	assert.Equal(t, "technology", props.String("category", "general"))
	assert.Equal(t, "fallback", props.String("missing", "fallback"))
}

func TestPropsReconcile(t *testing.T) {
	props := NewProps(map[string]interface{}{"category": "general"})

	notified := 0
	props.Subscribe(func(map[string]interface{}) { notified++ })

	assert.Equal(t, true, props.Reconcile(map[string]interface{}{"category": "technology"}))
	assert.Equal(t, "technology", props.String("category", ""))

	// A push of the value already shown changes nothing
	assert.Equal(t, false, props.Reconcile(map[string]interface{}{"category": "technology"}))

	// After a local edit the same push applies again
	props.Update(map[string]interface{}{"category": "business"})
	assert.Equal(t, true, props.Reconcile(map[string]interface{}{"category": "technology"}))
	assert.Equal(t, "technology", props.String("category", ""))
	assert.Equal(t, 3, notified)
}

func TestPropsInt(t *testing.T) {
	props := NewProps(map[string]interface{}{"limit": "7", "bad": "many", "float": 3.0})
	assert.Equal(t, 7, props.Int("limit", 15))
	assert.Equal(t, 15, props.Int("bad", 15))
	assert.Equal(t, 3, props.Int("float", 15))
	assert.Equal(t, 15, props.Int("missing", 15))
}

func TestBindSameValueFetchesOnce(t *testing.T) {
	fake := &countingFetch{}
	query := NewQuery(fake.fetch)
	props := NewProps(map[string]interface{}{"location": "New York"})

	Bind(props, query, func(p *Props) string {
		return "/api/weather?location=" + p.String("location", "")
	})
	query.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.calls))

	props.Update(map[string]interface{}{"location": "London"})
	props.Update(map[string]interface{}{"location": "London"})
	query.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&fake.calls))
	assert.Equal(t, []string{
		"/api/weather?location=New York",
		"/api/weather?location=London",
	}, fake.urls)
}
