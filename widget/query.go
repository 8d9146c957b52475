package widget

import (
	"context"
	"sync"

	"github.com/termdetox/terminal-detox/types"
)

// State is a snapshot of a widget's fetch state.
// Warning carries the message of an envelope that had both data and an error
type State[T any] struct {
	Data    *T
	Loading bool
	Error   string
	Warning string
}

// FetchFunc requests a URL and answers with an envelope.
// It must honour cancellation of the context
type FetchFunc[T any] func(ctx context.Context, url string) types.Response[T]

// Query owns the data/loading/error state of a single widget.
// Each request is tagged with a generation; only the newest one may
// update the state, and starting a request cancels the previous one
type Query[T any] struct {
	mu         sync.Mutex
	fetch      FetchFunc[T]
	url        string
	generation uint64
	cancel     context.CancelFunc
	state      State[T]
	observers  map[int]func(State[T])
	nextID     int
	closed     bool
	inFlight   sync.WaitGroup

	// emit serializes observer calls so they see transitions in order
	emit sync.Mutex
}

// NewQuery creates a query that has not requested anything yet
func NewQuery[T any](fetch FetchFunc[T]) *Query[T] {
	return &Query[T]{
		fetch:     fetch,
		observers: make(map[int]func(State[T])),
	}
}

// SetURL points the query at a new URL. The URL encodes every dependency of
// the request, so a request starts only when it differs from the current one.
// An empty URL means there is nothing to fetch yet.
// The return value reports whether a request was started
func (q *Query[T]) SetURL(url string) bool {
	q.mu.Lock()
	if q.closed || url == "" || url == q.url {
		q.mu.Unlock()
		return false
	}
	q.url = url
	q.startLocked()
	q.notifyAndUnlock()
	return true
}

// Refetch restarts the request for the current URL
func (q *Query[T]) Refetch() bool {
	q.mu.Lock()
	if q.closed || q.url == "" {
		q.mu.Unlock()
		return false
	}
	q.startLocked()
	q.notifyAndUnlock()
	return true
}

// URL gets the URL the query currently points at
func (q *Query[T]) URL() string {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.url
}

// State gets a snapshot of the current state
func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.state
}

// Subscribe registers an observer called after every state transition.
// Observers get the new state and must not call back into the query.
// Calling the returned function removes it
func (q *Query[T]) Subscribe(fn func(State[T])) func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := q.nextID
	q.nextID++
	q.observers[id] = fn

	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		delete(q.observers, id)
	}
}

// Wait blocks until every request started so far has completed
func (q *Query[T]) Wait() {
	q.inFlight.Wait()
}

// Close cancels the outstanding request; later results are discarded
func (q *Query[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}

// startLocked must be called with the lock held
func (q *Query[T]) startLocked() {
	if q.cancel != nil {
		q.cancel()
	}

	q.generation++
	generation := q.generation
	url := q.url

	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	q.state.Loading = true

	q.inFlight.Add(1)
	go func() {
		defer q.inFlight.Done()
		defer cancel()

		response := q.fetch(ctx, url)
		q.finish(generation, response)
	}()
}

func (q *Query[T]) finish(generation uint64, response types.Response[T]) {
	q.mu.Lock()
	if q.closed || generation != q.generation {
		q.mu.Unlock()
		return
	}

	q.cancel = nil
	q.state.Loading = false
	if response.Data != nil {
		q.state.Data = response.Data
		q.state.Error = ""
		q.state.Warning = response.ErrorMessage()
	} else {
		message := response.ErrorMessage()
		if message == "" {
			message = "No data available"
		}
		q.state.Data = nil
		q.state.Error = message
		q.state.Warning = ""
	}
	q.notifyAndUnlock()
}

// notifyAndUnlock must be called with the lock held. Observers run after the
// lock is released but before any later transition can be announced
func (q *Query[T]) notifyAndUnlock() {
	snapshot := q.state
	observers := make([]func(State[T]), 0, len(q.observers))
	for _, fn := range q.observers {
		observers = append(observers, fn)
	}

	q.emit.Lock()
	q.mu.Unlock()
	defer q.emit.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}
