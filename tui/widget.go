package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/termdetox/terminal-detox/client"
	"github.com/termdetox/terminal-detox/clocks"
	"github.com/termdetox/terminal-detox/registry"
	"github.com/termdetox/terminal-detox/sysinfo"
	"github.com/termdetox/terminal-detox/todo"
	"github.com/termdetox/terminal-detox/types"
	"github.com/termdetox/terminal-detox/widget"
)

const statusTimeFormat = "15:04:05"

// Env is what widgets share: the API client, the local stores and a way to
// ask the dashboard for a redraw
type Env struct {
	API             *client.Client
	Todos           *todo.List
	Clocks          *clocks.Clocks
	SysInfo         *sysinfo.Collector
	DefaultLocation string
	Now             func() time.Time
	Logger          zerolog.Logger

	notify func()
}

func (e *Env) changed() {
	if e.notify != nil {
		e.notify()
	}
}

// Widget is one card on the dashboard
type Widget interface {
	ID() string
	Title() string
	// Start begins fetching; it is called once after the widget is built
	Start()
	Refetch()
	// Reconcile applies props pushed from the registry since the last call
	Reconcile(props map[string]interface{})
	// HandleKey reacts to a key while the widget has focus
	HandleKey(key string) bool
	Body(styles Styles, width int) []string
	Status() string
	Close()
}

// Factory builds a widget from its registry entry
type Factory func(env *Env, config registry.Config) Widget

// Renderers maps component names to the factory building them
type Renderers map[string]Factory

// DefaultRenderers gets a factory for every component in the catalog
func DefaultRenderers() Renderers {
	return Renderers{
		"QuoteWidget":       newQuoteWidget,
		"WeatherWidget":     newWeatherWidget,
		"TrendingWidget":    newTrendingWidget,
		"HackerNewsWidget":  newHackerNewsWidget,
		"NewsWidget":        newNewsWidget,
		"RedditWidget":      newRedditWidget,
		"CryptoWidget":      newCryptoWidget,
		"StocksWidget":      newStocksWidget,
		"WorldClocksWidget": newClocksWidget,
		"TodoWidget":        newTodoWidget,
		"SystemInfoWidget":  newSystemInfoWidget,
	}
}

// Build creates the widget for the entry. Unknown components get a
// placeholder card instead of failing
func (r Renderers) Build(env *Env, config registry.Config) Widget {
	factory, ok := r[config.Component]
	if !ok {
		return &notFoundWidget{config: config}
	}
	return factory(env, config)
}

type notFoundWidget struct {
	config registry.Config
}

func (w *notFoundWidget) ID() string                             { return w.config.ID }
func (w *notFoundWidget) Title() string                          { return w.config.ID }
func (w *notFoundWidget) Start()                                 {}
func (w *notFoundWidget) Refetch()                               {}
func (w *notFoundWidget) Reconcile(props map[string]interface{}) {}
func (w *notFoundWidget) HandleKey(key string) bool              { return false }
func (w *notFoundWidget) Status() string                         { return "" }
func (w *notFoundWidget) Close()                                 {}

func (w *notFoundWidget) Body(styles Styles, width int) []string {
	return []string{styles.Error.Render(fit(fmt.Sprintf("Widget not found: %s", w.config.Component), width))}
}

// queryWidget is a card backed by an API route: its props derive the URL
// and a Query holds the fetch state
type queryWidget[T any] struct {
	id     string
	title  string
	env    *Env
	props  *widget.Props
	query  *widget.Query[T]
	urlFor func(*widget.Props) string
	render func(data T, props *widget.Props, styles Styles, width int) []string
	keys   func(key string, props *widget.Props) bool

	mu          sync.Mutex
	updatedAt   time.Time
	unbind      func()
	unsubscribe func()
}

func newQueryWidget[T any](
	env *Env,
	config registry.Config,
	title string,
	what string,
	defaults map[string]interface{},
	urlFor func(*widget.Props) string,
	render func(data T, props *widget.Props, styles Styles, width int) []string,
) *queryWidget[T] {
	initial := make(map[string]interface{}, len(defaults)+len(config.Props))
	for key, value := range defaults {
		initial[key] = value
	}
	for key, value := range config.Props {
		initial[key] = value
	}

	w := &queryWidget[T]{
		id:     config.ID,
		title:  title,
		env:    env,
		props:  widget.NewProps(initial),
		urlFor: urlFor,
		render: render,
	}

	w.query = widget.NewQuery[T](func(ctx context.Context, url string) types.Response[T] {
		return client.Fetch[T](ctx, env.API, what, url)
	})
	w.unsubscribe = w.query.Subscribe(func(state widget.State[T]) {
		if !state.Loading {
			w.mu.Lock()
			w.updatedAt = env.Now()
			w.mu.Unlock()
		}
		env.changed()
	})

	return w
}

func (w *queryWidget[T]) ID() string {
	return w.id
}

func (w *queryWidget[T]) Title() string {
	return w.title
}

func (w *queryWidget[T]) Start() {
	w.mu.Lock()
	started := w.unbind != nil
	w.mu.Unlock()
	if started {
		return
	}

	unbind := widget.Bind(w.props, w.query, w.urlFor)

	w.mu.Lock()
	w.unbind = unbind
	w.mu.Unlock()
}

func (w *queryWidget[T]) Refetch() {
	w.query.Refetch()
}

func (w *queryWidget[T]) Reconcile(props map[string]interface{}) {
	w.props.Reconcile(props)
}

func (w *queryWidget[T]) HandleKey(key string) bool {
	if w.keys == nil {
		return false
	}
	return w.keys(key, w.props)
}

func (w *queryWidget[T]) Body(styles Styles, width int) []string {
	state := w.query.State()

	switch {
	case state.Data != nil:
		lines := w.render(*state.Data, w.props, styles, width)
		if state.Warning != "" {
			lines = append(lines, styles.Warning.Render(fit("! "+state.Warning, width)))
		}
		return lines
	case state.Error != "":
		return []string{styles.Error.Render(fit("Error: "+state.Error, width))}
	}
	return []string{styles.Muted.Render("Loading...")}
}

func (w *queryWidget[T]) Status() string {
	state := w.query.State()
	if state.Loading {
		return "Loading..."
	}
	if state.Error != "" {
		return "Error"
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.updatedAt.IsZero() {
		return ""
	}
	return "Updated " + w.updatedAt.Format(statusTimeFormat)
}

func (w *queryWidget[T]) Close() {
	w.mu.Lock()
	if w.unbind != nil {
		w.unbind()
		w.unbind = nil
	}
	w.mu.Unlock()

	w.unsubscribe()
	w.query.Close()
}

// cycle moves a string prop to the option after its current value
func cycle(props *widget.Props, key string, options []string) bool {
	current := props.String(key, options[0])

	next := options[0]
	for i, option := range options {
		if option == current {
			next = options[(i+1)%len(options)]
			break
		}
	}
	return props.Update(map[string]interface{}{key: next})
}
