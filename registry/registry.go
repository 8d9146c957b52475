package registry

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/termdetox/terminal-detox/storage"
)

// StorageKey is the key the ordered list of enabled widget ids is persisted under
const StorageKey = "enabledWidgets"

// Config describes a single widget on the dashboard
type Config struct {
	ID        string                 `json:"id"`
	Component string                 `json:"component"`
	Props     map[string]interface{} `json:"props,omitempty"`

	// Pushes holds, per prop key, the sequence number of the UpdateProps
	// call that last set it
	Pushes map[string]int `json:"-"`
}

func (c Config) clone() Config {
	if c.Props != nil {
		props := make(map[string]interface{}, len(c.Props))
		for key, value := range c.Props {
			props[key] = value
		}
		c.Props = props
	}

	if c.Pushes != nil {
		pushes := make(map[string]int, len(c.Pushes))
		for key, seq := range c.Pushes {
			pushes[key] = seq
		}
		c.Pushes = pushes
	}
	return c
}

// PushedSince gets the props set by UpdateProps calls after the sequence
// number, along with the latest sequence number seen
func (c Config) PushedSince(seq int) (map[string]interface{}, int) {
	latest := seq
	pushed := make(map[string]interface{})
	for key, keySeq := range c.Pushes {
		if keySeq <= seq {
			continue
		}
		pushed[key] = c.Props[key]
		if keySeq > latest {
			latest = keySeq
		}
	}
	return pushed, latest
}

// Direction is the way a widget moves in the layout
type Direction int

const (
	// Up moves a widget one slot towards the top
	Up Direction = iota
	// Down moves a widget one slot towards the bottom
	Down
)

// ParseDirection parses "up" or "down"
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(raw) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return Up, NewInvalidDirectionError(raw)
}

var catalog = []Config{
	{ID: "quote", Component: "QuoteWidget"},
	{ID: "weather", Component: "WeatherWidget"},
	{ID: "trending", Component: "TrendingWidget"},
	{ID: "hackernews", Component: "HackerNewsWidget"},
	{ID: "news", Component: "NewsWidget"},
	{ID: "reddit", Component: "RedditWidget"},
	{ID: "crypto", Component: "CryptoWidget"},
	{ID: "stocks", Component: "StocksWidget"},
	{ID: "clocks", Component: "WorldClocksWidget"},
	{ID: "todo", Component: "TodoWidget"},
	{ID: "systeminfo", Component: "SystemInfoWidget"},
}

var defaultIDs = []string{"quote", "weather", "trending", "hackernews", "news", "reddit"}

// Catalog gets every widget that can be enabled
func Catalog() []Config {
	widgets := make([]Config, len(catalog))
	for i, widget := range catalog {
		widgets[i] = widget.clone()
	}
	return widgets
}

// DefaultIDs gets the widgets enabled on a fresh install
func DefaultIDs() []string {
	return append([]string(nil), defaultIDs...)
}

func lookup(id string) (Config, bool) {
	for _, widget := range catalog {
		if widget.ID == id {
			return widget.clone(), true
		}
	}
	return Config{}, false
}

// Snapshot is the registry state handed to observers
type Snapshot struct {
	Widgets    []Config
	RefreshKey int
}

// Registry holds the ordered list of enabled widgets and their props.
// Layout changes are persisted through the store
type Registry struct {
	sync.Mutex
	widgets    []Config
	refreshKey int
	pushSeq    int
	store      storage.Store
	logger     zerolog.Logger
	observers  map[int]func(Snapshot)
	nextID     int
}

// New creates a registry from the persisted layout
func New(store storage.Store, logger zerolog.Logger) *Registry {
	r := &Registry{
		store:     store,
		logger:    logger,
		observers: make(map[int]func(Snapshot)),
	}
	r.widgets = r.load()

	return r
}

func (r *Registry) load() []Config {
	ids := DefaultIDs()

	var saved []string
	found, err := storage.GetJSON(r.store, StorageKey, &saved)
	if err != nil {
		r.logger.Warn().Err(err).Msg("could not load the saved widget layout")
	} else if found {
		ids = saved
	}

	seen := make(map[string]bool)
	widgets := make([]Config, 0, len(ids))
	for _, id := range ids {
		widget, ok := lookup(id)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		widgets = append(widgets, widget)
	}

	if len(widgets) == 0 {
		for _, id := range defaultIDs {
			widget, _ := lookup(id)
			widgets = append(widgets, widget)
		}
	}

	return widgets
}

// Reload reads the persisted layout again (after an external edit).
// Props of widgets that stay enabled are kept
func (r *Registry) Reload() {
	loaded := r.load()

	r.Lock()
	for i, widget := range loaded {
		for _, existing := range r.widgets {
			if existing.ID == widget.ID {
				loaded[i] = existing
			}
		}
	}
	r.widgets = loaded
	snapshot := r.snapshotLocked()
	r.Unlock()

	r.notify(snapshot)
}

// Widgets gets the enabled widgets in layout order
func (r *Registry) Widgets() []Config {
	r.Lock()
	defer r.Unlock()

	return r.snapshotLocked().Widgets
}

// Widget gets a single enabled widget
func (r *Registry) Widget(id string) (Config, bool) {
	r.Lock()
	defer r.Unlock()

	index := r.indexLocked(id)
	if index < 0 {
		return Config{}, false
	}
	return r.widgets[index].clone(), true
}

// IsEnabled reports whether the widget is on the dashboard
func (r *Registry) IsEnabled(id string) bool {
	r.Lock()
	defer r.Unlock()

	return r.indexLocked(id) >= 0
}

// RefreshKey gets the number of times every widget has been asked to refetch
func (r *Registry) RefreshKey() int {
	r.Lock()
	defer r.Unlock()

	return r.refreshKey
}

// Toggle removes an enabled widget or appends a disabled one.
// Re-enabling always restores the catalog definition.
// The return value reports whether the widget is now enabled
func (r *Registry) Toggle(id string) (bool, error) {
	widget, ok := lookup(id)
	if !ok {
		return false, NewUnknownWidgetError(id)
	}

	r.Lock()
	index := r.indexLocked(id)
	enabled := index < 0
	if enabled {
		r.widgets = append(r.widgets, widget)
	} else {
		r.widgets = append(r.widgets[:index:index], r.widgets[index+1:]...)
	}
	snapshot := r.snapshotLocked()
	r.Unlock()

	r.persist(snapshot)
	r.notify(snapshot)
	return enabled, nil
}

// Move shifts an enabled widget by one slot, clamped to the ends of the layout.
// The return value reports whether the order changed
func (r *Registry) Move(id string, direction Direction) (bool, error) {
	r.Lock()
	index := r.indexLocked(id)
	if index < 0 {
		r.Unlock()
		if _, ok := lookup(id); !ok {
			return false, NewUnknownWidgetError(id)
		}
		return false, NewWidgetNotEnabledError(id)
	}

	target := index - 1
	if direction == Down {
		target = index + 1
	}
	if target < 0 || target >= len(r.widgets) {
		r.Unlock()
		return false, nil
	}

	r.widgets[index], r.widgets[target] = r.widgets[target], r.widgets[index]
	snapshot := r.snapshotLocked()
	r.Unlock()

	r.persist(snapshot)
	r.notify(snapshot)
	return true, nil
}

// UpdateProps merges props into an enabled widget. Each call is numbered
// so a widget applies it exactly once, even when the values repeat.
// Props are not persisted; they last until the widget is disabled
func (r *Registry) UpdateProps(id string, props map[string]interface{}) error {
	r.Lock()
	index := r.indexLocked(id)
	if index < 0 {
		r.Unlock()
		return NewWidgetNotEnabledError(id)
	}

	widget := r.widgets[index].clone()
	if widget.Props == nil {
		widget.Props = make(map[string]interface{}, len(props))
	}
	if widget.Pushes == nil {
		widget.Pushes = make(map[string]int, len(props))
	}
	r.pushSeq++
	for key, value := range props {
		widget.Props[key] = value
		widget.Pushes[key] = r.pushSeq
	}
	r.widgets[index] = widget
	snapshot := r.snapshotLocked()
	r.Unlock()

	r.notify(snapshot)
	return nil
}

// RefreshAll asks every widget to refetch
func (r *Registry) RefreshAll() int {
	r.Lock()
	r.refreshKey++
	snapshot := r.snapshotLocked()
	r.Unlock()

	r.notify(snapshot)
	return snapshot.RefreshKey
}

// Subscribe registers an observer called after every change.
// Calling the returned function removes it
func (r *Registry) Subscribe(fn func(Snapshot)) func() {
	r.Lock()
	defer r.Unlock()

	id := r.nextID
	r.nextID++
	r.observers[id] = fn

	return func() {
		r.Lock()
		defer r.Unlock()
		delete(r.observers, id)
	}
}

func (r *Registry) indexLocked(id string) int {
	for i, widget := range r.widgets {
		if widget.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) snapshotLocked() Snapshot {
	widgets := make([]Config, len(r.widgets))
	for i, widget := range r.widgets {
		widgets[i] = widget.clone()
	}
	return Snapshot{Widgets: widgets, RefreshKey: r.refreshKey}
}

func (r *Registry) persist(snapshot Snapshot) {
	ids := make([]string, len(snapshot.Widgets))
	for i, widget := range snapshot.Widgets {
		ids[i] = widget.ID
	}

	err := storage.SetJSON(r.store, StorageKey, ids)
	if err != nil {
		r.logger.Warn().Err(err).Msg("could not persist the widget layout")
	}
}

func (r *Registry) notify(snapshot Snapshot) {
	r.Lock()
	observers := make([]func(Snapshot), 0, len(r.observers))
	for _, fn := range r.observers {
		observers = append(observers, fn)
	}
	r.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}
