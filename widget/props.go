package widget

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
)

// Props holds the configurable parameters of a widget (location, category,
// subreddit...). Observers only hear about real changes
type Props struct {
	mu        sync.Mutex
	values    map[string]interface{}
	observers map[int]func(map[string]interface{})
	nextID    int
}

// NewProps seeds the props from the initial values
func NewProps(initial map[string]interface{}) *Props {
	values := make(map[string]interface{}, len(initial))
	for key, value := range initial {
		values[key] = value
	}

	return &Props{
		values:    values,
		observers: make(map[int]func(map[string]interface{})),
	}
}

// Values gets a copy of every prop
func (p *Props) Values() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.copyLocked()
}

// Get gets a single prop
func (p *Props) Get(key string) (interface{}, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	value, ok := p.values[key]
	return value, ok
}

// String gets a prop as a string, using the fallback when it is unset or empty
func (p *Props) String(key string, fallback string) string {
	value, ok := p.Get(key)
	if !ok || value == nil {
		return fallback
	}

	asString := fmt.Sprint(value)
	if asString == "" {
		return fallback
	}
	return asString
}

// Int gets a prop as an integer, using the fallback when it is unset or not numeric
func (p *Props) Int(key string, fallback int) int {
	value, ok := p.Get(key)
	if !ok {
		return fallback
	}

	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		asInt, err := strconv.Atoi(v)
		if err == nil {
			return asInt
		}
	}
	return fallback
}

// Update merges the partial props in and reports whether anything changed
func (p *Props) Update(partial map[string]interface{}) bool {
	p.mu.Lock()
	changed := p.mergeLocked(partial)
	if !changed {
		p.mu.Unlock()
		return false
	}
	snapshot := p.copyLocked()
	p.mu.Unlock()

	p.notify(snapshot)
	return true
}

// Reconcile applies props pushed from outside the widget (such as a command).
// Every pushed value that differs from the current one replaces it, local
// edits included; callers hand over each push once
func (p *Props) Reconcile(external map[string]interface{}) bool {
	return p.Update(external)
}

// Subscribe registers an observer called with the new props after every change.
// Calling the returned function removes it
func (p *Props) Subscribe(fn func(map[string]interface{})) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.observers[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.observers, id)
	}
}

func (p *Props) mergeLocked(partial map[string]interface{}) bool {
	changed := false
	for key, value := range partial {
		current, ok := p.values[key]
		if ok && reflect.DeepEqual(current, value) {
			continue
		}
		p.values[key] = value
		changed = true
	}
	return changed
}

func (p *Props) copyLocked() map[string]interface{} {
	values := make(map[string]interface{}, len(p.values))
	for key, value := range p.values {
		values[key] = value
	}
	return values
}

func (p *Props) notify(snapshot map[string]interface{}) {
	p.mu.Lock()
	observers := make([]func(map[string]interface{}), 0, len(p.observers))
	for _, fn := range p.observers {
		observers = append(observers, fn)
	}
	p.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

// Bind keeps the query pointed at the URL derived from the props.
// The URL is computed once immediately and again after every prop change.
// Calling the returned function stops following the props
func Bind[T any](props *Props, query *Query[T], urlFor func(*Props) string) func() {
	query.SetURL(urlFor(props))

	return props.Subscribe(func(map[string]interface{}) {
		query.SetURL(urlFor(props))
	})
}
