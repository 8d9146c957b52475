package todo

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/termdetox/terminal-detox/storage"
)

// StorageKey is the key the todo list is persisted under
const StorageKey = "todos"

// Item is a single task
type Item struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// EmptyTextError is an error used to encode when a task has no text
type EmptyTextError struct{}

// NewEmptyTextError constructs a new EmptyTextError
func NewEmptyTextError() *EmptyTextError {
	return &EmptyTextError{}
}

func (e *EmptyTextError) Error() string {
	return "a task needs some text"
}

// NotFoundError is an error used to encode when a task reference matches nothing
type NotFoundError struct {
	Ref string
}

// NewNotFoundError constructs a new NotFoundError
func NewNotFoundError(ref string) *NotFoundError {
	return &NotFoundError{
		Ref: ref,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no task matches '%s'", e.Ref)
}

// List is the persisted todo list
type List struct {
	sync.Mutex
	items     []Item
	store     storage.Store
	logger    zerolog.Logger
	observers map[int]func([]Item)
	nextID    int
}

// NewList loads the persisted list
func NewList(store storage.Store, logger zerolog.Logger) *List {
	l := &List{
		store:     store,
		logger:    logger,
		observers: make(map[int]func([]Item)),
	}
	l.items = l.load()

	return l
}

func (l *List) load() []Item {
	var items []Item
	_, err := storage.GetJSON(l.store, StorageKey, &items)
	if err != nil {
		l.logger.Warn().Err(err).Msg("could not load the saved todos")
		return nil
	}
	return items
}

// Reload reads the persisted list again (after an external edit)
func (l *List) Reload() {
	items := l.load()

	l.Lock()
	l.items = items
	snapshot := l.copyLocked()
	l.Unlock()

	l.notify(snapshot)
}

// Items gets a copy of every task in insertion order
func (l *List) Items() []Item {
	l.Lock()
	defer l.Unlock()

	return l.copyLocked()
}

// Summary is the "done/total completed" status line
func (l *List) Summary() string {
	l.Lock()
	defer l.Unlock()

	completed := 0
	for _, item := range l.items {
		if item.Completed {
			completed++
		}
	}
	return fmt.Sprintf("%d/%d completed", completed, len(l.items))
}

// Add appends a task with the trimmed text
func (l *List) Add(text string) (Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Item{}, NewEmptyTextError()
	}

	item := Item{
		ID:   ksuid.New().String(),
		Text: text,
	}

	l.Lock()
	l.items = append(l.items, item)
	snapshot := l.copyLocked()
	l.Unlock()

	l.save(snapshot)
	return item, nil
}

// Toggle flips the completion of the referenced task
func (l *List) Toggle(ref string) (Item, error) {
	l.Lock()
	index := l.resolveLocked(ref)
	if index < 0 {
		l.Unlock()
		return Item{}, NewNotFoundError(ref)
	}
	l.items[index].Completed = !l.items[index].Completed
	item := l.items[index]
	snapshot := l.copyLocked()
	l.Unlock()

	l.save(snapshot)
	return item, nil
}

// Delete removes the referenced task
func (l *List) Delete(ref string) (Item, error) {
	l.Lock()
	index := l.resolveLocked(ref)
	if index < 0 {
		l.Unlock()
		return Item{}, NewNotFoundError(ref)
	}
	item := l.items[index]
	l.items = append(l.items[:index:index], l.items[index+1:]...)
	snapshot := l.copyLocked()
	l.Unlock()

	l.save(snapshot)
	return item, nil
}

// Subscribe registers an observer called with the list after every change.
// Calling the returned function removes it
func (l *List) Subscribe(fn func([]Item)) func() {
	l.Lock()
	defer l.Unlock()

	id := l.nextID
	l.nextID++
	l.observers[id] = fn

	return func() {
		l.Lock()
		defer l.Unlock()
		delete(l.observers, id)
	}
}

// resolveLocked accepts a 1-based position or a task id
func (l *List) resolveLocked(ref string) int {
	if position, err := strconv.Atoi(ref); err == nil {
		if position >= 1 && position <= len(l.items) {
			return position - 1
		}
		return -1
	}

	for i, item := range l.items {
		if item.ID == ref {
			return i
		}
	}
	return -1
}

func (l *List) copyLocked() []Item {
	return append([]Item{}, l.items...)
}

func (l *List) save(snapshot []Item) {
	err := storage.SetJSON(l.store, StorageKey, snapshot)
	if err != nil {
		l.logger.Warn().Err(err).Msg("could not persist the todos")
	}

	l.notify(snapshot)
}

func (l *List) notify(snapshot []Item) {
	l.Lock()
	observers := make([]func([]Item), 0, len(l.observers))
	for _, fn := range l.observers {
		observers = append(observers, fn)
	}
	l.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}
