package theme

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/termdetox/terminal-detox/storage"
)

// StorageKey is the key the selected theme is persisted under
const StorageKey = "theme"

// Default is used when nothing valid has been persisted
const Default = "dark"

// Palette is the set of colours a theme renders with (hex strings)
type Palette struct {
	Background string
	Foreground string
	Primary    string
	Secondary  string
	Accent     string
	Muted      string
	Border     string
	Success    string
	Warning    string
	Error      string
	Info       string
}

// names is the cycle order of the themes
var names = []string{
	"dark",
	"light",
	"retro-green",
	"amber",
	"blue",
	"matrix",
	"solarized-dark",
	"solarized-light",
}

var palettes = map[string]Palette{
	"dark": {
		Background: "#0d1117", Foreground: "#c9d1d9", Primary: "#58a6ff", Secondary: "#8b949e",
		Accent: "#f0883e", Muted: "#484f58", Border: "#30363d", Success: "#3fb950",
		Warning: "#d29922", Error: "#f85149", Info: "#58a6ff",
	},
	"light": {
		Background: "#ffffff", Foreground: "#24292f", Primary: "#0969da", Secondary: "#57606a",
		Accent: "#bf8700", Muted: "#8c959f", Border: "#d0d7de", Success: "#1a7f37",
		Warning: "#9a6700", Error: "#cf222e", Info: "#0969da",
	},
	"retro-green": {
		Background: "#000000", Foreground: "#00ff00", Primary: "#00ff00", Secondary: "#008000",
		Accent: "#ffff00", Muted: "#004000", Border: "#008000", Success: "#00ff00",
		Warning: "#ffff00", Error: "#ff0000", Info: "#00ffff",
	},
	"amber": {
		Background: "#1a0f00", Foreground: "#ffb000", Primary: "#ffb000", Secondary: "#cc8000",
		Accent: "#ff6b00", Muted: "#663300", Border: "#cc8000", Success: "#00ff00",
		Warning: "#ffb000", Error: "#ff0000", Info: "#ffb000",
	},
	"blue": {
		Background: "#00001a", Foreground: "#00bfff", Primary: "#00bfff", Secondary: "#0080cc",
		Accent: "#0080ff", Muted: "#003366", Border: "#0080cc", Success: "#00ff00",
		Warning: "#ffff00", Error: "#ff0000", Info: "#00bfff",
	},
	"matrix": {
		Background: "#000000", Foreground: "#00ff00", Primary: "#00ff00", Secondary: "#004400",
		Accent: "#00aa00", Muted: "#002200", Border: "#004400", Success: "#00ff00",
		Warning: "#ffff00", Error: "#ff0000", Info: "#00ff00",
	},
	"solarized-dark": {
		Background: "#002b36", Foreground: "#839496", Primary: "#268bd2", Secondary: "#586e75",
		Accent: "#b58900", Muted: "#073642", Border: "#586e75", Success: "#859900",
		Warning: "#b58900", Error: "#dc322f", Info: "#268bd2",
	},
	"solarized-light": {
		Background: "#fdf6e3", Foreground: "#657b83", Primary: "#2aa198", Secondary: "#93a1a1",
		Accent: "#cb4b16", Muted: "#eee8d5", Border: "#93a1a1", Success: "#859900",
		Warning: "#b58900", Error: "#dc322f", Info: "#2aa198",
	},
}

// InvalidThemeError is an error used to encode when a theme name is unknown
type InvalidThemeError struct {
	Name string
}

// NewInvalidThemeError constructs a new InvalidThemeError
func NewInvalidThemeError(name string) *InvalidThemeError {
	return &InvalidThemeError{
		Name: name,
	}
}

func (e *InvalidThemeError) Error() string {
	return fmt.Sprintf("Invalid theme. Available: %s", strings.Join(names, ", "))
}

// Names gets every theme name in cycle order
func Names() []string {
	return append([]string(nil), names...)
}

// IsValid reports whether the name is a known theme
func IsValid(name string) bool {
	_, ok := palettes[name]
	return ok
}

// PaletteFor gets the colours of a theme, falling back to the default theme
func PaletteFor(name string) Palette {
	palette, ok := palettes[name]
	if !ok {
		return palettes[Default]
	}
	return palette
}

// Store holds the selected theme and persists every change
type Store struct {
	sync.Mutex
	current   string
	store     storage.Store
	logger    zerolog.Logger
	observers map[int]func(string)
	nextID    int
}

// NewStore loads the persisted theme, using the default when it is missing or unknown
func NewStore(store storage.Store, logger zerolog.Logger) *Store {
	s := &Store{
		current:   Default,
		store:     store,
		logger:    logger,
		observers: make(map[int]func(string)),
	}
	s.Reload()

	return s
}

// Reload reads the persisted theme again (after an external edit)
func (s *Store) Reload() {
	var saved string
	found, err := storage.GetJSON(s.store, StorageKey, &saved)
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not load the saved theme")
		return
	}
	if !found || !IsValid(saved) {
		return
	}

	s.Lock()
	changed := saved != s.current
	s.current = saved
	s.Unlock()

	if changed {
		s.notify(saved)
	}
}

// Current gets the selected theme name
func (s *Store) Current() string {
	s.Lock()
	defer s.Unlock()

	return s.current
}

// Palette gets the colours of the selected theme
func (s *Store) Palette() Palette {
	return PaletteFor(s.Current())
}

// Set selects a theme by name
func (s *Store) Set(name string) error {
	if !IsValid(name) {
		return NewInvalidThemeError(name)
	}

	s.apply(name)
	return nil
}

// Next selects the theme after the current one, wrapping around
func (s *Store) Next() string {
	current := s.Current()

	next := names[0]
	for i, name := range names {
		if name == current {
			next = names[(i+1)%len(names)]
			break
		}
	}

	s.apply(next)
	return next
}

// Subscribe registers an observer called with the new theme name after every change.
// Calling the returned function removes it
func (s *Store) Subscribe(fn func(string)) func() {
	s.Lock()
	defer s.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn

	return func() {
		s.Lock()
		defer s.Unlock()
		delete(s.observers, id)
	}
}

func (s *Store) apply(name string) {
	s.Lock()
	s.current = name
	s.Unlock()

	err := storage.SetJSON(s.store, StorageKey, name)
	if err != nil {
		s.logger.Warn().Err(err).Str("theme", name).Msg("could not persist the theme")
	}

	s.notify(name)
}

func (s *Store) notify(name string) {
	s.Lock()
	observers := make([]func(string), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.Unlock()

	for _, fn := range observers {
		fn(name)
	}
}
