package theme

import (
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/rs/zerolog"
	"github.com/termdetox/terminal-detox/storage"
)

func TestDefaultTheme(t *testing.T) {
	themes := NewStore(storage.NewMemory(), zerolog.Nop())
	assert.Equal(t, "dark", themes.Current())
	assert.Equal(t, "#0d1117", themes.Palette().Background)
	assert.Equal(t, 8, len(Names()))
}

func TestSetPersists(t *testing.T) {
	store := storage.NewMemory()
	themes := NewStore(store, zerolog.Nop())

	var seen []string
	themes.Subscribe(func(name string) { seen = append(seen, name) })

	assert.Equal(t, nil, themes.Set("matrix"))
	assert.Equal(t, "matrix", themes.Current())
	assert.Equal(t, []string{"matrix"}, seen)

	raw, found, _ := store.Get(StorageKey)
	assert.Equal(t, true, found)
	assert.Equal(t, `"matrix"`, string(raw))

	// A new store picks up the persisted theme
	assert.Equal(t, "matrix", NewStore(store, zerolog.Nop()).Current())
}

func TestSetInvalid(t *testing.T) {
	themes := NewStore(storage.NewMemory(), zerolog.Nop())

	err := themes.Set("neon")
	assert.NotEqual(t, nil, err)
	assert.Equal(t, "Invalid theme. Available: dark, light, retro-green, amber, blue, matrix, solarized-dark, solarized-light", err.Error())
	assert.Equal(t, "dark", themes.Current())
}

func TestNextWraps(t *testing.T) {
	themes := NewStore(storage.NewMemory(), zerolog.Nop())

	assert.Equal(t, "light", themes.Next())
	assert.Equal(t, nil, themes.Set("solarized-light"))
	assert.Equal(t, "dark", themes.Next())
}

func TestUnknownPersistedThemeIgnored(t *testing.T) {
	store := storage.NewMemory()
	assert.Equal(t, nil, storage.SetJSON(store, StorageKey, "neon"))

	assert.Equal(t, "dark", NewStore(store, zerolog.Nop()).Current())
	assert.Equal(t, PaletteFor("dark"), PaletteFor("neon"))
}
