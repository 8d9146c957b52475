package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/rs/zerolog"
)

type layout struct {
	IDs []string `json:"ids"`
}

func TestMemoryJSON(t *testing.T) {
	store := NewMemory()

	var missing layout
	found, err := GetJSON(store, "enabledWidgets", &missing)
	assert.Equal(t, nil, err)
	assert.Equal(t, false, found)

	err = SetJSON(store, "enabledWidgets", layout{IDs: []string{"quote", "news"}})
	assert.Equal(t, nil, err)

	var got layout
	found, err = GetJSON(store, "enabledWidgets", &got)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, found)
	assert.Equal(t, []string{"quote", "news"}, got.IDs)

	assert.Equal(t, nil, store.Delete("enabledWidgets"))
	_, found, _ = store.Get("enabledWidgets")
	assert.Equal(t, false, found)
}

func TestGetJSONInvalid(t *testing.T) {
	store := NewMemory()
	assert.Equal(t, nil, store.Set("theme", []byte("{not json")))

	var theme string
	found, err := GetJSON(store, "theme", &theme)
	assert.Equal(t, false, found)
	assert.NotEqual(t, nil, err)
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	assert.Equal(t, nil, err)

	assert.Equal(t, nil, SetJSON(store, "theme", "matrix"))

	raw, err := os.ReadFile(filepath.Join(dir, "theme.json"))
	assert.Equal(t, nil, err)
	assert.Equal(t, `"matrix"`, string(raw))

	var theme string
	found, err := GetJSON(store, "theme", &theme)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, found)
	assert.Equal(t, "matrix", theme)

	// No temp files are left behind
	entries, err := os.ReadDir(dir)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(entries))

	assert.Equal(t, nil, store.Delete("theme"))
	assert.Equal(t, nil, store.Delete("theme"))
	_, found, err = store.Get("theme")
	assert.Equal(t, nil, err)
	assert.Equal(t, false, found)
}

func TestFileStoreWatch(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	assert.Equal(t, nil, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 4)
	err = store.Watch(ctx, zerolog.Nop(), func(key string) {
		changed <- key
	})
	assert.Equal(t, nil, err)

	err = os.WriteFile(filepath.Join(dir, "enabledWidgets.json"), []byte(`["quote"]`), 0o644)
	assert.Equal(t, nil, err)

	select {
	case key := <-changed:
		assert.Equal(t, "enabledWidgets", key)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}
