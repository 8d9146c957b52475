package clocks

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/rs/zerolog"
	"github.com/termdetox/terminal-detox/storage"
)

func TestAddDeduplicates(t *testing.T) {
	store := storage.NewMemory()
	c := New(store, zerolog.Nop())

	added, err := c.Add("Europe/London")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, added)

	added, err = c.Add(" Europe/London ")
	assert.Equal(t, nil, err)
	assert.Equal(t, false, added)

	c.Add("Asia/Tokyo")
	assert.Equal(t, []string{"Europe/London", "Asia/Tokyo"}, c.Zones())
	assert.Equal(t, []string{"Europe/London", "Asia/Tokyo"}, New(store, zerolog.Nop()).Zones())
}

func TestAddInvalid(t *testing.T) {
	c := New(storage.NewMemory(), zerolog.Nop())

	for _, zone := range []string{"", "Local", "Mars/Olympus_Mons"} {
		_, err := c.Add(zone)
		assert.NotEqual(t, nil, err)
	}
	assert.Equal(t, 0, len(c.Zones()))
}

func TestRemove(t *testing.T) {
	c := New(storage.NewMemory(), zerolog.Nop())
	c.Add("America/New_York")

	assert.Equal(t, false, c.Remove("Asia/Tokyo"))
	assert.Equal(t, true, c.Remove("America/New_York"))
	assert.Equal(t, 0, len(c.Zones()))
}

func TestRead(t *testing.T) {
	c := New(storage.NewMemory(), zerolog.Nop())
	c.Add("UTC")
	c.Add("Asia/Tokyo")

	now := time.Date(2026, 10, 14, 12, 30, 15, 0, time.UTC)
	readings := c.Read(now)
	assert.Equal(t, []Reading{
		{Zone: "UTC", Time: "12:30:15 PM"},
		{Zone: "Asia/Tokyo", Time: "09:30:15 PM"},
	}, readings)
}

func TestLoadDropsInvalidZones(t *testing.T) {
	store := storage.NewMemory()
	storage.SetJSON(store, StorageKey, []string{"Europe/Paris", "Nowhere/City", "Europe/Paris"})

	assert.Equal(t, []string{"Europe/Paris"}, New(store, zerolog.Nop()).Zones())
}
