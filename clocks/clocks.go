package clocks

import (
	"fmt"
	"strings"
	"sync"
	"time"

	// Embedded zone database so zones resolve on hosts without one
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/termdetox/terminal-detox/storage"
)

// StorageKey is the key the list of zones is persisted under
const StorageKey = "clocks"

// TimeFormat is how every clock renders its time
const TimeFormat = "03:04:05 PM"

// InvalidZoneError is an error used to encode when a name is not an IANA time zone
type InvalidZoneError struct {
	Zone string
}

// NewInvalidZoneError constructs a new InvalidZoneError
func NewInvalidZoneError(zone string) *InvalidZoneError {
	return &InvalidZoneError{
		Zone: zone,
	}
}

func (e *InvalidZoneError) Error() string {
	return fmt.Sprintf("'%s' is not an IANA time zone (e.g. Europe/London)", e.Zone)
}

// Reading is the time in one zone
type Reading struct {
	Zone string
	Time string
}

// Clocks is the persisted list of world clock zones
type Clocks struct {
	sync.Mutex
	zones     []string
	store     storage.Store
	logger    zerolog.Logger
	observers map[int]func([]string)
	nextID    int
}

// New loads the persisted zones, dropping any that no longer resolve
func New(store storage.Store, logger zerolog.Logger) *Clocks {
	c := &Clocks{
		store:     store,
		logger:    logger,
		observers: make(map[int]func([]string)),
	}
	c.zones = c.load()

	return c
}

func (c *Clocks) load() []string {
	var saved []string
	_, err := storage.GetJSON(c.store, StorageKey, &saved)
	if err != nil {
		c.logger.Warn().Err(err).Msg("could not load the saved clocks")
		return nil
	}

	zones := make([]string, 0, len(saved))
	for _, zone := range saved {
		if validZone(zone) && !contains(zones, zone) {
			zones = append(zones, zone)
		}
	}
	return zones
}

// Reload reads the persisted zones again (after an external edit)
func (c *Clocks) Reload() {
	zones := c.load()

	c.Lock()
	c.zones = zones
	snapshot := append([]string{}, zones...)
	c.Unlock()

	c.notify(snapshot)
}

// Zones gets the zones in insertion order
func (c *Clocks) Zones() []string {
	c.Lock()
	defer c.Unlock()

	return append([]string{}, c.zones...)
}

// Add appends a zone. Adding a zone that is already shown is a no-op.
// The return value reports whether the list changed
func (c *Clocks) Add(zone string) (bool, error) {
	zone = strings.TrimSpace(zone)
	if !validZone(zone) {
		return false, NewInvalidZoneError(zone)
	}

	c.Lock()
	if contains(c.zones, zone) {
		c.Unlock()
		return false, nil
	}
	c.zones = append(c.zones, zone)
	snapshot := append([]string{}, c.zones...)
	c.Unlock()

	c.save(snapshot)
	return true, nil
}

// Remove drops a zone. The return value reports whether it was shown
func (c *Clocks) Remove(zone string) bool {
	zone = strings.TrimSpace(zone)

	c.Lock()
	kept := make([]string, 0, len(c.zones))
	for _, existing := range c.zones {
		if existing != zone {
			kept = append(kept, existing)
		}
	}
	removed := len(kept) != len(c.zones)
	c.zones = kept
	snapshot := append([]string{}, kept...)
	c.Unlock()

	if removed {
		c.save(snapshot)
	}
	return removed
}

// Read gets the time in every zone at the instant
func (c *Clocks) Read(now time.Time) []Reading {
	zones := c.Zones()

	readings := make([]Reading, 0, len(zones))
	for _, zone := range zones {
		location, err := time.LoadLocation(zone)
		if err != nil {
			continue
		}
		readings = append(readings, Reading{
			Zone: zone,
			Time: now.In(location).Format(TimeFormat),
		})
	}
	return readings
}

// Subscribe registers an observer called with the zones after every change.
// Calling the returned function removes it
func (c *Clocks) Subscribe(fn func([]string)) func() {
	c.Lock()
	defer c.Unlock()

	id := c.nextID
	c.nextID++
	c.observers[id] = fn

	return func() {
		c.Lock()
		defer c.Unlock()
		delete(c.observers, id)
	}
}

func (c *Clocks) save(snapshot []string) {
	err := storage.SetJSON(c.store, StorageKey, snapshot)
	if err != nil {
		c.logger.Warn().Err(err).Msg("could not persist the clocks")
	}

	c.notify(snapshot)
}

func (c *Clocks) notify(snapshot []string) {
	c.Lock()
	observers := make([]func([]string), 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

// validZone accepts names the zone database knows, except the empty
// name and "Local" which both resolve without naming a zone
func validZone(zone string) bool {
	if zone == "" || zone == "Local" {
		return false
	}
	_, err := time.LoadLocation(zone)
	return err == nil
}

func contains(zones []string, zone string) bool {
	for _, existing := range zones {
		if existing == zone {
			return true
		}
	}
	return false
}
