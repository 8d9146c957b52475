package tui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/assert/v2"
	"github.com/rs/zerolog"
	"github.com/termdetox/terminal-detox/client"
	"github.com/termdetox/terminal-detox/clocks"
	"github.com/termdetox/terminal-detox/commands"
	"github.com/termdetox/terminal-detox/registry"
	"github.com/termdetox/terminal-detox/storage"
	"github.com/termdetox/terminal-detox/theme"
	"github.com/termdetox/terminal-detox/todo"
)

type recorder struct {
	sync.Mutex
	requests []string
}

func (r *recorder) record(uri string) {
	r.Lock()
	defer r.Unlock()
	r.requests = append(r.requests, uri)
}

func (r *recorder) count(prefix string) int {
	r.Lock()
	defer r.Unlock()

	count := 0
	for _, uri := range r.requests {
		if strings.HasPrefix(uri, prefix) {
			count++
		}
	}
	return count
}

type fixture struct {
	model    *Model
	registry *registry.Registry
	themes   *theme.Store
	store    storage.Store
	recorder *recorder
}

func newFixture(t *testing.T) *fixture {
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r.URL.RequestURI())
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/api/quote" {
			w.Write([]byte(`{"data":{"text":"Stay curious","author":"Ada"},"error":null,"timestamp":"2026-10-14T12:00:00.000Z"}`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"data":null,"error":"source offline","timestamp":"2026-10-14T12:00:00.000Z"}`))
	}))
	t.Cleanup(server.Close)

	logger := zerolog.Nop()
	store := storage.NewMemory()
	api := client.New(server.URL, time.Second, logger)
	widgets := registry.New(store, logger)
	themes := theme.NewStore(store, logger)
	todos := todo.NewList(store, logger)
	worldClocks := clocks.New(store, logger)
	now := func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) }

	dispatcher := commands.NewDispatcher(commands.Options{
		API:     api,
		Themes:  themes,
		Widgets: widgets,
		Todos:   todos,
		Clocks:  worldClocks,
		Logger:  logger,
		Now:     now,
	})

	model := NewModel(Options{
		API:             api,
		Registry:        widgets,
		Themes:          themes,
		Todos:           todos,
		Clocks:          worldClocks,
		Dispatcher:      dispatcher,
		DefaultLocation: "New York",
		Now:             now,
		Logger:          logger,
	})
	t.Cleanup(model.Close)

	return &fixture{model: model, registry: widgets, themes: themes, store: store, recorder: rec}
}

func (f *fixture) ids() []string {
	ids := make([]string, 0)
	for _, w := range f.model.Widgets() {
		ids = append(ids, w.ID())
	}
	return ids
}

func (f *fixture) widget(id string) Widget {
	for _, w := range f.model.Widgets() {
		if w.ID() == id {
			return w
		}
	}
	return nil
}

func eventually(t *testing.T, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func press(m *Model, key tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(key)
	return cmd
}

func TestBuildUnknownComponent(t *testing.T) {
	w := Renderers{}.Build(&Env{}, registry.Config{ID: "ghost", Component: "GhostWidget"})

	body := strings.Join(w.Body(NewStyles(theme.PaletteFor(theme.Default)), 40), "\n")
	assert.Equal(t, "ghost", w.ID())
	assert.Equal(t, true, strings.Contains(body, "Widget not found: GhostWidget"))
}

func TestDefaultRenderersCoverCatalog(t *testing.T) {
	renderers := DefaultRenderers()
	for _, config := range registry.Catalog() {
		_, ok := renderers[config.Component]
		assert.Equal(t, true, ok)
	}
}

func TestBuildsDefaultLayout(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, registry.DefaultIDs(), f.ids())
}

func TestQuoteWidgetLoads(t *testing.T) {
	f := newFixture(t)
	quote := f.widget("quote")

	eventually(t, func() bool {
		return strings.HasPrefix(quote.Status(), "Updated")
	})
	assert.Equal(t, "Updated 12:00:00", quote.Status())

	body := strings.Join(quote.Body(NewStyles(theme.PaletteFor(theme.Default)), 40), "\n")
	assert.Equal(t, true, strings.Contains(body, "Stay curious"))
	assert.Equal(t, true, strings.Contains(body, "Ada"))
}

func TestFailedWidgetShowsError(t *testing.T) {
	f := newFixture(t)
	weather := f.widget("weather")

	eventually(t, func() bool {
		return weather.Status() == "Error"
	})

	body := strings.Join(weather.Body(NewStyles(theme.PaletteFor(theme.Default)), 60), "\n")
	assert.Equal(t, true, strings.Contains(body, "source offline"))
}

func TestCommandLineKeys(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.Equal(t, true, m.cliOpen)
	assert.Equal(t, commands.Banner, m.dispatcher.Transcript().Lines()[0].Output)

	// q is typed into the prompt while it is open
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, "q", m.input.Value())

	m.input.SetValue("theme matrix")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "matrix", f.themes.Current())
	assert.Equal(t, "", m.input.Value())

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, false, m.cliOpen)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	m.input.SetValue("exit")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, false, m.cliOpen)
}

func TestDashboardKeys(t *testing.T) {
	f := newFixture(t)
	m := f.model

	press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, "light", f.themes.Current())

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.focused)
	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, len(registry.DefaultIDs())-1, m.focused)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Equal(t, true, m.focusMode)

	before := f.registry.RefreshKey()
	press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, before+1, f.registry.RefreshKey())

	cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	_, quit := cmd().(tea.QuitMsg)
	assert.Equal(t, true, quit)
}

func TestSyncAfterToggle(t *testing.T) {
	f := newFixture(t)

	_, err := f.registry.Toggle("todo")
	assert.Equal(t, nil, err)
	_, err = f.registry.Toggle("quote")
	assert.Equal(t, nil, err)
	f.model.Update(updateMsg{})

	ids := f.ids()
	assert.Equal(t, "todo", ids[len(ids)-1])
	assert.Equal(t, nil, f.widget("quote"))
	assert.Equal(t, "0/0 completed", f.widget("todo").Status())
}

func TestRefreshRefetches(t *testing.T) {
	f := newFixture(t)
	quote := f.widget("quote")
	eventually(t, func() bool {
		return strings.HasPrefix(quote.Status(), "Updated")
	})
	assert.Equal(t, 1, f.recorder.count("/api/quote"))

	f.registry.RefreshAll()
	f.model.Update(updateMsg{})

	eventually(t, func() bool {
		return f.recorder.count("/api/quote") == 2
	})
}

func TestCommandPushesWidgetProps(t *testing.T) {
	f := newFixture(t)

	f.model.dispatcher.Execute("weather London")
	f.model.Update(updateMsg{})
	f.model.dispatcher.Wait()

	// one request from the command, one from the widget following it
	eventually(t, func() bool {
		return f.recorder.count("/api/weather?location=London") == 2
	})
}

func TestRepeatedCommandOverridesLocalEdit(t *testing.T) {
	f := newFixture(t)
	technology := "/api/news?category=technology&limit=8"

	f.model.dispatcher.Execute("news technology")
	f.model.Update(updateMsg{})
	eventually(t, func() bool {
		return f.recorder.count(technology) == 1
	})

	assert.Equal(t, true, f.widget("news").HandleKey("c"))
	eventually(t, func() bool {
		return f.recorder.count("/api/news?category=business&limit=8") == 1
	})

	f.model.dispatcher.Execute("news technology")
	f.model.Update(updateMsg{})
	f.model.dispatcher.Wait()
	eventually(t, func() bool {
		return f.recorder.count(technology) == 2
	})

	// A redraw with no new push leaves the widget alone
	f.model.Update(updateMsg{})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, f.recorder.count(technology))
}

func TestReloadKeyPicksUpExternalEdits(t *testing.T) {
	f := newFixture(t)

	err := storage.SetJSON(f.store, theme.StorageKey, "amber")
	assert.Equal(t, nil, err)
	f.model.ReloadKey(theme.StorageKey)
	assert.Equal(t, "amber", f.themes.Current())
}

func TestViewRendersWidgets(t *testing.T) {
	f := newFixture(t)
	f.model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := f.model.View()
	assert.Equal(t, true, strings.Contains(view, "Terminal Detox"))
	assert.Equal(t, true, strings.Contains(view, "Quote of the Day"))
	assert.Equal(t, true, strings.Contains(view, "Weather"))
}
