package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/termdetox/terminal-detox/client"
	"github.com/termdetox/terminal-detox/clocks"
	"github.com/termdetox/terminal-detox/commands"
	"github.com/termdetox/terminal-detox/registry"
	"github.com/termdetox/terminal-detox/sysinfo"
	"github.com/termdetox/terminal-detox/theme"
	"github.com/termdetox/terminal-detox/todo"
)

const tickInterval = time.Second

// Options wires the dashboard to its state containers
type Options struct {
	API             *client.Client
	Registry        *registry.Registry
	Themes          *theme.Store
	Todos           *todo.List
	Clocks          *clocks.Clocks
	SysInfo         *sysinfo.Collector
	Dispatcher      *commands.Dispatcher
	Renderers       Renderers
	DefaultLocation string
	RefreshInterval time.Duration
	Now             func() time.Time
	Logger          zerolog.Logger
}

type updateMsg struct{}

type tickMsg time.Time

// Model is the dashboard: a grid of widgets and the command line overlay.
// Background changes from any state container arrive as a single coalesced
// update message, after which the model re-reads what it shows
type Model struct {
	registry        *registry.Registry
	themes          *theme.Store
	todos           *todo.List
	clocks          *clocks.Clocks
	dispatcher      *commands.Dispatcher
	renderers       Renderers
	env             *Env
	refreshInterval time.Duration
	logger          zerolog.Logger

	widgets    []Widget
	byID       map[string]Widget
	// delivered is, per widget, the last registry push handed to it
	delivered  map[string]int
	refreshKey int
	focused    int
	focusMode  bool
	cliOpen    bool
	input      textinput.Model
	width      int
	height     int

	lastAutoRefresh time.Time
	updates         chan struct{}
	unsubscribe     []func()
}

// NewModel creates the dashboard and builds the enabled widgets
func NewModel(options Options) *Model {
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Renderers == nil {
		options.Renderers = DefaultRenderers()
	}

	input := textinput.New()
	input.Placeholder = "Type a command..."
	input.Prompt = "> "
	input.CharLimit = 256

	m := &Model{
		registry:        options.Registry,
		themes:          options.Themes,
		todos:           options.Todos,
		clocks:          options.Clocks,
		dispatcher:      options.Dispatcher,
		renderers:       options.Renderers,
		refreshInterval: options.RefreshInterval,
		logger:          options.Logger,
		byID:            make(map[string]Widget),
		delivered:       make(map[string]int),
		refreshKey:      options.Registry.RefreshKey(),
		input:           input,
		lastAutoRefresh: options.Now(),
		updates:         make(chan struct{}, 1),
	}

	m.env = &Env{
		API:             options.API,
		Todos:           options.Todos,
		Clocks:          options.Clocks,
		SysInfo:         options.SysInfo,
		DefaultLocation: options.DefaultLocation,
		Now:             options.Now,
		Logger:          options.Logger,
		notify:          m.Send,
	}

	m.unsubscribe = append(m.unsubscribe,
		m.registry.Subscribe(func(registry.Snapshot) { m.Send() }),
		m.themes.Subscribe(func(string) { m.Send() }),
		m.dispatcher.Transcript().Subscribe(func([]commands.Line) { m.Send() }),
	)

	m.sync()
	return m
}

// Send asks the dashboard to redraw. Safe from any goroutine; signals sent
// while one is already queued are merged
func (m *Model) Send() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}

// ReloadKey re-reads the state stored under a storage key after the file
// changed outside this process
func (m *Model) ReloadKey(key string) {
	switch key {
	case registry.StorageKey:
		m.registry.Reload()
	case theme.StorageKey:
		m.themes.Reload()
	case todo.StorageKey:
		if m.todos != nil {
			m.todos.Reload()
		}
	case clocks.StorageKey:
		if m.clocks != nil {
			m.clocks.Reload()
		}
	default:
		return
	}
	m.logger.Debug().Str("key", key).Msg("reloaded state changed on disk")
}

// Widgets gets the widgets currently on the dashboard in layout order
func (m *Model) Widgets() []Widget {
	return append([]Widget(nil), m.widgets...)
}

// Close stops every widget and observer
func (m *Model) Close() {
	for _, unsubscribe := range m.unsubscribe {
		unsubscribe()
	}
	m.unsubscribe = nil

	for _, w := range m.widgets {
		w.Close()
	}
	m.widgets = nil
	m.byID = make(map[string]Widget)
	m.delivered = make(map[string]int)
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), tick(), textinput.Blink)
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		<-m.updates
		return updateMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 8
		return m, nil

	case updateMsg:
		m.sync()
		return m, m.listen()

	case tickMsg:
		now := time.Time(msg)
		if m.refreshInterval > 0 && now.Sub(m.lastAutoRefresh) >= m.refreshInterval {
			m.lastAutoRefresh = now
			m.registry.RefreshAll()
		}
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.cliOpen {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.cliOpen {
		switch key {
		case "esc":
			m.closeCLI()
			return m, nil
		case "enter":
			line := m.input.Value()
			m.input.SetValue("")
			if m.dispatcher.Execute(line) == commands.Exited {
				m.closeCLI()
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "ctrl+k":
		m.cliOpen = true
		m.dispatcher.Open()
		return m, m.input.Focus()
	case "ctrl+t":
		m.themes.Next()
	case "ctrl+r":
		m.registry.RefreshAll()
	case "ctrl+f":
		m.focusMode = !m.focusMode
	case "tab":
		m.moveFocus(1)
	case "shift+tab":
		m.moveFocus(-1)
	default:
		if w := m.focusedWidget(); w != nil {
			w.HandleKey(key)
		}
	}
	return m, nil
}

func (m *Model) closeCLI() {
	m.cliOpen = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) moveFocus(step int) {
	if len(m.widgets) == 0 {
		return
	}
	m.focused = (m.focused + step + len(m.widgets)) % len(m.widgets)
}

func (m *Model) focusedWidget() Widget {
	if m.focused < 0 || m.focused >= len(m.widgets) {
		return nil
	}
	return m.widgets[m.focused]
}

// sync brings the widget list in line with the registry: new entries are
// built and started, kept ones get their pushed props, removed ones close.
// A bumped refresh key refetches the widgets that were already running
func (m *Model) sync() {
	configs := m.registry.Widgets()
	refreshKey := m.registry.RefreshKey()
	refresh := refreshKey != m.refreshKey
	m.refreshKey = refreshKey

	var focusedID string
	if w := m.focusedWidget(); w != nil {
		focusedID = w.ID()
	}

	widgets := make([]Widget, 0, len(configs))
	byID := make(map[string]Widget, len(configs))
	delivered := make(map[string]int, len(configs))
	for _, config := range configs {
		w, ok := m.byID[config.ID]
		if ok {
			pushed, latest := config.PushedSince(m.delivered[config.ID])
			if len(pushed) > 0 {
				w.Reconcile(pushed)
			}
			delivered[config.ID] = latest
			if refresh {
				w.Refetch()
			}
		} else {
			// New widgets start from the accumulated props
			w = m.renderers.Build(m.env, config)
			_, delivered[config.ID] = config.PushedSince(0)
			w.Start()
		}
		widgets = append(widgets, w)
		byID[config.ID] = w
	}

	for id, w := range m.byID {
		if _, kept := byID[id]; !kept {
			w.Close()
		}
	}

	m.widgets = widgets
	m.byID = byID
	m.delivered = delivered

	m.focused = 0
	for i, w := range widgets {
		if w.ID() == focusedID {
			m.focused = i
		}
	}
}
