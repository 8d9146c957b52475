package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/termdetox/terminal-detox/clocks"
	"github.com/termdetox/terminal-detox/registry"
	"github.com/termdetox/terminal-detox/sysinfo"
	"github.com/termdetox/terminal-detox/todo"
)

const collectTimeout = 5 * time.Second

// localWidget holds what the cards backed by local state share
type localWidget struct {
	config      registry.Config
	title       string
	env         *Env
	unsubscribe func()
}

func (w *localWidget) ID() string                             { return w.config.ID }
func (w *localWidget) Title() string                          { return w.title }
func (w *localWidget) Start()                                 {}
func (w *localWidget) Refetch()                               {}
func (w *localWidget) Reconcile(props map[string]interface{}) {}
func (w *localWidget) HandleKey(key string) bool              { return false }
func (w *localWidget) Status() string                         { return "" }

func (w *localWidget) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
}

type clocksWidget struct {
	localWidget
}

func newClocksWidget(env *Env, config registry.Config) Widget {
	w := &clocksWidget{localWidget{config: config, title: "World Clocks", env: env}}
	if env.Clocks != nil {
		w.unsubscribe = env.Clocks.Subscribe(func([]string) { env.changed() })
	}
	return w
}

func (w *clocksWidget) Body(styles Styles, width int) []string {
	var readings []clocks.Reading
	if w.env.Clocks != nil {
		readings = w.env.Clocks.Read(w.env.Now())
	}
	if len(readings) == 0 {
		return []string{styles.Muted.Render(fit("No clocks. Add one with: clock add Europe/London", width))}
	}

	lines := make([]string, len(readings))
	for i, reading := range readings {
		lines[i] = fit(styles.Text.Render(fmt.Sprintf("%-20s ", reading.Zone))+styles.Accent.Render(reading.Time), width)
	}
	return lines
}

type todoWidget struct {
	localWidget
}

func newTodoWidget(env *Env, config registry.Config) Widget {
	w := &todoWidget{localWidget{config: config, title: "Tasks", env: env}}
	if env.Todos != nil {
		w.unsubscribe = env.Todos.Subscribe(func([]todo.Item) { env.changed() })
	}
	return w
}

func (w *todoWidget) Status() string {
	if w.env.Todos == nil {
		return ""
	}
	return w.env.Todos.Summary()
}

func (w *todoWidget) Body(styles Styles, width int) []string {
	var items []todo.Item
	if w.env.Todos != nil {
		items = w.env.Todos.Items()
	}
	if len(items) == 0 {
		return []string{styles.Muted.Render(fit("No tasks. Add one with: todo add <text>", width))}
	}

	lines := make([]string, len(items))
	for i, item := range items {
		if item.Completed {
			lines[i] = styles.Success.Render(fit(fmt.Sprintf("%d. [x] %s", i+1, item.Text), width))
			continue
		}
		lines[i] = styles.Text.Render(fit(fmt.Sprintf("%d. [ ] %s", i+1, item.Text), width))
	}
	return lines
}

// systemInfoWidget collects host facts in the background
type systemInfoWidget struct {
	localWidget

	mu        sync.Mutex
	info      *sysinfo.Info
	err       error
	loading   bool
	updatedAt time.Time
	ctx       context.Context
	cancel    context.CancelFunc
}

func newSystemInfoWidget(env *Env, config registry.Config) Widget {
	ctx, cancel := context.WithCancel(context.Background())
	return &systemInfoWidget{
		localWidget: localWidget{config: config, title: "System", env: env},
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (w *systemInfoWidget) Start() {
	w.Refetch()
}

func (w *systemInfoWidget) Refetch() {
	if w.env.SysInfo == nil {
		return
	}

	w.mu.Lock()
	if w.loading || w.ctx.Err() != nil {
		w.mu.Unlock()
		return
	}
	w.loading = true
	w.mu.Unlock()
	w.env.changed()

	go func() {
		ctx, cancel := context.WithTimeout(w.ctx, collectTimeout)
		defer cancel()

		info, err := w.env.SysInfo.Collect(ctx)
		if err != nil {
			w.env.Logger.Warn().Err(err).Msg("could not collect system info")
		}

		w.mu.Lock()
		w.loading = false
		w.err = err
		if err == nil {
			w.info = &info
		}
		w.updatedAt = w.env.Now()
		w.mu.Unlock()
		w.env.changed()
	}()
}

func (w *systemInfoWidget) Status() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.loading:
		return "Loading..."
	case w.err != nil:
		return "Error"
	case w.updatedAt.IsZero():
		return ""
	}
	return "Updated " + w.updatedAt.Format(statusTimeFormat)
}

func (w *systemInfoWidget) Body(styles Styles, width int) []string {
	w.mu.Lock()
	info, err := w.info, w.err
	w.mu.Unlock()

	if w.env.SysInfo == nil {
		return []string{styles.Muted.Render("System info unavailable")}
	}
	if info == nil {
		if err != nil {
			return []string{styles.Error.Render(fit("Error: "+err.Error(), width))}
		}
		return []string{styles.Muted.Render("Loading...")}
	}

	rows := info.Lines()
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = fit(styles.Muted.Render(fmt.Sprintf("%-9s", row[0]))+styles.Text.Render(row[1]), width)
	}
	return lines
}

func (w *systemInfoWidget) Close() {
	w.cancel()
	w.localWidget.Close()
}
