package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/termdetox/terminal-detox/commands"
	"github.com/termdetox/terminal-detox/sysinfo"
	"github.com/termdetox/terminal-detox/tui"
)

func init() {
	rootCmd.AddCommand(dashCmd)
}

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the dashboard (the default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

func runDashboard() error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.closeLog()

	dispatcher := commands.NewDispatcher(commands.Options{
		API:     a.api,
		Themes:  a.themes,
		Widgets: a.registry,
		Todos:   a.todos,
		Clocks:  a.clocks,
		Logger:  a.logger,
		Timeout: a.config.Server.Timeout.Duration,
	})

	model := tui.NewModel(tui.Options{
		API:             a.api,
		Registry:        a.registry,
		Themes:          a.themes,
		Todos:           a.todos,
		Clocks:          a.clocks,
		SysInfo:         sysinfo.NewCollector(),
		Dispatcher:      dispatcher,
		DefaultLocation: a.config.Dashboard.DefaultLocation,
		RefreshInterval: a.config.Dashboard.RefreshInterval.Duration,
		Logger:          a.logger,
	})
	defer model.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pick up edits made by another dashboard or a "detox run" in the meantime
	go func() {
		err := a.store.Watch(ctx, a.logger, model.ReloadKey)
		if err != nil {
			a.logger.Warn().Err(err).Msg("not watching the state directory")
		}
	}()

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
