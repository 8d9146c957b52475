package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/termdetox/terminal-detox/client"
	"github.com/termdetox/terminal-detox/clientconfig"
	"github.com/termdetox/terminal-detox/clocks"
	"github.com/termdetox/terminal-detox/registry"
	"github.com/termdetox/terminal-detox/storage"
	"github.com/termdetox/terminal-detox/theme"
	"github.com/termdetox/terminal-detox/todo"
)

var (
	configPath string
	serverURL  string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: search the XDG config dirs)")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "API server URL (overrides the config file)")
}

var rootCmd = &cobra.Command{
	Use:   "detox",
	Short: "A calm terminal dashboard of weather, news, feeds and markets",
	Long: `detox shows a grid of widgets fed by the Terminal Detox API server.
Press ctrl+k inside the dashboard to open the command line, or run a single
command with "detox run <command>".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		Red.Println(err)
		os.Exit(1)
	}
}

// app bundles the state containers shared by every subcommand
type app struct {
	config   *clientconfig.Config
	logger   zerolog.Logger
	store    *storage.FileStore
	api      *client.Client
	registry *registry.Registry
	themes   *theme.Store
	todos    *todo.List
	clocks   *clocks.Clocks
	closeLog func()
}

func loadApp() (*app, error) {
	var (
		cfg *clientconfig.Config
		err error
	)
	if configPath != "" {
		cfg, err = clientconfig.LoadFromFile(configPath)
	} else {
		cfg, err = clientconfig.Load()
	}
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}

	logger, closeLog, err := openLog(cfg.Log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewFileStore(cfg.StateDir)
	if err != nil {
		closeLog()
		return nil, err
	}
	logger.Info().Str("state_dir", store.Dir()).Str("server", cfg.Server.URL).Msg("loaded dashboard state")

	return &app{
		config:   cfg,
		logger:   logger,
		store:    store,
		api:      client.New(cfg.Server.URL, cfg.Server.Timeout.Duration, logger),
		registry: registry.New(store, logger),
		themes:   theme.NewStore(store, logger),
		todos:    todo.NewList(store, logger),
		clocks:   clocks.New(store, logger),
		closeLog: closeLog,
	}, nil
}

// openLog writes structured logs to the log file; the terminal belongs to the dashboard
func openLog(config clientconfig.LogConfig) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		return zerolog.Nop(), nil, errors.Wrapf(err, "unknown log level %q", config.Level)
	}

	var out io.Writer = io.Discard
	closeLog := func() {}
	if config.File != "" {
		err = os.MkdirAll(filepath.Dir(config.File), 0o755)
		if err != nil {
			return zerolog.Nop(), nil, errors.Wrap(err, "could not create the log directory")
		}

		f, err := os.OpenFile(config.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, errors.Wrapf(err, "could not open log file %s", config.File)
		}
		out = f
		closeLog = func() {
			if err := f.Close(); err != nil {
				fmt.Fprintln(os.Stderr, "could not close log file:", err)
			}
		}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closeLog, nil
}
