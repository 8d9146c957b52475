package clientconfig

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/termdetox/terminal-detox/env"
)

const appName = "terminal-detox"

// Config is the dashboard's configuration file
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Log       LogConfig       `toml:"log"`
	StateDir  string          `toml:"state_dir"`
}

// ServerConfig locates the API server
type ServerConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// DashboardConfig holds the widget defaults
type DashboardConfig struct {
	DefaultLocation string   `toml:"default_location"`
	RefreshInterval Duration `toml:"refresh_interval"`
}

// LogConfig controls the log file (the terminal itself belongs to the dashboard)
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default gets the configuration used when there is no file
func Default() *Config {
	home, _ := os.UserHomeDir()
	stateDir := filepath.Join(xdgHome("XDG_STATE_HOME", home, ".local", "state"), appName)

	return &Config{
		Server: ServerConfig{
			URL:     "http://localhost:8080",
			Timeout: Duration{10 * time.Second},
		},
		Dashboard: DashboardConfig{
			DefaultLocation: "New York",
			RefreshInterval: Duration{5 * time.Minute},
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(stateDir, "detox.log"),
		},
		StateDir: stateDir,
	}
}

// Load reads the first configuration file found in the search paths:
//  1. $XDG_CONFIG_HOME/terminal-detox/config.toml
//  2. ~/.config/terminal-detox/config.toml
//
// The defaults are used when neither exists
func Load() (*Config, error) {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return LoadFromFile(path)
		}
	}

	cfg := Default()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads a specific configuration file
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not open config %s", path)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse config %s", path)
	}
	return cfg, nil
}

// LoadFromReader decodes TOML over the defaults, then applies environment overrides
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	_, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the file
func applyEnvOverrides(cfg *Config) {
	cfg.Server.URL = env.GetEnvDefault("DETOX_SERVER_URL", cfg.Server.URL)
	cfg.Log.Level = env.GetEnvDefault("DETOX_LOG_LEVEL", cfg.Log.Level)
	cfg.StateDir = env.GetEnvDefault("DETOX_STATE_DIR", cfg.StateDir)
}

// SearchPaths gets the ordered list of configuration files to try
func SearchPaths() []string {
	home, _ := os.UserHomeDir()

	xdg := xdgHome("XDG_CONFIG_HOME", home, ".config")
	paths := []string{filepath.Join(xdg, appName, "config.toml")}

	fallback := filepath.Join(home, ".config")
	if xdg != fallback {
		paths = append(paths, filepath.Join(fallback, appName, "config.toml"))
	}

	return paths
}

func xdgHome(variable string, home string, fallback ...string) string {
	if value := os.Getenv(variable); value != "" {
		return value
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}
