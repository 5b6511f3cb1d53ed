// Package config loads and stores editor settings from a TOML file in
// the user's config directory. Server settings can be overridden with
// environment variables, which is how the headless tools are pointed at
// a different world server in scripts.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	appDirName = "wilderness-editor"
	configFile = "config.toml"
)

// Config is the on-disk editor configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Window  WindowConfig  `toml:"window"`
}

// ServerConfig points the editor at a world server.
type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// SessionConfig controls the local draft database.
type SessionConfig struct {
	// DatabasePath is the sqlite file for crash-safe drafts. Empty
	// uses sessions.db next to the config file.
	DatabasePath string `toml:"database_path"`
}

// CanvasConfig holds canvas settings that survive restarts.
type CanvasConfig struct {
	// BackgroundSource is a file path or http(s) URL for the
	// reference image, empty for none.
	BackgroundSource string `toml:"background_source"`
}

// WindowConfig remembers the main window size.
type WindowConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Default returns the configuration used when no file exists yet.
func Default() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8390",
			TimeoutSeconds: 10,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 860,
		},
	}
}

// Dir returns the per-user config directory, creating nothing.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appDirName)
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(Dir(), configFile)
}

// Load reads the config file, fills in defaults for anything missing,
// and applies environment overrides. A missing file is not an error.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return Default(), fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if cfg.Session.DatabasePath == "" {
		cfg.Session.DatabasePath = filepath.Join(filepath.Dir(path), "sessions.db")
	}
	if cfg.Server.TimeoutSeconds <= 0 {
		cfg.Server.TimeoutSeconds = Default().Server.TimeoutSeconds
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		cfg.Window = Default().Window
	}
	return cfg, nil
}

// Save writes the config to the default location.
func (c Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config to an explicit path, creating the directory
// if needed.
func (c Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("WILD_SERVER_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("WILD_SERVER_TOKEN"); v != "" {
		cfg.Server.Token = v
	}
	if v := os.Getenv("WILD_SESSION_DB"); v != "" {
		cfg.Session.DatabasePath = v
	}
}
