// Package config loads farelock settings from a TOML file.
//
// The default location follows the XDG base directory convention:
// $XDG_CONFIG_HOME/farelock/config.toml, falling back to
// ~/.config/farelock/config.toml. A missing file yields [Default].
//
// Example:
//
//	log_level = "debug"
//
//	[npm]
//	command = "/usr/local/bin/npm"
//	install_timeout = "10m"
//
//	[registry]
//	url = "http://localhost:4873"
//	timeout = "15s"
//
//	[store]
//	url = "redis://localhost:6379/0"
//	history_limit = 50
//
//	[server]
//	listen = ":8080"
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	fareerrors "github.com/matzehuels/farelock/pkg/errors"
)

// AppName names the configuration directory.
const AppName = "farelock"

// Config holds all settings. Zero values are replaced by [Default] values
// when loading.
type Config struct {
	LogLevel string         `toml:"log_level"`
	NPM      NPMConfig      `toml:"npm"`
	Registry RegistryConfig `toml:"registry"`
	Store    StoreConfig    `toml:"store"`
	Server   ServerConfig   `toml:"server"`
}

// NPMConfig configures the package manager invocation.
type NPMConfig struct {
	Command        string   `toml:"command"`
	InstallTimeout Duration `toml:"install_timeout"`
}

// RegistryConfig configures the registry client.
type RegistryConfig struct {
	URL     string   `toml:"url"`
	Host    string   `toml:"host"`
	Timeout Duration `toml:"timeout"`
}

// StoreConfig selects where query reports are recorded. An empty URL
// disables recording.
type StoreConfig struct {
	URL          string `toml:"url"`
	HistoryLimit int    `toml:"history_limit"`
}

// ServerConfig configures "farelock serve".
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// Duration is a time.Duration written as a string ("90s", "5m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: "info",
		NPM: NPMConfig{
			Command:        "npm",
			InstallTimeout: Duration{10 * time.Minute},
		},
		Registry: RegistryConfig{
			URL:     "https://registry.npmjs.com",
			Host:    "npmjs.com",
			Timeout: Duration{30 * time.Second},
		},
		Store: StoreConfig{
			HistoryLimit: 20,
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:8080",
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads the config file at path, or at [Path] when path is empty.
// A missing default file is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fareerrors.Wrap(fareerrors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fareerrors.Wrap(fareerrors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Decode parses TOML text on top of [Default]. It is used by tests and by
// callers that embed settings.
func Decode(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fareerrors.Wrap(fareerrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var logLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "off": true,
}

var storeSchemes = map[string]bool{
	"file": true, "redis": true, "rediss": true, "mongodb": true, "mongodb+srv": true,
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !logLevels[c.LogLevel] {
		return fareerrors.New(fareerrors.ErrCodeInvalidConfig, "log_level %q must be one of debug, info, warn, error, off", c.LogLevel)
	}
	if c.NPM.Command == "" {
		return fareerrors.New(fareerrors.ErrCodeInvalidConfig, "npm.command cannot be empty")
	}
	if c.NPM.InstallTimeout.Duration < 0 || c.Registry.Timeout.Duration < 0 {
		return fareerrors.New(fareerrors.ErrCodeInvalidConfig, "timeouts cannot be negative")
	}
	if err := fareerrors.ValidateURL(c.Registry.URL); err != nil {
		return fareerrors.Wrap(fareerrors.ErrCodeInvalidConfig, err, "registry.url")
	}
	if c.Registry.Host == "" {
		return fareerrors.New(fareerrors.ErrCodeInvalidConfig, "registry.host cannot be empty")
	}
	if c.Store.URL != "" {
		u, err := url.Parse(c.Store.URL)
		if err != nil {
			return fareerrors.Wrap(fareerrors.ErrCodeInvalidConfig, err, "store.url")
		}
		if !storeSchemes[u.Scheme] {
			return fareerrors.New(fareerrors.ErrCodeInvalidConfig, "store.url scheme %q is not supported", u.Scheme)
		}
	}
	if c.Store.HistoryLimit < 0 {
		return fareerrors.New(fareerrors.ErrCodeInvalidConfig, "store.history_limit cannot be negative")
	}
	return nil
}
