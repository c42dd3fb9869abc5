package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/farelock/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(`
log_level = "debug"

[npm]
command = "/opt/node/bin/npm"
install_timeout = "90s"

[registry]
url = "http://localhost:4873"
timeout = "5s"

[store]
url = "file:///var/lib/farelock"
history_limit = 5
`)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.NPM.Command != "/opt/node/bin/npm" {
		t.Errorf("NPM.Command = %q", cfg.NPM.Command)
	}
	if cfg.NPM.InstallTimeout.Duration != 90*time.Second {
		t.Errorf("NPM.InstallTimeout = %v, want 90s", cfg.NPM.InstallTimeout)
	}
	if cfg.Registry.URL != "http://localhost:4873" || cfg.Registry.Timeout.Duration != 5*time.Second {
		t.Errorf("Registry = %+v", cfg.Registry)
	}
	// Unset keys keep their defaults.
	if cfg.Registry.Host != "npmjs.com" {
		t.Errorf("Registry.Host = %q, want default", cfg.Registry.Host)
	}
	if cfg.Server.Listen != Default().Server.Listen {
		t.Errorf("Server.Listen = %q, want default", cfg.Server.Listen)
	}
	if cfg.Store.HistoryLimit != 5 {
		t.Errorf("Store.HistoryLimit = %d", cfg.Store.HistoryLimit)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `log_level = `},
		{"bad duration", "[npm]\ninstall_timeout = \"soon\""},
		{"bad log level", `log_level = "loud"`},
		{"empty command", "[npm]\ncommand = \"\""},
		{"registry scheme", "[registry]\nurl = \"ftp://registry\""},
		{"store scheme", "[store]\nurl = \"postgres://db\""},
		{"negative limit", "[store]\nhistory_limit = -1"},
		{"negative timeout", "[registry]\ntimeout = \"-1s\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.toml)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Decode() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadFromXDG(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	path := filepath.Join(home, AppName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[server]\nlisten = \":9999\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Listen != ":9999" {
		t.Errorf("Server.Listen = %q, want :9999", cfg.Server.Listen)
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	p, err := Path()
	if err != nil {
		t.Fatalf("Path() error: %v", err)
	}
	if p != filepath.Join("/tmp/custom-config", AppName, "config.toml") {
		t.Errorf("Path() = %q", p)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	p, err = Path()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	if !strings.HasSuffix(p, filepath.Join(".config", AppName, "config.toml")) {
		t.Errorf("Path() = %q, want under ~/.config", p)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("2m30s")); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	text, _ := d.MarshalText()
	if string(text) != "2m30s" {
		t.Errorf("MarshalText() = %q, want 2m30s", text)
	}
}
