// Package cli implements the farelock command-line interface.
//
// farelock lists the OpenFare metadata (OPENFARE.lock and OPENFARE.json)
// declared by the npm packages a project or registry package depends on.
//
// # Commands
//
//   - project locks|configs [dir]: query a project on disk
//   - package locks|configs <name>: query a registry package
//   - history: list recorded reports
//   - serve: answer queries over HTTP
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The level
// may also come from FARELOCK_LOG or the config file's log_level.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/farelock/pkg/buildinfo"
	"github.com/matzehuels/farelock/pkg/config"
	"github.com/matzehuels/farelock/pkg/errors"
	registry "github.com/matzehuels/farelock/pkg/integrations/npm"
	"github.com/matzehuels/farelock/pkg/npm"
	"github.com/matzehuels/farelock/pkg/observability"
	"github.com/matzehuels/farelock/pkg/query"
	"github.com/matzehuels/farelock/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "farelock"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Out receives command output (tables, JSON). Defaults to stdout.
	Out io.Writer

	configPath string
	config     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetVerbose switches to debug logging and logs every query, install and
// registry request.
func (c *CLI) SetVerbose() {
	c.SetLogLevel(LogDebug)
	hooks := &debugHooks{logger: c.Logger}
	observability.SetQueryHooks(hooks)
	observability.SetProvisionHooks(hooks)
	observability.SetHTTPHooks(hooks)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "farelock lists the OpenFare metadata of npm dependencies",
		Long: `farelock finds every package installed for an npm project or registry
package and reports which of them declare OpenFare locks (OPENFARE.lock)
or configs (OPENFARE.json).`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/farelock/config.toml)")

	root.AddCommand(c.projectCommand())
	root.AddCommand(c.packageCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level. FARELOCK_LOG
// takes precedence over the file.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg

	name := cfg.LogLevel
	if env := os.Getenv(envLogLevel); env != "" {
		name = env
	}
	level, err := parseLevel(name)
	if err != nil {
		return err
	}
	c.SetLogLevel(level)
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newEngine creates a query engine from the loaded config.
func (c *CLI) newEngine() *query.Engine {
	cfg := c.config
	e := query.NewEngine(
		npm.NewNPM(cfg.NPM.Command, cfg.NPM.InstallTimeout.Duration),
		registry.NewClient(cfg.Registry.URL, cfg.Registry.Timeout.Duration),
		c.Logger,
	)
	e.RegistryHost = cfg.Registry.Host
	return e
}

// openStore connects to the configured report store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, c.config.Store.URL, c.config.Store.HistoryLimit)
}

// openStoreIf opens the configured store when enabled, and a store that
// records nothing otherwise.
func (c *CLI) openStoreIf(ctx context.Context, enabled bool) (store.Store, error) {
	if !enabled {
		return store.NewNullStore(), nil
	}
	if c.config.Store.URL == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no report store configured (set [store] url)")
	}
	return c.openStore(ctx)
}
