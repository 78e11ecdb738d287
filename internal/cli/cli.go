// Package cli implements the influencemap command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/influencemap/internal/config"
	"github.com/matzehuels/influencemap/pkg/buildinfo"
	"github.com/matzehuels/influencemap/pkg/cache"
	"github.com/matzehuels/influencemap/pkg/pipeline"
	"github.com/matzehuels/influencemap/pkg/session"
	"github.com/matzehuels/influencemap/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "influencemap"

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

	configPath string // --config
	storeKey   string // --key
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Influencemap maps stakeholders by reporting line, relationship and influence",
		Long:         `Influencemap keeps an organizational influence map: stakeholders arranged by who reports to whom and colored by relationship strength and decision weight.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/influencemap/config.toml)")
	root.PersistentFlags().StringVar(&c.storeKey, "key", "", "store key of the map to work on")

	// Editing
	root.AddCommand(c.addCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.renameCommand())
	root.AddCommand(c.resetCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.editCommand())

	// Inspection
	root.AddCommand(c.listCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.validateCommand())

	// Output
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())

	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Session Factory
// =============================================================================

// loadConfig reads the config file and applies global flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.storeKey != "" {
		cfg.Store.Key = c.storeKey
	}
	return cfg, nil
}

// openSession connects the configured store and loads the stored map into a
// fresh session. The returned func closes the store.
func (c *CLI) openSession(ctx context.Context, cfg config.Config) (*session.Session, func(), error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("opened store", "store", st, "key", cfg.Store.StoreKey())

	sess := session.New(
		session.WithStore(st),
		session.WithKey(cfg.Store.StoreKey()),
		session.WithLogger(c.Logger),
		session.WithHistoryLimit(cfg.History.Limit),
	)
	if err := sess.Load(ctx); err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return sess, func() { _ = st.Close() }, nil
}

// withSession runs fn against the stored map.
func (c *CLI) withSession(ctx context.Context, fn func(*session.Session) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	sess, closeStore, err := c.openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(sess)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped
// by the given namespace so maps sharing a cache directory stay apart.
func (c *CLI) newRunner(cfg config.Config, noCache bool, scope string) (*pipeline.Runner, error) {
	if noCache {
		cfg.Cache.Disabled = true
	}
	rc, err := cfg.OpenCache()
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), scope+":")
	return pipeline.NewRunner(rc, keyer, c.Logger), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields def.
func parseFormats(s, def string) []string {
	if s == "" {
		if def == "" {
			def = pipeline.FormatSVG
		}
		return []string{def}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
