// Package cli implements the codescape command-line interface.
//
// The commands analyze a folder through the pipeline and write the
// resulting treemap, architecture and dependency graph files:
//
//   - analyze: run the full analysis and write the requested formats
//   - render: draw a saved architecture without a language server
//   - graph: write the dependency graph of one scope as DOT or SVG
//   - describe: print the artifact tree with its metrics
//   - snapshot: save the codebase with its symbols for later runs
//   - cache: manage the symbol cache
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels through the command context.
package cli

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codescape/pkg/buildinfo"
	"github.com/matzehuels/codescape/pkg/cache"
	"github.com/matzehuels/codescape/pkg/config"
	"github.com/matzehuels/codescape/pkg/pipeline"
)

const (
	appName     = "codescape"
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command results; logs and progress go to the log writer.
	Out io.Writer

	progress   io.Writer
	tty        bool // progress is a terminal
	configPath string
}

// New creates a new CLI instance writing results to out and logs to w.
func New(out, w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level), Out: out, progress: w}
	if f, ok := w.(*os.File); ok {
		c.tty = isatty.IsTerminal(f.Fd())
	}
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           appName,
		Short:         "Codescape maps the architecture of a codebase",
		Long:          `Codescape asks a language server for the symbols of a codebase and the references between them, finds dependency cycles, and draws the result as a nested treemap.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return config.LoadDotEnv()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "project file (default: <folder>/"+config.FileName+")")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.describeCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the configuration of the codebase in dir.
func (c *CLI) loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.Resolve(dir, c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("configuration", "extensions", cfg.Project.Extensions, "lsp", cfg.LSP.Command, "url", cfg.LSP.URL)
	return cfg, nil
}

// redisBackoff keeps startup short when Redis is down; the file cache
// takes over after the last attempt.
var redisBackoff = cache.Backoff{Attempts: 2, Delay: 500 * time.Millisecond}

// newCache opens the symbol cache selected by cfg. An unreachable Redis
// falls back to the file cache.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) cache.Cache {
	if noCache || cfg.Cache.Disabled {
		return cache.NewNullCache()
	}
	if cfg.Cache.Redis != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   cfg.Cache.Redis,
			Prefix: redisPrefix,
			Retry:  redisBackoff,
		})
		if err == nil {
			return rc
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "addr", cfg.Cache.Redis, "err", err)
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable", "dir", cfg.Cache.Dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
