// Package config loads the codescape.toml project file.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. the project file, codescape.toml in the analyzed folder or an explicit path
//  3. environment variables, optionally read from a .env file
//
// Recognized environment variables:
//
//   - CODESCAPE_LSP_URL: WebSocket URL of a language service
//   - CODESCAPE_LSP_COMMAND: language server executable
//   - CODESCAPE_REDIS_ADDR: Redis address for the shared symbol cache
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/codescape/pkg/cache"
	cerrors "github.com/matzehuels/codescape/pkg/errors"
)

// FileName is the project file looked up in the analyzed folder.
const FileName = "codescape.toml"

// Environment variables overriding file values.
const (
	EnvLSPURL     = "CODESCAPE_LSP_URL"
	EnvLSPCommand = "CODESCAPE_LSP_COMMAND"
	EnvRedisAddr  = "CODESCAPE_REDIS_ADDR"
)

const (
	DefaultWidth    = 1600.0
	DefaultHeight   = 1000.0
	DefaultCacheTTL = 7 * 24 * time.Hour
)

// Config is the complete project configuration.
type Config struct {
	Project ProjectConfig `toml:"project"`
	LSP     LSPConfig     `toml:"lsp"`
	Layout  LayoutConfig  `toml:"layout"`
	Cache   CacheConfig   `toml:"cache"`
}

// ProjectConfig selects the files that make up the codebase.
type ProjectConfig struct {
	Extensions  []string `toml:"extensions"`
	Ignore      []string `toml:"ignore"`
	NoGitignore bool     `toml:"no_gitignore"`
}

// LSPConfig selects the language server. URL takes precedence over Command.
type LSPConfig struct {
	Command     string   `toml:"command"`
	Args        []string `toml:"args"`
	URL         string   `toml:"url"`
	Language    string   `toml:"language"`
	Concurrency int      `toml:"concurrency"`
}

// LayoutConfig is the default treemap size.
type LayoutConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// CacheConfig configures the symbol cache. Redis, when set, replaces the
// file cache under Dir.
type CacheConfig struct {
	Disabled bool          `toml:"disabled"`
	Dir      string        `toml:"dir"`
	Redis    string        `toml:"redis"`
	TTL      time.Duration `toml:"ttl"`
}

// Default returns the configuration for a Go codebase analyzed with gopls.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			Extensions: []string{"go"},
			Ignore:     []string{"**/vendor/**", "**/testdata/**"},
		},
		LSP: LSPConfig{
			Command:  "gopls",
			Language: "go",
		},
		Layout: LayoutConfig{Width: DefaultWidth, Height: DefaultHeight},
		Cache:  CacheConfig{Dir: cache.DefaultDir(), TTL: DefaultCacheTTL},
	}
}

// Load reads the project file at path on top of the defaults. Unknown keys
// are rejected so that typos do not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "config file not found")
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, cerrors.New(cerrors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Resolve returns the configuration for the codebase in dir. An explicit
// path must exist; otherwise dir/codescape.toml is used when present. The
// environment is applied last and the result validated.
func Resolve(dir, explicit string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch {
	case explicit != "":
		cfg, err = Load(explicit)
	case fileExists(filepath.Join(dir, FileName)):
		cfg, err = Load(filepath.Join(dir, FileName))
	default:
		cfg = Default()
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := slices.DeleteFunc(slices.Clone(files), func(f string) bool { return !fileExists(f) })
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "load environment")
	}
	return nil
}

// ApplyEnv overrides file values with the non-empty variables returned by
// getenv. Setting a language server URL clears a configured command.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvLSPCommand)); v != "" {
		c.LSP.Command, c.LSP.Args = v, nil
	}
	if v := strings.TrimSpace(getenv(EnvLSPURL)); v != "" {
		c.LSP.URL = v
	}
	if v := strings.TrimSpace(getenv(EnvRedisAddr)); v != "" {
		c.Cache.Redis = v
	}
}

// Validate checks the values a run depends on.
func (c *Config) Validate() error {
	if err := cerrors.ValidateExtensions(c.Project.Extensions); err != nil {
		return err
	}
	if err := cerrors.ValidateSize(c.Layout.Width, c.Layout.Height); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.LSP.Concurrency < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "lsp concurrency must not be negative")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
