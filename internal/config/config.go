// Package config loads topodraw settings from, in increasing precedence:
// built-in defaults, a topodraw.toml file, a .env file, TOPODRAW_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	errs "github.com/matzehuels/topodraw/pkg/errors"
	"github.com/matzehuels/topodraw/pkg/render"
)

const appName = "topodraw"

// Config is the resolved configuration for one invocation.
type Config struct {
	OutputDir string
	Format    string // empty keeps each diagram's own format
	NoShow    bool
	Cache     string // "file", "none" or a redis:// URL
	CacheDir  string
	CacheTTL  time.Duration
	Catalog   string // extra catalog TOML merged over the built-in one
	Verbose   bool

	// ConfigFile is the config file that was read, if any.
	ConfigFile string
}

// flagKeys maps flag names to viper keys.
var flagKeys = map[string]string{
	"output-dir": "output_dir",
	"format":     "format",
	"no-show":    "no_show",
	"no-cache":   "no_cache",
	"cache":      "cache",
	"cache-ttl":  "cache_ttl",
	"catalog":    "catalog",
	"verbose":    "verbose",
}

// Load resolves the configuration. flags may be nil; flags that were not
// set on the command line do not override other sources. A --config flag,
// when present and set, names the config file explicitly.
func Load(flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("output_dir", ".")
	v.SetDefault("format", "")
	v.SetDefault("no_show", false)
	v.SetDefault("no_cache", false)
	v.SetDefault("cache", "file")
	v.SetDefault("cache_dir", DefaultCacheDir())
	v.SetDefault("cache_ttl", render.DefaultTTL)
	v.SetDefault("catalog", "")
	v.SetDefault("verbose", false)

	if err := readConfigFile(v, flags); err != nil {
		return Config{}, err
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Config{
		OutputDir:  strings.TrimSpace(v.GetString("output_dir")),
		NoShow:     v.GetBool("no_show"),
		Cache:      strings.TrimSpace(v.GetString("cache")),
		CacheDir:   strings.TrimSpace(v.GetString("cache_dir")),
		CacheTTL:   v.GetDuration("cache_ttl"),
		Catalog:    strings.TrimSpace(v.GetString("catalog")),
		Verbose:    v.GetBool("verbose"),
		ConfigFile: v.ConfigFileUsed(),
	}
	if v.GetBool("no_cache") {
		cfg.Cache = "none"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.CacheTTL < 0 {
		return Config{}, errs.New(errs.ErrCodeInvalidInput, "cache_ttl must not be negative, got %s", cfg.CacheTTL)
	}

	if raw := strings.TrimSpace(v.GetString("format")); raw != "" {
		f, err := render.ParseFormat(raw)
		if err != nil {
			return Config{}, err
		}
		cfg.Format = string(f)
	}
	return cfg, nil
}

// readConfigFile reads an explicit --config file, or else the first
// topodraw.toml found in the working directory or the user config
// directory. A missing implicit file is not an error.
func readConfigFile(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			path := f.Value.String()
			if _, err := os.Stat(path); err != nil {
				return errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s not found", path)
			}
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidInput, err, "read config %s", path)
			}
			return nil
		}
	}

	v.SetConfigName(appName)
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, appName))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "read config")
	}
	return nil
}

// DefaultCacheDir returns the artifact cache directory using the XDG
// standard (~/.cache/topodraw/), or "" if no home directory is known.
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", appName)
}
