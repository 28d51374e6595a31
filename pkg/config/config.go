package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

// Filename is the default file location for tlmgr-complete config
var Filename = "~/.tlmgr-complete.yml"

// Backend names accepted by cache_backend
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Defaults for settings left out of the config file
const (
	DefaultTlmgr           = "tlmgr"
	DefaultCacheTTL        = time.Hour
	DefaultRepositoryLabel = "Default package repository (repository)"
)

// Config is the tlmgr-complete configuration, read from a yaml file
type Config struct {
	Tlmgr           string        `yaml:"tlmgr"`            // command line used to run tlmgr
	CacheDir        string        `yaml:"cache_dir"`        // where cached lists are kept
	CacheTTL        time.Duration `yaml:"cache_ttl"`        // how long a cached list is served
	CacheBackend    string        `yaml:"cache_backend"`    // file or sqlite
	RepositoryLabel string        `yaml:"repository_label"` // label of the repository line in `tlmgr option repository`
	LogFile         string        `yaml:"log_file"`         // no logging if empty
	LogLevel        string        `yaml:"log_level"`
}

// Default returns the configuration used when there is no config file
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// DefaultCacheDir is tlmgr-complete's directory inside the user's cache
// directory, or inside the system temp directory if there isn't one.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "tlmgr-complete")
}

// Load a Config from a yaml string, filling in defaults.
// Returns an empty config if an error occurs.
func Load(yml string) (Config, error) {
	var config Config

	if err := yaml.UnmarshalStrict([]byte(yml), &config); err != nil {
		return Config{}, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// LoadFromFile attempts to load a Config from a given yaml file.
func LoadFromFile(path string) (Config, error) {
	realpath, err := homedir.Expand(path)
	if err != nil {
		return Config{}, err
	}

	yml, err := os.ReadFile(realpath)
	if err != nil {
		return Config{}, err
	}

	cfg, err := Load(string(yml))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromDefault loads and validates the config in the default location.
// A missing file isn't an error, it means the defaults are used.
func LoadFromDefault() (Config, error) {
	cfg, err := LoadFromFile(Filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks the settings that can't be fixed up with defaults
func (c Config) Validate() error {
	if len(strings.TrimSpace(c.Tlmgr)) == 0 {
		return fmt.Errorf("tlmgr command is empty")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl %s is negative", c.CacheTTL)
	}
	switch c.CacheBackend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("cache_backend %q is not %q or %q", c.CacheBackend, BackendFile, BackendSQLite)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level is the parsed log level
func (c Config) Level() (zapcore.Level, error) {
	if len(c.LogLevel) == 0 {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return level, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// ExpandPaths resolves a leading ~ in the configured paths
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.CacheDir, &c.LogFile} {
		if len(*p) == 0 {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.Tlmgr) == 0 {
		c.Tlmgr = DefaultTlmgr
	}
	if len(c.CacheDir) == 0 {
		c.CacheDir = DefaultCacheDir()
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if len(c.CacheBackend) == 0 {
		c.CacheBackend = BackendFile
	}
	c.CacheBackend = strings.ToLower(c.CacheBackend)
	if len(c.RepositoryLabel) == 0 {
		c.RepositoryLabel = DefaultRepositoryLabel
	}
}
