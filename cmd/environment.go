package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zerowidth/tlmgr-complete/pkg/cache"
	"github.com/zerowidth/tlmgr-complete/pkg/completion"
	"github.com/zerowidth/tlmgr-complete/pkg/config"
	"github.com/zerowidth/tlmgr-complete/pkg/fetch"
	"github.com/zerowidth/tlmgr-complete/pkg/freshness"
	"go.uber.org/zap"
)

// environment is everything a command needs to answer completion requests
type environment struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *cache.Store
	provider *completion.Provider
}

func (o *options) environment(cmd *cobra.Command) (*environment, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	fetcher, err := fetch.New(cfg.Tlmgr, logger)
	if err != nil {
		return nil, err
	}

	store := openStore(cfg, logger)

	return &environment{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		provider: completion.New(cfg, store, fetcher, logger),
	}, nil
}

func (e *environment) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("could not close cache", zap.Error(err))
	}
	_ = e.logger.Sync()
}

// newLogger logs to the configured log file only. stdout and stderr belong to
// the shell, so without a log file nothing is logged at all.
func newLogger(cfg config.Config) *zap.Logger {
	if len(cfg.LogFile) == 0 {
		return zap.NewNop()
	}

	level, err := cfg.Level()
	if err != nil {
		return zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return zap.NewNop()
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(level)
	loggerConfig.OutputPaths = []string{cfg.LogFile}
	loggerConfig.ErrorOutputPaths = []string{cfg.LogFile}

	logger, err := loggerConfig.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openStore opens the configured cache backend. If it can't be opened the
// store works in memory only, for this process.
func openStore(cfg config.Config, logger *zap.Logger) *cache.Store {
	policy := freshness.New(cfg.CacheTTL)

	backend, err := openBackend(cfg)
	if err != nil {
		logger.Warn("cache unavailable", zap.String("backend", cfg.CacheBackend), zap.Error(err))
		return cache.NewStore(nil, policy, logger)
	}
	return cache.NewStore(backend, policy, logger)
}

func openBackend(cfg config.Config) (cache.Backend, error) {
	switch cfg.CacheBackend {
	case config.BackendSQLite:
		backend, err := cache.NewSQLiteBackend(filepath.Join(cfg.CacheDir, cache.DatabaseFile))
		if err != nil {
			return nil, err
		}
		return backend, nil
	default:
		backend, err := cache.NewFileBackend(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		return backend, nil
	}
}
