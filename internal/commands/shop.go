package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/autoshop/internal/config"
	"github.com/cleared-dev/autoshop/internal/dedup"
	"github.com/cleared-dev/autoshop/internal/logging"
	"github.com/cleared-dev/autoshop/internal/store"
)

// shop is an opened shop directory: its config, logger and signature store.
type shop struct {
	dir   string
	cfg   *config.Config
	log   *log.Logger
	kv    store.KV
	cache *dedup.Cache
}

func openShop(repoDir string, stderr io.Writer, verbose bool) (*shop, error) {
	dir, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s is not a shop directory (run autoshop init): %w", dir, err)
		}
		return nil, err
	}

	logger, err := logging.New(stderr, cfg.Log, verbose)
	if err != nil {
		return nil, err
	}

	opts := cfg.StoreOptions(dir)
	if opts.Path != "" && (opts.Driver == store.DriverPebble || opts.Driver == "" || opts.Driver == store.DriverSQLite) {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating storage dir: %w", err)
		}
	}
	kv, err := store.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Driver, err)
	}

	return &shop{
		dir:   dir,
		cfg:   cfg,
		log:   logger,
		kv:    kv,
		cache: dedup.NewCache(kv, cfg.CacheKey()),
	}, nil
}

func (s *shop) Close() error { return s.kv.Close() }
