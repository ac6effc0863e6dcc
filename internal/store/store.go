// Package store provides the durable key-value storage behind the local
// dedup cache.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// KV is a string key-value store. Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverPebble   = "pebble"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Driver    string
	Path      string // pebble directory or sqlite file
	DSN       string // postgres connection string
	RedisAddr string
}

// Open returns the backend named by opts.Driver. An empty driver means pebble.
func Open(opts Options) (KV, error) {
	var (
		kv  KV
		err error
	)
	switch opts.Driver {
	case DriverMemory:
		kv = NewMemory()
	case DriverPebble, "":
		kv, err = OpenPebble(opts.Path)
	case DriverSQLite:
		kv, err = OpenSQLite(opts.Path)
	case DriverPostgres:
		kv, err = OpenPostgres(opts.DSN)
	case DriverRedis:
		kv, err = OpenRedis(opts.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	return kv, nil
}
