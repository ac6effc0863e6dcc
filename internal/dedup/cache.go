package dedup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cleared-dev/autoshop/internal/store"
)

// DefaultKey is the storage key of the persisted signature list.
const DefaultKey = "imported_tx_signatures_v1"

// ErrCorrupt means the stored value was read but is not a signature list.
var ErrCorrupt = errors.New("stored signatures are corrupt")

// Cache is the local set of already-imported signatures. It is stored as a
// JSON array under one key. Contains and Record only touch memory; Persist
// overwrites the stored list.
type Cache struct {
	kv   store.KV
	key  string
	seen Set
}

// NewCache returns an empty cache backed by kv under key.
func NewCache(kv store.KV, key string) *Cache {
	if key == "" {
		key = DefaultKey
	}
	return &Cache{kv: kv, key: key, seen: NewSet()}
}

// Load replaces the in-memory set with the stored one. A missing key is an
// empty set. A stored value that is not a JSON string array wraps
// ErrCorrupt; any other error comes from the store and leaves the in-memory
// set unchanged.
func (c *Cache) Load(ctx context.Context) error {
	raw, ok, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return fmt.Errorf("loading signatures: %w", err)
	}
	c.seen = NewSet()
	if !ok || raw == "" {
		return nil
	}
	var sigs []string
	if err := json.Unmarshal([]byte(raw), &sigs); err != nil {
		return fmt.Errorf("decoding signatures: %w: %w", ErrCorrupt, err)
	}
	for _, sig := range sigs {
		c.seen.Add(sig)
	}
	return nil
}

// Contains reports whether sig was loaded or recorded.
func (c *Cache) Contains(sig string) bool { return c.seen.Has(sig) }

// Record adds sig to the in-memory set. It is stored on the next Persist.
func (c *Cache) Record(sig string) { c.seen.Add(sig) }

// Len returns the number of known signatures.
func (c *Cache) Len() int { return len(c.seen) }

// Signatures returns the in-memory set in lexical order.
func (c *Cache) Signatures() []string { return c.seen.Sorted() }

// Reset empties the in-memory set.
func (c *Cache) Reset() { c.seen = NewSet() }

// Persist writes the in-memory set back, sorted so repeated runs produce
// identical values.
func (c *Cache) Persist(ctx context.Context) error {
	data, err := json.Marshal(c.seen.Sorted())
	if err != nil {
		return fmt.Errorf("encoding signatures: %w", err)
	}
	if err := c.kv.Set(ctx, c.key, string(data)); err != nil {
		return fmt.Errorf("persisting signatures: %w", err)
	}
	return nil
}
