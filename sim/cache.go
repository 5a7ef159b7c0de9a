package sim

import (
	"encoding/gob"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/YuminosukeSato/cvsim/pkg/errors"
)

// Cache memoizes trial results keyed by the full trial configuration. It
// is safe for concurrent use: when several workers request the same
// configuration at once, the trial runs exactly once and the rest wait for
// its outcome.
//
// Memoization relies on trials being pure functions of their config — all
// randomness is seeded per call, so serving a cached result cannot disturb
// the random state of any other trial.
type Cache struct {
	mu      sync.Mutex
	entries map[TrialConfig]*cacheEntry
	hits    atomic.Int64
}

type cacheEntry struct {
	once    sync.Once
	results []TrialResult
	err     error
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[TrialConfig]*cacheEntry),
	}
}

// Do returns the memoized results for cfg, computing them with fn on first
// use. The returned slice is a copy; callers may modify it freely.
func (c *Cache) Do(cfg TrialConfig, fn func(TrialConfig) ([]TrialResult, error)) ([]TrialResult, error) {
	c.mu.Lock()
	entry, ok := c.entries[cfg]
	if !ok {
		entry = &cacheEntry{}
		c.entries[cfg] = entry
	} else {
		c.hits.Add(1)
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.results, entry.err = fn(cfg)
	})

	if entry.err != nil {
		return nil, entry.err
	}
	out := make([]TrialResult, len(entry.results))
	copy(out, entry.results)
	return out, nil
}

// Hits returns the number of Do calls served without recomputation.
func (c *Cache) Hits() int64 {
	return c.hits.Load()
}

// Len returns the number of distinct configurations stored.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheRecord is the persisted form of one completed entry.
type cacheRecord struct {
	Config  TrialConfig
	Results []TrialResult
}

// Save writes all completed, successful entries to w in gob format. NaN
// scores round-trip unchanged.
func (c *Cache) Save(w io.Writer) error {
	c.mu.Lock()
	var records []cacheRecord
	for cfg, entry := range c.entries {
		if entry.err == nil && entry.results != nil {
			records = append(records, cacheRecord{Config: cfg, Results: entry.results})
		}
	}
	c.mu.Unlock()

	if err := gob.NewEncoder(w).Encode(records); err != nil {
		return errors.Wrap(err, "encoding cache")
	}
	return nil
}

// Load merges previously saved entries into the cache. Existing entries
// win over loaded ones.
func (c *Cache) Load(r io.Reader) error {
	var records []cacheRecord
	if err := gob.NewDecoder(r).Decode(&records); err != nil {
		return errors.Wrap(err, "decoding cache")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range records {
		if _, ok := c.entries[rec.Config]; ok {
			continue
		}
		entry := &cacheEntry{results: rec.Results}
		entry.once.Do(func() {}) // mark as computed
		c.entries[rec.Config] = entry
	}
	return nil
}

// SaveFile persists the cache to the named file.
func (c *Cache) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating cache file")
	}
	defer f.Close()
	return c.Save(f)
}

// LoadFile merges entries from the named file into the cache.
func (c *Cache) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening cache file")
	}
	defer f.Close()
	return c.Load(f)
}
