package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// indexEntry holds the tracked fields of one note.
type indexEntry struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	// Seconds is the edit duration; HasSeconds is false when the note has
	// no numeric duration field.
	Seconds      int64     `json:"seconds,omitempty"`
	HasSeconds   bool      `json:"has_seconds,omitempty"`
	Modified     string    `json:"modified,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// index is the persisted cache state. Fields are keyed by the field paths
// they were read with, so a settings change invalidates it.
type index struct {
	Version      int                    `json:"version"`
	DurationPath string                 `json:"duration_path"`
	ModifiedPath string                 `json:"modified_path"`
	Entries      map[string]*indexEntry `json:"entries"` // keyed by note id
	dirty        bool
	mu           sync.RWMutex
}

const indexVersion = 1

// cache avoids reparsing unchanged notes when collecting stats.
type cache struct {
	Path  string // {vault}/{systemDir}/index.json
	index *index
}

func newCache(vaultPath, systemDir string) *cache {
	return &cache{
		Path: filepath.Join(vaultPath, systemDir, "index.json"),
		index: &index{
			Version: indexVersion,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the cache from disk. A missing or corrupt file yields an
// empty index.
func (c *cache) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if err := json.Unmarshal(data, c.index); err != nil || c.index.Version != indexVersion || c.index.Entries == nil {
		c.index.Version = indexVersion
		c.index.Entries = make(map[string]*indexEntry)
	}
	c.index.dirty = false
	return nil
}

// Save persists the cache when it changed.
func (c *cache) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}
	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()
	return nil
}

// Reset drops all entries when the tracked field paths differ from the
// ones the index was built with.
func (c *cache) Reset(durationPath, modifiedPath string) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	if c.index.DurationPath == durationPath && c.index.ModifiedPath == modifiedPath {
		return
	}
	c.index.DurationPath = durationPath
	c.index.ModifiedPath = modifiedPath
	c.index.Entries = make(map[string]*indexEntry)
	c.index.dirty = true
}

// Get returns the entry of id if it was recorded for mtime.
func (c *cache) Get(id string, mtime time.Time) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[id]
	if !ok || !entry.LastModified.Equal(mtime) {
		return nil, false
	}
	return entry, true
}

// Set records an entry.
func (c *cache) Set(id string, entry *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	c.index.Entries[id] = entry
	c.index.dirty = true
}

// Prune removes entries that are not in keep.
func (c *cache) Prune(keep map[string]bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	for id := range c.index.Entries {
		if !keep[id] {
			delete(c.index.Entries, id)
			c.index.dirty = true
		}
	}
}

// Len returns the number of entries.
func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}
