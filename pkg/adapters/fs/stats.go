package fs

import (
	"context"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/timethings/pkg/core"
	"github.com/aretw0/timethings/pkg/header"
)

// MinEditedSeconds is the smallest duration listed by MostEdited.
const MinEditedSeconds = 60

// NoteStats are the tracked fields of one note.
type NoteStats struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Seconds int64     `json:"seconds"`
	Tracked bool      `json:"tracked"`
	Updated string    `json:"updated,omitempty"`
	ModTime time.Time `json:"mod_time"`
}

// Stats reads the duration and modified fields of every note. Unchanged
// notes are served from the index in the system directory.
func (v *Vault) Stats(ctx context.Context, durationPath, modifiedPath string) ([]NoteStats, error) {
	ids, err := v.Notes(ctx)
	if err != nil {
		return nil, err
	}

	if err := v.cache.Load(); err != nil {
		v.logger.Warn("stats index not loaded", "error", err)
	}
	v.cache.Reset(durationPath, modifiedPath)

	seen := make(map[string]bool, len(ids))
	stats := make([]NoteStats, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		abs, err := v.Resolve(id)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			continue
		}
		seen[id] = true

		entry, hit := v.cache.Get(id, info.ModTime())
		if !hit {
			entry, err = readEntry(abs, id, durationPath, modifiedPath)
			if err != nil {
				v.logger.Debug("note skipped", "id", id, "error", err)
				continue
			}
			entry.LastModified = info.ModTime()
			v.cache.Set(id, entry)
		}

		stats = append(stats, NoteStats{
			ID:      entry.ID,
			Title:   entry.Title,
			Seconds: entry.Seconds,
			Tracked: entry.HasSeconds,
			Updated: entry.Modified,
			ModTime: entry.LastModified,
		})
	}

	v.cache.Prune(seen)
	if !v.config.ReadOnly {
		if err := v.cache.Save(); err != nil {
			v.logger.Warn("stats index not saved", "error", err)
		}
	}

	now := time.Now()
	v.mu.Lock()
	v.lastScan = &now
	v.mu.Unlock()
	return stats, nil
}

func readEntry(abs, id, durationPath, modifiedPath string) (*indexEntry, error) {
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	n, err := splitNote(data)
	if err != nil {
		return nil, err
	}
	m, err := n.metadata()
	if err != nil {
		return nil, err
	}

	entry := &indexEntry{ID: id, Title: strings.TrimSuffix(path.Base(id), NoteExt)}
	if title, ok := m["title"].(string); ok && title != "" {
		entry.Title = title
	}
	if raw, ok := header.Get(m, durationPath); ok && raw != nil {
		if seconds, err := core.SecondsOf(raw); err == nil {
			entry.Seconds = seconds
			entry.HasSeconds = true
		}
	}
	if raw, ok := header.Get(m, modifiedPath); ok {
		if s, ok := raw.(string); ok {
			entry.Modified = s
		}
	}
	return entry, nil
}

// MostEdited keeps tracked notes with at least MinEditedSeconds, sorted by
// duration, longest first. total sums the kept durations.
func MostEdited(stats []NoteStats) (top []NoteStats, total int64) {
	for _, s := range stats {
		if s.Tracked && s.Seconds >= MinEditedSeconds {
			top = append(top, s)
			total += s.Seconds
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Seconds != top[j].Seconds {
			return top[i].Seconds > top[j].Seconds
		}
		return top[i].ID < top[j].ID
	})
	return top, total
}
