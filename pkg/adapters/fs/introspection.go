package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// VaultState exposes internal state for observability.
type VaultState struct {
	Path          string     `json:"path"`
	SystemDir     string     `json:"system_dir"`
	ReadOnly      bool       `json:"read_only"`
	Exclude       []string   `json:"exclude,omitempty"`
	CacheSize     int        `json:"cache_size"`
	WatcherActive bool       `json:"watcher_active"`
	Writes        int64      `json:"writes"`
	LastScan      *time.Time `json:"last_scan,omitempty"`
}

// State implements introspection.Introspectable.
func (v *Vault) State() any {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return VaultState{
		Path:          v.Path,
		SystemDir:     v.config.SystemDir,
		ReadOnly:      v.config.ReadOnly,
		Exclude:       append([]string(nil), v.exclude.Exclude...),
		CacheSize:     v.cache.Len(),
		WatcherActive: v.watcherActive,
		Writes:        v.writes,
		LastScan:      v.lastScan,
	}
}

// ComponentType implements introspection.Component.
func (v *Vault) ComponentType() string {
	return "vault"
}

var _ introspection.Introspectable = (*Vault)(nil)
var _ introspection.Component = (*Vault)(nil)
