package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/timethings/pkg/core"
	"github.com/aretw0/timethings/pkg/header"
)

// SettingsFile is the name of the settings file in the system directory.
const SettingsFile = "settings.yaml"

// ErrUnknownSetting is returned by Set for a key that is not a setting.
var ErrUnknownSetting = errors.New("unknown setting")

// SettingsStore persists core.Settings as YAML.
type SettingsStore struct {
	path     string
	readOnly bool
	mu       sync.Mutex
}

// NewSettingsStore returns the store of the vault's settings file.
func (v *Vault) NewSettingsStore() *SettingsStore {
	return &SettingsStore{
		path:     filepath.Join(v.SystemDir(), SettingsFile),
		readOnly: v.config.ReadOnly,
	}
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string { return s.path }

// Load reads the settings file over the defaults. A missing file yields
// the defaults. Environment variables in the file are expanded.
func (s *SettingsStore) Load() (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *SettingsStore) load() (core.Settings, error) {
	settings := core.DefaultSettings()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read settings file %s: %w", s.path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file %s: %w", s.path, err)
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("settings validation failed: %w", err)
	}
	return settings, nil
}

// Save validates and writes settings.
func (s *SettingsStore) Save(settings core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(settings)
}

func (s *SettingsStore) save(settings core.Settings) error {
	if s.readOnly {
		return core.ErrReadOnly
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return writeFileAtomic(s.path, data, 0644)
}

// Set changes one setting, addressed by its dotted YAML key
// ("duration.non_typing_percentage"), and saves the result. value is
// read as YAML, so "true", "15" and "[drafts/**]" keep their types.
func (s *SettingsStore) Set(key, value string) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return current, err
	}

	tree, err := settingsTree(current)
	if err != nil {
		return current, err
	}
	old, ok := header.Get(tree, key)
	if !ok {
		return current, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	if _, isMap := old.(map[string]any); isMap {
		return current, fmt.Errorf("%w: %s is a section", ErrUnknownSetting, key)
	}

	var parsed any
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return current, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	header.Set(tree, key, parsed)

	data, err := yaml.Marshal(map[string]any(tree))
	if err != nil {
		return current, err
	}
	next := core.Settings{}
	if err := yaml.Unmarshal(data, &next); err != nil {
		return current, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := s.save(next); err != nil {
		return current, err
	}
	return next, nil
}

// Reset restores the defaults.
func (s *SettingsStore) Reset() (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := core.DefaultSettings()
	return defaults, s.save(defaults)
}

// Keys lists the dotted keys accepted by Set with their current values.
func Keys(settings core.Settings) (map[string]any, error) {
	tree, err := settingsTree(settings)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]any)
	flatten("", tree, keys)
	return keys, nil
}

func settingsTree(settings core.Settings) (core.Metadata, error) {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return nil, err
	}
	tree := core.Metadata{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(key, sub, out)
			continue
		}
		out[key] = v
	}
}
