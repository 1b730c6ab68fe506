package core

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Mode selects the header representation used by the tracker.
type Mode string

const (
	// ModeStructured updates the parsed header on file saves.
	ModeStructured Mode = "structured"
	// ModeLine updates header lines in place on every keystroke.
	ModeLine Mode = "line"
)

// Settings is the persisted configuration surface.
type Settings struct {
	Mode     Mode             `yaml:"mode" json:"mode"`
	Modified ModifiedSettings `yaml:"modified" json:"modified"`
	Duration DurationSettings `yaml:"duration" json:"duration"`
	// UpdateIntervalMinutes throttles save-triggered timestamp writes.
	UpdateIntervalMinutes int            `yaml:"update_interval_minutes" json:"update_interval_minutes"`
	Clock                 ClockSettings  `yaml:"clock" json:"clock"`
	Filter                FilterSettings `yaml:"filter" json:"filter"`
}

// ModifiedSettings configures the last-modified field.
type ModifiedSettings struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	// Format is a moment-style format string, e.g. YYYY-MM-DD[T]HH:mm:ss.SSSZ.
	Format string `yaml:"format" json:"format"`
}

// DurationSettings configures the edit duration counter.
type DurationSettings struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	// NonTypingPercentage shortens the cooldown to account for time spent
	// reading or thinking. Range 0-40.
	NonTypingPercentage int `yaml:"non_typing_percentage" json:"non_typing_percentage"`
}

// ClockSettings configures the status clock.
type ClockSettings struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	Format        string `yaml:"format" json:"format"`
	UTC           bool   `yaml:"utc" json:"utc"`
	RefreshMillis int    `yaml:"refresh_millis" json:"refresh_millis"`
	Emoji         bool   `yaml:"emoji" json:"emoji"`
}

// FilterSettings excludes documents from tracking.
type FilterSettings struct {
	// Exclude holds doublestar patterns relative to the vault root.
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() Settings {
	return Settings{
		Mode: ModeStructured,
		Modified: ModifiedSettings{
			Enabled: true,
			Path:    "updated_at",
			Format:  "YYYY-MM-DD[T]HH:mm:ss.SSSZ",
		},
		Duration: DurationSettings{
			Enabled:             true,
			Path:                "edited_seconds",
			NonTypingPercentage: 22,
		},
		UpdateIntervalMinutes: 1,
		Clock: ClockSettings{
			Enabled:       true,
			Format:        "hh:mm A",
			RefreshMillis: 1000,
			Emoji:         true,
		},
	}
}

// Validate validates the settings.
func (s *Settings) Validate() error {
	if err := validation.ValidateStruct(s,
		validation.Field(&s.Mode, validation.Required, validation.In(ModeStructured, ModeLine)),
		validation.Field(&s.UpdateIntervalMinutes, validation.Min(1), validation.Max(15)),
	); err != nil {
		return err
	}
	if err := s.Modified.Validate(); err != nil {
		return fmt.Errorf("modified: %w", err)
	}
	if err := s.Duration.Validate(); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	if err := s.Clock.Validate(); err != nil {
		return fmt.Errorf("clock: %w", err)
	}
	if err := s.Filter.Validate(); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	return nil
}

// Validate validates the modified-key settings.
func (m *ModifiedSettings) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Path, validation.Required, validation.By(fieldPath)),
		validation.Field(&m.Format, validation.Required),
	)
}

// Validate validates the duration settings.
func (d *DurationSettings) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Path, validation.Required, validation.By(fieldPath)),
		validation.Field(&d.NonTypingPercentage, validation.Min(0), validation.Max(40)),
	)
}

// Validate validates the clock settings.
func (c *ClockSettings) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.Required),
		validation.Field(&c.RefreshMillis, validation.Required, validation.Min(100)),
	)
}

// Validate rejects malformed glob patterns.
func (f *FilterSettings) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Exclude, validation.Each(validation.Required, validation.By(globPattern))),
	)
}

// Excludes reports whether the document id matches an exclude pattern.
// Ids are slash separated and relative to the vault root.
func (f FilterSettings) Excludes(id string) bool {
	for _, pattern := range f.Exclude {
		if ok, _ := doublestar.Match(pattern, id); ok {
			return true
		}
	}
	return false
}

func globPattern(value interface{}) error {
	s, _ := value.(string)
	if !doublestar.ValidatePattern(s) {
		return fmt.Errorf("invalid pattern %q", s)
	}
	return nil
}

// fieldPath rejects dotted paths with empty segments ("a..b", ".a").
func fieldPath(value interface{}) error {
	s, _ := value.(string)
	for _, seg := range strings.Split(s, ".") {
		if strings.TrimSpace(seg) == "" {
			return fmt.Errorf("empty segment in field path %q", s)
		}
	}
	return nil
}
