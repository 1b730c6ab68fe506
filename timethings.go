package timethings

import (
	"log/slog"

	"github.com/aretw0/timethings/internal/platform"
	"github.com/aretw0/timethings/pkg/core"
)

// --- Types ---

// App is a vault wired to its settings and the tracker.
type App = platform.App

// Settings is the persisted configuration of a vault.
type Settings = core.Settings

// Activity is an editor event.
type Activity = core.Activity

// --- Configuration ---

// Option configures an App.
type Option = platform.Option

// WithLogger sets the logger for the app and its components.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSystemDir sets the name of the hidden directory holding settings.
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithMustExist requires the vault directory to exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithClock sets the time source.
func WithClock(clock core.Clock) Option {
	return platform.WithClock(clock)
}

// WithStatusSink sets where the clock and the edit duration are shown.
func WithStatusSink(sink core.StatusSink) Option {
	return platform.WithStatusSink(sink)
}

// WithWatcherErrorHandler registers a callback for watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithSettings uses s instead of the persisted settings.
func WithSettings(s Settings) Option {
	return platform.WithSettings(s)
}

// --- Factory ---

// New opens the vault at path.
func New(path string, opts ...Option) (*App, error) {
	return platform.New(path, opts...)
}

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() Settings {
	return core.DefaultSettings()
}

// FindRoot looks upwards from dir for a vault root.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}
