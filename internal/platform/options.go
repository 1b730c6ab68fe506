package platform

import (
	"log/slog"

	"github.com/aretw0/timethings/pkg/core"
)

// options holds the configuration of an App.
type options struct {
	logger       *slog.Logger
	systemDir    string
	mustExist    bool
	readOnly     bool
	clock        core.Clock
	status       core.StatusSink
	errorHandler func(error)
	settings     *core.Settings
}

// Option configures an App.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for the app and its components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSystemDir sets the name of the hidden directory holding settings and
// the stats index. Defaults to ".timethings".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithMustExist requires the vault directory to exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Header writes and settings changes return core.ErrReadOnly.
// 2. The system directory is not created.
// 3. The stats index is not persisted.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithClock sets the time source used for timestamps and cooldowns.
func WithClock(clock core.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithStatusSink sets where the clock and the edit duration are shown.
func WithStatusSink(sink core.StatusSink) Option {
	return func(o *options) {
		o.status = sink
	}
}

// WithWatcherErrorHandler registers a callback for errors raised while
// watching the vault. They are logged otherwise.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithSettings uses s instead of the persisted settings.
func WithSettings(s core.Settings) Option {
	return func(o *options) {
		o.settings = &s
	}
}
