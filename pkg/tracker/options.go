package tracker

import (
	"log/slog"

	"github.com/aretw0/timethings/pkg/core"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. Skips are logged at Debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithClock replaces the wall clock, e.g. with a fake in tests.
func WithClock(clock core.Clock) Option {
	return func(d *Dispatcher) {
		d.clock = clock
	}
}

// WithLineEditor enables line mode by providing the line view of documents.
func WithLineEditor(lines core.LineEditor) Option {
	return func(d *Dispatcher) {
		d.lines = lines
	}
}

// WithStatusSink receives clock and edit duration updates.
func WithStatusSink(sink core.StatusSink) Option {
	return func(d *Dispatcher) {
		d.status = sink
	}
}

// WithSettings sets the initial settings. Defaults to core.DefaultSettings.
func WithSettings(s core.Settings) Option {
	return func(d *Dispatcher) {
		d.settings = s
	}
}
