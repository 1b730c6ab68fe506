// Package tracker turns editor activity into header updates: the
// last-modified timestamp and the accumulated edit duration.
//
// A Dispatcher receives core.Activity events one at a time. Depending on
// the configured mode it updates header lines on key releases (line mode)
// or the parsed header on file saves (structured mode). Pointer and focus
// events only refresh the status display.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/timethings/pkg/core"
	"github.com/aretw0/timethings/pkg/header"
)

// ignoredKeys do not change document content.
var ignoredKeys = map[string]struct{}{
	"ArrowDown":  {},
	"ArrowUp":    {},
	"ArrowLeft":  {},
	"ArrowRight": {},
	"Tab":        {},
	"CapsLock":   {},
	"Alt":        {},
	"PageUp":     {},
	"PageDown":   {},
	"Home":       {},
	"End":        {},
	"Meta":       {},
	"Escape":     {},
}

// IgnoredKey reports whether a key release must not count as an edit.
// Every chord with Ctrl is ignored.
func IgnoredKey(key string, ctrl bool) bool {
	if ctrl {
		return true
	}
	_, ok := ignoredKeys[key]
	return ok
}

// EditContext is the document an event applies to and how to access it.
type EditContext struct {
	ID   string
	Kind core.RepresentationKind
}

// Dispatcher routes activity events to the Updater and the Accumulator.
type Dispatcher struct {
	headers core.HeaderProcessor
	lines   core.LineEditor
	status  core.StatusSink
	clock   core.Clock
	logger  *slog.Logger

	updater     *Updater
	accumulator *Accumulator

	mu       sync.RWMutex
	settings core.Settings
	active   string
	handled  map[core.ActivityKind]int64
	skipped  int64
	failures int64
}

// New creates a Dispatcher that writes structured headers through headers.
func New(headers core.HeaderProcessor, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		headers:  headers,
		settings: core.DefaultSettings(),
		handled:  make(map[core.ActivityKind]int64),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.clock == nil {
		d.clock = core.SystemClock{}
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	d.updater = NewUpdater(d.clock, d.logger)
	d.accumulator = NewAccumulator(headers, d.clock, d.logger)
	return d
}

// Settings returns the settings in use.
func (d *Dispatcher) Settings() core.Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.settings
}

// SetSettings replaces the settings. Invalid settings are rejected.
func (d *Dispatcher) SetSettings(s core.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settings = s
	return nil
}

// Updater returns the timestamp updater used by the dispatcher.
func (d *Dispatcher) Updater() *Updater { return d.updater }

// Accumulator returns the duration accumulator used by the dispatcher.
func (d *Dispatcher) Accumulator() *Accumulator { return d.accumulator }

// Active returns the id of the last focused document.
func (d *Dispatcher) Active() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// ResolveContext returns the editable document an event applies to.
// Keyboard, pointer and focus events require the editor to have focus.
// Excluded documents have no context.
func (d *Dispatcher) ResolveContext(ev core.Activity) (EditContext, bool) {
	if ev.ID == "" {
		return EditContext{}, false
	}
	if ev.Kind != core.ActivityFileModified && ev.Blurred {
		return EditContext{}, false
	}

	s := d.Settings()
	if s.Filter.Excludes(ev.ID) {
		d.logger.Debug("document excluded", "id", ev.ID)
		return EditContext{}, false
	}

	kind := core.RepresentationStructured
	if s.Mode == core.ModeLine {
		kind = core.RepresentationLine
	}
	return EditContext{ID: ev.ID, Kind: kind}, true
}

// Dispatch handles one event. Skips are not errors; an error is returned
// only when the document host fails.
func (d *Dispatcher) Dispatch(ctx context.Context, ev core.Activity) error {
	err := d.dispatch(ctx, ev)

	d.mu.Lock()
	if err != nil {
		d.failures++
	}
	d.mu.Unlock()
	return err
}

func (d *Dispatcher) dispatch(ctx context.Context, ev core.Activity) error {
	switch ev.Kind {
	case core.ActivityPointerDown, core.ActivityActiveChanged:
		ec, ok := d.accept(ev)
		if !ok {
			return nil
		}
		return d.refreshStatus(ctx, ec)

	case core.ActivityKeyUp:
		if IgnoredKey(ev.Key, ev.Ctrl) {
			d.skip(ev, "ignored key")
			return nil
		}
		if d.Settings().Mode != core.ModeLine {
			d.skip(ev, "structured mode")
			return nil
		}
		ec, ok := d.accept(ev)
		if !ok {
			return nil
		}
		return d.editLines(ctx, ec)

	case core.ActivityFileModified:
		if d.Settings().Mode != core.ModeStructured {
			d.skip(ev, "line mode")
			return nil
		}
		ec, ok := d.accept(ev)
		if !ok {
			return nil
		}
		return d.saveStructured(ctx, ec)

	default:
		d.skip(ev, "unknown event")
		return nil
	}
}

func (d *Dispatcher) accept(ev core.Activity) (EditContext, bool) {
	ec, ok := d.ResolveContext(ev)
	if !ok {
		d.skip(ev, "no editable context")
		return EditContext{}, false
	}

	d.mu.Lock()
	d.handled[ev.Kind]++
	if ev.Kind != core.ActivityFileModified {
		d.active = ec.ID
	}
	d.mu.Unlock()
	return ec, true
}

func (d *Dispatcher) skip(ev core.Activity, reason string) {
	d.mu.Lock()
	d.skipped++
	d.mu.Unlock()
	d.logger.Debug("event skipped", "event", ev.String(), "reason", reason)
}

// editLines updates both fields on the line view in one edit.
func (d *Dispatcher) editLines(ctx context.Context, ec EditContext) error {
	if d.lines == nil {
		return fmt.Errorf("line mode on %s: no line editor", ec.ID)
	}
	s := d.Settings()

	seconds := int64(-1)
	err := d.lines.EditLines(ctx, ec.ID, func(doc core.LineDocument) error {
		rep := core.LineBased(ec.ID, doc)
		if s.Modified.Enabled {
			_ = d.updater.TouchLines(doc, s.Modified.Path, s.Modified.Format)
		}
		if s.Duration.Enabled {
			if _, err := d.accumulator.Tick(ctx, rep, s.Duration.Path, s.Duration.NonTypingPercentage); err != nil {
				return err
			}
			if raw, ok := header.RawValue(doc, s.Duration.Path); ok {
				if n, err := core.ParseSeconds(raw); err == nil {
					seconds = n
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("edit lines of %s: %w", ec.ID, err)
	}
	d.reportDuration(ec.ID, seconds)
	return nil
}

// saveStructured runs the save path and the structured tick, each in its
// own header transaction.
func (d *Dispatcher) saveStructured(ctx context.Context, ec EditContext) error {
	if d.headers == nil {
		return fmt.Errorf("structured mode on %s: no header processor", ec.ID)
	}
	s := d.Settings()

	if s.Modified.Enabled {
		interval := time.Duration(s.UpdateIntervalMinutes) * time.Minute
		if err := d.updater.Refresh(ctx, d.headers, ec.ID, s.Modified.Path, s.Modified.Format, interval); err != nil {
			return fmt.Errorf("refresh modified of %s: %w", ec.ID, err)
		}
	}
	if s.Duration.Enabled {
		if _, err := d.accumulator.Tick(ctx, core.Structured(ec.ID), s.Duration.Path, s.Duration.NonTypingPercentage); err != nil {
			return err
		}
	}
	if ec.ID == d.Active() {
		return d.refreshStatus(ctx, ec)
	}
	return nil
}

// Touch forces the keystroke path of the modified timestamp on the parsed
// header of id, regardless of mode.
func (d *Dispatcher) Touch(ctx context.Context, id string) error {
	s := d.Settings()
	if s.Filter.Excludes(id) {
		return fmt.Errorf("touch %s: %w", id, core.ErrExcluded)
	}
	if d.headers == nil {
		return fmt.Errorf("touch %s: no header processor", id)
	}

	var skip error
	err := d.headers.ProcessHeader(ctx, id, func(m core.Metadata) error {
		skip = d.updater.TouchTree(m, s.Modified.Path, s.Modified.Format)
		return nil
	})
	if err != nil {
		return err
	}
	return skip
}

// EditDuration reads the stored edit duration of a document.
func (d *Dispatcher) EditDuration(ctx context.Context, ec EditContext) (int64, error) {
	s := d.Settings()
	var seconds int64

	switch ec.Kind {
	case core.RepresentationLine:
		if d.lines == nil {
			return 0, fmt.Errorf("read %s: no line editor", ec.ID)
		}
		err := d.lines.EditLines(ctx, ec.ID, func(doc core.LineDocument) error {
			if raw, ok := header.RawValue(doc, s.Duration.Path); ok {
				seconds, _ = core.ParseSeconds(raw)
			}
			return nil
		})
		return seconds, err
	default:
		if d.headers == nil {
			return 0, fmt.Errorf("read %s: no header processor", ec.ID)
		}
		err := d.headers.ProcessHeader(ctx, ec.ID, func(m core.Metadata) error {
			seconds = ReadSeconds(m, s.Duration.Path)
			return nil
		})
		return seconds, err
	}
}

func (d *Dispatcher) refreshStatus(ctx context.Context, ec EditContext) error {
	if d.status == nil || !d.Settings().Duration.Enabled {
		return nil
	}
	seconds, err := d.EditDuration(ctx, ec)
	if err != nil {
		return fmt.Errorf("status of %s: %w", ec.ID, err)
	}
	d.reportDuration(ec.ID, seconds)
	return nil
}

func (d *Dispatcher) reportDuration(id string, seconds int64) {
	if d.status == nil || seconds < 0 {
		return
	}
	d.status.EditDuration(id, seconds)
}
