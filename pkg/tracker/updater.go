package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/timethings/pkg/core"
	"github.com/aretw0/timethings/pkg/header"
	"github.com/aretw0/timethings/pkg/timefmt"
)

// ErrFresh is reported by the save path when the stored timestamp is still
// inside the update interval.
var ErrFresh = errors.New("modified timestamp is still fresh")

// Updater writes the last-modified timestamp of documents.
type Updater struct {
	clock  core.Clock
	logger *slog.Logger
	// location is used to read timestamps that carry no offset.
	location *time.Location
}

// NewUpdater creates an Updater.
func NewUpdater(clock core.Clock, logger *slog.Logger) *Updater {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Updater{clock: clock, logger: logger, location: time.Local}
}

// TouchLines is the keystroke path on header lines. The current value must
// exist and strictly match format; it is then replaced by the current time.
func (u *Updater) TouchLines(doc core.LineDocument, path, format string) error {
	if !header.HasHeader(doc) {
		return u.skip(path, core.ErrNoHeader)
	}
	raw, ok := header.RawValue(doc, path)
	if !ok {
		return u.skip(path, core.ErrFieldNotFound)
	}
	if !timefmt.Valid(raw, format) {
		return u.skip(path, fmt.Errorf("%w: %q", core.ErrFormatMismatch, raw))
	}
	now, err := timefmt.Format(u.clock.Now(), format)
	if err != nil {
		return u.skip(path, err)
	}
	header.SetValue(doc, path, now)
	return nil
}

// TouchTree is the keystroke path on a parsed header. It has the same
// rules as TouchLines and runs inside the caller's header transaction.
func (u *Updater) TouchTree(tree core.Metadata, path, format string) error {
	v, ok := header.Get(tree, path)
	if !ok {
		return u.skip(path, core.ErrFieldNotFound)
	}
	if _, err := u.parse(v, format); err != nil {
		return u.skip(path, err)
	}
	now, err := timefmt.Format(u.clock.Now(), format)
	if err != nil {
		return u.skip(path, err)
	}
	header.Set(tree, path, now)
	return nil
}

// RefreshTree is the save path. The timestamp is rewritten only when the
// stored value plus interval is not after now. A missing or unreadable
// value counts as stale and is overwritten.
func (u *Updater) RefreshTree(tree core.Metadata, path, format string, interval time.Duration) error {
	now := u.clock.Now()
	if v, ok := header.Get(tree, path); ok {
		if stored, err := u.parse(v, format); err == nil && stored.Add(interval).After(now) {
			return u.skip(path, ErrFresh)
		}
	}
	formatted, err := timefmt.Format(now, format)
	if err != nil {
		return u.skip(path, err)
	}
	header.Set(tree, path, formatted)
	return nil
}

// Refresh runs the save path on document id.
func (u *Updater) Refresh(ctx context.Context, hp core.HeaderProcessor, id, path, format string, interval time.Duration) error {
	return hp.ProcessHeader(ctx, id, func(m core.Metadata) error {
		_ = u.RefreshTree(m, path, format, interval)
		return nil
	})
}

func (u *Updater) parse(v any, format string) (time.Time, error) {
	switch t := v.(type) {
	case string:
		parsed, err := timefmt.ParseStrict(t, format, u.location)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", core.ErrFormatMismatch, t)
		}
		return parsed, nil
	case time.Time:
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %T", core.ErrFormatMismatch, v)
	}
}

func (u *Updater) skip(path string, err error) error {
	u.logger.Debug("modified timestamp not updated", "path", path, "reason", err)
	return err
}
