package tracker

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aretw0/timethings/pkg/core"
	"github.com/aretw0/timethings/pkg/timefmt"
)

// ClockText renders the status clock with the current clock settings.
func (d *Dispatcher) ClockText() (string, error) {
	c := d.Settings().Clock
	return timefmt.ClockText(d.clock.Now(), c.Format, c.UTC, c.Emoji)
}

// RunClock pushes the clock text to the status sink every refresh
// interval until ctx is done. It returns immediately when the clock is
// disabled or no sink is configured.
func (d *Dispatcher) RunClock(ctx context.Context) error {
	c := d.Settings().Clock
	if !c.Enabled || d.status == nil {
		return nil
	}

	push := func() {
		text, err := d.ClockText()
		if err != nil {
			d.logger.Debug("clock not rendered", "format", d.Settings().Clock.Format, "reason", err)
			return
		}
		d.status.Clock(text)
	}

	push()
	ticker := time.NewTicker(time.Duration(c.RefreshMillis) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			push()
		}
	}
}

// WriterSink prints status updates as lines.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a status sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// EditDuration implements core.StatusSink.
func (s *WriterSink) EditDuration(id string, seconds int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "edited %s: %s\n", id, timefmt.Humanize(seconds))
}

// Clock implements core.StatusSink.
func (s *WriterSink) Clock(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "clock: %s\n", text)
}

var _ core.StatusSink = (*WriterSink)(nil)
