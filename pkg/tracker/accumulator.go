package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/timethings/pkg/core"
	"github.com/aretw0/timethings/pkg/header"
)

// Profile describes how much a tick adds and how long the gate stays
// closed afterwards. The cooldown is Base shortened by Step for every
// percent of non-typing time.
type Profile struct {
	Increment int64
	Base      time.Duration
	Step      time.Duration
}

var (
	// LineProfile is used for keystroke-driven ticks on header lines.
	LineProfile = Profile{Increment: 1, Base: time.Second, Step: 10 * time.Millisecond}
	// StructuredProfile is used for save-driven ticks on the parsed header.
	StructuredProfile = Profile{Increment: 10, Base: 10 * time.Second, Step: 100 * time.Millisecond}
)

// ProfileFor returns the profile of a representation kind.
func ProfileFor(kind core.RepresentationKind) Profile {
	if kind == core.RepresentationLine {
		return LineProfile
	}
	return StructuredProfile
}

// Cooldown returns the gate delay for a non-typing percentage.
func (p Profile) Cooldown(nonTypingPct int) time.Duration {
	d := p.Base - time.Duration(nonTypingPct)*p.Step
	if d < 0 {
		return 0
	}
	return d
}

// Accumulator adds edit time to the duration field of documents. Each
// document has its own Gate, so at most one increment lands per cooldown
// window; ticks arriving while the gate is closed are dropped.
type Accumulator struct {
	headers core.HeaderProcessor
	clock   core.Clock
	logger  *slog.Logger

	mu    sync.Mutex
	gates map[string]Gate
	ticks int64
	drops int64
}

// NewAccumulator creates an Accumulator. headers is only needed for
// structured ticks and may be nil otherwise.
func NewAccumulator(headers core.HeaderProcessor, clock core.Clock, logger *slog.Logger) *Accumulator {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Accumulator{
		headers: headers,
		clock:   clock,
		logger:  logger,
		gates:   make(map[string]Gate),
	}
}

// Gate returns the current gate of a document.
func (a *Accumulator) Gate(id string) Gate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gate(id, a.clock.Now())
}

func (a *Accumulator) gate(id string, now time.Time) Gate {
	g, ok := a.gates[id]
	if !ok {
		return openGate
	}
	g = g.settle(now)
	if g.Open {
		delete(a.gates, id)
	}
	return g
}

// acquire closes the gate of id if it is ready.
func (a *Accumulator) acquire(id string, cooldown time.Duration) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.Now()
	g := a.gate(id, now)
	if !g.Ready(now) {
		a.drops++
		return false
	}
	a.gates[id] = g.Arm(now, cooldown)
	return true
}

func (a *Accumulator) release(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.gates, id)
}

func (a *Accumulator) counted() {
	a.mu.Lock()
	a.ticks++
	a.mu.Unlock()
}

// Tick adds one increment to the duration field at path of rep.
// It reports whether a value was written. A closed gate, a missing field
// or a non-numeric value are skips, not errors; only a failing
// HeaderProcessor returns an error.
func (a *Accumulator) Tick(ctx context.Context, rep core.Representation, path string, nonTypingPct int) (bool, error) {
	profile := ProfileFor(rep.Kind)
	if !a.acquire(rep.ID, profile.Cooldown(nonTypingPct)) {
		a.logger.Debug("tick dropped, gate closed", "id", rep.ID)
		return false, nil
	}

	switch rep.Kind {
	case core.RepresentationLine:
		return a.tickLines(rep.ID, rep.Lines, path, profile.Increment), nil
	case core.RepresentationStructured:
		return a.tickStructured(ctx, rep.ID, path, profile.Increment)
	default:
		a.release(rep.ID)
		return false, fmt.Errorf("unknown representation %v", rep.Kind)
	}
}

func (a *Accumulator) tickLines(id string, doc core.LineDocument, path string, inc int64) bool {
	total, err := AddLines(doc, path, inc)
	if err != nil {
		// Fail open: the field may be added later.
		a.release(id)
		a.logger.Debug("duration not updated", "id", id, "path", path, "reason", err)
		return false
	}
	a.counted()
	a.logger.Debug("duration updated", "id", id, "path", path, "seconds", total)
	return true
}

func (a *Accumulator) tickStructured(ctx context.Context, id, path string, inc int64) (bool, error) {
	if a.headers == nil {
		a.release(id)
		return false, fmt.Errorf("structured tick on %s: no header processor", id)
	}

	var (
		total int64
		skip  error
	)
	err := a.headers.ProcessHeader(ctx, id, func(m core.Metadata) error {
		total, skip = AddTree(m, path, inc)
		return nil
	})
	if err != nil {
		a.release(id)
		return false, fmt.Errorf("structured tick on %s: %w", id, err)
	}
	if skip != nil {
		a.release(id)
		a.logger.Debug("duration not updated", "id", id, "path", path, "reason", skip)
		return false, nil
	}
	a.counted()
	a.logger.Debug("duration updated", "id", id, "path", path, "seconds", total)
	return true, nil
}

// AddLines adds inc to the numeric field at path. An empty value counts as
// zero. The field is never created.
func AddLines(doc core.LineDocument, path string, inc int64) (int64, error) {
	raw, ok := header.RawValue(doc, path)
	if !ok {
		return 0, core.ErrFieldNotFound
	}
	current, err := core.ParseSeconds(raw)
	if err != nil {
		return 0, err
	}
	total, err := addSeconds(current, inc)
	if err != nil {
		return 0, err
	}
	header.SetValue(doc, path, strconv.FormatInt(total, 10))
	return total, nil
}

// AddTree adds inc to the numeric value at path, creating it when absent.
func AddTree(tree core.Metadata, path string, inc int64) (int64, error) {
	v, _ := header.Get(tree, path)
	current, err := core.SecondsOf(v)
	if err != nil {
		return 0, err
	}
	total, err := addSeconds(current, inc)
	if err != nil {
		return 0, err
	}
	header.Set(tree, path, total)
	return total, nil
}

// addSeconds fails instead of wrapping past math.MaxInt64.
func addSeconds(current, inc int64) (int64, error) {
	if inc > 0 && current > math.MaxInt64-inc {
		return 0, fmt.Errorf("%w: %d + %d overflows", core.ErrNotNumeric, current, inc)
	}
	return current + inc, nil
}

// ReadSeconds returns the duration stored at path of a parsed header.
// Absent and non-numeric values read as zero.
func ReadSeconds(tree core.Metadata, path string) int64 {
	v, _ := header.Get(tree, path)
	n, err := core.SecondsOf(v)
	if err != nil {
		return 0
	}
	return n
}
