package tracker

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/timethings/pkg/core"
)

// DispatcherState exposes internal state for observability.
type DispatcherState struct {
	Mode        core.Mode                   `json:"mode"`
	Active      string                      `json:"active,omitempty"`
	Handled     map[core.ActivityKind]int64 `json:"handled"`
	Skipped     int64                       `json:"skipped"`
	Failures    int64                       `json:"failures"`
	HeaderStore string                      `json:"header_store"`
	Accumulator AccumulatorState            `json:"accumulator"`
}

// AccumulatorState exposes the closed gates and tick counters.
type AccumulatorState struct {
	ClosedGates map[string]Gate `json:"closed_gates,omitempty"`
	Ticks       int64           `json:"ticks"`
	Dropped     int64           `json:"dropped"`
}

// State implements introspection.Introspectable.
func (d *Dispatcher) State() any {
	d.mu.RLock()
	handled := make(map[core.ActivityKind]int64, len(d.handled))
	for k, v := range d.handled {
		handled[k] = v
	}
	state := DispatcherState{
		Mode:     d.settings.Mode,
		Active:   d.active,
		Handled:  handled,
		Skipped:  d.skipped,
		Failures: d.failures,
	}
	d.mu.RUnlock()

	state.HeaderStore = "none"
	if d.headers != nil {
		state.HeaderStore = "header processor"
		if comp, ok := d.headers.(introspection.Component); ok {
			state.HeaderStore = comp.ComponentType()
		}
	}
	state.Accumulator = d.accumulator.State().(AccumulatorState)
	return state
}

// ComponentType implements introspection.Component.
func (d *Dispatcher) ComponentType() string {
	return "dispatcher"
}

// State implements introspection.Introspectable.
func (a *Accumulator) State() any {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.Now()
	closed := make(map[string]Gate)
	for id, g := range a.gates {
		if g = g.settle(now); !g.Open {
			closed[id] = g
		}
	}
	return AccumulatorState{ClosedGates: closed, Ticks: a.ticks, Dropped: a.drops}
}

// ComponentType implements introspection.Component.
func (a *Accumulator) ComponentType() string {
	return "accumulator"
}

var _ introspection.Introspectable = (*Dispatcher)(nil)
var _ introspection.Component = (*Dispatcher)(nil)
var _ introspection.Introspectable = (*Accumulator)(nil)
var _ introspection.Component = (*Accumulator)(nil)
