package tracker

import "time"

// Gate is the cooldown state of one document. A closed gate drops ticks
// until its cooldown has elapsed; it then reopens on the next check.
//
// Gate is a value: transitions return the new state and the accumulator
// stores it per document.
type Gate struct {
	Open     bool          `json:"open"`
	ArmedAt  time.Time     `json:"armed_at"`
	Cooldown time.Duration `json:"cooldown"`
}

// openGate is the state of a document that has never ticked.
var openGate = Gate{Open: true}

// Ready reports whether a tick may proceed at now.
func (g Gate) Ready(now time.Time) bool {
	return g.Open || !now.Before(g.ReopensAt())
}

// ReopensAt is the instant a closed gate reopens.
func (g Gate) ReopensAt() time.Time {
	return g.ArmedAt.Add(g.Cooldown)
}

// Arm closes the gate at now for the given cooldown.
func (g Gate) Arm(now time.Time, cooldown time.Duration) Gate {
	return Gate{Open: false, ArmedAt: now, Cooldown: cooldown}
}

// settle reopens a gate whose cooldown elapsed.
func (g Gate) settle(now time.Time) Gate {
	if !g.Open && g.Ready(now) {
		return openGate
	}
	return g
}
