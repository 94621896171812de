package engine

import (
	"codeberg.org/mutker/atkctl/internal/atk"
	"codeberg.org/mutker/atkctl/internal/fancurve"
)

// Opener connects to the hardware. The returned controller is closed after
// every apply.
type Opener func(device string) (atk.Controller, error)

// Observer is told about every apply; statistics.Statistics implements it.
type Observer interface {
	ObserveApply(name string, err error)
	ObservePowerPlan(plan atk.PowerPlan)
	ObserveCurve(table fancurve.Table, adjusted bool)
}

// Status tells whether an apply reached the hardware.
type Status int

const (
	Applied Status = iota
	// NoPlan: there was no active plan, nothing was sent.
	NoPlan
	// Failed: a command was rejected, earlier commands may have been applied.
	Failed
)

func (s Status) String() string {
	switch s {
	case NoPlan:
		return "no_plan"
	case Failed:
		return "failed"
	default:
		return "applied"
	}
}
