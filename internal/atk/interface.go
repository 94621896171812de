package atk

import "codeberg.org/mutker/atkctl/internal/fancurve"

// Channel is a synchronous request/response transport to a device file.
type Channel interface {
	// Control sends in with the given control code and returns what the device
	// wrote into an output buffer of outCap bytes.
	Control(code uint32, in []byte, outCap int) ([]byte, error)
	Close() error
}

// Controller drives the power plan and fan curves of the embedded controller.
type Controller interface {
	SetPowerPlan(plan PowerPlan) error
	SetFanCurve(table fancurve.Table) error
	Close() error
}
