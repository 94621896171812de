package fancurve

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/atkctl/internal/errors"
)

// Device selects which fan curve of the embedded controller a table drives.
type Device uint8

const (
	CPU Device = iota
	GPU
)

// Devices lists every device in the order curves are sent to the hardware.
func Devices() []Device {
	return []Device{CPU, GPU}
}

func (d Device) String() string {
	switch d {
	case CPU:
		return "cpu"
	case GPU:
		return "gpu"
	default:
		return fmt.Sprintf("device(%d)", uint8(d))
	}
}

// ParseDevice accepts "cpu" or "gpu" in any case.
func ParseDevice(name string) (Device, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cpu":
		return CPU, nil
	case "gpu":
		return GPU, nil
	default:
		return CPU, errors.New().WithMessage(ErrInvalidDevice,
			fmt.Sprintf("unknown fan curve device '%s', use one of: cpu | gpu", name))
	}
}
