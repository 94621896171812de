package atk

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/atkctl/internal/errors"
)

// PowerPlan is a coarse operating mode of the embedded controller.
type PowerPlan uint8

const (
	PerformanceWindows PowerPlan = iota
	TurboManual
	Silent
)

// PowerPlans lists every plan in wire order.
func PowerPlans() []PowerPlan {
	return []PowerPlan{PerformanceWindows, TurboManual, Silent}
}

// Byte is the value written at the plan offset of a power plan command.
func (p PowerPlan) Byte() byte {
	switch p {
	case TurboManual:
		return 0x01
	case Silent:
		return 0x02
	default:
		return 0x00
	}
}

func (p PowerPlan) String() string {
	switch p {
	case PerformanceWindows:
		return "windows"
	case TurboManual:
		return "turbo"
	case Silent:
		return "silent"
	default:
		return fmt.Sprintf("plan(%d)", uint8(p))
	}
}

// ParsePowerPlan maps a user facing plan name to a plan. "performance" is an
// alias of "windows".
func ParsePowerPlan(name string) (PowerPlan, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "windows", "performance":
		return PerformanceWindows, nil
	case "turbo":
		return TurboManual, nil
	case "silent":
		return Silent, nil
	default:
		return Silent, errors.New().WithMessage(ErrInvalidPlan,
			fmt.Sprintf("unknown power plan '%s', use one of: windows | performance | silent | turbo", name))
	}
}

// MarshalText lets plans appear by name in config files and JSON.
func (p PowerPlan) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PowerPlan) UnmarshalText(text []byte) error {
	plan, err := ParsePowerPlan(string(text))
	if err != nil {
		return err
	}
	*p = plan

	return nil
}
