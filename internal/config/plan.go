package config

import (
	"fmt"
	"strings"
	"time"

	"codeberg.org/mutker/atkctl/internal/atk"
	"codeberg.org/mutker/atkctl/internal/errors"
)

// PowerPlanName is the power plan as written in the configuration file.
// "performance" and "windows" select the same hardware plan but are kept
// apart so a saved file reads back the way the user wrote it.
type PowerPlanName string

const (
	PlanWindows     PowerPlanName = "windows"
	PlanSilent      PowerPlanName = "silent"
	PlanPerformance PowerPlanName = "performance"
	PlanTurbo       PowerPlanName = "turbo"
)

// PowerPlanNames lists the accepted names.
func PowerPlanNames() []PowerPlanName {
	return []PowerPlanName{PlanWindows, PlanSilent, PlanPerformance, PlanTurbo}
}

func ParsePowerPlanName(name string) (PowerPlanName, error) {
	candidate := PowerPlanName(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range PowerPlanNames() {
		if candidate == known {
			return known, nil
		}
	}

	return "", errors.New().WithMessage(errors.ErrInvalidPlan,
		fmt.Sprintf("unknown power plan '%s', use one of: windows | silent | performance | turbo", name))
}

func (n *PowerPlanName) UnmarshalText(text []byte) error {
	parsed, err := ParsePowerPlanName(string(text))
	if err != nil {
		return err
	}
	*n = parsed

	return nil
}

// PowerPlan maps the name to the plan sent to the hardware.
func (n PowerPlanName) PowerPlan() atk.PowerPlan {
	switch n {
	case PlanSilent:
		return atk.Silent
	case PlanTurbo:
		return atk.TurboManual
	default:
		return atk.PerformanceWindows
	}
}

// Plan is a named power plan with optional fan curves.
type Plan struct {
	Name               string        `mapstructure:"name" yaml:"name" json:"name"`
	Plan               PowerPlanName `mapstructure:"plan" yaml:"plan" json:"plan"`
	RefreshIntervalSec int           `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec,omitempty" json:"refreshIntervalSec,omitempty"`
	CPUCurve           *string       `mapstructure:"cpu_curve" yaml:"cpu_curve,omitempty" json:"cpuCurve,omitempty"`
	GPUCurve           *string       `mapstructure:"gpu_curve" yaml:"gpu_curve,omitempty" json:"gpuCurve,omitempty"`
}

// HasCurves reports whether both fan curves are configured. A plan with only
// one curve is applied as a plan only.
func (p *Plan) HasCurves() bool {
	return p.CPUCurve != nil && p.GPUCurve != nil
}

// RefreshInterval is zero when the plan is applied once.
func (p *Plan) RefreshInterval() time.Duration {
	if p.RefreshIntervalSec <= 0 {
		return 0
	}

	return time.Duration(p.RefreshIntervalSec) * time.Second
}
