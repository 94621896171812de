package config

import (
	"fmt"

	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/fancurve"
)

const maxPort = 65535

// Validate checks the whole configuration and reports every problem at once.
func (c *Config) Validate() error {
	problems := c.Status().ValidationErrors
	if len(problems) == 0 {
		return nil
	}

	errFactory := errors.New()
	// Problems with a code of their own are chained under ErrInvalidConfig
	// so errors.HasCode finds each of them.
	var cause error
	for i := len(problems) - 1; i >= 0; i-- {
		if code := problems[i].Code(); code != errors.ErrInvalidConfig {
			cause = errFactory.Wrap(code, cause).WithMessage(problems[i].Error())
		}
	}

	return errFactory.Wrap(errors.ErrInvalidConfig, cause).WithData(ValidationErrors(problems))
}

// Status returns the current configuration status
func (c *Config) Status() Status {
	var problems []ValidationError
	add := func(code errors.ErrorCode, field string, value interface{}, reason string) {
		problems = append(problems, &fieldError{code: code, field: field, value: value, reason: reason})
	}

	if !LogLevel(c.LogLevel).IsValid() {
		add(errors.ErrInvalidLogLevel, "log_level", c.LogLevel, "must be one of debug, info, warning, error")
	}

	seen := make(map[string]bool, len(c.Plans))
	for i := range c.Plans {
		plan := &c.Plans[i]
		field := fmt.Sprintf("plans[%d]", i)

		if plan.Name == "" {
			add(errors.ErrInvalidConfig, field+".name", plan.Name, "must not be empty")
		} else if seen[plan.Name] {
			add(errors.ErrDuplicatePlan, field+".name", plan.Name, "duplicate plan name")
		}
		seen[plan.Name] = true

		if _, err := ParsePowerPlanName(string(plan.Plan)); err != nil {
			add(errors.ErrInvalidPlan, field+".plan", plan.Plan, err.Error())
		}
		if plan.RefreshIntervalSec < 0 {
			add(errors.ErrInvalidRefresh, field+".refresh_interval_sec", plan.RefreshIntervalSec, "must not be negative")
		}

		for _, curve := range []struct {
			key    string
			device fancurve.Device
			text   *string
		}{
			{"cpu_curve", fancurve.CPU, plan.CPUCurve},
			{"gpu_curve", fancurve.GPU, plan.GPUCurve},
		} {
			if curve.text == nil {
				continue
			}
			if _, err := fancurve.Parse(curve.device, *curve.text); err != nil {
				code, _ := errors.CodeOf(err)
				add(code, field+"."+curve.key, *curve.text, err.Error())
			}
		}
	}

	if c.ActivePlan != "" && !seen[c.ActivePlan] {
		add(errors.ErrUnknownPlan, "active_plan", c.ActivePlan, "no plan with this name")
	}

	if c.API.Enabled && (c.API.Port <= 0 || c.API.Port > maxPort) {
		add(errors.ErrInvalidConfig, "api.port", c.API.Port, "must be between 1 and 65535")
	}
	if c.History.Enabled && c.History.DBPath == "" {
		add(errors.ErrInvalidConfig, "history.db_path", c.History.DBPath, "must be set when history is enabled")
	}

	return Status{Valid: len(problems) == 0, ValidationErrors: problems}
}
