package engine

import "codeberg.org/mutker/atkctl/internal/errors"

const (
	ErrApplyFailed  = errors.ErrApplyFailed
	ErrUnknownPlan  = errors.ErrUnknownPlan
	ErrNoActivePlan = errors.ErrNoActivePlan
	ErrOpenDevice   = errors.ErrorCode("engine_open_device_failed")
	ErrSaveConfig   = errors.ErrWriteConfig
)
