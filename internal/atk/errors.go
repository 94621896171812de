package atk

import "codeberg.org/mutker/atkctl/internal/errors"

const (
	// Channel Errors
	ErrOpenDevice          = errors.ErrorCode("atk_open_device_failed")
	ErrControlFailed       = errors.ErrorCode("atk_control_failed")
	ErrChannelClosed       = errors.ErrorCode("atk_channel_closed")
	ErrUnsupportedPlatform = errors.ErrorCode("atk_unsupported_platform")

	// Encoding Errors
	ErrBufferOverflow = errors.ErrorCode("atk_buffer_overflow")
	ErrInvalidPlan    = errors.ErrorCode("atk_invalid_power_plan")
)
