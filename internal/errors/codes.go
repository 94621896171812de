package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig  ErrorCode = "invalid_configuration"
	ErrMissingConfig  ErrorCode = "missing_configuration"
	ErrReadConfig     ErrorCode = "read_config_failed"
	ErrWriteConfig    ErrorCode = "write_config_failed"
	ErrUnknownPlan    ErrorCode = "unknown_plan"
	ErrInvalidPlan    ErrorCode = "invalid_power_plan"
	ErrDuplicatePlan  ErrorCode = "duplicate_plan"
	ErrInvalidRefresh ErrorCode = "invalid_refresh_interval"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
	ErrOpenLogFile     ErrorCode = "open_log_file_failed"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Resource errors
	ErrAlreadyRunning ErrorCode = "already_running"

	// Application errors
	ErrApplyFailed  ErrorCode = "apply_failed"
	ErrNoActivePlan ErrorCode = "no_active_plan"

	// Operation errors
	ErrTimeout ErrorCode = "operation_timeout"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrUnavailable:     "Service unavailable",
	ErrInvalidConfig:   "Invalid configuration",
	ErrMissingConfig:   "Missing configuration",
	ErrReadConfig:      "Failed to read configuration",
	ErrWriteConfig:     "Failed to write configuration",
	ErrUnknownPlan:     "No such plan",
	ErrInvalidPlan:     "Invalid power plan",
	ErrDuplicatePlan:   "Duplicate plan name",
	ErrInvalidRefresh:  "Invalid refresh interval",
	ErrInvalidLogLevel: "Invalid log level",
	ErrOpenLogFile:     "Failed to open log file",
	ErrInitFailed:      "Initialization failed",
	ErrShutdownFailed:  "Shutdown failed",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrApplyFailed:     "Failed to apply plan",
	ErrNoActivePlan:    "No active plan",
	ErrTimeout:         "Operation timed out",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
