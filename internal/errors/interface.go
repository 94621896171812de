package errors

// ErrorCode identifies an error kind. Codes are stable and used by tests,
// logs and API responses.
type ErrorCode string

// Error is an application error carrying a code, an optional wrapped cause
// and optional data describing what failed.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory creates application errors.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}

var _ Error = (*appError)(nil)
