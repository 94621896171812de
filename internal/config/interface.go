package config

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/atkctl/internal/errors"
	"github.com/spf13/pflag"
)

// Option defines a configuration option that can be passed to Load
type Option func(*options) error

// options holds internal configuration options
type options struct {
	configPath    string
	envPrefix     string
	createDefault bool
	flags         *pflag.FlagSet
	flagKeys      map[string]string
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithEnvPrefix specifies a custom environment variable prefix
// Default is "ATKCTL"
func WithEnvPrefix(prefix string) Option {
	return func(o *options) error {
		o.envPrefix = prefix
		return nil
	}
}

// WithCreateDefault writes a template configuration when none exists yet
func WithCreateDefault() Option {
	return func(o *options) error {
		o.createDefault = true
		return nil
	}
}

// WithFlags binds command line flags to configuration keys, e.g.
// "log_level" to --log-level. A flag only overrides the file when it was set.
func WithFlags(flags *pflag.FlagSet, keys map[string]string) Option {
	return func(o *options) error {
		if flags == nil {
			return fmt.Errorf("flag set is nil")
		}
		o.flags = flags
		o.flagKeys = keys
		return nil
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarn    LogLevel = "warn"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch LogLevel(strings.ToLower(string(l))) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// ValidationError represents a configuration validation error
type ValidationError interface {
	error
	// Field returns the name of the invalid field
	Field() string
	// Value returns the invalid value
	Value() interface{}
	// Reason returns why the value is invalid
	Reason() string
	// Code classifies the problem, ErrInvalidConfig when nothing narrower fits
	Code() errors.ErrorCode
}

type fieldError struct {
	code   errors.ErrorCode
	field  string
	value  interface{}
	reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.field, e.reason)
}

func (e *fieldError) Field() string      { return e.field }
func (e *fieldError) Value() interface{} { return e.value }
func (e *fieldError) Reason() string     { return e.reason }

func (e *fieldError) Code() errors.ErrorCode {
	if e.code == "" {
		return errors.ErrInvalidConfig
	}

	return e.code
}

// ValidationErrors is attached as data to an invalid configuration error
type ValidationErrors []ValidationError

func (v ValidationErrors) String() string {
	reasons := make([]string, len(v))
	for i, err := range v {
		reasons[i] = err.Error()
	}

	return strings.Join(reasons, "; ")
}

// Status represents the current state of the configuration
type Status struct {
	// Valid indicates whether the current configuration is valid
	Valid bool
	// ValidationErrors contains any validation errors if Valid is false
	ValidationErrors []ValidationError
}
