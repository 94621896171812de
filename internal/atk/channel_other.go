//go:build !windows

package atk

import (
	"runtime"

	"codeberg.org/mutker/atkctl/internal/errors"
)

// OpenChannel fails: the ATK ACPI device file only exists on Windows.
func OpenChannel(name string) (Channel, error) {
	return nil, errors.New().WithData(ErrUnsupportedPlatform, map[string]string{
		"device": name,
		"os":     runtime.GOOS,
	})
}
