package daemon

import "codeberg.org/mutker/atkctl/internal/errors"

const (
	ErrAlreadyRunning = errors.ErrAlreadyRunning
)
