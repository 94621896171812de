package fancurve

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/atkctl/internal/errors"
)

// Conversion is a curve ready for the hardware together with what had to
// happen to the input to get there.
type Conversion struct {
	Table Table
	// Minimum is set when the input was blank and the minimum curve was used.
	Minimum bool
	// Adjusted is set when the input broke a rule and was repaired.
	Adjusted bool
	// Violations found in the input before the repair.
	Violations []Violation
}

// Convert parses text for device and repairs it. With strict set, an input
// that would need repairing is rejected instead. A blank text always yields
// the minimum curve.
func Convert(device Device, text string, strict bool) (Conversion, error) {
	if strings.TrimSpace(text) == "" {
		return Conversion{Table: Minimum(device), Minimum: true}, nil
	}

	builder, err := Parse(device, text)
	if err != nil {
		return Conversion{}, err
	}

	violations := builder.Violations()
	if strict && len(violations) > 0 {
		return Conversion{}, errors.New().WithMessage(ErrCurveRejected, fmt.Sprintf(
			"fan curve for %s violates the safety limits: %s", device, violations[0]))
	}

	return Conversion{
		Table:      builder.AutoFixBuild(),
		Adjusted:   !builder.IsValid(),
		Violations: violations,
	}, nil
}
