package fancurve

import "fmt"

type ViolationKind int

const (
	// DegreesOutOfRange: the temperature lies outside the point's bucket.
	DegreesOutOfRange ViolationKind = iota
	// BelowFloor: the percentage is under the device floor of the point.
	BelowFloor
	// Decreasing: the percentage is lower than the previous point's.
	Decreasing
)

func (k ViolationKind) String() string {
	switch k {
	case DegreesOutOfRange:
		return "degrees_out_of_range"
	case BelowFloor:
		return "below_floor"
	case Decreasing:
		return "decreasing"
	default:
		return fmt.Sprintf("violation(%d)", int(k))
	}
}

// Violation describes one broken rule at one point of a curve.
type Violation struct {
	Index Index
	Kind  ViolationKind
	Entry Entry
	// Limit is the floor for BelowFloor and the previous percentage for Decreasing.
	Limit uint8
}

func (v Violation) String() string {
	point := v.Index.Ordinal() + 1
	switch v.Kind {
	case DegreesOutOfRange:
		return fmt.Sprintf("point %d: %dc is outside %dc..%dc",
			point, v.Entry.Degrees, v.Index.MinDegrees(), v.Index.MaxDegrees())
	case BelowFloor:
		return fmt.Sprintf("point %d: %d%% is below the minimum of %d%%", point, v.Entry.FanPercent, v.Limit)
	case Decreasing:
		return fmt.Sprintf("point %d: %d%% is lower than the previous point (%d%%)", point, v.Entry.FanPercent, v.Limit)
	default:
		return fmt.Sprintf("point %d: %s", point, v.Kind)
	}
}
