package fancurve

const (
	// EntryCount is the fixed number of points in a curve.
	EntryCount = 8

	maxOrdinal     = EntryCount - 1
	bucketWidth    = 10
	bucketBase     = 30
	bucketLastStep = bucketWidth - 1
)

// percentFloor holds the lowest fan percentage allowed at one point.
type percentFloor struct {
	cpu, gpu uint8
}

// Floors per point; the fan must never drop below these once past the bucket's temperature.
var percentFloors = [EntryCount]percentFloor{
	{0, 0},
	{0, 0},
	{0, 0},
	{0, 0},
	{31, 34},
	{49, 51},
	{56, 61},
	{56, 61},
}

// Index identifies one of the eight fixed temperature buckets of a curve.
// The zero value is the first point; other values come from IndexFromOrdinal or Indices.
type Index struct {
	ordinal uint8
}

// IndexFromOrdinal returns the index for ordinal, or false when ordinal is not in 0..7.
func IndexFromOrdinal(ordinal int) (Index, bool) {
	if ordinal < 0 || ordinal > maxOrdinal {
		return Index{}, false
	}

	return Index{ordinal: uint8(ordinal)}, true
}

// Indices returns all indices in ascending order.
func Indices() [EntryCount]Index {
	var indices [EntryCount]Index
	for i := range indices {
		indices[i] = Index{ordinal: uint8(i)}
	}

	return indices
}

func (i Index) Ordinal() int {
	return int(i.ordinal)
}

// MinDegrees is the lowest temperature (°C) accepted at this point.
func (i Index) MinDegrees() uint8 {
	return i.ordinal*bucketWidth + bucketBase
}

// MaxDegrees is the highest temperature (°C) accepted at this point.
func (i Index) MaxDegrees() uint8 {
	return i.MinDegrees() + bucketLastStep
}

// MinPercent is the fan percentage floor of this point for the given device.
func (i Index) MinPercent(device Device) uint8 {
	floor := percentFloors[i.ordinal]
	if device == GPU {
		return floor.gpu
	}

	return floor.cpu
}
