package narrowphase

import "math"

// Interval is a closed range of scalars, usually the projection of a shape onto an axis.
type Interval struct {
	Min, Max float64
}

func NewInterval(min, max float64) Interval {
	if min > max {
		min, max = max, min
	}
	return Interval{min, max}
}

func (i Interval) Overlaps(other Interval) bool {
	return !(i.Min > other.Max || other.Min > i.Max)
}

// Overlap returns the length of the shared range. Only meaningful when the intervals overlap.
func (i Interval) Overlap(other Interval) float64 {
	if !i.Overlaps(other) {
		return 0
	}
	return math.Min(i.Max, other.Max) - math.Max(i.Min, other.Min)
}

func (i Interval) Contains(other Interval) bool {
	return other.Min >= i.Min && other.Max <= i.Max
}
