package narrowphase

import "math"

// SAT detects overlap by projecting both shapes onto every candidate separating axis.
// Ellipses and half ellipses have no finite set of axes, route them to GJK with a FallbackDetector.
type SAT struct {
	circles CircleDetector
}

func NewSAT() *SAT {
	return &SAT{}
}

func (sat *SAT) Detect(a Convex, txa Transform, b Convex, txb Transform) bool {
	if ca, cb, ok := asCircles(a, b); ok {
		return sat.circles.Detect(ca, txa, cb, txb)
	}

	for _, axis := range satAxes(a, txa, b, txb) {
		if axis.IsZero() {
			continue
		}
		if !a.Project(axis, txa).Overlaps(b.Project(axis, txb)) {
			return false
		}
	}
	return true
}

func (sat *SAT) DetectPenetration(a Convex, txa Transform, b Convex, txb Transform, p *Penetration) bool {
	if ca, cb, ok := asCircles(a, b); ok {
		return sat.circles.DetectPenetration(ca, txa, cb, txb, p)
	}

	var n Vector
	overlap := INFINITY
	for _, axis := range satAxes(a, txa, b, txb) {
		if axis.IsZero() {
			continue
		}
		axis = axis.Normalize()

		pa := a.Project(axis, txa)
		pb := b.Project(axis, txb)
		if !pa.Overlaps(pb) {
			return false
		}

		o := pa.Overlap(pb)
		if pa.Contains(pb) || pb.Contains(pa) {
			// Escaping a nested shape needs more than the overlap, take the shorter way out.
			max := math.Abs(pa.Max - pb.Max)
			min := math.Abs(pa.Min - pb.Min)
			if max > min {
				axis = axis.Neg()
				o += min
			} else {
				o += max
			}
		}

		if o < overlap {
			overlap = o
			n = axis
		}
	}

	p.Normal = n
	p.Depth = overlap
	orientNormal(a, txa, b, txb, p)
	return true
}

// satAxes gathers the candidate axes of both shapes. Shapes without axes panic.
func satAxes(a Convex, txa Transform, b Convex, txb Transform) []Vector {
	fociA := mustSAT(a.Foci(txa))
	fociB := mustSAT(b.Foci(txb))
	axes := mustSAT(a.Axes(fociB, txa))
	return append(axes, mustSAT(b.Axes(fociA, txb))...)
}

func mustSAT(v []Vector, err error) []Vector {
	if err != nil {
		panic(err)
	}
	return v
}
