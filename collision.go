package narrowphase

const (
	MAX_GJK_ITERATIONS  = 30
	MAX_EPA_ITERATIONS  = 100
	MIN_ITERATIONS      = 5
	WARN_EPA_ITERATIONS = 50
)

// A point on the surface of two shapes' minkowski difference.
type MinkowskiPoint struct {
	// a - b
	Point Vector
	// Cache the two original support points.
	SupportA, SupportB Vector
}

// MinkowskiSum is the minkowski difference A - B of two transformed shapes.
type MinkowskiSum struct {
	a, b     Convex
	txa, txb Transform
}

func NewMinkowskiSum(a Convex, txa Transform, b Convex, txb Transform) MinkowskiSum {
	return MinkowskiSum{a: a, b: b, txa: txa, txb: txb}
}

// Support calculates the maximal point on the minkowski difference of two shapes along a particular axis.
func (ms MinkowskiSum) Support(d Vector) Vector {
	return ms.a.FarthestPoint(d, ms.txa).Sub(ms.b.FarthestPoint(d.Neg(), ms.txb))
}

// SupportPoints is Support that also keeps the support points of each shape.
func (ms MinkowskiSum) SupportPoints(d Vector) MinkowskiPoint {
	a := ms.a.FarthestPoint(d, ms.txa)
	b := ms.b.FarthestPoint(d.Neg(), ms.txb)
	return MinkowskiPoint{Point: a.Sub(b), SupportA: a, SupportB: b}
}

// ClosestT returns the parameter t in [0, 1] of the point on p0 -> p1 closest to the origin.
func ClosestT(p0, p1 Vector) float64 {
	delta := p1.Sub(p0)
	l := delta.LengthSq()
	if l <= Epsilon {
		return 0
	}
	return Clamp01(-p0.Dot(delta) / l)
}

// findClosestPoints interpolates the support points of the segment v0 -> v1 at the point closest
// to the origin and returns the matching points on each shape.
func findClosestPoints(v0, v1 MinkowskiPoint) (Vector, Vector) {
	t := ClosestT(v0.Point, v1.Point)
	p1 := v0.SupportA.Lerp(v1.SupportA, t)
	p2 := v0.SupportB.Lerp(v1.SupportB, t)
	return p1, p2
}
