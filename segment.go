package narrowphase

import "math"

// Segment is a line segment between two points. It has no thickness.
type Segment struct {
	Shape

	a, b Vector
	// n is the unit normal, the clockwise perpendicular of b - a.
	n      Vector
	length float64
}

func NewSegment(a, b Vector) (*Segment, error) {
	if a.Near(b, math.Sqrt(Epsilon)) {
		return nil, invalidArgument("segment endpoints must be distinct, got %v and %v", a, b)
	}
	seg := &Segment{a: a, b: b}
	seg.Shape = newShape(Vector{}, 0)
	seg.refresh()
	return seg, nil
}

// refresh recomputes the cached values after an endpoint moved.
func (seg *Segment) refresh() {
	seg.length = seg.a.Distance(seg.b)
	seg.n = seg.b.Sub(seg.a).ReversePerp().Normalize()
	seg.center = seg.a.Lerp(seg.b, 0.5)
	seg.radius = seg.length * 0.5
}

func (*Segment) Kind() ShapeKind {
	return SHAPE_SEGMENT
}

func (seg *Segment) Point1() Vector {
	return seg.a
}

func (seg *Segment) Point2() Vector {
	return seg.b
}

func (seg *Segment) Normal() Vector {
	return seg.n
}

func (seg *Segment) Length() float64 {
	return seg.length
}

func (seg *Segment) FarthestPoint(n Vector, tx Transform) Vector {
	return segmentFarthestPoint(tx.Point(seg.a), tx.Point(seg.b), n)
}

func segmentFarthestPoint(ta, tb, n Vector) Vector {
	if ta.Dot(n) >= tb.Dot(n) {
		return ta
	}
	return tb
}

// FarthestFeature is always the segment itself, wound so that its clockwise perpendicular faces n.
func (seg *Segment) FarthestFeature(n Vector, tx Transform) Feature {
	return segmentFarthestFeature(tx.Point(seg.a), tx.Point(seg.b), n)
}

func segmentFarthestFeature(ta, tb, n Vector) Feature {
	va := PointFeature{ta, 0}
	vb := PointFeature{tb, 1}
	max := va
	if tb.Dot(n) > ta.Dot(n) {
		max = vb
	}
	if tb.Sub(ta).Perp().Dot(n) > 0 {
		return NewEdgeFeature(vb, va, max, 0)
	}
	return NewEdgeFeature(va, vb, max, 0)
}

func (seg *Segment) Project(n Vector, tx Transform) Interval {
	return NewInterval(tx.Point(seg.a).Dot(n), tx.Point(seg.b).Dot(n))
}

// Axes are the segment's normal, its direction and the axes towards the foci.
func (seg *Segment) Axes(foci []Vector, tx Transform) ([]Vector, error) {
	axes := make([]Vector, 0, 2+len(foci))
	axes = append(axes, tx.Vect(seg.n), tx.Vect(seg.b.Sub(seg.a)).Normalize())
	return closestVertexAxes(axes, []Vector{seg.a, seg.b}, foci, tx), nil
}

func (seg *Segment) Foci(Transform) ([]Vector, error) {
	return nil, nil
}

// Contains reports whether p lies on the segment.
func (seg *Segment) Contains(p Vector, tx Transform) bool {
	local := tx.Unpoint(p)
	closest := local.ClosestPointOnSegment(seg.a, seg.b)
	return closest.DistanceSq(local) <= Epsilon
}

func (seg *Segment) BB(tx Transform) BB {
	return NewBBForPoints(tx.Point(seg.a), tx.Point(seg.b))
}

func (seg *Segment) Rotate(theta float64, about Vector) {
	seg.a = seg.a.RotateAbout(theta, about)
	seg.b = seg.b.RotateAbout(theta, about)
	seg.refresh()
}

func (seg *Segment) Translate(v Vector) {
	seg.a = seg.a.Add(v)
	seg.b = seg.b.Add(v)
	seg.refresh()
}

// SegmentRaycast casts a ray against the world space segment ab. maxLength <= 0 means unbounded.
// Parallel and collinear rays do not hit.
func SegmentRaycast(ray Ray, maxLength float64, a, b Vector, result *Raycast) bool {
	d := ray.Direction
	e := b.Sub(a)

	denom := d.Cross(e)
	if math.Abs(denom) <= Epsilon {
		return false
	}

	s := a.Sub(ray.Start)
	t := s.Cross(e) / denom
	u := s.Cross(d) / denom
	if t < 0 || u < 0 || u > 1 {
		return false
	}
	if maxLength > 0 && t > maxLength {
		return false
	}

	// Face the normal back towards the ray.
	n := e.ReversePerp().Normalize()
	flippedN := n
	if n.Dot(d) > 0 {
		flippedN = n.Neg()
	}

	result.Point = ray.PointAt(t)
	result.Normal = flippedN
	result.Distance = t
	return true
}
