package narrowphase

import "math"

// Detector decides whether two shapes overlap.
// DetectPenetration only writes p when it returns true.
type Detector interface {
	Detect(a Convex, txa Transform, b Convex, txb Transform) bool
	DetectPenetration(a Convex, txa Transform, b Convex, txb Transform, p *Penetration) bool
}

// DistanceDetector finds the separation of two shapes that do not overlap.
// Distance returns false, leaving s untouched, when the shapes overlap.
type DistanceDetector interface {
	Distance(a Convex, txa Transform, b Convex, txb Transform, s *Separation) bool
}

// Raycaster casts rays against a single shape. maxLength <= 0 means unbounded.
type Raycaster interface {
	Raycast(ray Ray, maxLength float64, c Convex, tx Transform, result *Raycast) bool
}

// ManifoldSolver turns a penetration into contact points.
type ManifoldSolver interface {
	Manifold(p Penetration, a Convex, txa Transform, b Convex, txb Transform, m *Manifold) bool
}

// PostProcessor adjusts a penetration after detection, before the manifold is built.
type PostProcessor interface {
	Process(a Convex, txa Transform, b Convex, txb Transform, p *Penetration)
}

// orientNormal flips p's normal so it points from a's center towards b's center.
func orientNormal(a Convex, txa Transform, b Convex, txb Transform, p *Penetration) {
	if WorldCenter(b, txb).Sub(WorldCenter(a, txa)).Dot(p.Normal) < 0 {
		p.Normal = p.Normal.Neg()
	}
}

func asCircles(a, b Convex) (*Circle, *Circle, bool) {
	ca, ok := a.(*Circle)
	if !ok {
		return nil, nil, false
	}
	cb, ok := b.(*Circle)
	return ca, cb, ok
}

// asSegment returns the segment behind plain segments and links.
func asSegment(c Convex) (*Segment, bool) {
	switch s := c.(type) {
	case *Segment:
		return s, true
	case *Link:
		return &s.Segment, true
	}
	return nil, false
}

// CircleDetector has closed form answers for pairs of circles.
type CircleDetector struct{}

func (CircleDetector) Detect(a *Circle, txa Transform, b *Circle, txb Transform) bool {
	ca := WorldCenter(a, txa)
	cb := WorldCenter(b, txb)
	r := a.radius + b.radius
	return ca.DistanceSq(cb) < r*r
}

// DetectPenetration reports the overlap of two circles. Concentric circles use the +x axis.
func (CircleDetector) DetectPenetration(a *Circle, txa Transform, b *Circle, txb Transform, p *Penetration) bool {
	ca := WorldCenter(a, txa)
	cb := WorldCenter(b, txb)
	r := a.radius + b.radius

	v := cb.Sub(ca)
	if v.LengthSq() >= r*r {
		return false
	}
	n, l := v.Normalized()
	if l <= Epsilon {
		n = Vector{1, 0}
	}
	p.Normal = n
	p.Depth = r - l
	return true
}

func (CircleDetector) Distance(a *Circle, txa Transform, b *Circle, txb Transform, s *Separation) bool {
	ca := WorldCenter(a, txa)
	cb := WorldCenter(b, txb)
	r := a.radius + b.radius

	v := cb.Sub(ca)
	if v.LengthSq() < r*r {
		return false
	}
	n, l := v.Normalized()
	s.Normal = n
	s.Distance = l - r
	s.Point1 = ca.Add(n.Mult(a.radius))
	s.Point2 = cb.Sub(n.Mult(b.radius))
	return true
}

func (CircleDetector) Raycast(ray Ray, maxLength float64, c *Circle, txc Transform, result *Raycast) bool {
	return CircleRaycast(ray, maxLength, WorldCenter(c, txc), c.radius, result)
}

// SegmentDetector has closed form answers for pairs involving a segment or link.
type SegmentDetector struct{}

// DetectCircle tests a world space segment against a world space circle.
func (SegmentDetector) DetectCircle(sa, sb, center Vector, radius float64) bool {
	return center.ClosestPointOnSegment(sa, sb).DistanceSq(center) < radius*radius
}

// CirclePenetration writes the penetration pointing from the segment to the circle.
// A circle centered on the segment is pushed along the segment's normal.
func (SegmentDetector) CirclePenetration(sa, sb, center Vector, radius float64, p *Penetration) bool {
	closest := center.ClosestPointOnSegment(sa, sb)
	v := center.Sub(closest)
	if v.LengthSq() >= radius*radius {
		return false
	}
	n, l := v.Normalized()
	if l <= Epsilon {
		n = sb.Sub(sa).ReversePerp().Normalize()
	}
	p.Normal = n
	p.Depth = radius - l
	return true
}

// DetectSegments tests two world space segments for intersection, including collinear overlap.
func (SegmentDetector) DetectSegments(a1, a2, b1, b2 Vector) bool {
	r := a2.Sub(a1)
	s := b2.Sub(b1)
	denom := r.Cross(s)
	qp := b1.Sub(a1)

	if math.Abs(denom) <= Epsilon {
		if math.Abs(qp.Cross(r)) > Epsilon {
			return false
		}
		// Collinear, compare the projections onto r.
		rr := r.Dot(r)
		t0 := qp.Dot(r) / rr
		t1 := t0 + s.Dot(r)/rr
		return NewInterval(t0, t1).Overlaps(Interval{0, 1})
	}

	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// CollinearPenetration handles world space segments lying on the same line. The normal runs
// along the line and the depth is the shorter way to slide the segments apart.
// handled is false when the segments are not collinear.
func (SegmentDetector) CollinearPenetration(a1, a2, b1, b2 Vector, p *Penetration) (result, handled bool) {
	r := a2.Sub(a1)
	s := b2.Sub(b1)
	if math.Abs(r.Cross(s)) > Epsilon || math.Abs(b1.Sub(a1).Cross(r)) > Epsilon {
		return false, false
	}

	d := r.Normalize()
	ia := NewInterval(a1.Dot(d), a2.Dot(d))
	ib := NewInterval(b1.Dot(d), b2.Dot(d))
	if !ia.Overlaps(ib) {
		return false, true
	}

	forward := ia.Max - ib.Min
	backward := ib.Max - ia.Min
	if forward <= backward {
		p.Normal = d
		p.Depth = forward
	} else {
		p.Normal = d.Neg()
		p.Depth = backward
	}
	return true, true
}

func (SegmentDetector) Raycast(ray Ray, maxLength float64, seg *Segment, txs Transform, result *Raycast) bool {
	return SegmentRaycast(ray, maxLength, txs.Point(seg.a), txs.Point(seg.b), result)
}

// detect answers the boolean test for segment pairs. handled is false when no closed form applies.
func (sd SegmentDetector) detect(a Convex, txa Transform, b Convex, txb Transform) (result, handled bool) {
	sa, okA := asSegment(a)
	sb, okB := asSegment(b)
	switch {
	case okA && okB:
		return sd.DetectSegments(txa.Point(sa.a), txa.Point(sa.b), txb.Point(sb.a), txb.Point(sb.b)), true
	case okA:
		if c, ok := b.(*Circle); ok {
			return sd.DetectCircle(txa.Point(sa.a), txa.Point(sa.b), WorldCenter(c, txb), c.radius), true
		}
	case okB:
		if c, ok := a.(*Circle); ok {
			return sd.DetectCircle(txb.Point(sb.a), txb.Point(sb.b), WorldCenter(c, txa), c.radius), true
		}
	}
	return false, false
}

// detectPenetration answers circle and segment pairs. handled is false when no closed form applies.
func (sd SegmentDetector) detectPenetration(a Convex, txa Transform, b Convex, txb Transform, p *Penetration) (result, handled bool) {
	sa, okA := asSegment(a)
	sb, okB := asSegment(b)
	if okA && okB {
		// Crossing segments have an area in the minkowski difference and are left to EPA.
		return sd.CollinearPenetration(txa.Point(sa.a), txa.Point(sa.b), txb.Point(sb.a), txb.Point(sb.b), p)
	}
	if okA {
		if c, ok := b.(*Circle); ok {
			return sd.CirclePenetration(txa.Point(sa.a), txa.Point(sa.b), WorldCenter(c, txb), c.radius, p), true
		}
	}
	if okB {
		if c, ok := a.(*Circle); ok {
			var pen Penetration
			if !sd.CirclePenetration(txb.Point(sb.a), txb.Point(sb.b), WorldCenter(c, txa), c.radius, &pen) {
				return false, true
			}
			p.Normal = pen.Normal.Neg()
			p.Depth = pen.Depth
			return true, true
		}
	}
	return false, false
}
