package narrowphase

import "math"

// CAPSULE_EDGE_FEATURE_SELECTION is how aligned a direction must be with a capsule's side
// normal before the flat side is reported as the farthest feature instead of a point.
const CAPSULE_EDGE_FEATURE_SELECTION = 0.98

// Capsule is a rectangle with semicircular caps on its short sides, centered on its local origin.
type Capsule struct {
	Shape

	capRadius float64
	// axis is the unit direction of the capsule's long side in local space.
	axis Vector
	// foci are the centers of the two caps in local space.
	foci [2]Vector
}

// NewCapsule creates a capsule that fits in a width x height box.
// The longer dimension is the capsule's length.
func NewCapsule(width, height float64) (*Capsule, error) {
	if width <= 0 || height <= 0 {
		return nil, invalidArgument("capsule width and height must be positive, got %v x %v", width, height)
	}
	if math.Abs(width-height) < math.Sqrt(Epsilon) {
		return nil, invalidArgument("capsule width and height must differ, use a circle instead")
	}

	major := width
	minor := height
	axis := Vector{1, 0}
	if height > width {
		major, minor = height, width
		axis = Vector{0, 1}
	}

	r := minor * 0.5
	f := major*0.5 - r
	return &Capsule{
		Shape:     newShape(Vector{}, major*0.5),
		capRadius: r,
		axis:      axis,
		foci:      [2]Vector{axis.Mult(f), axis.Mult(-f)},
	}, nil
}

func (*Capsule) Kind() ShapeKind {
	return SHAPE_CAPSULE
}

func (c *Capsule) CapRadius() float64 {
	return c.capRadius
}

func (c *Capsule) Length() float64 {
	return c.radius * 2
}

func (c *Capsule) FarthestPoint(n Vector, tx Transform) Vector {
	local := tx.Unvect(n)
	f := c.foci[0]
	if c.foci[1].Dot(local) > f.Dot(local) {
		f = c.foci[1]
	}
	return tx.Point(f).Add(n.Normalize().Mult(c.capRadius))
}

// FarthestFeature returns one of the flat sides when n is nearly perpendicular to the capsule's
// length and the farthest point otherwise.
func (c *Capsule) FarthestFeature(n Vector, tx Transform) Feature {
	local := tx.Unvect(n).Normalize()
	side := c.axis.ReversePerp()
	d := side.Dot(local)
	if math.Abs(d) < CAPSULE_EDGE_FEATURE_SELECTION {
		return NewVertexFeature(c.FarthestPoint(n, tx), -1)
	}

	index := 0
	if d < 0 {
		side = side.Neg()
		index = 1
	}
	offset := side.Mult(c.capRadius)
	p1 := tx.Point(c.foci[1].Add(offset))
	p2 := tx.Point(c.foci[0].Add(offset))

	// Wind the edge so its clockwise perpendicular faces n.
	v1 := PointFeature{p1, 0}
	v2 := PointFeature{p2, 1}
	if p2.Sub(p1).Perp().Dot(n) > 0 {
		v1, v2 = v2, v1
	}
	max := v1
	if v2.Point.Dot(n) > v1.Point.Dot(n) {
		max = v2
	}
	return NewEdgeFeature(v1, v2, max, index)
}

func (c *Capsule) Project(n Vector, tx Transform) Interval {
	return projectBySupport(c, n, tx)
}

// Axes are the side normal and, for each focus, the axis from the closest point of the
// capsule's core segment.
func (c *Capsule) Axes(foci []Vector, tx Transform) ([]Vector, error) {
	axes := make([]Vector, 0, 1+len(foci))
	axes = append(axes, tx.Vect(c.axis.ReversePerp()))

	f1 := tx.Point(c.foci[0])
	f2 := tx.Point(c.foci[1])
	for _, f := range foci {
		axes = append(axes, f.Sub(f.ClosestPointOnSegment(f1, f2)).Normalize())
	}
	return axes, nil
}

func (c *Capsule) Foci(tx Transform) ([]Vector, error) {
	return []Vector{tx.Point(c.foci[0]), tx.Point(c.foci[1])}, nil
}

func (c *Capsule) Contains(p Vector, tx Transform) bool {
	local := tx.Unpoint(p)
	closest := local.ClosestPointOnSegment(c.foci[0], c.foci[1])
	return closest.DistanceSq(local) <= c.capRadius*c.capRadius
}

func (c *Capsule) BB(tx Transform) BB {
	return bbBySupport(c, tx)
}

func (c *Capsule) Rotate(theta float64, about Vector) {
	c.center = c.center.RotateAbout(theta, about)
	c.axis = c.axis.Rotate(ForAngle(theta))
	c.foci[0] = c.foci[0].RotateAbout(theta, about)
	c.foci[1] = c.foci[1].RotateAbout(theta, about)
}

func (c *Capsule) Translate(v Vector) {
	c.center = c.center.Add(v)
	c.foci[0] = c.foci[0].Add(v)
	c.foci[1] = c.foci[1].Add(v)
}
