package narrowphase

import "math"

type Circle struct {
	Shape
}

// NewCircle creates a circle of the given radius centered on offset.
func NewCircle(radius float64, offset Vector) (*Circle, error) {
	if radius <= 0 {
		return nil, invalidArgument("circle radius must be positive, got %v", radius)
	}
	return &Circle{newShape(offset, radius)}, nil
}

func (*Circle) Kind() ShapeKind {
	return SHAPE_CIRCLE
}

func (circle *Circle) FarthestPoint(n Vector, tx Transform) Vector {
	return tx.Point(circle.center).Add(n.Normalize().Mult(circle.radius))
}

// FarthestFeature is always a single point on the circle's boundary.
func (circle *Circle) FarthestFeature(n Vector, tx Transform) Feature {
	return NewVertexFeature(circle.FarthestPoint(n, tx), -1)
}

func (circle *Circle) Project(n Vector, tx Transform) Interval {
	c := tx.Point(circle.center).Dot(n)
	r := circle.radius * n.Length()
	return Interval{c - r, c + r}
}

// Axes has no axes of its own, only the ones towards the other shape's foci.
func (circle *Circle) Axes(foci []Vector, tx Transform) ([]Vector, error) {
	c := tx.Point(circle.center)
	axes := make([]Vector, 0, len(foci))
	for _, f := range foci {
		axes = append(axes, f.Sub(c).Normalize())
	}
	return axes, nil
}

func (circle *Circle) Foci(tx Transform) ([]Vector, error) {
	return []Vector{tx.Point(circle.center)}, nil
}

func (circle *Circle) Contains(p Vector, tx Transform) bool {
	r := circle.radius
	return tx.Point(circle.center).DistanceSq(p) <= r*r
}

func (circle *Circle) BB(tx Transform) BB {
	return NewBBForCircle(tx.Point(circle.center), circle.radius)
}

func (circle *Circle) Rotate(theta float64, about Vector) {
	circle.center = circle.center.RotateAbout(theta, about)
}

func (circle *Circle) Translate(v Vector) {
	circle.center = circle.center.Add(v)
}

// CircleRaycast casts a ray against a world space circle. maxLength <= 0 means unbounded.
// A ray starting inside the circle does not hit it.
func CircleRaycast(ray Ray, maxLength float64, center Vector, radius float64, result *Raycast) bool {
	s := ray.Start.Sub(center)
	d := ray.Direction

	// |s + t*d|^2 = r^2 with |d| = 1
	b := s.Dot(d)
	c := s.Dot(s) - radius*radius
	if c <= 0 {
		return false
	}

	det := b*b - c
	if det < 0 {
		return false
	}

	t := -b - math.Sqrt(det)
	if t < 0 {
		return false
	}
	if maxLength > 0 && t > maxLength {
		return false
	}

	p := ray.PointAt(t)
	result.Point = p
	result.Normal = p.Sub(center).Normalize()
	result.Distance = t
	return true
}
