package narrowphase

import "math"

// Ellipse is centered on its local origin. SAT cannot be used with ellipses.
type Ellipse struct {
	Shape

	halfWidth, halfHeight float64
	// axis is the unit direction of the ellipse's width in local space.
	axis Vector
}

func NewEllipse(width, height float64) (*Ellipse, error) {
	if width <= 0 || height <= 0 {
		return nil, invalidArgument("ellipse width and height must be positive, got %v x %v", width, height)
	}
	a := width * 0.5
	b := height * 0.5
	return &Ellipse{
		Shape:      newShape(Vector{}, math.Max(a, b)),
		halfWidth:  a,
		halfHeight: b,
		axis:       Vector{1, 0},
	}, nil
}

func (*Ellipse) Kind() ShapeKind {
	return SHAPE_ELLIPSE
}

func (e *Ellipse) HalfWidth() float64 {
	return e.halfWidth
}

func (e *Ellipse) HalfHeight() float64 {
	return e.halfHeight
}

// ellipseSupport returns the farthest point of an axis aligned ellipse centered on the origin.
func ellipseSupport(d Vector, a, b float64) Vector {
	x := a * a * d.X
	y := b * b * d.Y
	k := math.Sqrt(a*a*d.X*d.X + b*b*d.Y*d.Y)
	if k <= Epsilon {
		return Vector{a, 0}
	}
	return Vector{x / k, y / k}
}

func (e *Ellipse) FarthestPoint(n Vector, tx Transform) Vector {
	local := tx.Unvect(n).Unrotate(e.axis)
	p := ellipseSupport(local, e.halfWidth, e.halfHeight)
	return tx.Point(p.Rotate(e.axis).Add(e.center))
}

func (e *Ellipse) FarthestFeature(n Vector, tx Transform) Feature {
	return NewVertexFeature(e.FarthestPoint(n, tx), -1)
}

func (e *Ellipse) Project(n Vector, tx Transform) Interval {
	return projectBySupport(e, n, tx)
}

func (e *Ellipse) Axes([]Vector, Transform) ([]Vector, error) {
	return nil, unsupportedOperation(SHAPE_ELLIPSE, "axes")
}

func (e *Ellipse) Foci(Transform) ([]Vector, error) {
	return nil, unsupportedOperation(SHAPE_ELLIPSE, "foci")
}

func (e *Ellipse) Contains(p Vector, tx Transform) bool {
	local := tx.Unpoint(p).Sub(e.center).Unrotate(e.axis)
	x := local.X / e.halfWidth
	y := local.Y / e.halfHeight
	return x*x+y*y <= 1
}

func (e *Ellipse) BB(tx Transform) BB {
	return bbBySupport(e, tx)
}

func (e *Ellipse) Rotate(theta float64, about Vector) {
	e.center = e.center.RotateAbout(theta, about)
	e.axis = e.axis.Rotate(ForAngle(theta))
}

func (e *Ellipse) Translate(v Vector) {
	e.center = e.center.Add(v)
}
