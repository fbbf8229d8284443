package narrowphase

import "math"

// HalfEllipse is the upper half of an ellipse. The flat side lies on the local x axis and the
// shape's center is its centroid, not the center of the ellipse. SAT cannot be used with it.
type HalfEllipse struct {
	Shape

	halfWidth, height float64
	// ellipseCenter is the midpoint of the flat side.
	ellipseCenter Vector
	// axis is the unit direction of the flat side in local space.
	axis Vector
}

// NewHalfEllipse creates a half ellipse of the given full width and height.
func NewHalfEllipse(width, height float64) (*HalfEllipse, error) {
	if width <= 0 || height <= 0 {
		return nil, invalidArgument("half ellipse width and height must be positive, got %v x %v", width, height)
	}
	a := width * 0.5
	cy := 4.0 * height / (3.0 * math.Pi)
	radius := math.Max(math.Hypot(a, cy), height-cy)
	return &HalfEllipse{
		Shape:     newShape(Vector{0, cy}, radius),
		halfWidth: a,
		height:    height,
		axis:      Vector{1, 0},
	}, nil
}

func (*HalfEllipse) Kind() ShapeKind {
	return SHAPE_HALF_ELLIPSE
}

func (h *HalfEllipse) HalfWidth() float64 {
	return h.halfWidth
}

func (h *HalfEllipse) Height() float64 {
	return h.height
}

// toLocal moves a world point into the frame of the flat side.
func (h *HalfEllipse) toLocal(p Vector, tx Transform) Vector {
	return tx.Unpoint(p).Sub(h.ellipseCenter).Unrotate(h.axis)
}

func (h *HalfEllipse) toWorld(p Vector, tx Transform) Vector {
	return tx.Point(p.Rotate(h.axis).Add(h.ellipseCenter))
}

// support returns the farthest point in the flat side's frame and whether it is one of the
// flat side's endpoints (0 left, 1 right, -1 on the curve).
func (h *HalfEllipse) support(d Vector) (Vector, int) {
	if d.Y > 0 {
		return ellipseSupport(d, h.halfWidth, h.height), -1
	}
	left := Vector{-h.halfWidth, 0}
	right := Vector{h.halfWidth, 0}
	if left.Dot(d) >= right.Dot(d) {
		return left, 0
	}
	return right, 1
}

func (h *HalfEllipse) FarthestPoint(n Vector, tx Transform) Vector {
	p, _ := h.support(tx.Unvect(n).Unrotate(h.axis))
	return h.toWorld(p, tx)
}

// FarthestFeature returns the flat side when its normal is at least as aligned with n as the
// curve's normal at the farthest endpoint, otherwise the farthest point.
func (h *HalfEllipse) FarthestFeature(n Vector, tx Transform) Feature {
	d := tx.Unvect(n).Unrotate(h.axis)
	p, index := h.support(d)
	if index < 0 {
		return NewVertexFeature(h.toWorld(p, tx), -1)
	}

	flatNormal := Vector{0, -1}
	curveNormal := Vector{1, 0}
	if index == 0 {
		curveNormal = Vector{-1, 0}
	}
	if flatNormal.Dot(d) < curveNormal.Dot(d) {
		return NewVertexFeature(h.toWorld(p, tx), index)
	}

	left := PointFeature{h.toWorld(Vector{-h.halfWidth, 0}, tx), 0}
	right := PointFeature{h.toWorld(Vector{h.halfWidth, 0}, tx), 1}
	max := left
	if index == 1 {
		max = right
	}
	return NewEdgeFeature(left, right, max, 0)
}

func (h *HalfEllipse) Project(n Vector, tx Transform) Interval {
	return projectBySupport(h, n, tx)
}

func (h *HalfEllipse) Axes([]Vector, Transform) ([]Vector, error) {
	return nil, unsupportedOperation(SHAPE_HALF_ELLIPSE, "axes")
}

func (h *HalfEllipse) Foci(Transform) ([]Vector, error) {
	return nil, unsupportedOperation(SHAPE_HALF_ELLIPSE, "foci")
}

func (h *HalfEllipse) Contains(p Vector, tx Transform) bool {
	local := h.toLocal(p, tx)
	if local.Y < 0 {
		return false
	}
	x := local.X / h.halfWidth
	y := local.Y / h.height
	return x*x+y*y <= 1
}

func (h *HalfEllipse) BB(tx Transform) BB {
	return bbBySupport(h, tx)
}

func (h *HalfEllipse) Rotate(theta float64, about Vector) {
	h.center = h.center.RotateAbout(theta, about)
	h.ellipseCenter = h.ellipseCenter.RotateAbout(theta, about)
	h.axis = h.axis.Rotate(ForAngle(theta))
}

func (h *HalfEllipse) Translate(v Vector) {
	h.center = h.center.Add(v)
	h.ellipseCenter = h.ellipseCenter.Add(v)
}
