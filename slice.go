package narrowphase

import "math"

// Slice is a circular sector. Its tip sits on the circle's center and it opens symmetrically
// around its local axis. The shape's center is the sector's centroid.
type Slice struct {
	Shape

	sliceRadius float64
	// alpha is half of the sector's angle.
	alpha float64
	// circleCenter is the tip of the slice in local space.
	circleCenter Vector
	// axis is the unit direction the slice opens towards.
	axis Vector
	// verts are the tip, the lower and the upper arc ends, counter-clockwise.
	verts [3]Vector
	// normals[0] belongs to tip -> lower, normals[1] to upper -> tip.
	normals [2]Vector
}

// NewSlice creates a sector of the given radius spanning theta radians, 0 < theta <= pi.
func NewSlice(radius, theta float64) (*Slice, error) {
	if radius <= 0 {
		return nil, invalidArgument("slice radius must be positive, got %v", radius)
	}
	if theta <= 0 || theta > math.Pi {
		return nil, invalidArgument("slice angle must be in (0, pi], got %v", theta)
	}

	alpha := theta * 0.5
	cos, sin := math.Cos(alpha), math.Sin(alpha)

	s := &Slice{
		sliceRadius: radius,
		alpha:       alpha,
		axis:        Vector{1, 0},
		verts: [3]Vector{
			{},
			{radius * cos, -radius * sin},
			{radius * cos, radius * sin},
		},
	}
	s.normals[0] = s.verts[1].ReversePerp().Normalize()
	s.normals[1] = s.verts[2].Neg().ReversePerp().Normalize()

	cx := 2 * radius * sin / (3 * alpha)
	r := math.Max(cx, radius-cx)
	for _, v := range s.verts[1:] {
		r = math.Max(r, v.Distance(Vector{cx, 0}))
	}
	s.Shape = newShape(Vector{cx, 0}, r)
	return s, nil
}

func (*Slice) Kind() ShapeKind {
	return SHAPE_SLICE
}

func (s *Slice) SliceRadius() float64 {
	return s.sliceRadius
}

// Theta is the sector's angle in radians.
func (s *Slice) Theta() float64 {
	return s.alpha * 2
}

// onArc reports whether the local direction d hits the arc strictly between its ends.
func (s *Slice) onArc(d Vector) bool {
	return d.Normalize().Dot(s.axis) > math.Cos(s.alpha)
}

func (s *Slice) FarthestPoint(n Vector, tx Transform) Vector {
	local := tx.Unvect(n)
	if s.onArc(local) {
		return tx.Point(s.circleCenter).Add(n.Normalize().Mult(s.sliceRadius))
	}
	return tx.Point(s.verts[farthestVertexIndex(s.verts[:], local)])
}

// FarthestFeature returns a point on the arc, a straight side, or an arc end when the arc is
// more aligned with n than the side meeting it.
func (s *Slice) FarthestFeature(n Vector, tx Transform) Feature {
	local := tx.Unvect(n)
	if s.onArc(local) {
		return NewVertexFeature(s.FarthestPoint(n, tx), -1)
	}

	i := farthestVertexIndex(s.verts[:], local)
	point := func(j int) PointFeature {
		return PointFeature{tx.Point(s.verts[j]), j}
	}
	tipLower := func(max PointFeature) Feature {
		return NewEdgeFeature(point(0), point(1), max, 0)
	}
	upperTip := func(max PointFeature) Feature {
		return NewEdgeFeature(point(2), point(0), max, 1)
	}

	switch i {
	case 0:
		if s.normals[0].Dot(local) > s.normals[1].Dot(local) {
			return tipLower(point(0))
		}
		return upperTip(point(0))
	case 1:
		arc := s.verts[1].Sub(s.circleCenter).Normalize()
		if s.normals[0].Dot(local) >= arc.Dot(local) {
			return tipLower(point(1))
		}
		return NewVertexFeature(point(1).Point, 1)
	default:
		arc := s.verts[2].Sub(s.circleCenter).Normalize()
		if s.normals[1].Dot(local) > arc.Dot(local) {
			return upperTip(point(2))
		}
		return NewVertexFeature(point(2).Point, 2)
	}
}

func (s *Slice) Project(n Vector, tx Transform) Interval {
	return projectBySupport(s, n, tx)
}

// Axes are the normals of the two straight sides and the axes towards the foci.
func (s *Slice) Axes(foci []Vector, tx Transform) ([]Vector, error) {
	axes := make([]Vector, 0, 2+len(foci))
	axes = append(axes, tx.Vect(s.normals[0]), tx.Vect(s.normals[1]))
	return closestVertexAxes(axes, s.verts[:], foci, tx), nil
}

func (s *Slice) Foci(tx Transform) ([]Vector, error) {
	return []Vector{tx.Point(s.circleCenter)}, nil
}

func (s *Slice) Contains(p Vector, tx Transform) bool {
	local := tx.Unpoint(p).Sub(s.circleCenter)
	l := local.Length()
	if l > s.sliceRadius {
		return false
	}
	if l <= Epsilon {
		return true
	}
	return local.Mult(1/l).Dot(s.axis) >= math.Cos(s.alpha)-Epsilon
}

func (s *Slice) BB(tx Transform) BB {
	return bbBySupport(s, tx)
}

func (s *Slice) Rotate(theta float64, about Vector) {
	rot := ForAngle(theta)
	s.center = s.center.RotateAbout(theta, about)
	s.circleCenter = s.circleCenter.RotateAbout(theta, about)
	s.axis = s.axis.Rotate(rot)
	for i := range s.verts {
		s.verts[i] = s.verts[i].RotateAbout(theta, about)
	}
	for i := range s.normals {
		s.normals[i] = s.normals[i].Rotate(rot)
	}
}

func (s *Slice) Translate(v Vector) {
	s.center = s.center.Add(v)
	s.circleCenter = s.circleCenter.Add(v)
	for i := range s.verts {
		s.verts[i] = s.verts[i].Add(v)
	}
}
