package narrowphase

import "go.uber.org/zap"

// GJK detects overlap by searching the minkowski difference of two shapes for the origin.
// Overlapping shapes get their penetration from EPA. GJK also answers distance and raycast queries.
type GJK struct {
	maxIterations   int
	distanceEpsilon float64
	epa             *EPA
	logger          *zap.Logger

	circles  CircleDetector
	segments SegmentDetector
}

type GJKOption func(*GJK)

func WithGJKMaxIterations(n int) GJKOption {
	return func(g *GJK) { g.maxIterations = n }
}

func WithGJKDistanceEpsilon(eps float64) GJKOption {
	return func(g *GJK) { g.distanceEpsilon = eps }
}

// WithEPA replaces the default penetration solver.
func WithEPA(epa *EPA) GJKOption {
	return func(g *GJK) { g.epa = epa }
}

func WithGJKLogger(logger *zap.Logger) GJKOption {
	return func(g *GJK) { g.logger = logger }
}

func NewGJK(opts ...GJKOption) (*GJK, error) {
	g := &GJK{
		maxIterations:   MAX_GJK_ITERATIONS,
		distanceEpsilon: DefaultDistanceEpsilon,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	if err := g.SetMaxIterations(g.maxIterations); err != nil {
		return nil, err
	}
	if err := g.SetDistanceEpsilon(g.distanceEpsilon); err != nil {
		return nil, err
	}
	if g.epa == nil {
		epa, err := NewEPA(WithEPALogger(g.logger))
		if err != nil {
			return nil, err
		}
		g.epa = epa
	}
	return g, nil
}

func (g *GJK) MaxIterations() int {
	return g.maxIterations
}

func (g *GJK) SetMaxIterations(n int) error {
	if n < MIN_ITERATIONS {
		return invalidArgument("GJK max iterations must be at least %d, got %d", MIN_ITERATIONS, n)
	}
	g.maxIterations = n
	return nil
}

func (g *GJK) DistanceEpsilon() float64 {
	return g.distanceEpsilon
}

func (g *GJK) SetDistanceEpsilon(eps float64) error {
	if eps <= 0 {
		return invalidArgument("GJK distance epsilon must be positive, got %v", eps)
	}
	g.distanceEpsilon = eps
	return nil
}

func (g *GJK) EPA() *EPA {
	return g.epa
}

// initialDirection points from a's center to b's center, or along +x when they coincide.
func initialDirection(a Convex, txa Transform, b Convex, txb Transform) Vector {
	d := WorldCenter(b, txb).Sub(WorldCenter(a, txa))
	if d.IsZero() {
		return Vector{1, 0}
	}
	return d
}

func (g *GJK) Detect(a Convex, txa Transform, b Convex, txb Transform) bool {
	if ca, cb, ok := asCircles(a, b); ok {
		return g.circles.Detect(ca, txa, cb, txb)
	}
	if result, ok := g.segments.detect(a, txa, b, txb); ok {
		return result
	}

	simplex := make([]Vector, 0, 3)
	return g.detect(NewMinkowskiSum(a, txa, b, txb), &simplex, initialDirection(a, txa, b, txb))
}

func (g *GJK) DetectPenetration(a Convex, txa Transform, b Convex, txb Transform, p *Penetration) bool {
	if ca, cb, ok := asCircles(a, b); ok {
		return g.circles.DetectPenetration(ca, txa, cb, txb, p)
	}
	if result, ok := g.segments.detectPenetration(a, txa, b, txb, p); ok {
		if result {
			orientNormal(a, txa, b, txb, p)
		}
		return result
	}

	ms := NewMinkowskiSum(a, txa, b, txb)
	simplex := make([]Vector, 0, 3)
	if !g.detect(ms, &simplex, initialDirection(a, txa, b, txb)) {
		return false
	}
	g.epa.Penetration(simplex, ms, p)
	orientNormal(a, txa, b, txb, p)
	return true
}

// detect runs the simplex loop. On success the simplex is a triangle enclosing the origin.
func (g *GJK) detect(ms MinkowskiSum, simplex *[]Vector, d Vector) bool {
	*simplex = append(*simplex, ms.Support(d))
	if (*simplex)[0].Dot(d) <= 0 {
		return false
	}
	d = d.Neg()

	for i := 0; i < g.maxIterations; i++ {
		p := ms.Support(d)
		*simplex = append(*simplex, p)
		if p.Dot(d) <= 0 {
			return false
		}
		if checkSimplex(simplex, &d) {
			return true
		}
	}

	g.logger.Debug("GJK iteration limit reached",
		zap.Int("iterations", g.maxIterations),
		zap.Stringer("a", ms.a.Kind()),
		zap.Stringer("b", ms.b.Kind()),
	)
	return false
}

// checkSimplex reports whether the simplex encloses the origin. Otherwise it drops the point
// that is not needed and points d at the origin.
func checkSimplex(simplex *[]Vector, d *Vector) bool {
	s := *simplex
	a := s[len(s)-1]
	ao := a.Neg()

	if len(s) == 3 {
		b := s[1]
		c := s[0]
		ab := b.Sub(a)
		ac := c.Sub(a)

		acPerp := TripleProduct(ab, ac, ac)
		if acPerp.Dot(ao) >= 0 {
			// The origin is outside ac, drop b.
			*simplex = append(s[:0], c, a)
			*d = acPerp
			return false
		}

		abPerp := TripleProduct(ac, ab, ab)
		if abPerp.Dot(ao) < 0 {
			return true
		}
		// The origin is outside ab, drop c.
		*simplex = append(s[:0], b, a)
		*d = abPerp
		return false
	}

	b := s[0]
	ab := b.Sub(a)
	*d = TripleProduct(ab, ao, ab)
	if d.IsZero() {
		// The origin lies on ab.
		*d = ab.Perp()
	}
	return false
}

// Distance finds the closest points of two separated shapes.
// It returns false when the shapes overlap.
func (g *GJK) Distance(a Convex, txa Transform, b Convex, txb Transform, s *Separation) bool {
	if ca, cb, ok := asCircles(a, b); ok {
		return g.circles.Distance(ca, txa, cb, txb, s)
	}

	ms := NewMinkowskiSum(a, txa, b, txb)
	d := WorldCenter(b, txb).Sub(WorldCenter(a, txa))
	if d.IsZero() {
		return false
	}

	// Search against the minkowski difference A - B, q is its closest known point to the origin.
	v0 := ms.SupportPoints(d.Neg())
	v1 := ms.SupportPoints(d)
	q := Vector{}.ClosestPointOnSegment(v0.Point, v1.Point)

	for i := 0; i < g.maxIterations; i++ {
		if q.LengthSq() <= Epsilon {
			return false
		}
		d = q.Neg().Normalize()

		p := ms.SupportPoints(d)
		if containsOrigin(v0.Point, v1.Point, p.Point) {
			return false
		}

		// No progress towards the origin, v0 -> v1 is the closest edge.
		if p.Point.Dot(d)-q.Dot(d) < g.distanceEpsilon {
			g.separation(v0, v1, s)
			return true
		}

		c0 := Vector{}.ClosestPointOnSegment(v0.Point, p.Point)
		c1 := Vector{}.ClosestPointOnSegment(p.Point, v1.Point)
		if c0.LengthSq() < c1.LengthSq() {
			v1 = p
			q = c0
		} else {
			v0 = p
			q = c1
		}
	}

	g.logger.Debug("GJK distance iteration limit reached", zap.Int("iterations", g.maxIterations))
	g.separation(v0, v1, s)
	return true
}

func (g *GJK) separation(v0, v1 MinkowskiPoint, s *Separation) {
	p1, p2 := findClosestPoints(v0, v1)
	n, l := p2.Sub(p1).Normalized()
	s.Normal = n
	s.Distance = l
	s.Point1 = p1
	s.Point2 = p2
}

// containsOrigin reports whether the triangle abc strictly encloses the origin.
func containsOrigin(a, b, c Vector) bool {
	sa := a.Cross(b)
	sb := b.Cross(c)
	sc := c.Cross(a)
	return sa*sb > 0 && sa*sc > 0
}

// Raycast casts ray against c using conservative advancement. Circles and segments use their
// closed forms. A ray starting inside the shape does not hit it.
func (g *GJK) Raycast(ray Ray, maxLength float64, c Convex, tx Transform, result *Raycast) bool {
	if circle, ok := c.(*Circle); ok {
		return g.circles.Raycast(ray, maxLength, circle, tx, result)
	}
	if seg, ok := asSegment(c); ok {
		return g.segments.Raycast(ray, maxLength, seg, tx, result)
	}
	if c.Contains(ray.Start, tx) {
		return false
	}

	lambda := 0.0
	r := ray.Direction
	x := ray.Start
	var n Vector

	// v points from the shape towards x.
	v := x.Sub(WorldCenter(c, tx))
	simplex := make([]Vector, 0, 2)
	distanceSq := INFINITY

	for i := 0; distanceSq > g.distanceEpsilon; i++ {
		if i == g.maxIterations {
			g.logger.Debug("GJK raycast iteration limit reached", zap.Int("iterations", g.maxIterations))
			return false
		}

		p := c.FarthestPoint(v, tx)
		w := x.Sub(p)
		vw := v.Dot(w)
		if vw > 0 {
			vr := v.Dot(r)
			if vr >= 0 {
				// Moving away from the shape.
				return false
			}
			lambda -= vw / vr
			if maxLength > 0 && lambda > maxLength {
				return false
			}
			x = ray.PointAt(lambda)
			n = v
		} else if inSimplex(simplex, p, g.distanceEpsilon) {
			// x did not move and the support point is already known, the simplex cannot
			// get any closer. This happens on flat sides where support points tie.
			break
		}

		switch len(simplex) {
		case 0:
			simplex = append(simplex, p)
			v = x.Sub(p)
		case 1:
			simplex = append(simplex, p)
			v = x.Sub(x.ClosestPointOnSegment(simplex[0], simplex[1]))
		default:
			q0 := x.ClosestPointOnSegment(simplex[0], p)
			q1 := x.ClosestPointOnSegment(p, simplex[1])
			if q0.DistanceSq(x) < q1.DistanceSq(x) {
				simplex[1] = p
				v = x.Sub(q0)
			} else {
				simplex[0] = p
				v = x.Sub(q1)
			}
		}
		distanceSq = v.LengthSq()
	}

	result.Point = x
	result.Normal = n.Normalize()
	result.Distance = lambda
	return true
}

func inSimplex(simplex []Vector, p Vector, eps float64) bool {
	for _, s := range simplex {
		if s.DistanceSq(p) <= eps*eps {
			return true
		}
	}
	return false
}
