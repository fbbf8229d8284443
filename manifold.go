package narrowphase

import "math"

// ClippingManifoldSolver builds contact manifolds by clipping the incident edge of one shape
// against the side planes of the reference edge of the other.
type ClippingManifoldSolver struct{}

func NewClippingManifoldSolver() *ClippingManifoldSolver {
	return &ClippingManifoldSolver{}
}

// Manifold writes up to two contact points for the penetration p of a and b to m.
// The manifold normal is p's normal and points from a to b. After a confirmed overlap
// the manifold is never empty.
func (ClippingManifoldSolver) Manifold(p Penetration, a Convex, txa Transform, b Convex, txb Transform, m *Manifold) bool {
	m.Clear()
	n := p.Normal
	m.Normal = n

	fa := a.FarthestFeature(n, txa)
	fb := b.FarthestFeature(n.Neg(), txb)

	// A vertex on either side means a single contact.
	if !fa.IsEdge() {
		m.push(DistanceID, fa.Max.Point, p.Depth)
		return true
	}
	if !fb.IsEdge() {
		m.push(DistanceID, fb.Max.Point, p.Depth)
		return true
	}

	// The reference edge is the one most perpendicular to the normal.
	ref, inc := fa, fb
	flipped := false
	if math.Abs(fa.Edge.Normalize().Dot(n)) > math.Abs(fb.Edge.Normalize().Dot(n)) {
		ref, inc = fb, fa
		flipped = true
	}

	refev := ref.Edge.Normalize()
	// Every feature edge is wound so its clockwise perpendicular is the outward normal.
	front := refev.ReversePerp()
	frontOffset := front.Dot(ref.Max.Point)

	clipped, count := clipEdge(inc.V1, inc.V2, refev, refev.Dot(ref.V1.Point))
	if count == 2 {
		clipped, count = clipEdge(clipped[0], clipped[1], refev.Neg(), -refev.Dot(ref.V2.Point))
	}

	if count == 2 {
		for _, cp := range clipped {
			depth := frontOffset - front.Dot(cp.Point)
			if depth < 0 {
				continue
			}
			m.push(manifoldPointID(ref.Index, inc.Index, cp.Index, flipped), cp.Point, depth)
		}
	}

	if len(m.Points) == 0 {
		deepest := inc.V1
		if front.Dot(inc.V2.Point) < front.Dot(deepest.Point) {
			deepest = inc.V2
		}
		m.push(DistanceID, deepest.Point, p.Depth)
	}
	return true
}

// clipEdge keeps the part of v1 -> v2 where n.p >= o. A clipped endpoint keeps its index.
func clipEdge(v1, v2 PointFeature, n Vector, o float64) ([2]PointFeature, int) {
	var clipped [2]PointFeature
	count := 0

	d1 := n.Dot(v1.Point) - o
	d2 := n.Dot(v2.Point) - o
	if d1 >= 0 {
		clipped[count] = v1
		count++
	}
	if d2 >= 0 {
		clipped[count] = v2
		count++
	}

	if d1*d2 < 0 {
		u := d1 / (d1 - d2)
		p := v1.Point.Lerp(v2.Point, u)
		if d1 < 0 {
			clipped[count] = PointFeature{p, v1.Index}
		} else {
			clipped[count] = PointFeature{p, v2.Index}
		}
		count++
	}
	return clipped, count
}
