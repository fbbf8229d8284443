package narrowphase

import "math"

const (
	// Epsilon is the machine epsilon for float64.
	Epsilon = 0x1p-52

	// DefaultDistanceEpsilon is the square root of Epsilon.
	DefaultDistanceEpsilon = 0x1p-26

	INFINITY = math.MaxFloat64
)

// Penetration is the minimum translation vector of two overlapping shapes.
// Normal points from the first shape to the second and is unit length.
// Depth is only meaningful when a detector reported an intersection.
type Penetration struct {
	Normal Vector
	Depth  float64
}

func (p *Penetration) Clear() {
	p.Normal = Vector{}
	p.Depth = 0
}

// Vector returns the full translation vector, Normal * Depth.
func (p Penetration) Vector() Vector {
	return p.Normal.Mult(p.Depth)
}

// Separation describes two shapes that do not overlap.
type Separation struct {
	/// Unit vector pointing from the first shape to the second.
	Normal Vector
	/// The shortest distance between the shapes.
	Distance float64
	/// The closest point on the first shape (in world space coordinates)
	Point1 Vector
	/// The closest point on the second shape (in world space coordinates)
	Point2 Vector
}

func (s *Separation) Clear() {
	*s = Separation{}
}

// Ray is a half line starting at Start. Direction is unit length.
type Ray struct {
	Start     Vector
	Direction Vector
}

func NewRay(start, direction Vector) (Ray, error) {
	n, l := direction.Normalized()
	if l <= Epsilon {
		return Ray{}, invalidArgument("ray direction must be non-zero")
	}
	return Ray{start, n}, nil
}

func (r Ray) PointAt(distance float64) Vector {
	return r.Start.Add(r.Direction.Mult(distance))
}

// Raycast is the result of a successful ray query.
type Raycast struct {
	/// The point of impact.
	Point Vector
	/// The normal of the surface hit.
	Normal Vector
	/// The distance along the ray from its start.
	Distance float64
}

func (r *Raycast) Clear() {
	*r = Raycast{}
}

// ManifoldPointID identifies a contact point across steps so a solver can warm start it.
// DistanceID is used for single point contacts built directly from a penetration.
type ManifoldPointID uint64

const DistanceID ManifoldPointID = 0

type ManifoldPoint struct {
	ID    ManifoldPointID
	Point Vector
	Depth float64
}

// Manifold is the set of contact points between two shapes. It never holds more than two points.
// Normal points from the first shape to the second.
type Manifold struct {
	Normal Vector
	Points []ManifoldPoint
}

// Clear empties the manifold but keeps the point storage for reuse.
func (m *Manifold) Clear() {
	m.Normal = Vector{}
	m.Points = m.Points[:0]
}

func (m *Manifold) push(id ManifoldPointID, p Vector, depth float64) {
	m.Points = append(m.Points, ManifoldPoint{id, p, depth})
}

// PointFeature is a single point of a shape. Index is the vertex index or -1 when the point
// lies on a curve.
type PointFeature struct {
	Point Vector
	Index int
}

type FeatureKind int

const (
	FEATURE_VERTEX FeatureKind = iota
	FEATURE_EDGE
)

// Feature is the farthest feature of a shape in a direction: a vertex or an edge.
type Feature struct {
	Kind FeatureKind

	// The edge's endpoints. For a vertex feature only Max is set.
	V1, V2 PointFeature
	// The vertex of the feature farthest in the search direction.
	Max PointFeature
	// V2 - V1
	Edge Vector
	// The edge index, used for contact ids.
	Index int
}

func NewVertexFeature(p Vector, index int) Feature {
	pf := PointFeature{p, index}
	return Feature{Kind: FEATURE_VERTEX, V1: pf, V2: pf, Max: pf, Index: index}
}

func NewEdgeFeature(v1, v2, max PointFeature, index int) Feature {
	return Feature{
		Kind:  FEATURE_EDGE,
		V1:    v1,
		V2:    v2,
		Max:   max,
		Edge:  v2.Point.Sub(v1.Point),
		Index: index,
	}
}

func (f Feature) IsEdge() bool {
	return f.Kind == FEATURE_EDGE
}
