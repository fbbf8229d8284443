package narrowphase

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type ShapeKind int

// Shape kinds
const (
	SHAPE_CIRCLE ShapeKind = iota
	SHAPE_POLYGON
	SHAPE_RECTANGLE
	SHAPE_TRIANGLE
	SHAPE_SEGMENT
	SHAPE_LINK
	SHAPE_CAPSULE
	SHAPE_ELLIPSE
	SHAPE_HALF_ELLIPSE
	SHAPE_SLICE
	SHAPE_KIND_NUM
)

var shapeKindNames = [SHAPE_KIND_NUM]string{
	"circle",
	"polygon",
	"rectangle",
	"triangle",
	"segment",
	"link",
	"capsule",
	"ellipse",
	"halfellipse",
	"slice",
}

func (k ShapeKind) String() string {
	if k < 0 || k >= SHAPE_KIND_NUM {
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
	return shapeKindNames[k]
}

func ParseShapeKind(name string) (ShapeKind, error) {
	name = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
	for i, n := range shapeKindNames {
		if n == name {
			return ShapeKind(i), nil
		}
	}
	return 0, invalidArgument("unknown shape kind %q", name)
}

// Parent returns the kind k specializes, or k itself for the base kinds.
func (k ShapeKind) Parent() ShapeKind {
	switch k {
	case SHAPE_RECTANGLE, SHAPE_TRIANGLE:
		return SHAPE_POLYGON
	case SHAPE_LINK:
		return SHAPE_SEGMENT
	}
	return k
}

// Is reports whether k is other or a specialization of it.
func (k ShapeKind) Is(other ShapeKind) bool {
	return k == other || k.Parent() == other
}

// SupportsSAT reports whether shapes of this kind can produce separating axes and foci.
func (k ShapeKind) SupportsSAT() bool {
	return k != SHAPE_ELLIPSE && k != SHAPE_HALF_ELLIPSE
}

// Convex is implemented by every shape the detectors can work with.
// All queries take the shape's transform and answer in world space.
type Convex interface {
	Kind() ShapeKind
	ID() uuid.UUID
	// Center is the centroid in local space.
	Center() Vector
	// Radius is the maximum distance from the center to any point of the shape.
	Radius() float64

	FarthestPoint(n Vector, tx Transform) Vector
	FarthestFeature(n Vector, tx Transform) Feature
	Project(n Vector, tx Transform) Interval
	// Axes returns the SAT axes to test, including the axes towards the given foci of the other shape.
	Axes(foci []Vector, tx Transform) ([]Vector, error)
	// Foci returns the centers of the curved parts of the shape, nil for shapes without curves.
	Foci(tx Transform) ([]Vector, error)
	Contains(p Vector, tx Transform) bool
	BB(tx Transform) BB

	// Rotate rotates the local geometry theta radians about a local point.
	Rotate(theta float64, about Vector)
	// Translate moves the local geometry.
	Translate(v Vector)
}

// SupportsSAT reports whether SAT can be used with the shape.
func SupportsSAT(c Convex) bool {
	return c.Kind().SupportsSAT()
}

// Shape holds what every convex shape has in common.
type Shape struct {
	id     uuid.UUID
	center Vector
	radius float64

	UserData interface{}
}

func newShape(center Vector, radius float64) Shape {
	return Shape{
		id:     uuid.New(),
		center: center,
		radius: radius,
	}
}

func (s *Shape) ID() uuid.UUID {
	return s.id
}

func (s *Shape) Center() Vector {
	return s.center
}

func (s *Shape) Radius() float64 {
	return s.radius
}

// WorldCenter returns the center of a shape in world space.
func WorldCenter(c Convex, tx Transform) Vector {
	return tx.Point(c.Center())
}

// RotateAboutCenter rotates a shape in place around its own center.
func RotateAboutCenter(c Convex, theta float64) {
	c.Rotate(theta, c.Center())
}

// projectBySupport projects any convex shape onto n using two support queries.
func projectBySupport(c Convex, n Vector, tx Transform) Interval {
	max := c.FarthestPoint(n, tx).Dot(n)
	min := c.FarthestPoint(n.Neg(), tx).Dot(n)
	return Interval{min, max}
}

// bbBySupport computes the world space BB of any convex shape with four support queries.
func bbBySupport(c Convex, tx Transform) BB {
	return BB{
		L: c.FarthestPoint(Vector{-1, 0}, tx).X,
		B: c.FarthestPoint(Vector{0, -1}, tx).Y,
		R: c.FarthestPoint(Vector{1, 0}, tx).X,
		T: c.FarthestPoint(Vector{0, 1}, tx).Y,
	}
}

// farthestVertexIndex returns the index of the vertex with the greatest projection onto n.
// Ties keep the first vertex found.
func farthestVertexIndex(verts []Vector, n Vector) int {
	max := -INFINITY
	index := 0
	for i, v := range verts {
		d := v.Dot(n)
		if d > max {
			max = d
			index = i
		}
	}
	return index
}

// pickEdge chooses which of the two edges meeting at the farthest vertex i of a counter-clockwise
// loop is the farthest feature in the local direction n. normals[i] belongs to edge i -> i+1.
// The edge whose normal is more aligned with n wins; a tie keeps the edge that ends at i.
func pickEdge(verts, normals []Vector, i int, n Vector, tx Transform) Feature {
	count := len(verts)
	prev := (i - 1 + count) % count
	next := (i + 1) % count

	max := PointFeature{tx.Point(verts[i]), i}
	if normals[i].Dot(n) > normals[prev].Dot(n) {
		return NewEdgeFeature(max, PointFeature{tx.Point(verts[next]), next}, max, i)
	}
	return NewEdgeFeature(PointFeature{tx.Point(verts[prev]), prev}, max, max, prev)
}

// closestVertexAxes appends, for each focus, the unit axis from the closest vertex to that focus.
func closestVertexAxes(axes []Vector, verts []Vector, foci []Vector, tx Transform) []Vector {
	for _, f := range foci {
		closest := Vector{}
		min := INFINITY
		for _, v := range verts {
			p := tx.Point(v)
			if d := p.DistanceSq(f); d < min {
				min = d
				closest = p
			}
		}
		axes = append(axes, f.Sub(closest).Normalize())
	}
	return axes
}
