package narrowphase

import "math"

// PolyShape is a convex polygon with counter-clockwise winding.
// Rectangles and triangles are polygons with a more specific kind.
type PolyShape struct {
	Shape

	kind ShapeKind

	verts []Vector
	// normals[i] is the outward normal of the edge verts[i] -> verts[i+1].
	normals []Vector
}

// NewPolygon creates a polygon from counter-clockwise wound vertices.
func NewPolygon(verts ...Vector) (*PolyShape, error) {
	return newPolyShape(SHAPE_POLYGON, verts)
}

// NewPolygonHull creates a polygon from the convex hull of an arbitrary set of points.
func NewPolygonHull(points ...Vector) (*PolyShape, error) {
	if len(points) < 3 {
		return nil, invalidArgument("a polygon hull needs at least 3 points, got %d", len(points))
	}
	return newPolyShape(SHAPE_POLYGON, ConvexHull(points, 0))
}

// NewRectangle creates an axis aligned rectangle centered on the origin.
func NewRectangle(w, h float64) (*PolyShape, error) {
	if w <= 0 || h <= 0 {
		return nil, invalidArgument("rectangle width and height must be positive, got %v x %v", w, h)
	}
	hw := w / 2.0
	hh := h / 2.0
	bb := BB{-hw, -hh, hw, hh}
	verts := []Vector{
		{bb.L, bb.B},
		{bb.R, bb.B},
		{bb.R, bb.T},
		{bb.L, bb.T},
	}
	return newPolyShape(SHAPE_RECTANGLE, verts)
}

func NewTriangle(p1, p2, p3 Vector) (*PolyShape, error) {
	return newPolyShape(SHAPE_TRIANGLE, []Vector{p1, p2, p3})
}

// NewRegularPolygon creates a polygon with count vertices on a circle of the given radius.
func NewRegularPolygon(count int, radius float64) (*PolyShape, error) {
	if count < 3 {
		return nil, invalidArgument("a regular polygon needs at least 3 vertices, got %d", count)
	}
	if radius <= 0 {
		return nil, invalidArgument("regular polygon radius must be positive, got %v", radius)
	}
	verts := make([]Vector, count)
	step := 2 * math.Pi / float64(count)
	for i := range verts {
		verts[i] = ForAngle(float64(i) * step).Mult(radius)
	}
	return newPolyShape(SHAPE_POLYGON, verts)
}

func newPolyShape(kind ShapeKind, verts []Vector) (*PolyShape, error) {
	if err := validatePolygon(verts); err != nil {
		return nil, err
	}

	count := len(verts)
	poly := &PolyShape{
		kind:    kind,
		verts:   make([]Vector, count),
		normals: make([]Vector, count),
	}
	copy(poly.verts, verts)
	for i := 0; i < count; i++ {
		a := verts[i]
		b := verts[(i+1)%count]
		poly.normals[i] = b.Sub(a).ReversePerp().Normalize()
	}

	centroid := CentroidForPoly(verts)
	radius := 0.0
	for _, v := range verts {
		radius = math.Max(radius, v.Distance(centroid))
	}
	poly.Shape = newShape(centroid, radius)
	return poly, nil
}

func validatePolygon(verts []Vector) error {
	count := len(verts)
	if count < 3 {
		return invalidArgument("a polygon needs at least 3 vertices, got %d", count)
	}

	sign := 0
	turning := 0.0
	for i := 0; i < count; i++ {
		p0 := verts[(i-1+count)%count]
		p1 := verts[i]
		p2 := verts[(i+1)%count]

		if p1.Near(p2, math.Sqrt(Epsilon)) {
			return invalidArgument("polygon has coincident vertices at index %d", i)
		}

		e1 := p1.Sub(p0)
		e2 := p2.Sub(p1)
		cross := e1.Cross(e2)
		turning += math.Atan2(cross, e1.Dot(e2))

		if math.Abs(cross) <= Epsilon {
			continue
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign != 0 && s != sign {
			return invalidArgument("polygon must be convex")
		}
		sign = s
	}

	if sign == 0 {
		return invalidArgument("polygon vertices are collinear")
	}
	if sign < 0 {
		return invalidArgument("polygon must have counter-clockwise winding")
	}
	// A convex simple polygon turns exactly once.
	if turning > 2*math.Pi+1e-6 {
		return invalidArgument("polygon must not self-intersect")
	}
	return nil
}

func (poly *PolyShape) Kind() ShapeKind {
	return poly.kind
}

func (poly *PolyShape) Count() int {
	return len(poly.verts)
}

// Vertices returns a copy of the local space vertices.
func (poly *PolyShape) Vertices() []Vector {
	return append([]Vector(nil), poly.verts...)
}

// Normals returns a copy of the local space edge normals.
func (poly *PolyShape) Normals() []Vector {
	return append([]Vector(nil), poly.normals...)
}

func (poly *PolyShape) FarthestPoint(n Vector, tx Transform) Vector {
	i := farthestVertexIndex(poly.verts, tx.Unvect(n))
	return tx.Point(poly.verts[i])
}

// FarthestFeature always returns an edge for polygons.
func (poly *PolyShape) FarthestFeature(n Vector, tx Transform) Feature {
	local := tx.Unvect(n)
	i := farthestVertexIndex(poly.verts, local)
	return pickEdge(poly.verts, poly.normals, i, local, tx)
}

func (poly *PolyShape) Project(n Vector, tx Transform) Interval {
	min := INFINITY
	max := -INFINITY
	for _, v := range poly.verts {
		d := tx.Point(v).Dot(n)
		min = math.Min(min, d)
		max = math.Max(max, d)
	}
	return Interval{min, max}
}

func (poly *PolyShape) Axes(foci []Vector, tx Transform) ([]Vector, error) {
	axes := make([]Vector, 0, len(poly.normals)+len(foci))
	for _, n := range poly.normals {
		axes = append(axes, tx.Vect(n))
	}
	return closestVertexAxes(axes, poly.verts, foci, tx), nil
}

func (poly *PolyShape) Foci(Transform) ([]Vector, error) {
	return nil, nil
}

func (poly *PolyShape) Contains(p Vector, tx Transform) bool {
	local := tx.Unpoint(p)
	for i, v := range poly.verts {
		if poly.normals[i].Dot(local.Sub(v)) > 0 {
			return false
		}
	}
	return true
}

func (poly *PolyShape) BB(tx Transform) BB {
	bb := BB{INFINITY, INFINITY, -INFINITY, -INFINITY}
	for _, v := range poly.verts {
		bb = bb.Expand(tx.Point(v))
	}
	return bb
}

func (poly *PolyShape) Rotate(theta float64, about Vector) {
	rot := ForAngle(theta)
	for i := range poly.verts {
		poly.verts[i] = poly.verts[i].RotateAbout(theta, about)
		poly.normals[i] = poly.normals[i].Rotate(rot)
	}
	poly.center = poly.center.RotateAbout(theta, about)
}

func (poly *PolyShape) Translate(v Vector) {
	for i := range poly.verts {
		poly.verts[i] = poly.verts[i].Add(v)
	}
	poly.center = poly.center.Add(v)
}

// CentroidForPoly returns the area weighted centroid of a simple polygon.
func CentroidForPoly(verts []Vector) Vector {
	count := len(verts)
	sum := 0.0
	vsum := Vector{}

	for i := 0; i < count; i++ {
		v1 := verts[i]
		v2 := verts[(i+1)%count]
		cross := v1.Cross(v2)

		sum += cross
		vsum = vsum.Add(v1.Add(v2).Mult(cross))
	}

	if math.Abs(sum) <= Epsilon {
		// Degenerate, fall back to the vertex average.
		avg := Vector{}
		for _, v := range verts {
			avg = avg.Add(v)
		}
		return avg.Mult(1.0 / float64(count))
	}
	return vsum.Mult(1.0 / (3.0 * sum))
}

// AreaForPoly returns the signed area of a polygon. Counter-clockwise polygons are positive.
func AreaForPoly(verts []Vector) float64 {
	area := 0.0
	count := len(verts)
	for i := 0; i < count; i++ {
		area += verts[i].Cross(verts[(i+1)%count])
	}
	return area * 0.5
}

// ConvexHull returns the counter-clockwise convex hull of verts. The input is not modified.
// It runs QuickHull in place on a copy of the input.
func ConvexHull(verts []Vector, tol float64) []Vector {
	hull := append([]Vector(nil), verts...)
	count := len(hull)
	if count == 0 {
		return hull
	}

	start, end := LoopIndexes(hull)
	if start == end {
		return hull[:1]
	}

	hull[0], hull[start] = hull[start], hull[0]
	if end == 0 {
		end = start
	}
	hull[1], hull[end] = hull[end], hull[1]

	a := hull[0]
	b := hull[1]

	n := QHullReduce(tol, hull[2:], count-2, a, b, a, hull[1:]) + 1
	return hull[:n]
}

// LoopIndexes returns the indexes of the lowest-leftmost and highest-rightmost vertices.
func LoopIndexes(verts []Vector) (int, int) {
	start := 0
	end := 0

	min := verts[0]
	max := min

	for i := 1; i < len(verts); i++ {
		v := verts[i]

		if v.X < min.X || (v.X == min.X && v.Y < min.Y) {
			min = v
			start = i
		} else if v.X > max.X || (v.X == max.X && v.Y > max.Y) {
			max = v
			end = i
		}
	}

	return start, end
}

func QHullReduce(tol float64, verts []Vector, count int, a, pivot, b Vector, result []Vector) int {
	if count < 0 {
		return 0
	}

	if count == 0 {
		result[0] = pivot
		return 1
	}

	leftCount := QHullPartition(verts, count, a, pivot, tol)
	index := QHullReduce(tol, verts[1:], leftCount-1, a, verts[0], pivot, result)

	result[index] = pivot
	index++

	rightCount := QHullPartition(verts[leftCount:], count-leftCount, pivot, b, tol)

	// Go doesn't let you just walk off the end of an array, so added a short circuit here
	if rightCount-1 < 0 {
		return index
	}

	return index + QHullReduce(tol, verts[leftCount+1:], rightCount-1, pivot, verts[leftCount], b, result[index:])
}

func QHullPartition(verts []Vector, count int, a, b Vector, tol float64) int {
	if count == 0 {
		return 0
	}

	max := 0.0
	pivot := 0

	delta := b.Sub(a)
	valueTol := tol * delta.Length()

	head := 0
	for tail := count - 1; head <= tail; {
		value := verts[head].Sub(a).Cross(delta)
		if value > valueTol {
			if value > max {
				max = value
				pivot = head
			}

			head++
		} else {
			verts[head], verts[tail] = verts[tail], verts[head]
			tail--
		}
	}

	// move the new pivot to the front if it's not already there.
	if pivot != 0 {
		verts[0], verts[pivot] = verts[pivot], verts[0]
	}
	return head
}
