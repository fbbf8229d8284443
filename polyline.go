package narrowphase

import "math"

// PolyLine is an ordered list of vertices used to build link chains.
// A closed polyline repeats its first vertex at the end.
type PolyLine struct {
	Verts []Vector
}

func NewPolyLine(verts ...Vector) *PolyLine {
	return &PolyLine{Verts: append([]Vector(nil), verts...)}
}

func (pl *PolyLine) Push(v Vector) *PolyLine {
	pl.Verts = append(pl.Verts, v)
	return pl
}

// Close repeats the first vertex at the end unless the polyline is already closed.
func (pl *PolyLine) Close() *PolyLine {
	if len(pl.Verts) > 2 && !pl.IsClosed() {
		pl.Verts = append(pl.Verts, pl.Verts[0])
	}
	return pl
}

func (pl *PolyLine) IsClosed() bool {
	return len(pl.Verts) > 1 && pl.Verts[0].Equal(pl.Verts[len(pl.Verts)-1])
}

// sharpness is the cosine of the angle at b, -1 when a, b and c are collinear.
func sharpness(a, b, c Vector) float64 {
	return a.Sub(b).Normalize().Dot(c.Sub(b).Normalize())
}

// SimplifyVertexes merges adjacent links whose joint bends less than tol radians, which
// removes vertices a chain does not need. It returns a new polyline.
func (pl *PolyLine) SimplifyVertexes(tol float64) *PolyLine {
	if len(pl.Verts) < 3 {
		return NewPolyLine(pl.Verts...)
	}

	limit := -math.Cos(tol)
	out := NewPolyLine(pl.Verts[0], pl.Verts[1])
	for _, v := range pl.Verts[2:] {
		last := len(out.Verts) - 1
		if sharpness(out.Verts[last-1], out.Verts[last], v) <= limit {
			out.Verts[last] = v
			continue
		}
		out.Push(v)
	}

	// The seam of a closed polyline can be straight too.
	n := len(out.Verts)
	if pl.IsClosed() && n > 3 && sharpness(out.Verts[n-2], out.Verts[0], out.Verts[1]) < limit {
		out.Verts[0] = out.Verts[n-2]
		out.Verts = out.Verts[:n-1]
	}
	return out
}

// Chain builds a chain of links along the polyline. Closed polylines produce closed chains.
func (pl *PolyLine) Chain() (*Chain, error) {
	if pl.IsClosed() {
		return NewChain(pl.Verts[:len(pl.Verts)-1], true)
	}
	return NewChain(pl.Verts, false)
}
