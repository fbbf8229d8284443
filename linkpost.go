package narrowphase

import (
	"math"

	"go.uber.org/zap"
)

// LinkPostProcessor fixes normals of collisions with links. A normal computed against a single
// link can point into the chain at a shared vertex; the neighbours limit the range of normals
// the joint allows and the normal is clamped into that range.
type LinkPostProcessor struct {
	logger *zap.Logger
}

func NewLinkPostProcessor(logger *zap.Logger) *LinkPostProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkPostProcessor{logger: logger}
}

func (lp *LinkPostProcessor) Process(a Convex, txa Transform, b Convex, txb Transform, p *Penetration) {
	if link, ok := a.(*Link); ok {
		lp.process(link, txa, WorldCenter(b, txb), p)
		return
	}
	if link, ok := b.(*Link); ok {
		// The range is computed for normals pointing away from the link.
		p.Normal = p.Normal.Neg()
		lp.process(link, txb, WorldCenter(a, txa), p)
		p.Normal = p.Normal.Neg()
	}
}

// linkNormalRange is the range of normals a link joint allows, pointing away from the link.
type linkNormalRange struct {
	normal, lower, upper Vector
}

// normalRange classifies the link's joints as convex or concave, finds the side the other
// shape's center is on and returns the allowed normals. ok is false for a link without neighbours.
func normalRange(link *Link, tx Transform, center Vector) (r linkNormalRange, ok bool) {
	v0, hasVertex0 := link.Point0()
	v3, hasVertex3 := link.Point3()
	if !hasVertex0 && !hasVertex3 {
		return r, false
	}

	v1 := tx.Point(link.a)
	v2 := tx.Point(link.b)

	edge1 := v2.Sub(v1).Normalize()
	normal1 := edge1.ReversePerp()
	offset1 := normal1.Dot(center.Sub(v1))

	var normal0, normal2 Vector
	var offset0, offset2 float64
	var convex1, convex2 bool
	if hasVertex0 {
		v0 = tx.Point(v0)
		edge0 := v1.Sub(v0).Normalize()
		normal0 = edge0.ReversePerp()
		convex1 = edge0.Cross(edge1) >= 0
		offset0 = normal0.Dot(center.Sub(v0))
	}
	if hasVertex3 {
		v3 = tx.Point(v3)
		edge2 := v3.Sub(v2).Normalize()
		normal2 = edge2.ReversePerp()
		convex2 = edge1.Cross(edge2) > 0
		offset2 = normal2.Dot(center.Sub(v2))
	}

	var front bool
	switch {
	case hasVertex0 && hasVertex3:
		switch {
		case convex1 && convex2:
			front = offset0 >= 0 || offset1 >= 0 || offset2 >= 0
			if front {
				r = linkNormalRange{normal1, normal0, normal2}
			} else {
				r = linkNormalRange{normal1.Neg(), normal1.Neg(), normal1.Neg()}
			}
		case convex1:
			front = offset0 >= 0 || (offset1 >= 0 && offset2 >= 0)
			if front {
				r = linkNormalRange{normal1, normal0, normal1}
			} else {
				r = linkNormalRange{normal1.Neg(), normal2.Neg(), normal1.Neg()}
			}
		case convex2:
			front = offset2 >= 0 || (offset0 >= 0 && offset1 >= 0)
			if front {
				r = linkNormalRange{normal1, normal1, normal2}
			} else {
				r = linkNormalRange{normal1.Neg(), normal1.Neg(), normal0.Neg()}
			}
		default:
			front = offset0 >= 0 && offset1 >= 0 && offset2 >= 0
			if front {
				r = linkNormalRange{normal1, normal1, normal1}
			} else {
				r = linkNormalRange{normal1.Neg(), normal2.Neg(), normal0.Neg()}
			}
		}
	case hasVertex0:
		if convex1 {
			front = offset0 >= 0 || offset1 >= 0
			if front {
				r = linkNormalRange{normal1, normal0, normal1.Neg()}
			} else {
				r = linkNormalRange{normal1.Neg(), normal1, normal1.Neg()}
			}
		} else {
			front = offset0 >= 0 && offset1 >= 0
			if front {
				r = linkNormalRange{normal1, normal1, normal1.Neg()}
			} else {
				r = linkNormalRange{normal1.Neg(), normal1, normal0.Neg()}
			}
		}
	default:
		if convex2 {
			front = offset1 >= 0 || offset2 >= 0
			if front {
				r = linkNormalRange{normal1, normal1.Neg(), normal2}
			} else {
				r = linkNormalRange{normal1.Neg(), normal1.Neg(), normal1}
			}
		} else {
			front = offset1 >= 0 && offset2 >= 0
			if front {
				r = linkNormalRange{normal1, normal1.Neg(), normal1}
			} else {
				r = linkNormalRange{normal1.Neg(), normal2.Neg(), normal1}
			}
		}
	}
	return r, true
}

func (lp *LinkPostProcessor) process(link *Link, tx Transform, center Vector, p *Penetration) {
	r, ok := normalRange(link, tx, center)
	if !ok {
		return
	}

	n := p.Normal
	// perp points along the link, towards its second point for a front facing normal.
	perp := r.normal.Perp()

	var clamped Vector
	if n.Dot(perp) >= 0 {
		if n.Dot(r.normal) >= r.upper.Dot(r.normal)-DefaultDistanceEpsilon {
			return
		}
		clamped = r.upper
	} else {
		if n.Dot(r.normal) >= r.lower.Dot(r.normal)-DefaultDistanceEpsilon {
			return
		}
		clamped = r.lower
	}

	cos := math.Abs(n.Dot(clamped))
	if cos > Epsilon {
		p.Depth *= cos
	}
	p.Normal = clamped

	if ce := lp.logger.Check(zap.DebugLevel, "link normal clamped"); ce != nil {
		ce.Write(zap.Int("link", link.index), zap.Stringer("from", n), zap.Stringer("to", clamped))
	}
}
