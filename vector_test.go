package narrowphase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector_Normalize(t *testing.T) {
	v := Vector{}
	u := v.Normalize()
	assert.Equal(t, Vector{}, u)

	u = Vector{3, 4}.Normalize()
	assert.InDelta(t, 0.6, u.X, 1e-12)
	assert.InDelta(t, 0.8, u.Y, 1e-12)
}

func TestVector_Normalized(t *testing.T) {
	n, l := Vector{0, -2}.Normalized()
	assert.Equal(t, Vector{0, -1}, n)
	assert.Equal(t, 2.0, l)

	n, l = Vector{}.Normalized()
	assert.Equal(t, Vector{}, n)
	assert.Equal(t, 0.0, l)
}

func TestVector_Perp(t *testing.T) {
	v := Vector{1, 0}
	assert.Equal(t, Vector{0, 1}, v.Perp())
	assert.Equal(t, Vector{0, -1}, v.ReversePerp())
	assert.Equal(t, 1.0, v.Cross(v.Perp()))
}

func TestVector_RotateAbout(t *testing.T) {
	v := Vector{2, 1}.RotateAbout(math.Pi/2, Vector{1, 1})
	assert.InDelta(t, 1.0, v.X, 1e-12)
	assert.InDelta(t, 2.0, v.Y, 1e-12)

	r := ForAngle(0.3)
	back := Vector{1, 2}.Rotate(r).Unrotate(r)
	assert.InDelta(t, 1.0, back.X, 1e-12)
	assert.InDelta(t, 2.0, back.Y, 1e-12)
}

func TestTripleProduct(t *testing.T) {
	// The perpendicular of ab pointing towards the origin.
	a := Vector{-1, 1}
	b := Vector{1, 1}
	ab := b.Sub(a)
	ao := a.Neg()
	d := TripleProduct(ab, ao, ab)
	assert.InDelta(t, 0.0, d.X, 1e-12)
	assert.Less(t, d.Y, 0.0)
}

func TestVector_ClosestPointOnSegment(t *testing.T) {
	a := Vector{-1, 1}
	b := Vector{1, 1}
	assert.Equal(t, Vector{0, 1}, Vector{}.ClosestPointOnSegment(a, b))
	assert.Equal(t, b, Vector{3, 0}.ClosestPointOnSegment(a, b))
	assert.Equal(t, a, Vector{-3, 5}.ClosestPointOnSegment(a, b))

	// Degenerate segments collapse to a point.
	assert.Equal(t, a, Vector{}.ClosestPointOnSegment(a, a))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(3, -1, 1))
	assert.Equal(t, 0.0, Clamp01(-2))
	assert.Equal(t, 0.25, Lerp(0, 1, 0.25))
}
