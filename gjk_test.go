package narrowphase

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGJK(t *testing.T) *GJK {
	t.Helper()
	gjk, err := NewGJK()
	require.NoError(t, err)
	return gjk
}

func TestNewGJK_Invalid(t *testing.T) {
	_, err := NewGJK(WithGJKMaxIterations(MIN_ITERATIONS - 1))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewGJK(WithGJKDistanceEpsilon(0))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	gjk := newTestGJK(t)
	assert.Equal(t, MAX_GJK_ITERATIONS, gjk.MaxIterations())
	assert.ErrorIs(t, gjk.SetMaxIterations(2), ErrInvalidArgument)
	assert.Equal(t, MAX_GJK_ITERATIONS, gjk.MaxIterations())
	assert.NoError(t, gjk.SetDistanceEpsilon(1e-6))
	assert.Equal(t, 1e-6, gjk.DistanceEpsilon())
	assert.NotNil(t, gjk.EPA())
}

func TestGJK_DetectPenetration(t *testing.T) {
	a := newUnitSquare(t)
	b := newUnitSquare(t)
	gjk := newTestGJK(t)

	var p Penetration
	require.True(t, gjk.DetectPenetration(a, identity, b, NewTransformTranslate(Vector{0.5, 0}), &p))
	assertVectorInDelta(t, Vector{1, 0}, p.Normal, 1e-9)
	assert.InDelta(t, 0.5, p.Depth, 1e-9)

	assert.True(t, gjk.Detect(a, identity, b, NewTransformTranslate(Vector{0.5, 0.5})))
	assert.False(t, gjk.Detect(a, identity, b, NewTransformTranslate(Vector{3, 0})))
	assert.False(t, gjk.DetectPenetration(a, identity, b, NewTransformTranslate(Vector{-2, 1}), &p))
}

func TestGJK_Segment(t *testing.T) {
	square := newUnitSquare(t)
	seg, err := NewSegment(Vector{-2, 0.4}, Vector{2, 0.4})
	require.NoError(t, err)
	gjk := newTestGJK(t)

	var p Penetration
	require.True(t, gjk.DetectPenetration(square, identity, seg, identity, &p))
	assertVectorInDelta(t, Vector{0, 1}, p.Normal, 1e-9)
	assert.InDelta(t, 0.1, p.Depth, 1e-9)

	// Segment pairs and segment circle pairs have closed forms.
	other, err := NewSegment(Vector{0, -1}, Vector{0, 1})
	require.NoError(t, err)
	assert.True(t, gjk.Detect(seg, identity, other, identity))
	assert.False(t, gjk.Detect(seg, identity, other, NewTransformTranslate(Vector{3, 0})))

	circle, err := NewCircle(0.5, Vector{})
	require.NoError(t, err)
	require.True(t, gjk.DetectPenetration(circle, NewTransformTranslate(Vector{0, 0.7}), seg, identity, &p))
	assertVectorInDelta(t, Vector{0, -1}, p.Normal, 1e-12)
	assert.InDelta(t, 0.2, p.Depth, 1e-12)
}

func TestGJK_CollinearSegments(t *testing.T) {
	gjk := newTestGJK(t)
	newSegment := func(a, b Vector) *Segment {
		seg, err := NewSegment(a, b)
		require.NoError(t, err)
		return seg
	}

	a := newSegment(Vector{0, 0}, Vector{2, 0})
	b := newSegment(Vector{1, 0}, Vector{3, 0})
	var p Penetration
	require.True(t, gjk.Detect(a, identity, b, identity))
	require.True(t, gjk.DetectPenetration(a, identity, b, identity, &p))
	assertVectorInDelta(t, Vector{1, 0}, p.Normal, 1e-12)
	assert.InDelta(t, 1.0, p.Depth, 1e-12)

	// Swapped, the normal still points from a to b.
	require.True(t, gjk.DetectPenetration(b, identity, a, identity, &p))
	assertVectorInDelta(t, Vector{-1, 0}, p.Normal, 1e-12)
	assert.InDelta(t, 1.0, p.Depth, 1e-12)

	// Nested, sliding out the short way.
	long := newSegment(Vector{0, 0}, Vector{4, 0})
	short := newSegment(Vector{1, 0}, Vector{2, 0})
	require.True(t, gjk.DetectPenetration(long, identity, short, identity, &p))
	assertVectorInDelta(t, Vector{-1, 0}, p.Normal, 1e-12)
	assert.InDelta(t, 2.0, p.Depth, 1e-12)

	// Collinear with a gap, and parallel on different lines.
	far := newSegment(Vector{3, 0}, Vector{4, 0})
	assert.False(t, gjk.Detect(a, identity, far, identity))
	assert.False(t, gjk.DetectPenetration(a, identity, far, identity, &p))
	above := newSegment(Vector{0, 1}, Vector{2, 1})
	assert.False(t, gjk.Detect(a, identity, above, identity))
	assert.False(t, gjk.DetectPenetration(a, identity, above, identity, &p))
}

func TestGJK_Ellipse(t *testing.T) {
	ellipse, err := NewEllipse(4, 2)
	require.NoError(t, err)
	circle, err := NewCircle(1, Vector{})
	require.NoError(t, err)
	gjk := newTestGJK(t)

	var p Penetration
	require.True(t, gjk.DetectPenetration(ellipse, identity, circle, NewTransformTranslate(Vector{2.5, 0}), &p))
	assertVectorInDelta(t, Vector{1, 0}, p.Normal, 1e-3)
	assert.InDelta(t, 0.5, p.Depth, 1e-3)

	assert.False(t, gjk.Detect(ellipse, identity, circle, NewTransformTranslate(Vector{0, 2.5})))
}

func TestGJK_Idempotent(t *testing.T) {
	a, err := NewRegularPolygon(5, 1)
	require.NoError(t, err)
	b, err := NewCapsule(2, 0.5)
	require.NoError(t, err)
	gjk := newTestGJK(t)
	txb := NewTransformRigid(Vector{0.8, 0.6}, 0.3)

	var first, second Penetration
	require.True(t, gjk.DetectPenetration(a, identity, b, txb, &first))
	require.True(t, gjk.DetectPenetration(a, identity, b, txb, &second))
	assert.Equal(t, first, second)
}

func randomConvexShape(t *testing.T, rng *rand.Rand) Convex {
	t.Helper()
	switch rng.Intn(3) {
	case 0:
		rect, err := NewRectangle(0.5+rng.Float64()*1.5, 0.5+rng.Float64()*1.5)
		require.NoError(t, err)
		return rect
	case 1:
		poly, err := NewRegularPolygon(3+rng.Intn(6), 0.5+rng.Float64())
		require.NoError(t, err)
		return poly
	}
	points := make([]Vector, 6)
	for i := range points {
		points[i] = Vector{rng.Float64()*2 - 1, rng.Float64()*2 - 1}
	}
	hull, err := NewPolygonHull(points...)
	require.NoError(t, err)
	return hull
}

func randomTransform(rng *rand.Rand) Transform {
	return NewTransformRigid(Vector{rng.Float64()*3 - 1.5, rng.Float64()*3 - 1.5}, rng.Float64()*2*math.Pi)
}

func TestGJK_AgreesWithSAT(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sat := NewSAT()
	gjk := newTestGJK(t)

	hits := 0
	for i := 0; i < 2000; i++ {
		a := randomConvexShape(t, rng)
		b := randomConvexShape(t, rng)
		txa := randomTransform(rng)
		txb := randomTransform(rng)

		require.Equal(t, sat.Detect(a, txa, b, txb), gjk.Detect(a, txa, b, txb), "pair %d", i)

		var ps, pg Penetration
		satHit := sat.DetectPenetration(a, txa, b, txb, &ps)
		gjkHit := gjk.DetectPenetration(a, txa, b, txb, &pg)
		require.Equal(t, satHit, gjkHit, "pair %d", i)
		if !satHit {
			continue
		}
		hits++

		assert.InDelta(t, ps.Depth, pg.Depth, 1e-6, "pair %d", i)
		assert.Greater(t, ps.Normal.Dot(pg.Normal), 1-1e-6, "pair %d", i)
		assert.InDelta(t, 1.0, pg.Normal.Length(), 1e-9, "pair %d", i)
		centers := WorldCenter(b, txb).Sub(WorldCenter(a, txa))
		assert.GreaterOrEqual(t, ps.Normal.Dot(centers), 0.0, "pair %d", i)
		assert.GreaterOrEqual(t, pg.Normal.Dot(centers), 0.0, "pair %d", i)
	}
	assert.Greater(t, hits, 500)
}

// The wedge's x extent is centered left of the square's center while its centroid is to the
// right, so the shortest way out is towards -x, against the centers.
func TestGJK_DetectPenetrationOrientation(t *testing.T) {
	square := newUnitSquare(t)
	wedge, err := NewTriangle(Vector{-0.45, 0}, Vector{0.25, -1.5}, Vector{0.25, 1.5})
	require.NoError(t, err)
	require.Greater(t, wedge.Center().X, 0.0)
	gjk := newTestGJK(t)
	sat := NewSAT()

	var p, ps Penetration
	require.True(t, gjk.DetectPenetration(square, identity, wedge, identity, &p))
	assertVectorInDelta(t, Vector{1, 0}, p.Normal, 1e-9)
	assert.InDelta(t, 0.75, p.Depth, 1e-9)
	require.True(t, sat.DetectPenetration(square, identity, wedge, identity, &ps))
	assertVectorInDelta(t, ps.Normal, p.Normal, 1e-9)

	require.True(t, gjk.DetectPenetration(wedge, identity, square, identity, &p))
	assertVectorInDelta(t, Vector{-1, 0}, p.Normal, 1e-9)
	assert.InDelta(t, 0.75, p.Depth, 1e-9)
}

func TestGJK_Distance(t *testing.T) {
	a := newUnitSquare(t)
	b := newUnitSquare(t)
	gjk := newTestGJK(t)

	var s Separation
	require.True(t, gjk.Distance(a, identity, b, NewTransformTranslate(Vector{3, 0}), &s))
	assert.InDelta(t, 2.0, s.Distance, 1e-9)
	assertVectorInDelta(t, Vector{1, 0}, s.Normal, 1e-9)
	assert.InDelta(t, 0.5, s.Point1.X, 1e-9)
	assert.InDelta(t, 2.5, s.Point2.X, 1e-9)

	assert.False(t, gjk.Distance(a, identity, b, NewTransformTranslate(Vector{0.5, 0}), &s))
}

func TestGJK_DistanceCurved(t *testing.T) {
	gjk := newTestGJK(t)

	a, err := NewCircle(1, Vector{})
	require.NoError(t, err)
	b, err := NewCircle(1, Vector{})
	require.NoError(t, err)

	var s Separation
	require.True(t, gjk.Distance(a, identity, b, NewTransformTranslate(Vector{5, 0}), &s))
	assert.InDelta(t, 3.0, s.Distance, 1e-12)
	assertVectorInDelta(t, Vector{1, 0}, s.Point1, 1e-12)
	assertVectorInDelta(t, Vector{4, 0}, s.Point2, 1e-12)

	ellipse, err := NewEllipse(4, 2)
	require.NoError(t, err)
	square := newUnitSquare(t)
	require.True(t, gjk.Distance(ellipse, identity, square, NewTransformTranslate(Vector{5, 0}), &s))
	assert.InDelta(t, 2.5, s.Distance, 1e-4)
	assertVectorInDelta(t, Vector{1, 0}, s.Normal, 1e-3)
	assert.InDelta(t, s.Distance, s.Point2.Sub(s.Point1).Length(), 1e-9)
}

func TestGJK_Raycast(t *testing.T) {
	square := newUnitSquare(t)
	gjk := newTestGJK(t)

	ray, err := NewRay(Vector{-3, 0}, Vector{2, 0})
	require.NoError(t, err)

	var r Raycast
	require.True(t, gjk.Raycast(ray, 0, square, identity, &r))
	assertVectorInDelta(t, Vector{-0.5, 0}, r.Point, 1e-9)
	assertVectorInDelta(t, Vector{-1, 0}, r.Normal, 1e-9)
	assert.InDelta(t, 2.5, r.Distance, 1e-9)

	// Too short.
	assert.False(t, gjk.Raycast(ray, 2, square, identity, &r))

	// Passing above the square.
	above, err := NewRay(Vector{-3, 2}, Vector{1, 0})
	require.NoError(t, err)
	assert.False(t, gjk.Raycast(above, 0, square, identity, &r))

	// Pointing away.
	away, err := NewRay(Vector{-3, 0}, Vector{-1, 0})
	require.NoError(t, err)
	assert.False(t, gjk.Raycast(away, 0, square, identity, &r))

	// Starting inside.
	inside, err := NewRay(Vector{0, 0}, Vector{1, 0})
	require.NoError(t, err)
	assert.False(t, gjk.Raycast(inside, 0, square, identity, &r))
}

func TestGJK_RaycastCurved(t *testing.T) {
	gjk := newTestGJK(t)

	circle, err := NewCircle(1, Vector{})
	require.NoError(t, err)
	ray, err := NewRay(Vector{-3, 0}, Vector{1, 0})
	require.NoError(t, err)

	var r Raycast
	require.True(t, gjk.Raycast(ray, 0, circle, identity, &r))
	assertVectorInDelta(t, Vector{-1, 0}, r.Point, 1e-12)
	assertVectorInDelta(t, Vector{-1, 0}, r.Normal, 1e-12)
	assert.InDelta(t, 2.0, r.Distance, 1e-12)

	ellipse, err := NewEllipse(4, 2)
	require.NoError(t, err)
	ray, err = NewRay(Vector{-5, 0.5}, Vector{1, 0})
	require.NoError(t, err)
	require.True(t, gjk.Raycast(ray, 0, ellipse, identity, &r))
	hit := -2 * math.Sqrt(0.75)
	assertVectorInDelta(t, Vector{hit, 0.5}, r.Point, 1e-3)
	assert.InDelta(t, 5+hit, r.Distance, 1e-3)

	seg, err := NewSegment(Vector{0, -1}, Vector{0, 1})
	require.NoError(t, err)
	ray, err = NewRay(Vector{-2, 0}, Vector{1, 0})
	require.NoError(t, err)
	require.True(t, gjk.Raycast(ray, 0, seg, identity, &r))
	assert.InDelta(t, 2.0, r.Distance, 1e-12)
	assertVectorInDelta(t, Vector{-1, 0}, r.Normal, 1e-12)
	assert.False(t, gjk.Raycast(ray, 1, seg, identity, &r))
}

func TestNewRay(t *testing.T) {
	_, err := NewRay(Vector{}, Vector{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	ray, err := NewRay(Vector{1, 1}, Vector{0, 3})
	require.NoError(t, err)
	assert.Equal(t, Vector{0, 1}, ray.Direction)
	assert.Equal(t, Vector{1, 3}, ray.PointAt(2))
}
