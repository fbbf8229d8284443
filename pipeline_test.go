package narrowphase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewDefaultPipeline(nil)
	require.NoError(t, err)
	return p
}

func TestPipeline_Collide(t *testing.T) {
	p := newTestPipeline(t)
	a := newUnitSquare(t)
	b := newUnitSquare(t)

	c, ok := p.Collide(a, identity, b, NewTransformTranslate(Vector{0.5, 0}))
	require.True(t, ok)
	assertVectorInDelta(t, Vector{1, 0}, c.Penetration.Normal, 1e-12)
	assert.InDelta(t, 0.5, c.Penetration.Depth, 1e-12)
	assert.Equal(t, c.Penetration.Normal, c.Manifold.Normal)
	assert.Len(t, c.Manifold.Points, 2)
	assertVectorInDelta(t, Vector{0.5, 0}, c.Penetration.Vector(), 1e-12)

	_, ok = p.Collide(a, identity, b, NewTransformTranslate(Vector{3, 0}))
	assert.False(t, ok)
	assert.False(t, p.Detect(a, identity, b, NewTransformTranslate(Vector{3, 0})))
}

func TestPipeline_CollideLink(t *testing.T) {
	p := newTestPipeline(t)
	chain := newTestChain(t, false, Vector{1, 0}, Vector{0, 0}, Vector{-1, 0})
	circle, err := NewCircle(0.5, Vector{})
	require.NoError(t, err)

	// Link post processing keeps a circle resting on the joint from being pushed sideways.
	c, ok := p.Collide(chain.Link(0), identity, circle, NewTransformTranslate(Vector{-0.2, 0.3}))
	require.True(t, ok)
	assertVectorInDelta(t, Vector{0, 1}, c.Penetration.Normal, 1e-9)
	require.NotEmpty(t, c.Manifold.Points)
}

func TestPipeline_Separation(t *testing.T) {
	p := newTestPipeline(t)
	a := newUnitSquare(t)
	b, err := NewCircle(0.5, Vector{})
	require.NoError(t, err)

	s, ok := p.Separation(a, identity, b, NewTransformTranslate(Vector{0, 3}))
	require.True(t, ok)
	assert.InDelta(t, 2.0, s.Distance, 1e-6)
	assertVectorInDelta(t, Vector{0, 1}, s.Normal, 1e-6)

	_, ok = p.Separation(a, identity, b, identity)
	assert.False(t, ok)
}

func TestPipeline_Raycast(t *testing.T) {
	p := newTestPipeline(t)
	capsule, err := NewCapsule(2, 1)
	require.NoError(t, err)
	ray, err := NewRay(Vector{0, 5}, Vector{0, -1})
	require.NoError(t, err)

	r, ok := p.Raycast(ray, 0, capsule, identity)
	require.True(t, ok)
	assertVectorInDelta(t, Vector{0, 0.5}, r.Point, 1e-6)
	assertVectorInDelta(t, Vector{0, 1}, r.Normal, 1e-6)
	assert.InDelta(t, 4.5, r.Distance, 1e-6)
}

type countingRaycaster struct {
	calls int
}

func (r *countingRaycaster) Raycast(ray Ray, maxLength float64, c Convex, tx Transform, result *Raycast) bool {
	r.calls++
	result.Point = ray.Start
	return true
}

func TestPipeline_RaycastBB(t *testing.T) {
	p := newTestPipeline(t)
	raycaster := &countingRaycaster{}
	p.Raycaster = raycaster
	square := newUnitSquare(t)

	newRay := func(start, direction Vector) Ray {
		ray, err := NewRay(start, direction)
		require.NoError(t, err)
		return ray
	}

	// Passing above the box.
	_, ok := p.Raycast(newRay(Vector{-3, 2}, Vector{1, 0}), 0, square, identity)
	assert.False(t, ok)
	// Stopping short of the box.
	_, ok = p.Raycast(newRay(Vector{-3, 0}, Vector{1, 0}), 2, square, identity)
	assert.False(t, ok)
	// Pointing away from the box.
	_, ok = p.Raycast(newRay(Vector{-3, 0}, Vector{-1, 0}), 0, square, identity)
	assert.False(t, ok)
	assert.Equal(t, 0, raycaster.calls)

	_, ok = p.Raycast(newRay(Vector{-3, 0}, Vector{1, 0}), 0, square, identity)
	assert.True(t, ok)
	_, ok = p.Raycast(newRay(Vector{-3, 0}, Vector{1, 0}), 0, square, NewTransformTranslate(Vector{20, 0}))
	assert.True(t, ok)
	// Starting inside the box is left to the raycaster.
	_, ok = p.Raycast(newRay(Vector{0, 0}, Vector{1, 0}), 0, square, identity)
	assert.True(t, ok)
	assert.Equal(t, 3, raycaster.calls)
}

func TestPipeline_CollideAll(t *testing.T) {
	p := newTestPipeline(t)
	p.Workers = 2

	square := newUnitSquare(t)
	ellipse, err := NewEllipse(4, 2)
	require.NoError(t, err)
	circle, err := NewCircle(1, Vector{})
	require.NoError(t, err)

	pairs := []Pair{
		NewPair(square, identity, square, NewTransformTranslate(Vector{0.5, 0})),
		NewPair(square, identity, square, NewTransformTranslate(Vector{10, 0})),
		NewPair(ellipse, identity, circle, NewTransformTranslate(Vector{2.5, 0})),
		// The bounding boxes overlap but the shapes do not.
		NewPair(circle, identity, circle, NewTransformTranslate(Vector{1.9, 1.9})),
	}
	results, err := p.CollideAll(context.Background(), pairs)
	require.NoError(t, err)
	require.Len(t, results, len(pairs))

	for i, r := range results {
		assert.Equal(t, pairs[i].ID, r.PairID)
	}
	assert.True(t, results[0].Colliding)
	assert.Len(t, results[0].Contact.Manifold.Points, 2)
	assert.False(t, results[1].Colliding)
	assert.True(t, results[2].Colliding)
	assert.InDelta(t, 0.5, results[2].Contact.Penetration.Depth, 1e-3)
	assert.False(t, results[3].Colliding)
}

func TestPipeline_CollideAllUnsupported(t *testing.T) {
	gjk := newTestGJK(t)
	p := NewPipeline(NewSAT(), gjk, gjk, NewClippingManifoldSolver(), nil, 1, nil)

	ellipse, err := NewEllipse(4, 2)
	require.NoError(t, err)
	circle, err := NewCircle(1, Vector{})
	require.NoError(t, err)

	pair := NewPair(ellipse, identity, circle, NewTransformTranslate(Vector{2.5, 0}))
	_, err = p.CollideAll(context.Background(), []Pair{pair})
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
	assert.Contains(t, err.Error(), pair.ID.String())
}

func TestPipeline_CollideAllCanceled(t *testing.T) {
	p := newTestPipeline(t)
	square := newUnitSquare(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.CollideAll(ctx, []Pair{NewPair(square, identity, square, identity)})
	assert.ErrorIs(t, err, context.Canceled)

	results, err := p.CollideAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
