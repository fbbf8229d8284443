package narrowphase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// countingDetector reports every pair as colliding and counts its calls.
type countingDetector struct {
	calls int
}

func (d *countingDetector) Detect(Convex, Transform, Convex, Transform) bool {
	d.calls++
	return true
}

func (d *countingDetector) DetectPenetration(_ Convex, _ Transform, _ Convex, _ Transform, p *Penetration) bool {
	d.calls++
	p.Normal = Vector{1, 0}
	p.Depth = 1
	return true
}

func TestSingleTypedFallbackCondition(t *testing.T) {
	loose := SingleTypedFallbackCondition{Kind: SHAPE_POLYGON}
	assert.True(t, loose.IsMatch(SHAPE_CIRCLE, SHAPE_RECTANGLE))
	assert.True(t, loose.IsMatch(SHAPE_POLYGON, SHAPE_CIRCLE))
	assert.False(t, loose.IsMatch(SHAPE_CIRCLE, SHAPE_SEGMENT))

	strict := SingleTypedFallbackCondition{Kind: SHAPE_POLYGON, Strict: true}
	assert.False(t, strict.IsMatch(SHAPE_CIRCLE, SHAPE_RECTANGLE))
	assert.True(t, strict.IsMatch(SHAPE_CIRCLE, SHAPE_POLYGON))
}

func TestPairwiseTypedFallbackCondition(t *testing.T) {
	c := PairwiseTypedFallbackCondition{KindA: SHAPE_CAPSULE, KindB: SHAPE_SEGMENT}
	assert.True(t, c.IsMatch(SHAPE_CAPSULE, SHAPE_SEGMENT))
	assert.True(t, c.IsMatch(SHAPE_LINK, SHAPE_CAPSULE))
	assert.False(t, c.IsMatch(SHAPE_CAPSULE, SHAPE_CIRCLE))
	assert.False(t, c.IsMatch(SHAPE_SEGMENT, SHAPE_SEGMENT))

	c.Strict = true
	assert.False(t, c.IsMatch(SHAPE_LINK, SHAPE_CAPSULE))
}

func TestSortConditions(t *testing.T) {
	a := SingleTypedFallbackCondition{Kind: SHAPE_CIRCLE, Sort: 2}
	b := SingleTypedFallbackCondition{Kind: SHAPE_SLICE, Sort: 1}
	c := SingleTypedFallbackCondition{Kind: SHAPE_CAPSULE, Sort: 1}
	d := PairwiseTypedFallbackCondition{KindA: SHAPE_CIRCLE, KindB: SHAPE_CIRCLE, Sort: 0}

	conditions := []FallbackCondition{a, b, c, d}
	SortConditions(conditions)
	assert.Equal(t, []FallbackCondition{d, b, c, a}, conditions)
}

func TestFallbackDetector(t *testing.T) {
	primary := &countingDetector{}
	fallback := &countingDetector{}
	fd := NewFallbackDetector(primary, fallback, nil, SingleTypedFallbackCondition{Kind: SHAPE_ELLIPSE})

	ellipse, err := NewEllipse(2, 1)
	require.NoError(t, err)
	circle, err := NewCircle(1, Vector{})
	require.NoError(t, err)
	square := newUnitSquare(t)

	fd.Detect(ellipse, identity, circle, identity)
	fd.Detect(square, identity, ellipse, identity)
	var p Penetration
	fd.DetectPenetration(square, identity, circle, identity, &p)
	assert.Equal(t, 2, fallback.calls)
	assert.Equal(t, 1, primary.calls)

	assert.True(t, fd.IsFallback(SHAPE_ELLIPSE, SHAPE_SLICE))
	assert.False(t, fd.IsFallback(SHAPE_SLICE, SHAPE_SLICE))

	capsuleSlice := PairwiseTypedFallbackCondition{KindA: SHAPE_CAPSULE, KindB: SHAPE_SLICE}
	fd.AddCondition(capsuleSlice)
	assert.True(t, fd.IsFallback(SHAPE_SLICE, SHAPE_CAPSULE))
	assert.Len(t, fd.Conditions(), 2)

	assert.True(t, fd.RemoveCondition(SingleTypedFallbackCondition{Kind: SHAPE_ELLIPSE}))
	assert.False(t, fd.RemoveCondition(SingleTypedFallbackCondition{Kind: SHAPE_ELLIPSE}))
	assert.False(t, fd.IsFallback(SHAPE_ELLIPSE, SHAPE_CIRCLE))
	assert.Equal(t, []FallbackCondition{capsuleSlice}, fd.Conditions())
}

func TestFallbackDetector_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	primary := &countingDetector{}
	fallback := &countingDetector{}
	fd := NewFallbackDetector(primary, fallback, zap.New(core), SingleTypedFallbackCondition{Kind: SHAPE_CIRCLE})

	circle, err := NewCircle(1, Vector{})
	require.NoError(t, err)
	fd.Detect(circle, identity, circle, identity)

	entries := logs.FilterMessage("fallback detector selected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "circle", entries[0].ContextMap()["a"])
}

func TestNewDefaultFallbackDetector(t *testing.T) {
	gjk := newTestGJK(t)
	fd := NewDefaultFallbackDetector(gjk, nil)

	ellipse, err := NewEllipse(4, 2)
	require.NoError(t, err)
	half, err := NewHalfEllipse(2, 1)
	require.NoError(t, err)
	square := newUnitSquare(t)

	assert.True(t, fd.IsFallback(SHAPE_HALF_ELLIPSE, SHAPE_RECTANGLE))
	assert.False(t, fd.IsFallback(SHAPE_RECTANGLE, SHAPE_CAPSULE))

	// SAT would panic on these pairs.
	assert.True(t, fd.Detect(ellipse, identity, square, NewTransformTranslate(Vector{2, 0})))
	assert.False(t, fd.Detect(half, identity, square, NewTransformTranslate(Vector{0, -1})))

	var p Penetration
	require.True(t, fd.DetectPenetration(square, identity, half, NewTransformTranslate(Vector{0, 0.4}), &p))
	assertVectorInDelta(t, Vector{0, 1}, p.Normal, 1e-6)
	assert.InDelta(t, 0.1, p.Depth, 1e-6)
}
