package narrowphase

import (
	"sort"

	"go.uber.org/zap"
)

// FallbackCondition selects the shape pairs a FallbackDetector hands to its fallback detector.
// Conditions are ordered by SortIndex. Equal sort indexes keep their insertion order and do not
// make two conditions equal.
type FallbackCondition interface {
	IsMatch(a, b ShapeKind) bool
	SortIndex() int
}

func kindMatches(k, want ShapeKind, strict bool) bool {
	if strict {
		return k == want
	}
	return k.Is(want)
}

// SingleTypedFallbackCondition matches any pair with a shape of Kind on either side.
// Unless Strict is set, specializations of Kind match too.
type SingleTypedFallbackCondition struct {
	Kind   ShapeKind
	Strict bool
	Sort   int
}

func (c SingleTypedFallbackCondition) IsMatch(a, b ShapeKind) bool {
	return kindMatches(a, c.Kind, c.Strict) || kindMatches(b, c.Kind, c.Strict)
}

func (c SingleTypedFallbackCondition) SortIndex() int {
	return c.Sort
}

// PairwiseTypedFallbackCondition matches the pair KindA, KindB in either order.
type PairwiseTypedFallbackCondition struct {
	KindA, KindB ShapeKind
	Strict       bool
	Sort         int
}

func (c PairwiseTypedFallbackCondition) IsMatch(a, b ShapeKind) bool {
	return (kindMatches(a, c.KindA, c.Strict) && kindMatches(b, c.KindB, c.Strict)) ||
		(kindMatches(a, c.KindB, c.Strict) && kindMatches(b, c.KindA, c.Strict))
}

func (c PairwiseTypedFallbackCondition) SortIndex() int {
	return c.Sort
}

// SortConditions orders conditions by sort index, keeping the order of equal indexes.
func SortConditions(conditions []FallbackCondition) {
	sort.SliceStable(conditions, func(i, j int) bool {
		return conditions[i].SortIndex() < conditions[j].SortIndex()
	})
}

// FallbackDetector uses Primary unless a condition matches the pair's kinds, then Fallback.
// Routing is a lookup in a table rebuilt whenever the conditions change, so conditions must
// not be changed while the detector is in use.
type FallbackDetector struct {
	Primary  Detector
	Fallback Detector

	conditions []FallbackCondition
	// table holds the index of the first matching condition for each kind pair, or -1.
	table  [SHAPE_KIND_NUM][SHAPE_KIND_NUM]int
	logger *zap.Logger
}

func NewFallbackDetector(primary, fallback Detector, logger *zap.Logger, conditions ...FallbackCondition) *FallbackDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	fd := &FallbackDetector{
		Primary:    primary,
		Fallback:   fallback,
		conditions: append([]FallbackCondition(nil), conditions...),
		logger:     logger,
	}
	fd.rebuild()
	return fd
}

// NewDefaultFallbackDetector uses SAT for everything except ellipses and half ellipses, which go to gjk.
func NewDefaultFallbackDetector(gjk *GJK, logger *zap.Logger) *FallbackDetector {
	return NewFallbackDetector(NewSAT(), gjk, logger,
		SingleTypedFallbackCondition{Kind: SHAPE_ELLIPSE},
		SingleTypedFallbackCondition{Kind: SHAPE_HALF_ELLIPSE},
	)
}

func (fd *FallbackDetector) AddCondition(c FallbackCondition) {
	fd.conditions = append(fd.conditions, c)
	fd.rebuild()
}

// RemoveCondition removes the first condition equal to c.
func (fd *FallbackDetector) RemoveCondition(c FallbackCondition) bool {
	for i, cond := range fd.conditions {
		if cond == c {
			fd.conditions = append(fd.conditions[:i], fd.conditions[i+1:]...)
			fd.rebuild()
			return true
		}
	}
	return false
}

// Conditions returns the conditions in evaluation order.
func (fd *FallbackDetector) Conditions() []FallbackCondition {
	return append([]FallbackCondition(nil), fd.conditions...)
}

func (fd *FallbackDetector) rebuild() {
	SortConditions(fd.conditions)
	for a := ShapeKind(0); a < SHAPE_KIND_NUM; a++ {
		for b := ShapeKind(0); b < SHAPE_KIND_NUM; b++ {
			fd.table[a][b] = -1
			for i, c := range fd.conditions {
				if c.IsMatch(a, b) {
					fd.table[a][b] = i
					break
				}
			}
		}
	}
}

// IsFallback reports whether the pair of kinds is routed to the fallback detector.
func (fd *FallbackDetector) IsFallback(a, b ShapeKind) bool {
	return fd.table[a][b] >= 0
}

func (fd *FallbackDetector) detector(a, b Convex) Detector {
	ka, kb := a.Kind(), b.Kind()
	if i := fd.table[ka][kb]; i >= 0 {
		if ce := fd.logger.Check(zap.DebugLevel, "fallback detector selected"); ce != nil {
			ce.Write(zap.Stringer("a", ka), zap.Stringer("b", kb), zap.Int("condition", i))
		}
		return fd.Fallback
	}
	return fd.Primary
}

func (fd *FallbackDetector) Detect(a Convex, txa Transform, b Convex, txb Transform) bool {
	return fd.detector(a, b).Detect(a, txa, b, txb)
}

func (fd *FallbackDetector) DetectPenetration(a Convex, txa Transform, b Convex, txb Transform, p *Penetration) bool {
	return fd.detector(a, b).DetectPenetration(a, txa, b, txb, p)
}
