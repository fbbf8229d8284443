package narrowphase

import (
	"container/heap"

	"go.uber.org/zap"
)

// EPA finds the penetration of two overlapping shapes by expanding the simplex GJK found
// around the origin of their minkowski difference until it reaches the closest edge.
type EPA struct {
	maxIterations   int
	distanceEpsilon float64
	// warnIterations is how many iterations a converging expansion may take before it is logged.
	warnIterations  int
	logger          *zap.Logger
}

type EPAOption func(*EPA)

func WithEPAMaxIterations(n int) EPAOption {
	return func(e *EPA) { e.maxIterations = n }
}

func WithEPADistanceEpsilon(eps float64) EPAOption {
	return func(e *EPA) { e.distanceEpsilon = eps }
}

func WithEPAWarnIterations(n int) EPAOption {
	return func(e *EPA) { e.warnIterations = n }
}

func WithEPALogger(logger *zap.Logger) EPAOption {
	return func(e *EPA) { e.logger = logger }
}

func NewEPA(opts ...EPAOption) (*EPA, error) {
	e := &EPA{
		maxIterations:   MAX_EPA_ITERATIONS,
		distanceEpsilon: DefaultDistanceEpsilon,
		warnIterations:  WARN_EPA_ITERATIONS,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.SetMaxIterations(e.maxIterations); err != nil {
		return nil, err
	}
	if err := e.SetDistanceEpsilon(e.distanceEpsilon); err != nil {
		return nil, err
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e, nil
}

func (e *EPA) MaxIterations() int {
	return e.maxIterations
}

func (e *EPA) SetMaxIterations(n int) error {
	if n < MIN_ITERATIONS {
		return invalidArgument("EPA max iterations must be at least %d, got %d", MIN_ITERATIONS, n)
	}
	e.maxIterations = n
	return nil
}

func (e *EPA) DistanceEpsilon() float64 {
	return e.distanceEpsilon
}

func (e *EPA) SetDistanceEpsilon(eps float64) error {
	if eps <= 0 {
		return invalidArgument("EPA distance epsilon must be positive, got %v", eps)
	}
	e.distanceEpsilon = eps
	return nil
}

// Penetration expands simplex, a triangle enclosing the origin, and writes the normal and depth
// of the closest edge to p. When the iteration cap is hit the last closest edge is used.
func (e *EPA) Penetration(simplex []Vector, ms MinkowskiSum, p *Penetration) {
	es := simplexPool.Get()
	defer func() {
		es.reset()
		simplexPool.Put(es)
	}()
	es.init(simplex)

	var edge expandingSimplexEdge
	var point Vector
	for i := 0; i < e.maxIterations; i++ {
		edge = es.closest()
		point = ms.Support(edge.normal)

		projection := point.Dot(edge.normal)
		if projection-edge.distance < e.distanceEpsilon {
			if i > e.warnIterations {
				e.logger.Warn("High EPA iterations", zap.Int("iterations", i))
			}
			p.Normal = edge.normal
			p.Depth = projection
			return
		}
		es.expand(point)
	}

	e.logger.Warn("EPA did not converge",
		zap.Int("iterations", e.maxIterations),
		zap.Float64("depth", point.Dot(edge.normal)),
		zap.Stringer("a", ms.a.Kind()),
		zap.Stringer("b", ms.b.Kind()),
	)
	p.Normal = edge.normal
	p.Depth = point.Dot(edge.normal)
}

// expandingSimplexEdge is an edge of the expanding polygon. normal points away from the origin.
type expandingSimplexEdge struct {
	p1, p2   Vector
	normal   Vector
	distance float64
}

// edgeHeap orders edges by their distance to the origin, closest first.
type edgeHeap []expandingSimplexEdge

func (h edgeHeap) Len() int           { return len(h) }
func (h edgeHeap) Less(i, j int) bool { return h[i].distance < h[j].distance }
func (h edgeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *edgeHeap) Push(x any) {
	*h = append(*h, x.(expandingSimplexEdge))
}

func (h *edgeHeap) Pop() any {
	old := *h
	n := len(old)
	edge := old[n-1]
	*h = old[:n-1]
	return edge
}

type expandingSimplex struct {
	edges edgeHeap
	// winding is 1 for counter-clockwise, -1 for clockwise and 0 for degenerate simplexes.
	// Splitting edges never changes it, so it is computed once.
	winding int
}

var simplexPool = NewPool(func() *expandingSimplex {
	return &expandingSimplex{edges: make(edgeHeap, 0, 16)}
})

func (es *expandingSimplex) init(simplex []Vector) {
	es.winding = simplexWinding(simplex)
	debugAssert(es.winding != 0, "EPA started from a degenerate simplex")

	count := len(simplex)
	for i := 0; i < count; i++ {
		j := (i + 1) % count
		es.edges = append(es.edges, es.newEdge(simplex[i], simplex[j]))
	}
	heap.Init(&es.edges)
}

func (es *expandingSimplex) reset() {
	es.edges = es.edges[:0]
	es.winding = 0
}

func simplexWinding(simplex []Vector) int {
	count := len(simplex)
	for i := 0; i < count; i++ {
		j := (i + 1) % count
		cross := simplex[i].Cross(simplex[j])
		if cross > 0 {
			return 1
		} else if cross < 0 {
			return -1
		}
	}
	return 0
}

func (es *expandingSimplex) newEdge(p1, p2 Vector) expandingSimplexEdge {
	e := p2.Sub(p1)
	var n Vector
	if es.winding < 0 {
		n = e.Perp()
	} else {
		n = e.ReversePerp()
	}
	n = n.Normalize()
	d := p1.Dot(n)
	if d < 0 {
		d = -d
	}
	return expandingSimplexEdge{p1: p1, p2: p2, normal: n, distance: d}
}

func (es *expandingSimplex) closest() expandingSimplexEdge {
	return es.edges[0]
}

// expand replaces the closest edge with the two edges through point.
func (es *expandingSimplex) expand(point Vector) {
	edge := heap.Pop(&es.edges).(expandingSimplexEdge)
	heap.Push(&es.edges, es.newEdge(edge.p1, point))
	heap.Push(&es.edges, es.newEdge(point, edge.p2))
}
