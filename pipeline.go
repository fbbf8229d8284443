package narrowphase

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Contact is the result of a successful collision query.
type Contact struct {
	Penetration Penetration
	Manifold    Manifold
}

// Pair is one narrow phase query of a batch.
type Pair struct {
	ID  uuid.UUID
	A   Convex
	TxA Transform
	B   Convex
	TxB Transform
}

func NewPair(a Convex, txa Transform, b Convex, txb Transform) Pair {
	return Pair{ID: uuid.New(), A: a, TxA: txa, B: b, TxB: txb}
}

// Result is the outcome of one Pair. Contact is only set when Colliding is true.
type Result struct {
	PairID    uuid.UUID
	Colliding bool
	Contact   Contact
}

// Pipeline runs detection, post processing and manifold generation for pairs of shapes.
// It holds no per query state, so one Pipeline can serve many goroutines.
type Pipeline struct {
	Detector       Detector
	Distance       DistanceDetector
	Raycaster      Raycaster
	ManifoldSolver ManifoldSolver
	// PostProcessor is optional.
	PostProcessor PostProcessor
	// Workers limits the goroutines of CollideAll, 0 means GOMAXPROCS.
	Workers int

	logger *zap.Logger
}

func NewPipeline(detector Detector, distance DistanceDetector, raycaster Raycaster, solver ManifoldSolver, post PostProcessor, workers int, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Detector:       detector,
		Distance:       distance,
		Raycaster:      raycaster,
		ManifoldSolver: solver,
		PostProcessor:  post,
		Workers:        workers,
		logger:         logger,
	}
}

// NewDefaultPipeline uses SAT with a GJK fallback for curved shapes, GJK for distances and
// raycasts, the clipping manifold solver and link post processing.
func NewDefaultPipeline(logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	gjk, err := NewGJK(WithGJKLogger(logger))
	if err != nil {
		return nil, err
	}
	return NewPipeline(
		NewDefaultFallbackDetector(gjk, logger),
		gjk,
		gjk,
		NewClippingManifoldSolver(),
		NewLinkPostProcessor(logger),
		0,
		logger,
	), nil
}

func (p *Pipeline) Detect(a Convex, txa Transform, b Convex, txb Transform) bool {
	return p.Detector.Detect(a, txa, b, txb)
}

// Collide detects a and b and builds their contact manifold.
func (p *Pipeline) Collide(a Convex, txa Transform, b Convex, txb Transform) (Contact, bool) {
	var c Contact
	if !p.Detector.DetectPenetration(a, txa, b, txb, &c.Penetration) {
		return c, false
	}
	if p.PostProcessor != nil {
		p.PostProcessor.Process(a, txa, b, txb, &c.Penetration)
	}
	p.ManifoldSolver.Manifold(c.Penetration, a, txa, b, txb, &c.Manifold)
	return c, true
}

func (p *Pipeline) Separation(a Convex, txa Transform, b Convex, txb Transform) (Separation, bool) {
	var s Separation
	ok := p.Distance.Distance(a, txa, b, txb, &s)
	return s, ok
}

// Raycast casts ray against c. Rays that miss c's bounding box are rejected before the
// Raycaster runs.
func (p *Pipeline) Raycast(ray Ray, maxLength float64, c Convex, tx Transform) (Raycast, bool) {
	var r Raycast
	bb := c.BB(tx)
	length := maxLength
	if length <= 0 {
		// Long enough to cross the whole box from the start.
		length = ray.Start.Distance(bb.Center()) + Vector{bb.R - bb.L, bb.T - bb.B}.Length()
	}
	if !bb.IntersectsSegment(ray.Start, ray.PointAt(length)) {
		return r, false
	}
	ok := p.Raycaster.Raycast(ray, maxLength, c, tx, &r)
	return r, ok
}

// CollideAll collides independent pairs in parallel. Results are in the order of pairs.
// Shapes must not be moved while the batch runs. Pairs whose bounding boxes do not overlap
// are skipped. A pair that reaches a detector that does not support it fails the batch.
func (p *Pipeline) CollideAll(ctx context.Context, pairs []Pair) ([]Result, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p.logger.Debug("collide batch started", zap.Int("pairs", len(pairs)), zap.Int("workers", workers))

	results := make([]Result, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range pairs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return p.collidePair(pairs[i], &results[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Debug("collide batch finished", zap.Int("pairs", len(pairs)))
	return results, nil
}

func (p *Pipeline) collidePair(pair Pair, result *Result) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, ErrUnsupportedOperation) {
				err = fmt.Errorf("pair %s: %w", pair.ID, e)
				return
			}
			panic(r)
		}
	}()

	result.PairID = pair.ID
	if !pair.A.BB(pair.TxA).Intersects(pair.B.BB(pair.TxB)) {
		return nil
	}
	result.Contact, result.Colliding = p.Collide(pair.A, pair.TxA, pair.B, pair.TxB)
	return nil
}
