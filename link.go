package narrowphase

// Link is a segment that belongs to a Chain. Links know their neighbours so the
// LinkPostProcessor can fix normals at the shared vertices.
type Link struct {
	Segment

	chain *Chain
	index int
}

func (*Link) Kind() ShapeKind {
	return SHAPE_LINK
}

func (l *Link) Chain() *Chain {
	return l.chain
}

func (l *Link) Index() int {
	return l.index
}

// Previous returns the link sharing this link's first point, or nil.
func (l *Link) Previous() *Link {
	return l.chain.neighbor(l.index - 1)
}

// Next returns the link sharing this link's second point, or nil.
func (l *Link) Next() *Link {
	return l.chain.neighbor(l.index + 1)
}

// Point0 is the previous link's first point.
func (l *Link) Point0() (Vector, bool) {
	if prev := l.Previous(); prev != nil {
		return prev.a, true
	}
	return Vector{}, false
}

// Point3 is the next link's second point.
func (l *Link) Point3() (Vector, bool) {
	if next := l.Next(); next != nil {
		return next.b, true
	}
	return Vector{}, false
}

// Rotate moves the link and drags the shared endpoints of its neighbours along.
func (l *Link) Rotate(theta float64, about Vector) {
	l.Segment.Rotate(theta, about)
	l.chain.syncNeighbors(l.index)
}

// Translate moves the link and drags the shared endpoints of its neighbours along.
func (l *Link) Translate(v Vector) {
	l.Segment.Translate(v)
	l.chain.syncNeighbors(l.index)
}

// Chain owns a run of links. Links refer to their neighbours by index only.
type Chain struct {
	links  []*Link
	closed bool
}

// NewChain creates one link per pair of consecutive vertices.
// A closed chain also links the last vertex back to the first.
func NewChain(verts []Vector, closed bool) (*Chain, error) {
	if len(verts) < 2 {
		return nil, invalidArgument("a chain needs at least 2 vertices, got %d", len(verts))
	}
	if closed && len(verts) < 3 {
		return nil, invalidArgument("a closed chain needs at least 3 vertices, got %d", len(verts))
	}

	count := len(verts) - 1
	if closed {
		count = len(verts)
	}

	chain := &Chain{
		links:  make([]*Link, 0, count),
		closed: closed,
	}
	for i := 0; i < count; i++ {
		seg, err := NewSegment(verts[i], verts[(i+1)%len(verts)])
		if err != nil {
			return nil, err
		}
		chain.links = append(chain.links, &Link{Segment: *seg, chain: chain, index: i})
	}
	return chain, nil
}

func (c *Chain) Links() []*Link {
	return append([]*Link(nil), c.links...)
}

func (c *Chain) Len() int {
	return len(c.links)
}

func (c *Chain) Link(i int) *Link {
	return c.links[i]
}

func (c *Chain) IsClosed() bool {
	return c.closed
}

func (c *Chain) neighbor(i int) *Link {
	count := len(c.links)
	if c.closed {
		if count < 2 {
			return nil
		}
		return c.links[(i+count)%count]
	}
	if i < 0 || i >= count {
		return nil
	}
	return c.links[i]
}

// syncNeighbors copies link i's endpoints onto the shared endpoints of its neighbours.
func (c *Chain) syncNeighbors(i int) {
	l := c.links[i]
	if prev := l.Previous(); prev != nil && prev != l {
		prev.b = l.a
		prev.refresh()
	}
	if next := l.Next(); next != nil && next != l {
		next.a = l.b
		next.refresh()
	}
}
