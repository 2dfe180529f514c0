package region

import (
	"github.com/nbodylab/bhut/internal/bherr"
	"github.com/nbodylab/bhut/internal/core"
	"github.com/nbodylab/bhut/internal/encoding"
)

// Kind classifies a dispatched node view.
type Kind int

const (
	KindEmpty Kind = iota
	KindLeaf
	KindNode
	// KindReserved is never produced by a packer; Read reports it only
	// so a defensive consumer like the dump path can describe an
	// otherwise-unknown tag 2 instead of failing outright.
	KindReserved
)

// NodeFields holds a Node's decoded header: its centroid, element
// count, and the cursors to its four children. Child1 is always
// adjacent in the byte stream (no jump field was written for it);
// Child2-4 come from the header's jump fields and may point into a
// different region if that sibling was stolen during a parallel build.
type NodeFields struct {
	Centroid   core.MassPoint
	TotalElems int64
	Child1     encoding.Cursor
	Child2     encoding.Cursor
	Child3     encoding.Cursor
	Child4     encoding.Cursor
}

// View is the result of dispatching a cursor: the tag-resolved node
// (after transparently following any chunk- or region-forwarding
// chain), together with its decoded payload.
type View struct {
	Kind   Kind
	Cursor encoding.Cursor // resolved position of the real tag (forwarding already followed)
	Leaf   core.MassPoint  // valid when Kind == KindLeaf
	Node   NodeFields       // valid when Kind == KindNode
}

// Reader is the tag-dispatched pre-order walker: given a cursor, it
// follows any chain of chunk-continuation (100) or region-continuation
// (90) markers and returns the concrete node found there.
type Reader struct {
	reg *Registry
}

// NewReader builds a reader over the regions tracked by reg.
func NewReader(reg *Registry) *Reader {
	return &Reader{reg: reg}
}

func (r *Reader) bytesAt(c encoding.Cursor) ([]byte, error) {
	reg := r.reg.Get(c.Region)
	if reg == nil {
		return nil, bherr.Corruption("cursor references unknown region", nil)
	}
	ch, err := reg.chunkAt(c.Chunk)
	if err != nil {
		return nil, bherr.Corruption("cursor references unknown chunk", err)
	}
	if c.Offset < 0 || c.Offset >= len(ch.buf) {
		return nil, bherr.Corruption("cursor offset out of range", nil)
	}
	return ch.buf[c.Offset:], nil
}

// Read dispatches cur to a concrete node view, transparently following
// any chain of forwarding markers first. Depth of such chains is
// unbounded in principle but in practice at most two; a defensive cap
// guards against a corrupted cyclic chain.
func (r *Reader) Read(cur encoding.Cursor) (View, error) {
	const maxIndirection = 64
	for i := 0; ; i++ {
		if i > maxIndirection {
			return View{}, bherr.Corruption("forwarding chain too deep (possible cycle)", nil)
		}
		buf, err := r.bytesAt(cur)
		if err != nil {
			return View{}, err
		}
		tag := encoding.Tag(buf)
		switch tag {
		case TagChunkForward, TagRegionForward:
			cur = encoding.GetCursor(buf[1:])
			continue
		case TagEmpty:
			return View{Kind: KindEmpty, Cursor: cur}, nil
		case TagReserved:
			return View{Kind: KindReserved, Cursor: cur}, nil
		case TagLeaf:
			return View{
				Kind:   KindLeaf,
				Cursor: cur,
				Leaf: core.MassPoint{
					X:    encoding.Float64(buf[1:9]),
					Y:    encoding.Float64(buf[9:17]),
					Mass: encoding.Float64(buf[17:25]),
				},
			}, nil
		case TagNode:
			child2 := encoding.GetCursor(buf[1:9])
			child3 := encoding.GetCursor(buf[9:17])
			child4 := encoding.GetCursor(buf[17:25])
			fields := NodeFields{
				Centroid: core.MassPoint{
					X:    encoding.Float64(buf[25:33]),
					Y:    encoding.Float64(buf[33:41]),
					Mass: encoding.Float64(buf[41:49]),
				},
				TotalElems: encoding.Int64(buf[49:57]),
				Child1:     encoding.Cursor{Region: cur.Region, Chunk: cur.Chunk, Offset: cur.Offset + NodeSize},
				Child2:     child2,
				Child3:     child3,
				Child4:     child4,
			}
			return View{Kind: KindNode, Cursor: cur, Node: fields}, nil
		default:
			return View{}, bherr.Corruption("unknown tag", nil)
		}
	}
}

// CountElems returns the number of Leaf nodes reachable from cur:
// Empty contributes 0, Leaf contributes 1, Node contributes its
// stored total_elems.
func (r *Reader) CountElems(cur encoding.Cursor) (int64, error) {
	v, err := r.Read(cur)
	if err != nil {
		return 0, err
	}
	switch v.Kind {
	case KindEmpty, KindReserved:
		return 0, nil
	case KindLeaf:
		return 1, nil
	default:
		return v.Node.TotalElems, nil
	}
}

// Collect performs an in-order traversal ignoring indirection tags and
// appends every reachable mass-point to dst. Empty leaves contribute
// nothing.
func (r *Reader) Collect(cur encoding.Cursor, dst *[]core.MassPoint) error {
	v, err := r.Read(cur)
	if err != nil {
		return err
	}
	switch v.Kind {
	case KindEmpty, KindReserved:
		return nil
	case KindLeaf:
		*dst = append(*dst, v.Leaf)
		return nil
	default:
		for _, c := range []encoding.Cursor{v.Node.Child1, v.Node.Child2, v.Node.Child3, v.Node.Child4} {
			if err := r.Collect(c, dst); err != nil {
				return err
			}
		}
		return nil
	}
}
