// Package pack implements the packed-tree writer: a stack-discipline
// recursive serializer (Pack) and its fork-join parallel counterpart
// (ParallelPack), both of which write a Barnes-Hut quad-tree pre-order
// into a region.Writer.
package pack

import (
	"github.com/nbodylab/bhut/internal/core"
	"github.com/nbodylab/bhut/internal/encoding"
	"github.com/nbodylab/bhut/internal/region"
)

// fieldCursor returns the cursor `off` bytes past base, within the same
// chunk. Used only for addressing a Node header's own fixed-size
// fields, which are guaranteed (by the >=128 byte headroom reservation)
// never to cross a chunk boundary.
func fieldCursor(base encoding.Cursor, off int) encoding.Cursor {
	return encoding.Cursor{Region: base.Region, Chunk: base.Chunk, Offset: base.Offset + off}
}

// Pack recursively serializes pts (bounded by box) into w, pre-order:
//
//  1. Reserve >=128 bytes of headroom before any tag write.
//  2. |pts| == 0: emit Empty.
//  3. |pts| == 1: emit Leaf with the point's own (x, y, mass).
//  4. Otherwise emit Node: centroid, partition into four quadrants in
//     (ll, ul, ur, lr) order, recurse child 1..4, back-patch the jump
//     fields and centroid/count once all four children are written.
//
// It returns the cursor where this subtree begins and the cursor
// immediately past its last child (the position a following sibling, if
// any, should continue writing at).
func Pack(w *region.Writer, box core.Box, pts []core.MassPoint) (start, end encoding.Cursor, err error) {
	if err := w.Reserve(region.HeaderRoom); err != nil {
		return encoding.Cursor{}, encoding.Cursor{}, err
	}
	start = w.Cursor()

	switch len(pts) {
	case 0:
		w.PutTag(region.TagEmpty)
		return start, w.Cursor(), nil

	case 1:
		p := pts[0]
		w.PutTag(region.TagLeaf)
		w.PutFloat64(p.X)
		w.PutFloat64(p.Y)
		w.PutFloat64(p.Mass)
		return start, w.Cursor(), nil
	}

	centroid := core.Centroid(pts)
	quads := box.Quadrants()
	parts := core.Partition(box, pts)

	w.PutTag(region.TagNode)
	header := fieldCursor(start, 1)
	w.Skip(region.NodeFieldsSize)

	_, c1end, err := Pack(w, quads[0], parts[0])
	if err != nil {
		return encoding.Cursor{}, encoding.Cursor{}, err
	}
	c2start, c2end, err := Pack(w, quads[1], parts[1])
	if err != nil {
		return encoding.Cursor{}, encoding.Cursor{}, err
	}
	c3start, c3end, err := Pack(w, quads[2], parts[2])
	if err != nil {
		return encoding.Cursor{}, encoding.Cursor{}, err
	}
	c4start, c4end, err := Pack(w, quads[3], parts[3])
	if err != nil {
		return encoding.Cursor{}, encoding.Cursor{}, err
	}
	_ = c1end

	if err := patchHeader(w, header, c2start, c3start, c4start, centroid, int64(len(pts))); err != nil {
		return encoding.Cursor{}, encoding.Cursor{}, err
	}

	return start, c4end, nil
}

func patchHeader(w *region.Writer, header, c2, c3, c4 encoding.Cursor, centroid core.MassPoint, totalElems int64) error {
	if err := w.PatchCursorAt(fieldCursor(header, 0), c2); err != nil {
		return err
	}
	if err := w.PatchCursorAt(fieldCursor(header, 8), c3); err != nil {
		return err
	}
	if err := w.PatchCursorAt(fieldCursor(header, 16), c4); err != nil {
		return err
	}
	if err := w.PatchFloat64At(fieldCursor(header, 24), centroid.X); err != nil {
		return err
	}
	if err := w.PatchFloat64At(fieldCursor(header, 32), centroid.Y); err != nil {
		return err
	}
	if err := w.PatchFloat64At(fieldCursor(header, 40), centroid.Mass); err != nil {
		return err
	}
	return w.PatchInt64At(fieldCursor(header, 48), totalElems)
}
