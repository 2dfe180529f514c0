package pack

import (
	"github.com/nbodylab/bhut/internal/core"
	"github.com/nbodylab/bhut/internal/encoding"
	"github.com/nbodylab/bhut/internal/forkjoin"
	"github.com/nbodylab/bhut/internal/region"
	"golang.org/x/sync/errgroup"
)

// Build runs ParallelPack over pts starting fresh: it allocates a root
// region from reg, writes the whole tree into it, and returns the root
// cursor together with the region that owns it.
func Build(reg *region.Registry, box core.Box, pts []core.MassPoint, opts ...Option) (*region.Region, encoding.Cursor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	root := reg.NewRegion()
	w := region.NewWriter(root)
	start, _, err := ParallelPack(cfg.Pool, reg, w, box, pts, cfg.Cutoff)
	return root, start, err
}

// ParallelPack is the fork-join counterpart of Pack. Below cutoff
// elements it defers to Pack entirely. At or above cutoff, child 1 is
// always built inline on w (it has no jump field and must stay
// physically adjacent to the header); children 2-4 each attempt to
// claim a pool slot. A child that claims one gets its own fresh region
// and runs concurrently; the header's jump field for that child then
// points not at the child's own start but at a RegionForward marker
// appended to w at the position the child would otherwise have
// occupied. TreeReader follows that marker exactly as it would a
// chunk-forward.
// A child that finds the pool saturated runs synchronously on w, and its
// jump field is simply its own (already-contiguous) start cursor.
func ParallelPack(pool *forkjoin.Pool, reg *region.Registry, w *region.Writer, box core.Box, pts []core.MassPoint, cutoff int) (start, end encoding.Cursor, err error) {
	// Empty and single-point subtrees bottom out the same way regardless
	// of cutoff: only an actual Node has a choice between forking its
	// children and running them inline.
	if len(pts) <= 1 || len(pts) < cutoff {
		return Pack(w, box, pts)
	}

	if err := w.Reserve(region.HeaderRoom); err != nil {
		return encoding.Cursor{}, encoding.Cursor{}, err
	}
	start = w.Cursor()

	centroid := core.Centroid(pts)
	quads := box.Quadrants()
	parts := core.Partition(box, pts)

	w.PutTag(region.TagNode)
	header := fieldCursor(start, 1)
	w.Skip(region.NodeFieldsSize)

	_, c1end, err := ParallelPack(pool, reg, w, quads[0], parts[0], cutoff)
	if err != nil {
		return encoding.Cursor{}, encoding.Cursor{}, err
	}
	_ = c1end

	var g errgroup.Group
	jump := make([]encoding.Cursor, 3) // jump[0..2] correspond to children 2,3,4

	for i := 1; i <= 3; i++ {
		i := i
		childBox := quads[i]
		childPts := parts[i]

		if !pool.TryAcquire() {
			childStart, childEnd, err := ParallelPack(pool, reg, w, childBox, childPts, cutoff)
			if err != nil {
				return encoding.Cursor{}, encoding.Cursor{}, err
			}
			jump[i-1] = childStart
			_ = childEnd
			continue
		}

		childReg := reg.NewRegion()
		childWriter := region.NewWriter(childReg)
		if err := childWriter.Reserve(region.HeaderRoom); err != nil {
			pool.Release()
			return encoding.Cursor{}, encoding.Cursor{}, err
		}
		childStart := childWriter.Cursor()

		fwd := w.Cursor()
		if err := w.Reserve(region.ForwardSize); err != nil {
			pool.Release()
			return encoding.Cursor{}, encoding.Cursor{}, err
		}
		fwd = w.Cursor()
		w.PutTag(region.TagRegionForward)
		w.PutCursor(childStart)
		jump[i-1] = fwd

		g.Go(func() error {
			defer pool.Release()
			_, _, err := ParallelPack(pool, reg, childWriter, childBox, childPts, cutoff)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return encoding.Cursor{}, encoding.Cursor{}, err
	}

	tail := w.Cursor()
	if err := patchHeader(w, header, jump[0], jump[1], jump[2], centroid, int64(len(pts))); err != nil {
		return encoding.Cursor{}, encoding.Cursor{}, err
	}

	return start, tail, nil
}
