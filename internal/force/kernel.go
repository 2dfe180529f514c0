// Package force implements the Barnes-Hut force kernel: given a packed
// tree (read through a region.Reader) and a query point, compute the
// point's acceleration due to every body in the tree, opening nodes that
// are too close to approximate and treating distant ones as a single
// aggregate mass at their centroid.
package force

import (
	"math"

	"github.com/nbodylab/bhut/internal/core"
	"github.com/nbodylab/bhut/internal/encoding"
	"github.com/nbodylab/bhut/internal/region"
	"golang.org/x/sync/errgroup"
)

// Kernel evaluates acceleration against a packed tree under a fixed
// Config.
type Kernel struct {
	cfg Config
}

// NewKernel builds a kernel from the given options.
func NewKernel(opts ...Option) *Kernel {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Kernel{cfg: cfg}
}

// accel returns the acceleration a unit query at (x, y) feels from a mass
// m centered at (qx, qy): a softened inverse-square-ish pull, zeroed out
// entirely once the separation drops below the softening threshold. The
// displacement is query-minus-source, matching the sign convention the
// packed-tree force walk is grounded on.
func (k *Kernel) accel(qx, qy, qm, x, y float64) (ax, ay float64) {
	dx := x - qx
	dy := y - qy
	rsq := dx*dx + dy*dy
	r := math.Sqrt(rsq)
	if r < k.cfg.SofteningDist {
		return 0, 0
	}
	a := qm / rsq
	return a * dx, a * dy
}

// tooClose reports whether (x, y) is near enough to (qx, qy) that a node
// centered there must be opened rather than approximated as one body.
func (k *Kernel) tooClose(qx, qy, x, y float64) bool {
	dx := qx - x
	dy := qy - y
	return dx*dx+dy*dy < k.cfg.OpenDistSq
}

// CalcAccel walks the tree rooted at cur sequentially, applying the
// opening criterion at every Node and summing contributions from every
// Leaf and every distant aggregate.
func (k *Kernel) CalcAccel(r *region.Reader, cur encoding.Cursor, at core.MassPoint) (ax, ay float64, err error) {
	v, err := r.Read(cur)
	if err != nil {
		return 0, 0, err
	}

	switch v.Kind {
	case region.KindEmpty:
		return 0, 0, nil

	case region.KindLeaf:
		ax, ay = k.accel(v.Leaf.X, v.Leaf.Y, v.Leaf.Mass, at.X, at.Y)
		return ax, ay, nil

	default:
		c := v.Node.Centroid
		if !k.tooClose(c.X, c.Y, at.X, at.Y) {
			ax, ay = k.accel(c.X, c.Y, c.Mass, at.X, at.Y)
			return ax, ay, nil
		}

		children := [4]encoding.Cursor{v.Node.Child1, v.Node.Child2, v.Node.Child3, v.Node.Child4}
		var sumX, sumY float64
		for _, child := range children {
			cax, cay, err := k.CalcAccel(r, child, at)
			if err != nil {
				return 0, 0, err
			}
			sumX += cax
			sumY += cay
		}
		return sumX, sumY, nil
	}
}

// CalcAccelParallel is CalcAccel's fork-join counterpart: below the
// configured cutoff, or once a node is not opened, it behaves exactly
// like CalcAccel. Once a Node opens and its element count is at or above
// cutoff, children 1-3 fork (pool permitting) while child 4 always runs
// inline, then results are summed. A node whose element count falls
// below cutoff re-dispatches the *entire* subtree to CalcAccel from cur,
// rather than resuming partway through: it never partially parallelizes
// a single node.
func (k *Kernel) CalcAccelParallel(r *region.Reader, cur encoding.Cursor, at core.MassPoint) (ax, ay float64, err error) {
	v, err := r.Read(cur)
	if err != nil {
		return 0, 0, err
	}

	switch v.Kind {
	case region.KindEmpty:
		return 0, 0, nil

	case region.KindLeaf:
		ax, ay = k.accel(v.Leaf.X, v.Leaf.Y, v.Leaf.Mass, at.X, at.Y)
		return ax, ay, nil

	default:
		if v.Node.TotalElems < int64(k.cfg.Cutoff) {
			return k.CalcAccel(r, cur, at)
		}

		c := v.Node.Centroid
		if !k.tooClose(c.X, c.Y, at.X, at.Y) {
			ax, ay = k.accel(c.X, c.Y, c.Mass, at.X, at.Y)
			return ax, ay, nil
		}

		var results [4][2]float64
		var g errgroup.Group
		children := [4]encoding.Cursor{v.Node.Child1, v.Node.Child2, v.Node.Child3, v.Node.Child4}

		for i := 0; i < 3; i++ {
			i := i
			if !k.cfg.Pool.TryAcquire() {
				cax, cay, err := k.CalcAccelParallel(r, children[i], at)
				if err != nil {
					return 0, 0, err
				}
				results[i][0], results[i][1] = cax, cay
				continue
			}
			g.Go(func() error {
				defer k.cfg.Pool.Release()
				cax, cay, err := k.CalcAccelParallel(r, children[i], at)
				if err != nil {
					return err
				}
				results[i][0], results[i][1] = cax, cay
				return nil
			})
		}

		cax, cay, err := k.CalcAccelParallel(r, children[3], at)
		if err != nil {
			return 0, 0, err
		}
		results[3][0], results[3][1] = cax, cay

		if err := g.Wait(); err != nil {
			return 0, 0, err
		}

		for _, res := range results {
			ax += res[0]
			ay += res[1]
		}
		return ax, ay, nil
	}
}

// ApplyAccel integrates one step of acceleration into a velocity. The
// update uses a factor of 2, not plain Euler integration, matching the
// benchmark this kernel reproduces.
func ApplyAccel(b core.Body, ax, ay float64) core.Body {
	b.VX = (b.VX + ax) * 2
	b.VY = (b.VY + ay) * 2
	return b
}
