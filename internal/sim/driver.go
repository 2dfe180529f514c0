// Package sim wires the packed-tree writer, the force kernel, and their
// shared fork-join pool into the per-iteration simulation loop: build a
// tree from the current positions, compute every body's acceleration
// against it, and integrate the result into velocity.
package sim

import (
	"context"
	"runtime"

	"github.com/nbodylab/bhut/internal/core"
	"github.com/nbodylab/bhut/internal/force"
	"github.com/nbodylab/bhut/internal/pack"
	"github.com/nbodylab/bhut/internal/region"
	"golang.org/x/sync/errgroup"
)

// Driver runs the fixed-point simulation loop over a configured number
// of iterations.
type Driver struct {
	cfg    Config
	kernel *force.Kernel
}

// NewDriver builds a driver from the given options.
func NewDriver(opts ...Option) *Driver {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	kernel := force.NewKernel(force.WithCutoff(cfg.ForceCutoff), force.WithPool(cfg.Pool))
	return &Driver{cfg: cfg, kernel: kernel}
}

// Result is what Run reports once the configured number of iterations
// has completed.
type Result struct {
	Bodies []core.Body
	// Elems is the element count of the tree built on the final
	// iteration, reported by the CLI as "Elems:".
	Elems int64
}

// Run performs Config.Iters passes over bodies, bounded by box, and
// returns the bodies with their velocities updated by the final pass.
// Positions are never mutated: the benchmark this is grounded on treats
// acceleration as an observable quantity in its own right, not as the
// input to a position integrator.
func (d *Driver) Run(ctx context.Context, bodies []core.Body, box core.Box) (Result, error) {
	out := make([]core.Body, len(bodies))
	copy(out, bodies)

	var elems int64
	for iter := 0; iter < d.cfg.Iters; iter++ {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		mpts := make([]core.MassPoint, len(out))
		for i, b := range out {
			mpts[i] = core.MassPointOf(b)
		}

		reg := region.NewRegistry()
		_, treeStart, err := pack.Build(reg, box, mpts, pack.WithCutoff(d.cfg.PackCutoff), pack.WithPool(d.cfg.Pool))
		if err != nil {
			reg.Release()
			return Result{}, err
		}

		reader := region.NewReader(reg)
		elems, err = reader.CountElems(treeStart)
		if err != nil {
			reg.Release()
			return Result{}, err
		}

		accelX := make([]float64, len(out))
		accelY := make([]float64, len(out))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := range out {
			i := i
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				ax, ay, err := d.kernel.CalcAccel(reader, treeStart, mpts[i])
				if err != nil {
					return err
				}
				accelX[i], accelY[i] = ax, ay
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			reg.Release()
			return Result{}, err
		}

		for i := range out {
			out[i] = force.ApplyAccel(out[i], accelX[i], accelY[i])
		}

		reg.Release()
		d.cfg.Logger.Debug("simulation iteration complete", "iter", iter, "elems", elems)
	}

	return Result{Bodies: out, Elems: elems}, nil
}
