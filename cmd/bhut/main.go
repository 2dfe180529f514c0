// Package main runs the parallel Barnes-Hut benchmark: build a packed
// quad-tree from a set of bodies, compute every body's acceleration
// against it over a configured number of iterations, and report the
// final tree size, timing, and a direct-force sanity checksum.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/nbodylab/bhut/internal/bodyio"
	"github.com/nbodylab/bhut/internal/core"
	"github.com/nbodylab/bhut/internal/encoding"
	"github.com/nbodylab/bhut/internal/pack"
	"github.com/nbodylab/bhut/internal/region"
	"github.com/nbodylab/bhut/internal/sim"
)

func main() {
	arrayInput := flag.String("array-input", "", "path to a whitespace-separated \"x y\" point file")
	benchSeed := flag.Uint64("bench-input", 0, "PCG seed for a generated benchmark input (used when --array-input is not set)")
	cutoff := flag.Int("cutoff", 0, "fork-join cutoff shared by the packer and force kernel (0 keeps each component's own default)")
	bufferSize := flag.Int("buffer-size", 0, "accepted for command-line compatibility; the value is not applied and regions keep the region package's default initial chunk size")
	dump := flag.Bool("dump", false, "pretty-print the final packed tree instead of the benchmark summary")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: bhut [flags] <size> <iters>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	size, err := strconv.Atoi(args[0])
	if err != nil {
		log.Fatalf("invalid size argument %q: %v", args[0], err)
	}
	iters, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatalf("invalid iters argument %q: %v", args[1], err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var pts []core.Point2D
	if *arrayInput != "" {
		pts, err = bodyio.ReadArrayFile(*arrayInput)
		if err != nil {
			log.Fatalf("reading array input: %v", err)
		}
	} else {
		pts = bodyio.GenerateRandom(size, *benchSeed, *benchSeed^0x9E3779B97F4A7C15)
	}

	bodies := make([]core.Body, len(pts))
	for i, p := range pts {
		bodies[i] = core.NewBody(p)
	}

	box := boundingBox(bodies)

	opts := []sim.Option{sim.WithIters(iters), sim.WithLogger(logger)}
	if *cutoff > 0 {
		opts = append(opts, sim.WithPackCutoff(*cutoff), sim.WithForceCutoff(*cutoff))
	}
	driver := sim.NewDriver(opts...)

	if *bufferSize > 0 {
		logger.Info("ignoring non-default region chunk size override at the driver boundary; configure it via region.Option in library use", "requested", *bufferSize)
	}

	begin := time.Now()
	result, err := driver.Run(context.Background(), bodies, box)
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}
	batchTime := time.Since(begin)

	if *dump {
		if err := dumpFinalTree(box, result); err != nil {
			log.Fatalf("dump failed: %v", err)
		}
		return
	}

	rng := rand.New(rand.NewPCG(*benchSeed, uint64(size)))
	errVal, err := bodyio.Checksum(result.Bodies, rng)
	if err != nil {
		log.Fatalf("checksum failed: %v", err)
	}

	selfTimed := batchTime
	if iters > 0 {
		selfTimed = batchTime / time.Duration(iters)
	}

	fmt.Printf("Elems: %d\n", result.Elems)
	fmt.Printf("ITERS: %d\n", iters)
	fmt.Printf("SIZE: %d\n", size)
	fmt.Printf("BATCHTIME: %e\n", batchTime.Seconds())
	fmt.Printf("SELFTIMED: %e\n", selfTimed.Seconds())
	fmt.Printf("Err: %f\n", errVal)
}

func boundingBox(bodies []core.Body) core.Box {
	if len(bodies) == 0 {
		return core.Box{}
	}
	b := core.Box{LLX: bodies[0].X, LLY: bodies[0].Y, RUX: bodies[0].X, RUY: bodies[0].Y}
	for _, body := range bodies[1:] {
		if body.X < b.LLX {
			b.LLX = body.X
		}
		if body.Y < b.LLY {
			b.LLY = body.Y
		}
		if body.X > b.RUX {
			b.RUX = body.X
		}
		if body.Y > b.RUY {
			b.RUY = body.Y
		}
	}
	// Box.Contains leaves the lower and left edges open, so move them just
	// below the smallest coordinates to keep those bodies inside the box.
	b.LLX = math.Nextafter(b.LLX, math.Inf(-1))
	b.LLY = math.Nextafter(b.LLY, math.Inf(-1))
	return b
}

// dumpFinalTree rebuilds a tree from the driver's final bodies and walks
// it, printing one line per node. It is a debugging aid, not part of the
// benchmark's measured path, so it rebuilds sequentially and tolerates
// the reserved tag defensively even though no packer ever emits it.
func dumpFinalTree(box core.Box, result sim.Result) error {
	reg := region.NewRegistry()
	defer reg.Release()

	mpts := make([]core.MassPoint, len(result.Bodies))
	for i, b := range result.Bodies {
		mpts[i] = core.MassPointOf(b)
	}

	w := region.NewWriter(reg.NewRegion())
	start, _, err := pack.Pack(w, box, mpts)
	if err != nil {
		return err
	}

	reader := region.NewReader(reg)
	return printNode(reader, start, 0)
}

func printNode(reader *region.Reader, cur encoding.Cursor, depth int) error {
	v, err := reader.Read(cur)
	if err != nil {
		return err
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	switch v.Kind {
	case region.KindEmpty:
		fmt.Printf("%sEmpty\n", indent)
		return nil
	case region.KindReserved:
		fmt.Printf("%s<reserved>\n", indent)
		return nil
	case region.KindLeaf:
		fmt.Printf("%sLeaf x=%g y=%g m=%g\n", indent, v.Leaf.X, v.Leaf.Y, v.Leaf.Mass)
		return nil
	default:
		fmt.Printf("%sNode elems=%d centroid=(%g,%g,%g)\n", indent, v.Node.TotalElems, v.Node.Centroid.X, v.Node.Centroid.Y, v.Node.Centroid.Mass)
		for _, child := range []encoding.Cursor{v.Node.Child1, v.Node.Child2, v.Node.Child3, v.Node.Child4} {
			if err := printNode(reader, child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
}
