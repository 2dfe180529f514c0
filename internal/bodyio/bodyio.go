// Package bodyio implements the collaborators a runnable simulation
// needs around the packed-tree core: reading a whitespace-separated
// array file, generating a deterministic random benchmark input, and the
// direct O(n^2) checksum used to sanity-check a run's accumulated
// velocities against a handful of brute-force samples.
package bodyio

import (
	"bufio"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/nbodylab/bhut/internal/bherr"
	"github.com/nbodylab/bhut/internal/core"
)

// ReadArrayFile reads one "x y" pair per line, the --array-input format.
// Blank lines are skipped; anything else that fails to parse as two
// floats is reported with its line number.
func ReadArrayFile(path string) ([]core.Point2D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, bherr.Input("opening array input file", err)
	}
	defer f.Close()

	var pts []core.Point2D
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, bherr.Input(fmt.Sprintf("array input line %d: expected two fields", lineNo), nil)
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, bherr.Input(fmt.Sprintf("array input line %d: bad x value", lineNo), err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, bherr.Input(fmt.Sprintf("array input line %d: bad y value", lineNo), err)
		}
		pts = append(pts, core.Point2D{X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, bherr.Input("reading array input file", err)
	}
	return pts, nil
}

// GenerateRandom produces n points uniformly distributed in [0, 1)^2
// from a deterministic PCG stream, the --bench-input path.
func GenerateRandom(n int, seed1, seed2 uint64) []core.Point2D {
	rng := rand.New(rand.NewPCG(seed1, seed2))
	pts := make([]core.Point2D, n)
	for i := range pts {
		pts[i] = core.Point2D{X: rng.Float64(), Y: rng.Float64()}
	}
	return pts
}

// sampleCount is the number of bodies the checksum draws for its direct
// comparison.
const sampleCount = 10

// gravConst is the checksum's own gravitational constant, independent of
// the force kernel's tunables.
const gravConst = 1.0

// Checksum samples up to sampleCount bodies and, for each, recomputes a
// direct O(n^2) force from every other body's accumulated velocity,
// comparing it against that body's own velocity. It returns the mean
// relative error across the sample; a well-behaved run keeps this small.
func Checksum(bodies []core.Body, rng *rand.Rand) (float64, error) {
	n := len(bodies)
	if n < 2 {
		return 0, bherr.Input("checksum requires at least two bodies", nil)
	}

	total := 0.0
	for i := 0; i < sampleCount; i++ {
		idx := rng.IntN(n - 1)
		pidx := bodies[idx]

		var forceX, forceY float64
		for j := 0; j < n; j++ {
			if j == idx {
				continue
			}
			pj := bodies[j]
			dx := pj.VX - pidx.VX
			dy := pj.VY - pidx.VY
			r := length(dx, dy)
			s := pj.Mass * pidx.Mass * (gravConst / (r * r * r))
			forceX += dx * s
			forceY += dy * s
		}

		diffX := forceX - pidx.VX
		diffY := forceY - pidx.VY
		e := length(diffX, diffY) / length(forceX, forceY)
		total += e
	}
	return total / sampleCount, nil
}

func length(dx, dy float64) float64 {
	return math.Sqrt(dx*dx + dy*dy)
}
