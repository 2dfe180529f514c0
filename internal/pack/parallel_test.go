package pack

import (
	"testing"

	"github.com/nbodylab/bhut/internal/core"
	"github.com/nbodylab/bhut/internal/forkjoin"
	"github.com/nbodylab/bhut/internal/region"
	"github.com/stretchr/testify/require"
)

// TestParallelPackMatchesSequential exercises indirection transparency:
// reading a parallel-built tree through the same Reader used for a
// sequential one yields the same set of points, regardless of how many
// siblings got stolen onto fresh regions.
func TestParallelPackMatchesSequential(t *testing.T) {
	pts := make([]core.MassPoint, 0, 200)
	for i := 0; i < 200; i++ {
		pts = append(pts, core.MassPoint{
			X:    float64(i%20) + 0.25,
			Y:    float64((i/20)%20) + 0.25,
			Mass: 1,
		})
	}

	reg := region.NewRegistry()
	defer reg.Release()

	pool := forkjoin.NewPool(4)
	_, start, err := Build(reg, unitBoxLarge, pts, WithCutoff(1), WithPool(pool))
	require.NoError(t, err)

	r := region.NewReader(reg)
	count, err := r.CountElems(start)
	require.NoError(t, err)
	require.Equal(t, int64(len(pts)), count)

	var out []core.MassPoint
	require.NoError(t, r.Collect(start, &out))
	require.ElementsMatch(t, pts, out)
}

func TestParallelPackSingleCapacityPoolRoundTrips(t *testing.T) {
	pts := []core.MassPoint{
		{X: 1, Y: 1, Mass: 1},
		{X: 1, Y: 19, Mass: 1},
		{X: 19, Y: 19, Mass: 1},
		{X: 19, Y: 1, Mass: 1},
	}

	reg := region.NewRegistry()
	defer reg.Release()

	pool := forkjoin.NewPool(1)
	_, start, err := Build(reg, unitBoxLarge, pts, WithCutoff(1), WithPool(pool))
	require.NoError(t, err)

	r := region.NewReader(reg)
	var out []core.MassPoint
	require.NoError(t, r.Collect(start, &out))
	require.ElementsMatch(t, pts, out)
}

var unitBoxLarge = core.Box{LLX: 0, LLY: 0, RUX: 20, RUY: 20}
