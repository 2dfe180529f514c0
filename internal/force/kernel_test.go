package force

import (
	"testing"

	"github.com/nbodylab/bhut/internal/core"
	"github.com/nbodylab/bhut/internal/pack"
	"github.com/nbodylab/bhut/internal/region"
	"github.com/stretchr/testify/require"
)

var box = core.Box{LLX: 0, LLY: 0, RUX: 10, RUY: 10}

func TestAccelSofteningClampsNearField(t *testing.T) {
	k := NewKernel()
	reg := region.NewRegistry()
	defer reg.Release()

	w := region.NewWriter(reg.NewRegion())
	pts := []core.MassPoint{{X: 5.01, Y: 5.0, Mass: 10}}
	start, _, err := pack.Pack(w, box, pts)
	require.NoError(t, err)

	r := region.NewReader(reg)
	ax, ay, err := k.CalcAccel(r, start, core.MassPoint{X: 5.0, Y: 5.0, Mass: 1})
	require.NoError(t, err)
	require.Equal(t, 0.0, ax)
	require.Equal(t, 0.0, ay)
}

func TestAccelDistantLeafMatchesFormula(t *testing.T) {
	k := NewKernel()
	reg := region.NewRegistry()
	defer reg.Release()

	w := region.NewWriter(reg.NewRegion())
	pts := []core.MassPoint{{X: 9, Y: 9, Mass: 4}}
	start, _, err := pack.Pack(w, box, pts)
	require.NoError(t, err)

	r := region.NewReader(reg)
	at := core.MassPoint{X: 1, Y: 1, Mass: 1}
	ax, ay, err := k.CalcAccel(r, start, at)
	require.NoError(t, err)

	dx := at.X - pts[0].X
	dy := at.Y - pts[0].Y
	rsq := dx*dx + dy*dy
	a := pts[0].Mass / rsq
	require.InDelta(t, a*dx, ax, 1e-9)
	require.InDelta(t, a*dy, ay, 1e-9)
}

func TestCalcAccelParallelMatchesSequential(t *testing.T) {
	pts := make([]core.MassPoint, 0, 64)
	for i := 0; i < 64; i++ {
		pts = append(pts, core.MassPoint{
			X:    float64(i%8) + 0.5,
			Y:    float64((i/8)%8) + 0.5,
			Mass: 1,
		})
	}

	reg := region.NewRegistry()
	defer reg.Release()
	w := region.NewWriter(reg.NewRegion())
	start, _, err := pack.Pack(w, box, pts)
	require.NoError(t, err)

	r := region.NewReader(reg)
	at := core.MassPoint{X: 0.1, Y: 0.1, Mass: 1}

	seqKernel := NewKernel()
	sax, say, err := seqKernel.CalcAccel(r, start, at)
	require.NoError(t, err)

	parKernel := NewKernel(WithCutoff(4))
	pax, pay, err := parKernel.CalcAccelParallel(r, start, at)
	require.NoError(t, err)

	require.InDelta(t, sax, pax, 1e-9)
	require.InDelta(t, say, pay, 1e-9)
}

func TestApplyAccelDoublesVelocityUpdate(t *testing.T) {
	b := core.Body{X: 1, Y: 2, Mass: 3, VX: 1, VY: -1}
	out := ApplyAccel(b, 0.5, 0.5)
	require.Equal(t, 1.0, out.X)
	require.Equal(t, 2.0, out.Y)
	require.Equal(t, 3.0, out.Mass)
	require.InDelta(t, (1+0.5)*2, out.VX, 1e-9)
	require.InDelta(t, (-1+0.5)*2, out.VY, 1e-9)
}

func TestTooCloseOpensNode(t *testing.T) {
	k := NewKernel()
	require.True(t, k.tooClose(0, 0, 0.05, 0.05))
	require.False(t, k.tooClose(0, 0, 1, 1))
}

func TestAccelZeroJustInsideSoftening(t *testing.T) {
	k := NewKernel()
	ax, ay := k.accel(0, 0, 1, k.cfg.SofteningDist*0.5, 0)
	require.Equal(t, 0.0, ax)
	require.Equal(t, 0.0, ay)
}
