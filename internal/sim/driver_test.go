package sim

import (
	"context"
	"testing"

	"github.com/nbodylab/bhut/internal/core"
	"github.com/stretchr/testify/require"
)

func TestRunProducesElemsAndUpdatesVelocity(t *testing.T) {
	bodies := []core.Body{
		core.NewBody(core.Point2D{X: 1, Y: 1}),
		core.NewBody(core.Point2D{X: 9, Y: 9}),
		core.NewBody(core.Point2D{X: 1, Y: 9}),
		core.NewBody(core.Point2D{X: 9, Y: 1}),
	}
	box := core.Box{LLX: 0, LLY: 0, RUX: 10, RUY: 10}

	d := NewDriver(WithIters(2), WithPackCutoff(1), WithForceCutoff(1))
	result, err := d.Run(context.Background(), bodies, box)
	require.NoError(t, err)
	require.Equal(t, int64(4), result.Elems)
	require.Len(t, result.Bodies, 4)

	for i, b := range result.Bodies {
		require.Equal(t, bodies[i].X, b.X, "position must not move")
		require.Equal(t, bodies[i].Y, b.Y, "position must not move")
		require.NotEqual(t, 0.0, b.VX, "velocity should have accumulated some pull")
	}
}

func TestRunDeterministicForFixedInput(t *testing.T) {
	box := core.Box{LLX: 0, LLY: 0, RUX: 20, RUY: 20}
	bodies := make([]core.Body, 30)
	for i := range bodies {
		bodies[i] = core.NewBody(core.Point2D{X: float64(i%10) + 1, Y: float64(i/10) + 1})
	}

	run := func() []core.Body {
		d := NewDriver(WithIters(3))
		result, err := d.Run(context.Background(), bodies, box)
		require.NoError(t, err)
		return result.Bodies
	}

	a := run()
	b := run()
	require.Equal(t, a, b)
}

func TestRunRespectsContextCancellation(t *testing.T) {
	box := core.Box{LLX: 0, LLY: 0, RUX: 10, RUY: 10}
	bodies := []core.Body{core.NewBody(core.Point2D{X: 1, Y: 1}), core.NewBody(core.Point2D{X: 2, Y: 2})}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDriver(WithIters(5))
	_, err := d.Run(ctx, bodies, box)
	require.Error(t, err)
}
