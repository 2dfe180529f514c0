package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuadrantsOrder(t *testing.T) {
	box := Box{LLX: 0, LLY: 0, RUX: 10, RUY: 10}
	quads := box.Quadrants()

	require.Equal(t, Box{LLX: 0, LLY: 0, RUX: 5, RUY: 5}, quads[0], "ll")
	require.Equal(t, Box{LLX: 0, LLY: 5, RUX: 5, RUY: 10}, quads[1], "ul")
	require.Equal(t, Box{LLX: 5, LLY: 5, RUX: 10, RUY: 10}, quads[2], "ur")
	require.Equal(t, Box{LLX: 5, LLY: 0, RUX: 10, RUY: 5}, quads[3], "lr")
}

func TestContainsEdgeConvention(t *testing.T) {
	box := Box{LLX: 0, LLY: 0, RUX: 10, RUY: 10}

	tests := []struct {
		name string
		pt   MassPoint
		want bool
	}{
		{"interior", MassPoint{X: 5, Y: 5, Mass: 1}, true},
		{"on lower edge excluded", MassPoint{X: 5, Y: 0, Mass: 1}, false},
		{"on left edge excluded", MassPoint{X: 0, Y: 5, Mass: 1}, false},
		{"on upper edge included", MassPoint{X: 5, Y: 10, Mass: 1}, true},
		{"on right edge included", MassPoint{X: 10, Y: 5, Mass: 1}, true},
		{"corner ll excluded", MassPoint{X: 0, Y: 0, Mass: 1}, false},
		{"corner ur included", MassPoint{X: 10, Y: 10, Mass: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, box.Contains(tt.pt))
		})
	}
}

func TestPartitionCoversEveryPoint(t *testing.T) {
	box := Box{LLX: 0, LLY: 0, RUX: 10, RUY: 10}
	pts := []MassPoint{
		{X: 1, Y: 1, Mass: 1},
		{X: 1, Y: 9, Mass: 1},
		{X: 9, Y: 9, Mass: 1},
		{X: 9, Y: 1, Mass: 1},
	}

	quads := Partition(box, pts)
	require.Len(t, quads[0], 1)
	require.Len(t, quads[1], 1)
	require.Len(t, quads[2], 1)
	require.Len(t, quads[3], 1)

	total := 0
	for _, q := range quads {
		total += len(q)
	}
	require.Equal(t, len(pts), total)
}

func TestCentroidIsWeightedSumNotAverage(t *testing.T) {
	pts := []MassPoint{
		{X: 1, Y: 0, Mass: 2},
		{X: 3, Y: 0, Mass: 4},
	}
	c := Centroid(pts)
	require.InDelta(t, 1*2+3*4, c.X, 1e-9)
	require.InDelta(t, 0.0, c.Y, 1e-9)
	require.InDelta(t, 6.0, c.Mass, 1e-9)
}
