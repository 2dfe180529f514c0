package bodyio

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/nbodylab/bhut/internal/core"
	"github.com/stretchr/testify/require"
)

func TestReadArrayFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "points.txt")
	require.NoError(t, os.WriteFile(path, []byte("1.0 2.0\n\n3.5 -4.25\n"), 0o644))

	pts, err := ReadArrayFile(path)
	require.NoError(t, err)
	require.Equal(t, []core.Point2D{{X: 1.0, Y: 2.0}, {X: 3.5, Y: -4.25}}, pts)
}

func TestReadArrayFileBadLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "points.txt")
	require.NoError(t, os.WriteFile(path, []byte("not-a-number 2.0\n"), 0o644))

	_, err := ReadArrayFile(path)
	require.Error(t, err)
}

func TestGenerateRandomDeterministic(t *testing.T) {
	a := GenerateRandom(50, 1, 2)
	b := GenerateRandom(50, 1, 2)
	require.Equal(t, a, b)

	c := GenerateRandom(50, 1, 3)
	require.NotEqual(t, a, c)

	for _, p := range a {
		require.GreaterOrEqual(t, p.X, 0.0)
		require.Less(t, p.X, 1.0)
	}
}

func TestChecksumRejectsTooFewBodies(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	_, err := Checksum([]core.Body{{}}, rng)
	require.Error(t, err)
}

func TestChecksumRunsOverBodies(t *testing.T) {
	bodies := make([]core.Body, 20)
	for i := range bodies {
		bodies[i] = core.Body{X: float64(i), Y: float64(i), Mass: 1, VX: float64(i) * 0.01, VY: float64(i) * 0.02}
	}
	rng := rand.New(rand.NewPCG(7, 7))
	e, err := Checksum(bodies, rng)
	require.NoError(t, err)
	require.False(t, e < 0)
}
