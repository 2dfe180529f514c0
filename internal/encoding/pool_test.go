package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetChunkSizing(t *testing.T) {
	buf := GetChunk(100)
	require.Len(t, buf, 100)
	ReleaseChunk(buf)

	big := GetChunk(DefaultChunkCapacity * 2)
	require.Len(t, big, DefaultChunkCapacity*2)
	ReleaseChunk(big)
}

func TestReleaseChunkReuse(t *testing.T) {
	buf := GetChunk(64)
	buf[0] = 0xFF
	ReleaseChunk(buf)

	reused := GetChunk(64)
	require.Len(t, reused, 64)
}
