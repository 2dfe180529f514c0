// Package encoding provides the byte-level primitives the packed-tree
// writer and reader share: a pool of reusable chunk buffers and
// little-endian field codecs for the tag/cursor/float/int fields that
// make up a packed node.
package encoding

import "sync"

// DefaultChunkCapacity is the backing-array capacity newly pooled
// buffers start at, chosen to comfortably hold a handful of Node
// headers (57 bytes each) before the caller's first reserve forces a
// grow.
const DefaultChunkCapacity = 4096

var chunkPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, DefaultChunkCapacity)
		return &buf
	},
}

// GetChunk returns a zero-length byte slice with at least size bytes of
// capacity, drawn from the shared pool where possible. Regions return
// their chunks here when freed at the end of a simulation iteration, so
// steady-state runs mostly reuse backing arrays instead of allocating.
func GetChunk(size int) []byte {
	p := chunkPool.Get().(*[]byte)
	buf := *p
	if cap(buf) < size {
		buf = make([]byte, 0, size)
	}
	return buf[:size]
}

// ReleaseChunk returns a chunk's backing array to the pool. The caller
// must not use buf after calling ReleaseChunk.
func ReleaseChunk(buf []byte) {
	buf = buf[:0]
	chunkPool.Put(&buf)
}
