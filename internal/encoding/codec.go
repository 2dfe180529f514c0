package encoding

import (
	"encoding/binary"
	"math"
)

// Field widths for the packed-tree encoding. All fields are
// little-endian and tightly packed: no alignment padding.
const (
	TagSize    = 1
	Float64Size = 8
	Int64Size  = 8
	CursorSize = 8
)

// PutTag writes a one-byte tag at buf[0].
func PutTag(buf []byte, tag byte) {
	buf[0] = tag
}

// Tag reads the one-byte tag at buf[0].
func Tag(buf []byte) byte {
	return buf[0]
}

// PutFloat64 writes a little-endian float64 at buf[0:8].
func PutFloat64(buf []byte, v float64) {
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
}

// Float64 reads a little-endian float64 from buf[0:8].
func Float64(buf []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf))
}

// PutInt64 writes a little-endian int64 at buf[0:8].
func PutInt64(buf []byte, v int64) {
	binary.LittleEndian.PutUint64(buf, uint64(v))
}

// Int64 reads a little-endian int64 from buf[0:8].
func Int64(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf))
}

// PutCursor packs a cursor into 8 bytes: 16 bits region id, 16 bits
// chunk index, 32 bits in-chunk byte offset. This is the design note's
// prescribed substitute for a raw process pointer: indices tagged with
// a region id, safe across Go's memory model, instead of addresses
// into a contiguous virtual address space.
func PutCursor(buf []byte, c Cursor) {
	raw := uint64(uint16(c.Region))<<48 | uint64(uint16(c.Chunk))<<32 | uint64(uint32(c.Offset))
	binary.LittleEndian.PutUint64(buf, raw)
}

// GetCursor reads a cursor from buf[0:8].
func GetCursor(buf []byte) Cursor {
	raw := binary.LittleEndian.Uint64(buf)
	return Cursor{
		Region: int(uint16(raw >> 48)),
		Chunk:  int(uint16(raw >> 32)),
		Offset: int(uint32(raw)),
	}
}

// Cursor addresses a byte position within a region chain: which
// region, which chunk within that region, and the byte offset within
// that chunk.
type Cursor struct {
	Region int
	Chunk  int
	Offset int
}
