package region

// Tag values for the packed-tree encoding. These are the only bytes a
// reader ever dispatches on.
const (
	TagEmpty         byte = 0
	TagLeaf          byte = 1
	TagReserved      byte = 2 // never written by a packer; Reader.Read reports it as KindReserved
	TagNode          byte = 3
	TagRegionForward byte = 90
	TagChunkForward  byte = 100
)

// Byte widths of each node shape, tag included.
const (
	EmptySize = 1
	LeafSize  = 1 + 3*8
	NodeSize  = 1 + 3*8 + 3*8 + 8 // tag + 3 jump cursors + 3 centroid floats + total_elems
	ForwardSize = 1 + 8          // tag + one cursor

	// NodeFieldsSize is NodeSize without its leading tag byte: the three
	// jump cursors, the centroid, and total_elems, in that order. This is
	// the placeholder region Pack reserves with Skip and later fills in
	// with the Patch* calls once all four children are written.
	NodeFieldsSize = NodeSize - 1
)

// HeaderRoom is the minimum headroom a writer must reserve before
// emitting any tag. It comfortably covers the largest shape (NodeSize)
// plus a trailing forward marker (ForwardSize) that a sibling join
// might later need to plant at this position's end cursor.
const HeaderRoom = 128
