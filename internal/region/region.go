package region

import (
	"sync"
	"sync/atomic"

	"github.com/nbodylab/bhut/internal/bherr"
	"github.com/nbodylab/bhut/internal/encoding"
)

// chunk is one contiguous, header-free payload in a region's chain.
type chunk struct {
	buf []byte
}

// Region owns a chain of one or more chunks. A region is created once
// per simulation iteration for the whole tree; ParallelPacker creates
// additional regions on demand when a stolen child has no physical
// continuation of its parent's region.
type Region struct {
	id           int
	maxChunkSize int
	mu           sync.Mutex // protects chunks: a stolen child may grow its own fresh region concurrently with siblings, but a region is never shared across two writers, so contention here is only same-writer reentrancy
	chunks       []*chunk
}

// Option configures a Registry's region construction.
type Option func(*regionConfig)

type regionConfig struct {
	initialChunkSize int
	maxChunkSize     int
}

func defaultConfig() regionConfig {
	return regionConfig{initialChunkSize: 64 * 1024, maxChunkSize: 1 << 30}
}

// WithInitialChunkSize sets the first chunk's capacity. Tests exercise
// tiny values here to force the chunk-chaining path.
func WithInitialChunkSize(n int) Option {
	return func(c *regionConfig) { c.initialChunkSize = n }
}

// WithMaxChunkSize caps how large a single doubled chunk may grow.
func WithMaxChunkSize(n int) Option {
	return func(c *regionConfig) { c.maxChunkSize = n }
}

// Registry hands out region IDs and lets a TreeReader resolve a cursor's
// region id back to the *Region that owns it. One Registry is shared by
// every writer and reader participating in a single simulation
// iteration's tree build.
type Registry struct {
	nextID  int32
	mu      sync.RWMutex
	regions map[int]*Region
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{regions: make(map[int]*Region)}
}

// NewRegion allocates a fresh region, registers it, and returns it.
func (r *Registry) NewRegion(opts ...Option) *Region {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	id := int(atomic.AddInt32(&r.nextID, 1)) - 1
	reg := &Region{
		id:           id,
		maxChunkSize: cfg.maxChunkSize,
		chunks:       []*chunk{{buf: encoding.GetChunk(cfg.initialChunkSize)}},
	}

	r.mu.Lock()
	r.regions[id] = reg
	r.mu.Unlock()
	return reg
}

// Get resolves a region id to its Region, or nil if unknown.
func (r *Registry) Get(id int) *Region {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.regions[id]
}

// Release returns every chunk in every registered region to the shared
// chunk pool. Call this once the tree built in this registry is no
// longer needed (end of a simulation iteration).
func (r *Registry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regions {
		for _, c := range reg.chunks {
			encoding.ReleaseChunk(c.buf)
		}
		reg.chunks = nil
	}
	r.regions = make(map[int]*Region)
}

// ID returns the region's identity, used to build cursors into it.
func (r *Region) ID() int { return r.id }

func (r *Region) chunkAt(idx int) (*chunk, error) {
	if idx < 0 || idx >= len(r.chunks) {
		return nil, bherr.Allocation("region chunk index out of range", nil)
	}
	return r.chunks[idx], nil
}

// Writer is a stack-discipline, append-only cursor into one region. It
// is not safe for concurrent use: each forked packer child owns either
// a disjoint chunk of a shared region (never stolen) or its own fresh
// region (stolen), so no two writers ever touch the same chunk.
type Writer struct {
	region   *Region
	chunkIdx int
	cur      int
}

// NewWriter begins writing at the start of region's first chunk.
func NewWriter(region *Region) *Writer {
	return &Writer{region: region}
}

// Cursor returns the writer's current append position.
func (w *Writer) Cursor() encoding.Cursor {
	return encoding.Cursor{Region: w.region.ID(), Chunk: w.chunkIdx, Offset: w.cur}
}

// RegionID returns the id of the region this writer is appending to.
func (w *Writer) RegionID() int { return w.region.ID() }

func (w *Writer) currentChunk() *chunk {
	return w.region.chunks[w.chunkIdx]
}

// Reserve guarantees at least n contiguous bytes of room at the
// writer's current cursor. If the current chunk lacks room, it
// allocates a new chunk of double size (capped at the region's
// configured maximum), writes a chunk-continuation tag at the old
// cursor pointing at the new chunk's start, and moves the cursor there.
func (w *Writer) Reserve(n int) error {
	c := w.currentChunk()
	if w.cur+n <= len(c.buf) {
		return nil
	}

	newSize := len(c.buf) * 2
	if newSize < n {
		newSize = n
	}
	if newSize > w.region.maxChunkSize {
		newSize = w.region.maxChunkSize
	}
	if newSize < n {
		return bherr.Allocation("chunk size cap too small for requested reservation", nil)
	}
	if w.cur+ForwardSize > len(c.buf) {
		return bherr.Allocation("no room left to plant chunk-continuation marker", nil)
	}

	newChunk := &chunk{buf: encoding.GetChunk(newSize)}
	w.region.mu.Lock()
	w.region.chunks = append(w.region.chunks, newChunk)
	newIdx := len(w.region.chunks) - 1
	w.region.mu.Unlock()

	target := encoding.Cursor{Region: w.region.ID(), Chunk: newIdx, Offset: 0}
	encoding.PutTag(c.buf[w.cur:], TagChunkForward)
	encoding.PutCursor(c.buf[w.cur+1:], target)

	w.chunkIdx = newIdx
	w.cur = 0
	return nil
}

// PutTag appends a one-byte tag.
func (w *Writer) PutTag(t byte) {
	c := w.currentChunk()
	encoding.PutTag(c.buf[w.cur:], t)
	w.cur += encoding.TagSize
}

// PutFloat64 appends one little-endian float64 field.
func (w *Writer) PutFloat64(v float64) {
	c := w.currentChunk()
	encoding.PutFloat64(c.buf[w.cur:], v)
	w.cur += encoding.Float64Size
}

// PutInt64 appends one little-endian int64 field.
func (w *Writer) PutInt64(v int64) {
	c := w.currentChunk()
	encoding.PutInt64(c.buf[w.cur:], v)
	w.cur += encoding.Int64Size
}

// PutCursor appends one cursor field.
func (w *Writer) PutCursor(v encoding.Cursor) {
	c := w.currentChunk()
	encoding.PutCursor(c.buf[w.cur:], v)
	w.cur += encoding.CursorSize
}

// Skip reserves room for n bytes of placeholder fields without writing
// them, advancing the cursor so the caller can fill them in later with
// PatchFloat64At/PatchInt64At/PatchCursorAt.
func (w *Writer) Skip(n int) {
	w.cur += n
}

// PatchFloat64At overwrites an already-written float64 field at an
// earlier cursor in this writer's own region: the node-header
// back-patch step, run once all four children have been written.
func (w *Writer) PatchFloat64At(at encoding.Cursor, v float64) error {
	c, err := w.region.chunkAt(at.Chunk)
	if err != nil {
		return err
	}
	encoding.PutFloat64(c.buf[at.Offset:], v)
	return nil
}

// PatchInt64At overwrites an already-written int64 field.
func (w *Writer) PatchInt64At(at encoding.Cursor, v int64) error {
	c, err := w.region.chunkAt(at.Chunk)
	if err != nil {
		return err
	}
	encoding.PutInt64(c.buf[at.Offset:], v)
	return nil
}

// PatchCursorAt overwrites an already-written cursor field.
func (w *Writer) PatchCursorAt(at encoding.Cursor, v encoding.Cursor) error {
	c, err := w.region.chunkAt(at.Chunk)
	if err != nil {
		return err
	}
	encoding.PutCursor(c.buf[at.Offset:], v)
	return nil
}

// MarkRegionForward writes a region-continuation tag at an
// already-produced cursor position (always the tail of a sibling that
// just finished building, in this writer's own region), pointing at
// another region's start. This is how a non-stolen sibling's physical
// tail tells a sequential reader where a stolen sibling's output
// actually begins.
func (w *Writer) MarkRegionForward(at encoding.Cursor, target encoding.Cursor) error {
	c, err := w.region.chunkAt(at.Chunk)
	if err != nil {
		return err
	}
	if at.Offset+ForwardSize > len(c.buf) {
		return bherr.Allocation("no room for region-forward marker", nil)
	}
	encoding.PutTag(c.buf[at.Offset:], TagRegionForward)
	encoding.PutCursor(c.buf[at.Offset+1:], target)
	return nil
}
