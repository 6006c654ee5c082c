package buffer

import (
	"sync"

	"github.com/dshills/hexkit/internal/storage"
)

// SizeListener is called with the logical size before and after any
// operation that changes it. Delivery is synchronous inside the triggering
// operation; listeners must not call back into the buffer.
type SizeListener func(oldSize, newSize int64)

// Buffer views and mutates an arbitrarily large file (or in-memory block)
// as a single logical byte sequence. Edits stay pending in memory until
// Commit writes them back to the backing file; Discard drops them.
//
// All methods are thread-safe; a RWMutex serializes access. The partition
// invariants hold at every method boundary.
type Buffer struct {
	mu       sync.RWMutex
	size     int64
	parts    partition
	view     storage.View
	file     *storage.File // nil for purely in-memory buffers
	readOnly bool

	listeners  map[int]SizeListener
	nextListen int
}

// Open binds a buffer to the file at path. When write permission is
// denied the buffer opens read-only instead of failing.
func Open(path string, opts ...Option) (*Buffer, error) {
	f, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	b := &Buffer{
		size:     f.Len(),
		view:     f,
		file:     f,
		readOnly: f.ReadOnly(),
	}
	b.resetPartition()
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// NewFromBytes creates an in-memory buffer owning a copy of data. The
// buffer has no backing file until SaveAs binds one.
func NewFromBytes(data []byte, opts ...Option) *Buffer {
	b := &Buffer{
		size: int64(len(data)),
		view: storage.NewMemory(data),
	}
	b.resetPartition()
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewSize creates a zero-filled in-memory buffer of n bytes, reserving at
// least capacity bytes of storage.
func NewSize(n, capacity int64, opts ...Option) *Buffer {
	b := &Buffer{
		size: n,
		view: storage.NewMemorySize(n, capacity),
	}
	b.resetPartition()
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// resetPartition collapses the partition to a single stored segment
// spanning the whole view, or to nothing for an empty buffer.
func (b *Buffer) resetPartition() {
	if b.size == 0 {
		b.parts.reset(nil)
		return
	}
	b.parts.reset(newStored(NewSpan(0, b.size-1), 0))
}

// Size returns the buffer's logical length in bytes.
func (b *Buffer) Size() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// IsReadOnly returns true if mutations are rejected.
func (b *Buffer) IsReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readOnly
}

// Path returns the backing file path, or "" for in-memory buffers.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.file == nil {
		return ""
	}
	return b.file.Path()
}

// Modified returns true if the buffer holds edits not yet committed.
func (b *Buffer) Modified() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.parts.segs) > 1 {
		return true
	}
	for _, seg := range b.parts.segs {
		if seg.kind == KindInline {
			return true
		}
	}
	return false
}

// Segments returns descriptors for every segment of the partition in
// logical order, for diagnostics and rendering.
func (b *Buffer) Segments() []SegmentInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	infos := make([]SegmentInfo, len(b.parts.segs))
	for i, seg := range b.parts.segs {
		infos[i] = SegmentInfo{
			Span:          seg.span,
			Kind:          seg.kind,
			StorageOffset: seg.storageOff,
		}
	}
	return infos
}

// OnSizeChange registers a listener for size changes and returns a
// function that unregisters it.
func (b *Buffer) OnSizeChange(fn SizeListener) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners == nil {
		b.listeners = make(map[int]SizeListener)
	}
	id := b.nextListen
	b.nextListen++
	b.listeners[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

// setSize updates the logical size and notifies listeners when it changed.
// Callers hold the write lock.
func (b *Buffer) setSize(newSize int64) {
	old := b.size
	b.size = newSize
	if old == newSize {
		return
	}
	for _, fn := range b.listeners {
		fn(old, newSize)
	}
}

// Read copies up to len(dst) bytes beginning at start into dst, stitching
// segments transparently. The count is clipped at the end of the buffer;
// the number of bytes copied is returned. A negative start is an error.
func (b *Buffer) Read(start int64, dst []byte) (int, error) {
	n, _, err := b.read(start, dst, false)
	return n, err
}

// ReadDirty is Read plus a report of the logical sub-ranges served from
// inline (edited, uncommitted) segments, so callers can mark displayed
// bytes as dirty.
func (b *Buffer) ReadDirty(start int64, dst []byte) (int, []Span, error) {
	return b.read(start, dst, true)
}

func (b *Buffer) read(start int64, dst []byte, wantDirty bool) (int, []Span, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if start < 0 {
		return 0, nil, ErrOffsetOutOfRange
	}
	want := int64(len(dst))
	if remain := b.size - start; remain < want {
		want = remain
	}
	if want <= 0 {
		return 0, nil, nil
	}

	var dirty []Span
	copied := int64(0)
	i := b.parts.findIndex(start)
	for copied < want {
		seg := b.parts.segs[i]
		local := start + copied - seg.span.Start
		take := seg.Len() - local
		if take > want-copied {
			take = want - copied
		}
		if err := seg.read(b.view, local, dst[copied:copied+take]); err != nil {
			return int(copied), dirty, err
		}
		if wantDirty && seg.kind == KindInline {
			dirty = append(dirty, SpanFromLen(start+copied, take))
		}
		copied += take
		i++
	}
	return int(copied), dirty, nil
}

// Close releases the backing file view. The buffer must not be used after
// Close; pending edits are lost.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.file == nil {
		return nil
	}
	return b.file.Close()
}
