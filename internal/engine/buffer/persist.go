package buffer

import (
	"io"

	"github.com/dshills/hexkit/internal/storage"
)

// copyChunk bounds the scratch buffer used when streaming stored segments,
// so commits never materialize the file in memory.
const copyChunk = 64 * 1024

// writeTo streams the full logical content to w in partition order.
// Stored segments are read through the current view in bounded chunks;
// inline payloads are written directly. Callers hold at least a read lock.
func (b *Buffer) writeTo(w io.Writer) error {
	var scratch []byte
	for _, seg := range b.parts.segs {
		if seg.kind == KindInline {
			if _, err := w.Write(seg.payload); err != nil {
				return err
			}
			continue
		}
		if scratch == nil {
			scratch = make([]byte, copyChunk)
		}
		for local := int64(0); local < seg.Len(); local += copyChunk {
			n := seg.Len() - local
			if n > copyChunk {
				n = copyChunk
			}
			if err := seg.read(b.view, local, scratch[:n]); err != nil {
				return err
			}
			if _, err := w.Write(scratch[:n]); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTo streams the buffer's full logical content to w and returns the
// number of bytes written. It implements io.WriterTo.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cw := &countingWriter{w: w}
	err := b.writeTo(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// Commit persists all pending edits to the backing file. The stitched
// logical content is staged beside the target and renamed into place, so
// the committed file is byte-for-byte the logical sequence and a failed
// commit leaves the original untouched. Afterwards the partition collapses
// back to a single stored segment over the committed file.
func (b *Buffer) Commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.file == nil {
		return ErrNoBackingFile
	}
	if b.readOnly {
		return ErrReadOnly
	}
	if err := b.file.Replace(b.writeTo); err != nil {
		return err
	}
	return b.discardLocked()
}

// Discard drops all pending edits: the authoritative length is re-read
// from the backing file and the partition is rebuilt as a single stored
// segment over it. Unsupported for buffers with no backing file.
func (b *Buffer) Discard() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.file == nil {
		return ErrNoBackingFile
	}
	return b.discardLocked()
}

func (b *Buffer) discardLocked() error {
	n, err := b.file.Refresh()
	if err != nil {
		return err
	}
	b.setSize(n)
	b.resetPartition()
	return nil
}

// SaveAs writes the buffer's logical content to path and rebinds the
// buffer to that file as its backing storage. The previous backing file,
// if any, keeps its last committed content. Pending edits are committed
// into the new file.
func (b *Buffer) SaveAs(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	target := storage.Bind(path)
	if err := target.Replace(b.writeTo); err != nil {
		return err
	}
	if b.file != nil {
		b.file.Close()
	}
	b.file = target
	b.view = target
	b.readOnly = target.ReadOnly()
	return b.discardLocked()
}
