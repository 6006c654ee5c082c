package buffer

import (
	"fmt"
	"io"
)

// Kind identifies which variant a segment is.
type Kind uint8

const (
	// KindStored marks a segment whose bytes live in the backing storage view.
	KindStored Kind = iota

	// KindInline marks a segment whose bytes are an owned in-memory payload
	// produced by an edit.
	KindInline
)

// String returns a string representation of the segment kind.
func (k Kind) String() string {
	switch k {
	case KindStored:
		return "stored"
	case KindInline:
		return "inline"
	default:
		return "unknown"
	}
}

// segment is a contiguous run of the logical address space.
// A stored segment maps its span to backing-storage bytes beginning at
// storageOff; an inline segment owns its payload outright. The storage
// offset is independent of the logical start and diverges after shifts.
type segment struct {
	span       Span
	kind       Kind
	storageOff int64  // KindStored: first backing byte
	payload    []byte // KindInline: owned bytes, len == span.Len()
}

// newStored creates a stored segment mapping span to backing bytes at off.
func newStored(span Span, off int64) *segment {
	return &segment{span: span, kind: KindStored, storageOff: off}
}

// newInline creates an inline segment at start owning a copy of data.
func newInline(start int64, data []byte) *segment {
	payload := make([]byte, len(data))
	copy(payload, data)
	return &segment{
		span:    SpanFromLen(start, int64(len(data))),
		kind:    KindInline,
		payload: payload,
	}
}

// Span returns the segment's logical span.
func (s *segment) Span() Span {
	return s.span
}

// Len returns the segment's length in bytes.
func (s *segment) Len() int64 {
	return s.span.Len()
}

// read copies len(dst) bytes starting at the segment-local offset into dst.
// Stored segments read through the given view. Callers must clip first:
// reading past the segment end is a defect in the partition algorithm,
// not a recoverable condition.
func (s *segment) read(view io.ReaderAt, local int64, dst []byte) error {
	if local < 0 || local+int64(len(dst)) > s.Len() {
		panic(fmt.Sprintf("segment read [%d:%d) outside segment %s", local, local+int64(len(dst)), s.span))
	}
	switch s.kind {
	case KindStored:
		_, err := view.ReadAt(dst, s.storageOff+local)
		return err
	case KindInline:
		copy(dst, s.payload[local:local+int64(len(dst))])
		return nil
	default:
		panic(fmt.Sprintf("segment has unknown kind %d", s.kind))
	}
}

// slice returns a new segment of the same variant trimmed to sub, which
// must lie entirely within the segment's span. The storage offset moves by
// the same delta as the logical start; inline payloads are re-sliced.
func (s *segment) slice(sub Span) *segment {
	if !s.span.ContainsSpan(sub) {
		panic(fmt.Sprintf("slice %s outside segment %s", sub, s.span))
	}
	delta := sub.Start - s.span.Start
	switch s.kind {
	case KindStored:
		return newStored(sub, s.storageOff+delta)
	case KindInline:
		return &segment{
			span:    sub,
			kind:    KindInline,
			payload: s.payload[delta : delta+sub.Len()],
		}
	default:
		panic(fmt.Sprintf("segment has unknown kind %d", s.kind))
	}
}

// shift translates the segment's logical position by delta. The backing
// offset and payload are untouched; only the address moves.
func (s *segment) shift(delta int64) {
	s.span = s.span.Shift(delta)
}

// SegmentInfo describes one segment of the partition for diagnostics and
// rendering. StorageOffset is meaningful only for KindStored.
type SegmentInfo struct {
	Span          Span
	Kind          Kind
	StorageOffset int64
}

// String returns a human-readable representation of the descriptor.
func (si SegmentInfo) String() string {
	if si.Kind == KindStored {
		return fmt.Sprintf("%s %s @%d", si.Kind, si.Span, si.StorageOffset)
	}
	return fmt.Sprintf("%s %s", si.Kind, si.Span)
}
