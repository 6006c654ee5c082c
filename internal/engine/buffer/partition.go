package buffer

import (
	"fmt"
	"sort"
)

// partition is the ordered set of segments covering the logical address
// space. At every public operation boundary the segments are disjoint,
// contiguous, and their union is exactly [0, size) — or the set is empty
// for a zero-size buffer.
//
// Every mutator rebuilds the successor segment slice into a fresh container
// and swaps it in. No segment ever transiently collides with another, so
// there is no ordering-direction subtlety when a whole tail of the
// partition shifts.
type partition struct {
	segs []*segment
}

// reset replaces all segments with the given single segment, or clears the
// partition entirely when seg is nil.
func (p *partition) reset(seg *segment) {
	if seg == nil {
		p.segs = nil
		return
	}
	p.segs = []*segment{seg}
}

// findIndex returns the index of the first segment whose span ends at or
// after offset, or len(segs) if none does.
func (p *partition) findIndex(offset int64) int {
	return sort.Search(len(p.segs), func(i int) bool {
		return p.segs[i].span.End >= offset
	})
}

// containing returns the segment whose span contains offset, or nil when
// offset lies past the last segment (the end-of-buffer insert point).
func (p *partition) containing(offset int64) *segment {
	i := p.findIndex(offset)
	if i < len(p.segs) && p.segs[i].span.Contains(offset) {
		return p.segs[i]
	}
	return nil
}

// overwrite replaces the logical bytes covered by ns.span with ns.
// Segments entirely inside the span are dropped; a segment straddling the
// left boundary keeps its head, one straddling the right boundary keeps
// its tail. No logical addresses move.
func (p *partition) overwrite(ns *segment) {
	r := ns.span
	out := make([]*segment, 0, len(p.segs)+2)
	var tail []*segment
	for _, seg := range p.segs {
		sp := seg.span
		switch {
		case sp.End < r.Start:
			out = append(out, seg)
		case sp.Start > r.End:
			tail = append(tail, seg)
		default:
			if sp.Start < r.Start {
				out = append(out, seg.slice(NewSpan(sp.Start, r.Start-1)))
			}
			if sp.End > r.End {
				tail = append(tail, seg.slice(NewSpan(r.End+1, sp.End)))
			}
		}
	}
	out = append(out, ns)
	p.segs = append(out, tail...)
}

// insert widens the partition by ns.Len() bytes at ns.span.Start. The
// segment containing the insertion point is split; everything at or after
// the point shifts forward.
func (p *partition) insert(ns *segment) {
	at := ns.span.Start
	n := ns.Len()
	out := make([]*segment, 0, len(p.segs)+2)
	var tail []*segment
	for _, seg := range p.segs {
		sp := seg.span
		switch {
		case sp.End < at:
			out = append(out, seg)
		case sp.Start >= at:
			seg.shift(n)
			tail = append(tail, seg)
		default:
			out = append(out, seg.slice(NewSpan(sp.Start, at-1)))
			right := seg.slice(NewSpan(at, sp.End))
			right.shift(n)
			tail = append(tail, right)
		}
	}
	out = append(out, ns)
	p.segs = append(out, tail...)
}

// delete narrows the partition by r.Len() bytes. Segments entirely inside
// r are dropped, boundary segments are truncated, and everything after r
// shifts backward.
func (p *partition) delete(r Span) {
	n := r.Len()
	out := make([]*segment, 0, len(p.segs))
	for _, seg := range p.segs {
		sp := seg.span
		switch {
		case sp.End < r.Start:
			out = append(out, seg)
		case sp.Start > r.End:
			seg.shift(-n)
			out = append(out, seg)
		default:
			if sp.Start < r.Start {
				out = append(out, seg.slice(NewSpan(sp.Start, r.Start-1)))
			}
			if sp.End > r.End {
				right := seg.slice(NewSpan(r.End+1, sp.End))
				right.shift(-n)
				out = append(out, right)
			}
		}
	}
	p.segs = out
}

// check verifies the partition invariants against the given logical size:
// segments disjoint, contiguous, covering exactly [0, size). It is used by
// tests; a failure indicates a defect in a mutator, not bad input.
func (p *partition) check(size int64) error {
	if len(p.segs) == 0 {
		if size != 0 {
			return fmt.Errorf("empty partition but size %d", size)
		}
		return nil
	}
	if first := p.segs[0].span.Start; first != 0 {
		return fmt.Errorf("first segment starts at %d, want 0", first)
	}
	for i, seg := range p.segs {
		if seg.span.IsEmpty() {
			return fmt.Errorf("segment %d is empty: %s", i, seg.span)
		}
		if seg.kind == KindInline && int64(len(seg.payload)) != seg.Len() {
			return fmt.Errorf("segment %d payload length %d != span length %d", i, len(seg.payload), seg.Len())
		}
		if i > 0 {
			prev := p.segs[i-1].span
			if seg.span.Start != prev.End+1 {
				return fmt.Errorf("segment %d starts at %d, want %d", i, seg.span.Start, prev.End+1)
			}
		}
	}
	if last := p.segs[len(p.segs)-1].span.End; last != size-1 {
		return fmt.Errorf("last segment ends at %d, want %d", last, size-1)
	}
	return nil
}
