package buffer

import "fmt"

// Span represents a closed byte range in the buffer.
// Both Start and End are inclusive: [Start, End].
// A span with End == Start-1 is the canonical empty form.
type Span struct {
	Start int64 // Inclusive start offset
	End   int64 // Inclusive end offset
}

// NewSpan creates a new Span from inclusive start and end offsets.
func NewSpan(start, end int64) Span {
	return Span{Start: start, End: end}
}

// SpanFromLen creates a Span covering n bytes beginning at start.
// A zero n yields the canonical empty span at start.
func SpanFromLen(start, n int64) Span {
	return Span{Start: start, End: start + n - 1}
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d]", s.Start, s.End)
}

// Len returns the length of the span in bytes.
func (s Span) Len() int64 {
	return s.End - s.Start + 1
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.End < s.Start
}

// Contains returns true if the given offset lies within the span.
func (s Span) Contains(offset int64) bool {
	return offset >= s.Start && offset <= s.End
}

// ContainsSpan returns true if the given span lies entirely within this span.
func (s Span) ContainsSpan(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Intersects returns true if this span shares at least one offset with another.
func (s Span) Intersects(other Span) bool {
	return s.Start <= other.End && other.Start <= s.End
}

// Intersect returns the intersection of two spans, or the canonical empty
// span if they are disjoint.
func (s Span) Intersect(other Span) Span {
	start := s.Start
	if other.Start > start {
		start = other.Start
	}
	end := s.End
	if other.End < end {
		end = other.End
	}
	if end < start {
		return Span{Start: start, End: start - 1}
	}
	return Span{Start: start, End: end}
}

// Shift returns a new span translated by the given delta.
func (s Span) Shift(delta int64) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}
