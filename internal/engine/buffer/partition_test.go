package buffer

import "testing"

// newTestPartition builds a partition of one stored segment covering
// [0, size-1] at storage offset 0, the state right after opening a file.
func newTestPartition(size int64) *partition {
	p := &partition{}
	p.reset(newStored(NewSpan(0, size-1), 0))
	return p
}

func checkPartition(t *testing.T, p *partition, size int64) {
	t.Helper()
	if err := p.check(size); err != nil {
		t.Fatalf("partition invariant violated: %v", err)
	}
}

func TestPartitionContaining(t *testing.T) {
	p := newTestPartition(10)

	if seg := p.containing(0); seg == nil {
		t.Error("offset 0 should have a containing segment")
	}
	if seg := p.containing(9); seg == nil {
		t.Error("offset 9 should have a containing segment")
	}
	// Size itself is the end-of-buffer insert point, owned by no segment.
	if seg := p.containing(10); seg != nil {
		t.Errorf("offset 10 should have no containing segment, got %s", seg.span)
	}
}

func TestPartitionOverwriteExact(t *testing.T) {
	p := newTestPartition(10)
	p.overwrite(newInline(0, make([]byte, 10)))

	checkPartition(t, p, 10)
	if len(p.segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(p.segs))
	}
	if p.segs[0].kind != KindInline {
		t.Error("expected the inline replacement")
	}
}

func TestPartitionOverwriteInterior(t *testing.T) {
	p := newTestPartition(10)
	p.overwrite(newInline(2, make([]byte, 3)))

	checkPartition(t, p, 10)
	if len(p.segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(p.segs))
	}
	// Left remainder keeps its storage mapping, right remainder's storage
	// offset diverges from its logical start.
	if p.segs[0].span != NewSpan(0, 1) || p.segs[0].storageOff != 0 {
		t.Errorf("left remainder = %s @%d, want [0:1] @0", p.segs[0].span, p.segs[0].storageOff)
	}
	if p.segs[1].span != NewSpan(2, 4) || p.segs[1].kind != KindInline {
		t.Errorf("middle = %s %s, want inline [2:4]", p.segs[1].kind, p.segs[1].span)
	}
	if p.segs[2].span != NewSpan(5, 9) || p.segs[2].storageOff != 5 {
		t.Errorf("right remainder = %s @%d, want [5:9] @5", p.segs[2].span, p.segs[2].storageOff)
	}
}

func TestPartitionOverwriteAcrossSegments(t *testing.T) {
	p := newTestPartition(10)
	p.overwrite(newInline(2, make([]byte, 2)))
	p.overwrite(newInline(6, make([]byte, 2)))
	checkPartition(t, p, 10)

	// Covers the tail of one edit, a stored gap, and the head of another.
	p.overwrite(newInline(3, make([]byte, 4)))
	checkPartition(t, p, 10)
}

func TestPartitionOverwriteGrows(t *testing.T) {
	p := newTestPartition(10)
	p.overwrite(newInline(8, make([]byte, 5)))

	checkPartition(t, p, 13)
	last := p.segs[len(p.segs)-1]
	if last.span != NewSpan(8, 12) {
		t.Errorf("grown segment = %s, want [8:12]", last.span)
	}
}

func TestPartitionInsertMiddle(t *testing.T) {
	p := newTestPartition(10)
	p.insert(newInline(4, make([]byte, 3)))

	checkPartition(t, p, 13)
	if len(p.segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(p.segs))
	}
	// The right remainder shifted logically but not physically.
	right := p.segs[2]
	if right.span != NewSpan(7, 12) {
		t.Errorf("right remainder = %s, want [7:12]", right.span)
	}
	if right.storageOff != 4 {
		t.Errorf("right remainder storage offset = %d, want 4", right.storageOff)
	}
}

func TestPartitionInsertAtStart(t *testing.T) {
	p := newTestPartition(10)
	p.insert(newInline(0, make([]byte, 2)))

	checkPartition(t, p, 12)
	if p.segs[0].kind != KindInline || p.segs[0].span != NewSpan(0, 1) {
		t.Errorf("first segment = %s %s, want inline [0:1]", p.segs[0].kind, p.segs[0].span)
	}
}

func TestPartitionInsertAppend(t *testing.T) {
	p := newTestPartition(10)
	p.insert(newInline(10, make([]byte, 2)))

	checkPartition(t, p, 12)
	if len(p.segs) != 2 {
		t.Fatalf("append should not split, got %d segments", len(p.segs))
	}
}

func TestPartitionInsertIntoEmpty(t *testing.T) {
	p := &partition{}
	p.insert(newInline(0, make([]byte, 4)))

	checkPartition(t, p, 4)
}

func TestPartitionDeleteExact(t *testing.T) {
	p := newTestPartition(10)
	p.insert(newInline(4, make([]byte, 3)))
	p.delete(NewSpan(4, 6))

	checkPartition(t, p, 10)
}

func TestPartitionDeleteInterior(t *testing.T) {
	p := newTestPartition(10)
	p.delete(NewSpan(3, 5))

	checkPartition(t, p, 7)
	if len(p.segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(p.segs))
	}
	right := p.segs[1]
	if right.span != NewSpan(3, 6) {
		t.Errorf("right remainder = %s, want [3:6]", right.span)
	}
	if right.storageOff != 6 {
		t.Errorf("right remainder storage offset = %d, want 6", right.storageOff)
	}
}

func TestPartitionDeleteSpanningSegments(t *testing.T) {
	p := newTestPartition(10)
	p.overwrite(newInline(4, make([]byte, 2)))
	checkPartition(t, p, 10)

	// Tail of the left stored segment, both inline bytes, head of the right.
	p.delete(NewSpan(2, 7))
	checkPartition(t, p, 4)
}

func TestPartitionDeleteAll(t *testing.T) {
	p := newTestPartition(10)
	p.delete(NewSpan(0, 9))

	checkPartition(t, p, 0)
	if len(p.segs) != 0 {
		t.Errorf("expected empty partition, got %d segments", len(p.segs))
	}
}

func TestPartitionInvariantsUnderEditSequence(t *testing.T) {
	p := newTestPartition(100)
	size := int64(100)

	steps := []struct {
		name string
		run  func()
		want int64
	}{
		{"overwrite head", func() { p.overwrite(newInline(0, make([]byte, 10))) }, 100},
		{"insert middle", func() { p.insert(newInline(50, make([]byte, 7))) }, 107},
		{"delete across", func() { p.delete(NewSpan(45, 60)) }, 91},
		{"overwrite tail growing", func() { p.overwrite(newInline(90, make([]byte, 5))) }, 95},
		{"insert at end", func() { p.insert(newInline(95, make([]byte, 3))) }, 98},
		{"delete head", func() { p.delete(NewSpan(0, 9)) }, 88},
		{"overwrite everything", func() { p.overwrite(newInline(0, make([]byte, 88))) }, 88},
		{"delete everything", func() { p.delete(NewSpan(0, 87)) }, 0},
	}

	for _, step := range steps {
		step.run()
		size = step.want
		if err := p.check(size); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
	}
}
