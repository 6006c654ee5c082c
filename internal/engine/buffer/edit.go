package buffer

// Overwrite replaces the bytes at [off, off+len(data)-1] with data. The
// write may extend past the current end of the buffer, growing it; off
// itself must lie inside [0, Size). Size is unchanged otherwise.
func (b *Buffer) Overwrite(off int64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return ErrReadOnly
	}
	if off < 0 || off >= b.size {
		return ErrOffsetOutOfRange
	}
	if len(data) == 0 {
		return nil
	}

	ns := newInline(off, data)
	b.parts.overwrite(ns)
	if end := ns.span.End + 1; end > b.size {
		b.setSize(end)
	}
	return nil
}

// Insert widens the buffer by len(data) bytes at off, which must lie in
// [0, Size]; off == Size appends. Everything at or after off shifts
// forward.
func (b *Buffer) Insert(off int64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return ErrReadOnly
	}
	if off < 0 || off > b.size {
		return ErrOffsetOutOfRange
	}
	if len(data) == 0 {
		return nil
	}

	ns := newInline(off, data)
	b.parts.insert(ns)
	b.setSize(b.size + ns.Len())
	return nil
}

// Delete narrows the buffer by r.Len() bytes. The span must lie within
// [0, Size-1]. Everything after r shifts backward.
func (b *Buffer) Delete(r Span) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return ErrReadOnly
	}
	if r.IsEmpty() {
		return ErrRangeInvalid
	}
	if r.Start < 0 || r.End >= b.size {
		return ErrOffsetOutOfRange
	}

	b.parts.delete(r)
	b.setSize(b.size - r.Len())
	return nil
}
