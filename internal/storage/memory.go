package storage

import "io"

// Memory is an in-memory storage view for buffers with no backing file.
type Memory struct {
	data []byte
}

// NewMemory creates a memory view owning a copy of data.
func NewMemory(data []byte) *Memory {
	owned := make([]byte, len(data))
	copy(owned, data)
	return &Memory{data: owned}
}

// NewMemorySize creates a zero-filled memory view of n bytes with at least
// capacity bytes reserved.
func NewMemorySize(n, capacity int64) *Memory {
	if capacity < n {
		capacity = n
	}
	return &Memory{data: make([]byte, n, capacity)}
}

// Len returns the view's length in bytes.
func (m *Memory) Len() int64 {
	return int64(len(m.data))
}

// ReadAt reads len(p) bytes from the view at offset off.
func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
