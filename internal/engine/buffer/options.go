package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithReadOnly forces the buffer to reject mutations even when the backing
// storage is writable. Useful for viewers inspecting files that must not
// change.
func WithReadOnly() Option {
	return func(b *Buffer) {
		b.readOnly = true
	}
}
