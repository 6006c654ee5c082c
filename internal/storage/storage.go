// Package storage provides the backing-storage views consumed by the
// buffer engine: a file-backed view with read-only fallback and safe
// replace-on-commit semantics, and an in-memory view for unbacked buffers.
package storage

import (
	"errors"
	"io"
	"os"
)

// Errors returned by storage operations.
var (
	// ErrClosed indicates the view has been released.
	ErrClosed = errors.New("storage is closed")
)

// View is a random-access, read-only byte view over backing storage with a
// known length. The buffer engine addresses it exclusively by offset.
type View interface {
	io.ReaderAt

	// Len returns the view's length in bytes.
	Len() int64
}

// StatLength returns the current on-disk length of the file at path.
func StatLength(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Truncate resizes the file at path to n bytes.
func Truncate(path string, n int64) error {
	return os.Truncate(path, n)
}

// Copy duplicates the file at src to dst, preserving the source's
// permission bits. An existing dst is overwritten.
func Copy(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
