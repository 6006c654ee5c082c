package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// File is a file-backed storage view. Opening falls back to read-only when
// write permission is denied. Replace swaps in entirely new content
// atomically, which is how the engine commits.
type File struct {
	path     string
	f        *os.File
	size     int64
	readOnly bool
}

// Open binds a File to an existing file at path. If the file cannot be
// opened for writing due to permissions, it is reopened read-only and the
// view is marked accordingly.
func Open(path string) (*File, error) {
	f := &File{path: path}
	if err := f.open(); err != nil {
		return nil, err
	}
	return f, nil
}

// Bind creates an unopened File for path. The file need not exist yet;
// the first Replace creates it. Used for save-as targets.
func Bind(path string) *File {
	return &File{path: path, f: nil}
}

func (f *File) open() error {
	handle, err := os.OpenFile(f.path, os.O_RDWR, 0)
	readOnly := false
	if err != nil && errors.Is(err, fs.ErrPermission) {
		handle, err = os.Open(f.path)
		readOnly = true
	}
	if err != nil {
		return err
	}
	info, err := handle.Stat()
	if err != nil {
		handle.Close()
		return err
	}
	f.f = handle
	f.size = info.Size()
	f.readOnly = readOnly
	return nil
}

// Path returns the bound file path.
func (f *File) Path() string {
	return f.path
}

// ReadOnly returns true if the file could only be opened for reading.
func (f *File) ReadOnly() bool {
	return f.readOnly
}

// Len returns the file length as of the last open or Refresh.
func (f *File) Len() int64 {
	return f.size
}

// ReadAt reads len(p) bytes from the file at offset off.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.f == nil {
		return 0, ErrClosed
	}
	return f.f.ReadAt(p, off)
}

// Refresh re-reads the authoritative length from the file system and
// returns it.
func (f *File) Refresh() (int64, error) {
	if f.f == nil {
		return 0, ErrClosed
	}
	info, err := f.f.Stat()
	if err != nil {
		return 0, err
	}
	f.size = info.Size()
	return f.size, nil
}

// Replace rewrites the file's entire content. The write callback streams
// the new bytes into a staging file beside the target; on success the
// staging file is synced and renamed over the target, and the view is
// reopened against the result. The previously open handle stays readable
// until the callback returns, so callers may stream from the old content.
// On error the staging file is removed and the original is left intact.
func (f *File) Replace(write func(w io.Writer) error) error {
	dir := filepath.Dir(f.path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(f.path), uuid.NewString()))

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}

	staging, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("creating staging file: %w", err)
	}

	bw := bufio.NewWriter(staging)
	if err := write(bw); err != nil {
		staging.Close()
		os.Remove(tmp)
		return err
	}
	if err := bw.Flush(); err != nil {
		staging.Close()
		os.Remove(tmp)
		return fmt.Errorf("flushing staging file: %w", err)
	}
	if err := staging.Sync(); err != nil {
		staging.Close()
		os.Remove(tmp)
		return fmt.Errorf("syncing staging file: %w", err)
	}
	if err := staging.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}

	if f.f != nil {
		f.f.Close()
		f.f = nil
	}
	return f.open()
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	if f.f == nil {
		return nil
	}
	err := f.f.Close()
	f.f = nil
	return err
}
