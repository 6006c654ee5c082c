// Package buffer provides the segmented buffer engine underlying the hex
// editor. It views an arbitrarily large file (or in-memory block) as a
// single logical byte sequence and defers all physical writes until
// explicitly committed.
//
// The buffer package provides:
//
//   - A partition of the logical address space into stored segments
//     (references into the backing file) and inline segments (owned bytes
//     produced by edits), kept gap-free and overlap-free at all times
//   - The three mutating operations: Overwrite, Insert, Delete
//   - Random-access reads that stitch segments transparently, with
//     optional dirty-range reporting for edited bytes
//   - Commit/Discard/SaveAs to flush pending edits back to stable storage
//   - Synchronous size-change notifications
//
// Basic usage:
//
//	// Open a file; falls back to read-only without write permission
//	buf, err := buffer.Open("firmware.bin")
//	if err != nil {
//	    return err
//	}
//	defer buf.Close()
//
//	// Patch three bytes at offset 2
//	buf.Overwrite(2, []byte{0xA1, 0xB2, 0xC3})
//
//	// Splice two bytes in at offset 2, growing the buffer
//	buf.Insert(2, []byte{0x58, 0x59})
//
//	// Drop the first two bytes
//	buf.Delete(buffer.NewSpan(0, 1))
//
//	// Write the result back to the file
//	if err := buf.Commit(); err != nil {
//	    return err
//	}
//
// Memory model:
//
// Edits never materialize the file. An edit replaces part of the partition
// with an inline segment holding only the new bytes; untouched ranges stay
// as stored segments that read through the backing view on demand. Commit
// streams the stitched sequence to a staging file in bounded chunks and
// renames it over the target.
//
// Thread safety:
//
// All Buffer methods are thread-safe behind a RWMutex. The engine is still
// a single-writer design: callers needing concurrent mutation must
// serialize externally. Size-change listeners run synchronously inside the
// triggering operation and must not call back into the buffer.
package buffer
