// Package hexview renders buffer content as hex: a plain-text dump writer
// and an interactive tcell viewer. Both are engine collaborators; they
// consume only the public buffer surface.
package hexview

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/hexkit/internal/config"
	"github.com/dshills/hexkit/internal/engine/buffer"
)

const hexLower = "0123456789abcdef"
const hexUpper = "0123456789ABCDEF"

// Dump writes n bytes of buf beginning at start to w as a classic hex
// dump: offset column, hex pane, and optional ASCII pane. A negative n
// dumps through the end of the buffer.
func Dump(w io.Writer, buf *buffer.Buffer, cfg config.Config, start, n int64) error {
	if start < 0 {
		return buffer.ErrOffsetOutOfRange
	}
	if n < 0 || start+n > buf.Size() {
		n = buf.Size() - start
	}

	digits := hexLower
	if cfg.UppercaseHex {
		digits = hexUpper
	}

	row := make([]byte, cfg.BytesPerRow)
	var line strings.Builder
	for off := start; off < start+n; off += int64(cfg.BytesPerRow) {
		want := start + n - off
		if want > int64(cfg.BytesPerRow) {
			want = int64(cfg.BytesPerRow)
		}
		got, err := buf.Read(off, row[:want])
		if err != nil {
			return err
		}

		line.Reset()
		fmt.Fprintf(&line, "%08x: ", off)
		for i := 0; i < cfg.BytesPerRow; i++ {
			if cfg.GroupSize > 0 && i > 0 && i%cfg.GroupSize == 0 {
				line.WriteByte(' ')
			}
			if i < got {
				line.WriteByte(digits[row[i]>>4])
				line.WriteByte(digits[row[i]&0x0F])
			} else {
				line.WriteString("  ")
			}
			line.WriteByte(' ')
		}
		if cfg.ShowASCII {
			line.WriteString(" |")
			for i := 0; i < got; i++ {
				line.WriteByte(printable(row[i]))
			}
			line.WriteByte('|')
		}
		line.WriteByte('\n')
		if _, err := io.WriteString(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}

// printable maps a byte to its ASCII pane representation.
func printable(b byte) byte {
	if b >= 0x20 && b < 0x7F {
		return b
	}
	return '.'
}
