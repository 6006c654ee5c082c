package hexview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hexkit/internal/config"
	"github.com/dshills/hexkit/internal/engine/buffer"
	"github.com/dshills/hexkit/internal/watch"
)

// Viewer is an interactive terminal hex editor over a buffer. It runs a
// single-threaded event loop; external file-change notifications are
// posted into the loop as interrupt events.
type Viewer struct {
	screen tcell.Screen
	buf    *buffer.Buffer
	cfg    config.Config
	digits string

	top        int64 // first visible byte offset, row aligned
	cursor     int64
	lowNibble  bool // next hex keypress edits the low nibble
	status     string
	confirming bool // a quit with pending edits awaits confirmation

	watcher *watch.Watcher
}

// New creates a viewer for buf. The terminal screen is initialized by Run.
func New(buf *buffer.Buffer, cfg config.Config) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	digits := hexLower
	if cfg.UppercaseHex {
		digits = hexUpper
	}
	return &Viewer{screen: screen, buf: buf, cfg: cfg, digits: digits}, nil
}

// WatchFile starts watching the buffer's backing file for external
// changes. A no-op for in-memory buffers.
func (v *Viewer) WatchFile() error {
	path := v.buf.Path()
	if path == "" {
		return nil
	}
	w, err := watch.New(path)
	if err != nil {
		return err
	}
	v.watcher = w
	go func() {
		for ev := range w.Events() {
			v.screen.PostEvent(tcell.NewEventInterrupt(ev))
		}
	}()
	return nil
}

// Run initializes the screen and processes events until quit.
func (v *Viewer) Run() error {
	if err := v.screen.Init(); err != nil {
		return err
	}
	defer v.screen.Fini()
	if v.watcher != nil {
		defer v.watcher.Close()
	}

	for {
		v.draw()
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventInterrupt:
			if change, ok := ev.Data().(watch.Event); ok {
				v.onExternalChange(change)
			}
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return nil
			}
		}
	}
}

// onExternalChange reacts to the backing file changing on disk. A pristine
// buffer reloads silently; pending edits are never discarded unasked.
func (v *Viewer) onExternalChange(ev watch.Event) {
	if ev.Removed {
		v.status = "file removed on disk"
		return
	}
	if v.buf.Modified() {
		v.status = "file changed on disk (u reloads, discarding edits)"
		return
	}
	if err := v.buf.Discard(); err != nil {
		v.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	v.status = "reloaded from disk"
	v.clampCursor()
}

func (v *Viewer) rows() int64 {
	_, h := v.screen.Size()
	if h <= 1 {
		return 1
	}
	return int64(h - 1) // bottom line is the status bar
}

func (v *Viewer) bpr() int64 {
	return int64(v.cfg.BytesPerRow)
}

func (v *Viewer) clampCursor() {
	maxOff := v.buf.Size() - 1
	if maxOff < 0 {
		maxOff = 0
	}
	if v.cursor > maxOff {
		v.cursor = maxOff
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.lowNibble = false
}

// scrollIntoView adjusts top so the cursor's row is visible.
func (v *Viewer) scrollIntoView() {
	bpr := v.bpr()
	cursorRow := v.cursor / bpr
	topRow := v.top / bpr
	visible := v.rows()
	if cursorRow < topRow {
		topRow = cursorRow
	}
	if cursorRow >= topRow+visible {
		topRow = cursorRow - visible + 1
	}
	v.top = topRow * bpr
}

func (v *Viewer) moveCursor(delta int64) {
	v.cursor += delta
	v.clampCursor()
	v.confirming = false
	v.status = ""
}

func (v *Viewer) handleKey(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		v.moveCursor(-v.bpr())
	case tcell.KeyDown:
		v.moveCursor(v.bpr())
	case tcell.KeyLeft:
		v.moveCursor(-1)
	case tcell.KeyRight:
		v.moveCursor(1)
	case tcell.KeyPgUp:
		v.moveCursor(-v.bpr() * v.rows())
	case tcell.KeyPgDn:
		v.moveCursor(v.bpr() * v.rows())
	case tcell.KeyHome:
		v.cursor = 0
		v.clampCursor()
	case tcell.KeyEnd:
		v.cursor = v.buf.Size() - 1
		v.clampCursor()
	case tcell.KeyCtrlS:
		v.commit()
	case tcell.KeyEscape:
		return v.tryQuit()
	case tcell.KeyRune:
		return v.handleRune(ev.Rune())
	}
	return false
}

func (v *Viewer) handleRune(r rune) (quit bool) {
	switch r {
	case 'q':
		return v.tryQuit()
	case 'g':
		v.cursor = 0
		v.clampCursor()
	case 'G':
		v.cursor = v.buf.Size() - 1
		v.clampCursor()
	case 'u':
		v.discard()
	case 'x':
		v.deleteByte()
	case 'i':
		v.insertByte()
	default:
		if d, ok := hexDigit(r); ok {
			v.editNibble(d)
		}
	}
	return false
}

// tryQuit quits immediately for a pristine buffer; with pending edits the
// first attempt only warns.
func (v *Viewer) tryQuit() bool {
	if !v.buf.Modified() || v.confirming {
		return true
	}
	v.confirming = true
	v.status = "unsaved changes (quit again to discard, Ctrl-S commits)"
	return false
}

func (v *Viewer) commit() {
	if v.watcher != nil {
		v.watcher.Suspend()
		defer v.watcher.Resume()
	}
	if err := v.buf.Commit(); err != nil {
		v.status = fmt.Sprintf("commit failed: %v", err)
		return
	}
	v.status = "committed"
	v.confirming = false
}

func (v *Viewer) discard() {
	if err := v.buf.Discard(); err != nil {
		v.status = fmt.Sprintf("discard failed: %v", err)
		return
	}
	v.status = "edits discarded"
	v.confirming = false
	v.clampCursor()
}

func (v *Viewer) deleteByte() {
	if v.buf.Size() == 0 {
		return
	}
	if err := v.buf.Delete(buffer.NewSpan(v.cursor, v.cursor)); err != nil {
		v.status = fmt.Sprintf("delete failed: %v", err)
		return
	}
	v.status = ""
	v.clampCursor()
}

func (v *Viewer) insertByte() {
	if err := v.buf.Insert(v.cursor, []byte{0}); err != nil {
		v.status = fmt.Sprintf("insert failed: %v", err)
		return
	}
	v.status = ""
}

// editNibble overwrites half of the byte under the cursor. The first hex
// keypress sets the high nibble, the second sets the low nibble and
// advances the cursor.
func (v *Viewer) editNibble(d byte) {
	if v.buf.Size() == 0 {
		return
	}
	var cell [1]byte
	if _, err := v.buf.Read(v.cursor, cell[:]); err != nil {
		v.status = fmt.Sprintf("read failed: %v", err)
		return
	}
	if v.lowNibble {
		cell[0] = cell[0]&0xF0 | d
	} else {
		cell[0] = d<<4 | cell[0]&0x0F
	}
	if err := v.buf.Overwrite(v.cursor, cell[:]); err != nil {
		v.status = fmt.Sprintf("overwrite failed: %v", err)
		return
	}
	if v.lowNibble {
		v.lowNibble = false
		v.cursor++
		v.clampCursor()
	} else {
		v.lowNibble = true
	}
	v.status = ""
}

func hexDigit(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0'), true
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return byte(r-'A') + 10, true
	}
	return 0, false
}

func (v *Viewer) draw() {
	v.scrollIntoView()
	v.screen.Clear()

	styleDefault := tcell.StyleDefault
	styleDirty := styleDefault.Foreground(tcell.ColorYellow)
	styleCursor := styleDefault.Reverse(true)

	bpr := v.bpr()
	row := make([]byte, bpr)
	labelW := 10 // "%08x: "

	for y := int64(0); y < v.rows(); y++ {
		off := v.top + y*bpr
		if off >= v.buf.Size() && off != 0 {
			break
		}
		n, dirty, err := v.buf.ReadDirty(off, row)
		if err != nil {
			v.status = fmt.Sprintf("read failed: %v", err)
			break
		}

		v.drawText(0, int(y), fmt.Sprintf("%08x: ", off), styleDefault)

		x := labelW
		asciiX := labelW + int(bpr)*3 + 2
		if v.cfg.GroupSize > 0 {
			asciiX += (int(bpr) - 1) / v.cfg.GroupSize
		}
		for i := 0; i < n; i++ {
			abs := off + int64(i)
			style := styleDefault
			if spanDirty(dirty, abs) {
				style = styleDirty
			}
			if abs == v.cursor {
				style = styleCursor
			}
			if v.cfg.GroupSize > 0 && i > 0 && i%v.cfg.GroupSize == 0 {
				x++
			}
			v.screen.SetContent(x, int(y), rune(v.digits[row[i]>>4]), nil, style)
			v.screen.SetContent(x+1, int(y), rune(v.digits[row[i]&0x0F]), nil, style)
			x += 3

			if v.cfg.ShowASCII {
				v.screen.SetContent(asciiX+i, int(y), rune(printable(row[i])), nil, style)
			}
		}
	}

	v.drawStatus()
	v.screen.Show()
}

func (v *Viewer) drawStatus() {
	w, h := v.screen.Size()
	style := tcell.StyleDefault.Reverse(true)

	name := v.buf.Path()
	if name == "" {
		name = "[memory]"
	}
	flags := ""
	if v.buf.IsReadOnly() {
		flags = " [ro]"
	} else if v.buf.Modified() {
		flags = " [+]"
	}
	left := fmt.Sprintf(" %s%s  %d bytes  @%08x", name, flags, v.buf.Size(), v.cursor)
	if v.status != "" {
		left += "  " + v.status
	}

	for x := 0; x < w; x++ {
		v.screen.SetContent(x, h-1, ' ', nil, style)
	}
	v.drawText(0, h-1, left, style)
}

func (v *Viewer) drawText(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

// spanDirty reports whether abs falls inside any of the dirty spans.
func spanDirty(dirty []buffer.Span, abs int64) bool {
	for _, sp := range dirty {
		if sp.Contains(abs) {
			return true
		}
	}
	return false
}
