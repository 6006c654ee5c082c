package script

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/hexkit/internal/engine/buffer"
)

func bufferContent(t *testing.T, b *buffer.Buffer) []byte {
	t.Helper()
	data := make([]byte, b.Size())
	if _, err := b.Read(0, data); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return data
}

func TestRunStringEdits(t *testing.T) {
	b := buffer.NewFromBytes([]byte("hello world"))

	script := `
buf.overwrite(0, "H")
buf.insert(5, ",")
buf.delete(6, 1)
`
	if err := RunString(b, script); err != nil {
		t.Fatalf("script failed: %v", err)
	}

	if got := bufferContent(t, b); !bytes.Equal(got, []byte("Hello,world")) {
		t.Errorf("content = %q, want %q", got, "Hello,world")
	}
}

func TestRunStringRead(t *testing.T) {
	b := buffer.NewFromBytes([]byte{0xCA, 0xFE, 0xBA, 0xBE})

	script := `
local magic = buf.read(0, 4)
if magic ~= "\202\254\186\190" then
	error("unexpected magic")
end
if buf.size() ~= 4 then
	error("unexpected size")
end
`
	if err := RunString(b, script); err != nil {
		t.Fatalf("script failed: %v", err)
	}
}

func TestRunStringBinaryPayload(t *testing.T) {
	b := buffer.NewFromBytes(make([]byte, 4))

	if err := RunString(b, `buf.overwrite(0, "\255\0\16\32")`); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := bufferContent(t, b); !bytes.Equal(got, []byte{0xFF, 0x00, 0x10, 0x20}) {
		t.Errorf("content = %v, want [255 0 16 32]", got)
	}
}

func TestScriptErrorPropagates(t *testing.T) {
	b := buffer.NewFromBytes([]byte{1, 2, 3})

	// Overwrite past the end of the buffer is reported, not swallowed.
	if err := RunString(b, `buf.overwrite(99, "x")`); err == nil {
		t.Error("expected an error from an out-of-range overwrite")
	}

	if err := RunString(b, `this is not lua`); err == nil {
		t.Error("expected a parse error")
	}
}

func TestRunFileWithCommit(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(target, []byte{1, 2, 3, 4}, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	b, err := buffer.Open(target)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer b.Close()

	scriptPath := filepath.Join(dir, "patch.lua")
	patch := `
buf.overwrite(1, "\170\187")
buf.commit()
`
	if err := os.WriteFile(scriptPath, []byte(patch), 0o644); err != nil {
		t.Fatalf("writing script: %v", err)
	}

	if err := Run(b, scriptPath); err != nil {
		t.Fatalf("script failed: %v", err)
	}

	onDisk, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	if !bytes.Equal(onDisk, []byte{1, 0xAA, 0xBB, 4}) {
		t.Errorf("committed file = %v, want [1 170 187 4]", onDisk)
	}
}
