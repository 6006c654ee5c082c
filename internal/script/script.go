// Package script applies Lua batch-edit scripts to a buffer.
//
// Scripts see a global `buf` table bound to the target buffer:
//
//	buf.size()            -- logical length in bytes
//	buf.read(off, n)      -- returns up to n bytes at off as a string
//	buf.overwrite(off, s) -- replace bytes at off with s
//	buf.insert(off, s)    -- splice s in at off
//	buf.delete(off, n)    -- remove n bytes at off
//	buf.commit()          -- write pending edits to the backing file
//	buf.discard()         -- drop pending edits
//
// Offsets are zero-based. Lua strings are 8-bit clean, so arbitrary binary
// payloads work: buf.overwrite(0, "\255\0\16").
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hexkit/internal/engine/buffer"
)

// Run executes the Lua script at path against buf.
func Run(buf *buffer.Buffer, path string) error {
	L := lua.NewState()
	defer L.Close()

	register(L, buf)
	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("running script %s: %w", path, err)
	}
	return nil
}

// RunString executes Lua source against buf.
func RunString(buf *buffer.Buffer, src string) error {
	L := lua.NewState()
	defer L.Close()

	register(L, buf)
	if err := L.DoString(src); err != nil {
		return fmt.Errorf("running script: %w", err)
	}
	return nil
}

// register installs the global buf table bound to the target buffer.
func register(L *lua.LState, buf *buffer.Buffer) {
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"size": func(L *lua.LState) int {
			L.Push(lua.LNumber(buf.Size()))
			return 1
		},
		"read": func(L *lua.LState) int {
			off := L.CheckInt64(1)
			n := L.CheckInt64(2)
			if n < 0 {
				L.RaiseError("read: negative count %d", n)
			}
			dst := make([]byte, n)
			got, err := buf.Read(off, dst)
			if err != nil {
				L.RaiseError("read: %v", err)
			}
			L.Push(lua.LString(dst[:got]))
			return 1
		},
		"overwrite": func(L *lua.LState) int {
			off := L.CheckInt64(1)
			data := L.CheckString(2)
			if err := buf.Overwrite(off, []byte(data)); err != nil {
				L.RaiseError("overwrite: %v", err)
			}
			return 0
		},
		"insert": func(L *lua.LState) int {
			off := L.CheckInt64(1)
			data := L.CheckString(2)
			if err := buf.Insert(off, []byte(data)); err != nil {
				L.RaiseError("insert: %v", err)
			}
			return 0
		},
		"delete": func(L *lua.LState) int {
			off := L.CheckInt64(1)
			n := L.CheckInt64(2)
			if n <= 0 {
				L.RaiseError("delete: count must be positive, got %d", n)
			}
			if err := buf.Delete(buffer.SpanFromLen(off, n)); err != nil {
				L.RaiseError("delete: %v", err)
			}
			return 0
		},
		"commit": func(L *lua.LState) int {
			if err := buf.Commit(); err != nil {
				L.RaiseError("commit: %v", err)
			}
			return 0
		},
		"discard": func(L *lua.LState) int {
			if err := buf.Discard(); err != nil {
				L.RaiseError("discard: %v", err)
			}
			return 0
		},
	})
	L.SetGlobal("buf", mod)
}
