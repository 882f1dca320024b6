//go:build mpv_cgo

package mpv

// This file holds the exported trampolines the engine calls back into. Per
// cgo rules the preamble here must stay declaration-only.

/*
#include <stddef.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

//export mpvkitWakeup
func mpvkitWakeup(d unsafe.Pointer) {
	handle := cgo.Handle(uintptr(d))
	if fn, ok := handle.Value().(func()); ok {
		fn()
	}
}

//export mpvkitRenderUpdate
func mpvkitRenderUpdate(d unsafe.Pointer) {
	handle := cgo.Handle(uintptr(d))
	if fn, ok := handle.Value().(func()); ok {
		fn()
	}
}

//export mpvkitGetProcAddress
func mpvkitGetProcAddress(d unsafe.Pointer, name *C.char) unsafe.Pointer {
	handle := cgo.Handle(uintptr(d))
	fn, ok := handle.Value().(func(string) unsafe.Pointer)
	if !ok || name == nil {
		return nil
	}
	return fn(C.GoString(name))
}
