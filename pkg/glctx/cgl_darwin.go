//go:build darwin && mpv_cgo

package glctx

/*
#cgo LDFLAGS: -framework OpenGL
#include <stdlib.h>
#include <dlfcn.h>
#include <OpenGL/OpenGL.h>
#include <OpenGL/CGLTypes.h>
#include <OpenGL/CGLCurrent.h>

static void *glctx_cgl_framework = NULL;

static void *glctx_cgl_proc_address(const char *name) {
	if (glctx_cgl_framework == NULL) {
		glctx_cgl_framework = dlopen(
			"/System/Library/Frameworks/OpenGL.framework/OpenGL",
			RTLD_LAZY | RTLD_LOCAL);
	}
	if (glctx_cgl_framework == NULL) {
		return NULL;
	}
	return dlsym(glctx_cgl_framework, name);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// cglStack is the macOS backend. CGL has no window-system surface of its
// own; the host attaches the context to its NSView, so DestroySurface and
// DestroyDisplay are no-ops.
type cglStack struct {
	context C.CGLContextObj
}

func newStack(cfg Config) (Stack, error) {
	attribs := []C.CGLPixelFormatAttribute{
		C.kCGLPFAAccelerated,
		C.kCGLPFADoubleBuffer,
		C.kCGLPFAColorSize, C.CGLPixelFormatAttribute(24),
		C.CGLPixelFormatAttribute(0),
	}
	var (
		pixelFormat C.CGLPixelFormatObj
		numFormats  C.GLint
	)
	if rc := C.CGLChoosePixelFormat(&attribs[0], &pixelFormat, &numFormats); rc != C.kCGLNoError {
		return nil, cglError("CGLChoosePixelFormat", rc)
	}
	defer C.CGLDestroyPixelFormat(pixelFormat)

	s := &cglStack{}
	if rc := C.CGLCreateContext(pixelFormat, nil, &s.context); rc != C.kCGLNoError {
		return nil, cglError("CGLCreateContext", rc)
	}
	if err := s.MakeCurrent(); err != nil {
		s.DestroyContext()
		return nil, err
	}
	return s, nil
}

func (s *cglStack) MakeCurrent() error {
	if rc := C.CGLSetCurrentContext(s.context); rc != C.kCGLNoError {
		return cglError("CGLSetCurrentContext", rc)
	}
	return nil
}

func (s *cglStack) SwapBuffers() error {
	if rc := C.CGLFlushDrawable(s.context); rc != C.kCGLNoError {
		return cglError("CGLFlushDrawable", rc)
	}
	return nil
}

func (s *cglStack) ProcAddress(name string) unsafe.Pointer {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return C.glctx_cgl_proc_address(cName)
}

func (s *cglStack) DestroyContext() {
	if s.context != nil {
		C.CGLSetCurrentContext(nil)
		C.CGLDestroyContext(s.context)
		s.context = nil
	}
}

func (s *cglStack) DestroySurface() {}

func (s *cglStack) DestroyDisplay() {}

func cglError(call string, rc C.CGLError) error {
	return fmt.Errorf("glctx: %s failed: %s", call, C.GoString(C.CGLErrorString(rc)))
}
