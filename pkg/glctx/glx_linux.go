//go:build linux && mpv_cgo

package glctx

/*
#cgo pkg-config: gl x11
#include <stdlib.h>
#include <X11/Xlib.h>
#include <GL/glx.h>

static void *glctx_glx_proc_address(const char *name) {
	return (void *)glXGetProcAddressARB((const GLubyte *)name);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// glxStack is the preferred X11 backend. The display connection is borrowed
// from the host when one is supplied; otherwise the stack opens and owns
// its own.
type glxStack struct {
	display     *C.Display
	ownsDisplay bool
	window      C.Window
	context     C.GLXContext
}

func newGLXStack(cfg Config) (Stack, error) {
	display := (*C.Display)(unsafe.Pointer(cfg.DisplayHandle))
	owns := false
	if display == nil {
		display = C.XOpenDisplay(nil)
		if display == nil {
			return nil, fmt.Errorf("glctx: XOpenDisplay failed")
		}
		owns = true
	}

	s := &glxStack{display: display, ownsDisplay: owns, window: C.Window(cfg.WindowHandle)}

	attribs := []C.int{
		C.GLX_X_RENDERABLE, C.True,
		C.GLX_DRAWABLE_TYPE, C.GLX_WINDOW_BIT,
		C.GLX_RENDER_TYPE, C.GLX_RGBA_BIT,
		C.GLX_RED_SIZE, 8,
		C.GLX_GREEN_SIZE, 8,
		C.GLX_BLUE_SIZE, 8,
		C.GLX_DOUBLEBUFFER, C.True,
		C.None,
	}
	var numConfigs C.int
	configs := C.glXChooseFBConfig(display, C.XDefaultScreen(display), &attribs[0], &numConfigs)
	if configs == nil || numConfigs == 0 {
		s.DestroyDisplay()
		return nil, fmt.Errorf("glctx: no compatible GLX framebuffer config")
	}
	fbConfig := *configs
	C.XFree(unsafe.Pointer(configs))

	s.context = C.glXCreateNewContext(display, fbConfig, C.GLX_RGBA_TYPE, nil, C.True)
	if s.context == nil {
		s.DestroyDisplay()
		return nil, fmt.Errorf("glctx: glXCreateNewContext failed")
	}

	if err := s.MakeCurrent(); err != nil {
		s.DestroyContext()
		s.DestroyDisplay()
		return nil, err
	}
	return s, nil
}

func (s *glxStack) MakeCurrent() error {
	if C.glXMakeCurrent(s.display, C.GLXDrawable(s.window), s.context) == C.False {
		return fmt.Errorf("glctx: glXMakeCurrent failed")
	}
	return nil
}

func (s *glxStack) SwapBuffers() error {
	C.glXSwapBuffers(s.display, C.GLXDrawable(s.window))
	return nil
}

func (s *glxStack) ProcAddress(name string) unsafe.Pointer {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return C.glctx_glx_proc_address(cName)
}

func (s *glxStack) DestroyContext() {
	if s.context != nil {
		C.glXMakeCurrent(s.display, C.None, nil)
		C.glXDestroyContext(s.display, s.context)
		s.context = nil
	}
}

// DestroySurface is a no-op: the GLX drawable is the host's window.
func (s *glxStack) DestroySurface() {}

func (s *glxStack) DestroyDisplay() {
	if s.display != nil && s.ownsDisplay {
		C.XCloseDisplay(s.display)
	}
	s.display = nil
}
