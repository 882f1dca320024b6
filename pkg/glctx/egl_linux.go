//go:build linux && mpv_cgo

package glctx

/*
#cgo pkg-config: egl
#cgo CFLAGS: -DEGL_NO_X11
#include <stdlib.h>
#include <EGL/egl.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// eglStack is the Wayland backend and the X11 fallback when GLX is not
// available. EGL_NO_X11 selects the generic native types so the same build
// serves both windowing systems.
type eglStack struct {
	display C.EGLDisplay
	config  C.EGLConfig
	surface C.EGLSurface
	context C.EGLContext
}

func newEGLStack(cfg Config) (Stack, error) {
	display := C.eglGetDisplay(C.EGLNativeDisplayType(unsafe.Pointer(cfg.DisplayHandle)))
	if display == nil {
		return nil, fmt.Errorf("glctx: eglGetDisplay failed")
	}
	if C.eglInitialize(display, nil, nil) == C.EGL_FALSE {
		return nil, eglError("eglInitialize")
	}

	s := &eglStack{display: display}

	attribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_WINDOW_BIT,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_NONE,
	}
	var numConfigs C.EGLint
	if C.eglChooseConfig(display, &attribs[0], &s.config, 1, &numConfigs) == C.EGL_FALSE || numConfigs == 0 {
		s.DestroyDisplay()
		return nil, fmt.Errorf("glctx: no compatible EGL config")
	}

	if C.eglBindAPI(C.EGL_OPENGL_API) == C.EGL_FALSE {
		s.DestroyDisplay()
		return nil, eglError("eglBindAPI")
	}

	s.surface = C.eglCreateWindowSurface(display, s.config,
		C.EGLNativeWindowType(cfg.WindowHandle), nil)
	if s.surface == nil {
		s.DestroyDisplay()
		return nil, eglError("eglCreateWindowSurface")
	}

	s.context = C.eglCreateContext(display, s.config, nil, nil)
	if s.context == nil {
		s.DestroySurface()
		s.DestroyDisplay()
		return nil, eglError("eglCreateContext")
	}

	if err := s.MakeCurrent(); err != nil {
		s.DestroyContext()
		s.DestroySurface()
		s.DestroyDisplay()
		return nil, err
	}
	return s, nil
}

func (s *eglStack) MakeCurrent() error {
	if C.eglMakeCurrent(s.display, s.surface, s.surface, s.context) == C.EGL_FALSE {
		return eglError("eglMakeCurrent")
	}
	return nil
}

func (s *eglStack) SwapBuffers() error {
	if C.eglSwapBuffers(s.display, s.surface) == C.EGL_FALSE {
		return eglError("eglSwapBuffers")
	}
	return nil
}

func (s *eglStack) ProcAddress(name string) unsafe.Pointer {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return unsafe.Pointer(C.eglGetProcAddress(cName))
}

func (s *eglStack) DestroyContext() {
	if s.context != nil {
		C.eglMakeCurrent(s.display, nil, nil, nil)
		C.eglDestroyContext(s.display, s.context)
		s.context = nil
	}
}

func (s *eglStack) DestroySurface() {
	if s.surface != nil {
		C.eglDestroySurface(s.display, s.surface)
		s.surface = nil
	}
}

func (s *eglStack) DestroyDisplay() {
	if s.display != nil {
		C.eglTerminate(s.display)
		s.display = nil
	}
}

func eglError(call string) error {
	return fmt.Errorf("glctx: %s failed (egl error 0x%x)", call, uint32(C.eglGetError()))
}
