//go:build windows && mpv_cgo

package glctx

/*
#cgo LDFLAGS: -lopengl32 -lgdi32
#include <stdlib.h>
#include <windows.h>

static HDC mpvkit_wgl_dc(HWND hwnd) { return GetDC(hwnd); }

static int mpvkit_wgl_set_pixel_format(HDC dc) {
	PIXELFORMATDESCRIPTOR pfd = {0};
	pfd.nSize = sizeof(pfd);
	pfd.nVersion = 1;
	pfd.dwFlags = PFD_DRAW_TO_WINDOW | PFD_SUPPORT_OPENGL | PFD_DOUBLEBUFFER;
	pfd.iPixelType = PFD_TYPE_RGBA;
	pfd.cColorBits = 24;
	pfd.iLayerType = PFD_MAIN_PLANE;
	int format = ChoosePixelFormat(dc, &pfd);
	if (format == 0) {
		return 0;
	}
	return SetPixelFormat(dc, format, &pfd);
}
*/
import "C"

import (
	"fmt"
	"syscall"
	"unsafe"
)

// wglStack is the Windows backend: a classic WGL context on the window's
// device context. wglGetProcAddress only resolves extension symbols, so
// core GL 1.x entry points fall back to opengl32.dll exports.
type wglStack struct {
	hwnd     C.HWND
	dc       C.HDC
	context  C.HGLRC
	opengl32 syscall.Handle
}

func newStack(cfg Config) (Stack, error) {
	hwnd := C.HWND(unsafe.Pointer(cfg.WindowHandle))
	dc := C.mpvkit_wgl_dc(hwnd)
	if dc == nil {
		return nil, fmt.Errorf("glctx: GetDC failed")
	}

	s := &wglStack{hwnd: hwnd, dc: dc}

	if C.mpvkit_wgl_set_pixel_format(dc) == 0 {
		s.DestroyDisplay()
		return nil, fmt.Errorf("glctx: no compatible pixel format")
	}

	s.context = C.wglCreateContext(dc)
	if s.context == nil {
		s.DestroyDisplay()
		return nil, fmt.Errorf("glctx: wglCreateContext failed")
	}

	opengl32, err := syscall.LoadLibrary("opengl32.dll")
	if err != nil {
		s.DestroyContext()
		s.DestroyDisplay()
		return nil, fmt.Errorf("glctx: load opengl32.dll: %w", err)
	}
	s.opengl32 = opengl32

	if err := s.MakeCurrent(); err != nil {
		s.DestroyContext()
		s.DestroyDisplay()
		return nil, err
	}
	return s, nil
}

func (s *wglStack) MakeCurrent() error {
	if C.wglMakeCurrent(s.dc, s.context) == 0 {
		return fmt.Errorf("glctx: wglMakeCurrent failed")
	}
	return nil
}

func (s *wglStack) SwapBuffers() error {
	if C.SwapBuffers(s.dc) == 0 {
		return fmt.Errorf("glctx: SwapBuffers failed")
	}
	return nil
}

func (s *wglStack) ProcAddress(name string) unsafe.Pointer {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	if proc := C.wglGetProcAddress(C.LPCSTR(cName)); proc != nil {
		return unsafe.Pointer(proc)
	}
	if s.opengl32 != 0 {
		if addr, err := syscall.GetProcAddress(s.opengl32, name); err == nil {
			return unsafe.Pointer(addr)
		}
	}
	return nil
}

func (s *wglStack) DestroyContext() {
	if s.context != nil {
		C.wglMakeCurrent(nil, nil)
		C.wglDeleteContext(s.context)
		s.context = nil
	}
}

// DestroySurface is a no-op on WGL: the surface is the window's device
// context, released together with the display stage.
func (s *wglStack) DestroySurface() {}

func (s *wglStack) DestroyDisplay() {
	if s.dc != nil {
		C.ReleaseDC(s.hwnd, s.dc)
		s.dc = nil
	}
	if s.opengl32 != 0 {
		syscall.FreeLibrary(s.opengl32)
		s.opengl32 = 0
	}
}
