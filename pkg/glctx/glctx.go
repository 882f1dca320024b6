// Package glctx acquires an OpenGL display/config/surface/context stack on
// top of a native window the host application already owns. It exists for
// mpv's offscreen render mode, where the plugin drives the GL loop itself.
//
// Teardown is staged on purpose: the mpv render context must be freed before
// the GL context, the context before the surface, the surface before the
// display connection. Callers walk DestroyContext → DestroySurface →
// DestroyDisplay in that order; Stack implementations must tolerate the
// calls arriving exactly once each.
package glctx

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrUnsupported means no GL backend is available for this platform/build.
var ErrUnsupported = errors.New("glctx: no OpenGL backend for this platform")

// Config describes the native window to attach to.
type Config struct {
	// DisplayHandle is the native display connection (X11 Display*,
	// wl_display*; unused on Windows).
	DisplayHandle uintptr
	// WindowHandle is the native window (X11 window id, wl_surface*, HWND).
	WindowHandle uintptr
	// Wayland selects the EGL platform on Linux.
	Wayland bool
	// Width and Height are the window's inner size. Both must be non-zero.
	Width  int
	Height int
}

// Stack is one acquired GL object stack, current on the creating goroutine.
// A Stack must never migrate between goroutines once current.
type Stack interface {
	// MakeCurrent binds the context to the calling goroutine.
	MakeCurrent() error
	// SwapBuffers presents the back buffer to the window surface.
	SwapBuffers() error
	// ProcAddress resolves a GL symbol for the engine's loader.
	ProcAddress(name string) unsafe.Pointer

	DestroyContext()
	DestroySurface()
	DestroyDisplay()
}

// New acquires a GL stack for the given native window and makes its context
// current. It fails if either inner dimension is zero.
func New(cfg Config) (Stack, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("glctx: window inner size %dx%d is not renderable", cfg.Width, cfg.Height)
	}
	return newStack(cfg)
}

// backend names one context-creation API.
type backend string

const (
	backendGLX backend = "glx"
	backendEGL backend = "egl"
	backendWGL backend = "wgl"
	backendCGL backend = "cgl"
)

// ladder returns the context APIs to try for a platform, in preference
// order: GLX then EGL on X11, EGL on Wayland, WGL on Windows, CGL on
// macOS. The platform newStack walks this order and returns the first
// backend that comes up.
func ladder(goos string, wayland bool) []backend {
	switch goos {
	case "windows":
		return []backend{backendWGL}
	case "darwin":
		return []backend{backendCGL}
	default:
		if wayland {
			return []backend{backendEGL}
		}
		return []backend{backendGLX, backendEGL}
	}
}
