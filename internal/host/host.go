// Package host abstracts the embedding application: window lookup,
// native handle access, and the event bus used to reach the frontend.
package host

import (
	"errors"
	"fmt"
)

// HandleKind identifies the windowing system a native handle belongs to.
type HandleKind int

const (
	HandleUnknown HandleKind = iota
	HandleWin32
	HandleXlib
	HandleXcb
	HandleAppKit
	HandleWayland
)

func (k HandleKind) String() string {
	switch k {
	case HandleWin32:
		return "win32"
	case HandleXlib:
		return "xlib"
	case HandleXcb:
		return "xcb"
	case HandleAppKit:
		return "appkit"
	case HandleWayland:
		return "wayland"
	default:
		return "unknown"
	}
}

// RawHandle carries the native identifiers of a host window. ID is the
// window (HWND, XID, NSView, wl_surface) and Display the connection or
// display handle where the platform has one.
type RawHandle struct {
	Kind    HandleKind
	ID      uintptr
	Display uintptr
}

var (
	// ErrWaylandWID is returned when window-id embedding is requested on
	// Wayland, which has no concept of foreign window reparenting.
	ErrWaylandWID = errors.New("window embedding via wid is not supported on Wayland")

	// ErrUnsupportedPlatform is returned for windowing systems the
	// plugin has no integration for.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// WID converts a native handle into the numeric window id the engine's
// wid option expects.
func WID(h RawHandle) (int64, error) {
	switch h.Kind {
	case HandleWin32, HandleXlib, HandleXcb, HandleAppKit:
		return int64(h.ID), nil
	case HandleWayland:
		return 0, ErrWaylandWID
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, h.Kind)
	}
}

// Window is a single host window the plugin can attach video to.
type Window interface {
	Label() string
	Handle() (RawHandle, error)
	InnerSize() (width, height int)
	// OnResize registers a size listener and returns a cancel func.
	OnResize(fn func(width, height int)) (cancel func())
}

// Windows resolves window labels to live windows.
type Windows interface {
	Get(label string) (Window, bool)
}

// Bus delivers events to the frontend.
type Bus interface {
	Emit(event string, payload any) error
}
