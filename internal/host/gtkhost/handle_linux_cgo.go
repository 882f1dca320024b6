//go:build linux && mpv_cgo

package gtkhost

/*
#cgo pkg-config: gtk4

#include <gtk/gtk.h>

#ifdef GDK_WINDOWING_X11
#include <gdk/x11/gdkx.h>
#endif
#ifdef GDK_WINDOWING_WAYLAND
#include <gdk/wayland/gdkwayland.h>
#endif

static int mpvkit_surface_kind(GdkSurface *surface) {
#ifdef GDK_WINDOWING_X11
	if (GDK_IS_X11_SURFACE(surface)) {
		return 1;
	}
#endif
#ifdef GDK_WINDOWING_WAYLAND
	if (GDK_IS_WAYLAND_SURFACE(surface)) {
		return 2;
	}
#endif
	return 0;
}

static guintptr mpvkit_surface_id(GdkSurface *surface) {
#ifdef GDK_WINDOWING_X11
	if (GDK_IS_X11_SURFACE(surface)) {
		return (guintptr)gdk_x11_surface_get_xid(surface);
	}
#endif
#ifdef GDK_WINDOWING_WAYLAND
	if (GDK_IS_WAYLAND_SURFACE(surface)) {
		return (guintptr)gdk_wayland_surface_get_wl_surface(surface);
	}
#endif
	return 0;
}

static guintptr mpvkit_surface_display(GdkSurface *surface) {
	GdkDisplay *display = gdk_surface_get_display(surface);
#ifdef GDK_WINDOWING_X11
	if (GDK_IS_X11_DISPLAY(display)) {
		return (guintptr)gdk_x11_display_get_xdisplay(display);
	}
#endif
#ifdef GDK_WINDOWING_WAYLAND
	if (GDK_IS_WAYLAND_DISPLAY(display)) {
		return (guintptr)gdk_wayland_display_get_wl_display(display);
	}
#endif
	return 0;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/bnema/mpvkit/internal/host"
)

func nativeHandle(win *gtk.Window) (host.RawHandle, error) {
	surfacer := win.Surface()
	if surfacer == nil {
		return host.RawHandle{}, fmt.Errorf("window %q is not realized", win.Title())
	}
	surface := gdk.BaseSurface(surfacer)
	cSurface := (*C.GdkSurface)(unsafe.Pointer(coreglib.BaseObject(surface).Native()))

	raw := host.RawHandle{
		ID:      uintptr(C.mpvkit_surface_id(cSurface)),
		Display: uintptr(C.mpvkit_surface_display(cSurface)),
	}
	switch C.mpvkit_surface_kind(cSurface) {
	case 1:
		raw.Kind = host.HandleXlib
	case 2:
		raw.Kind = host.HandleWayland
	default:
		return host.RawHandle{}, host.ErrUnsupportedPlatform
	}
	return raw, nil
}
