//go:build !linux || !mpv_cgo

package gtkhost

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/bnema/mpvkit/internal/host"
)

func nativeHandle(win *gtk.Window) (host.RawHandle, error) {
	return host.RawHandle{}, host.ErrUnsupportedPlatform
}
