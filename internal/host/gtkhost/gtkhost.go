// Package gtkhost adapts GTK4 windows to the host abstraction used by
// the player. It is the production host when the plugin is embedded in
// a gotk4 application.
package gtkhost

import (
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/bnema/mpvkit/internal/host"
)

// Host tracks labeled GTK windows and implements host.Windows.
type Host struct {
	mu      sync.RWMutex
	windows map[string]*Window
}

func New() *Host {
	return &Host{windows: make(map[string]*Window)}
}

// Register associates a label with a GTK window. Registering an
// existing label replaces the previous window.
func (h *Host) Register(label string, win *gtk.Window) *Window {
	w := &Window{label: label, win: win}
	h.mu.Lock()
	h.windows[label] = w
	h.mu.Unlock()
	return w
}

// Unregister drops the window for label, if any.
func (h *Host) Unregister(label string) {
	h.mu.Lock()
	delete(h.windows, label)
	h.mu.Unlock()
}

func (h *Host) Get(label string) (host.Window, bool) {
	h.mu.RLock()
	w, ok := h.windows[label]
	h.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return w, true
}

// Window wraps a gtk.Window as a host.Window.
type Window struct {
	label string
	win   *gtk.Window
}

func (w *Window) Label() string { return w.label }

func (w *Window) InnerSize() (int, int) {
	widget := &w.win.Widget
	return widget.AllocatedWidth(), widget.AllocatedHeight()
}

func (w *Window) Handle() (host.RawHandle, error) {
	return nativeHandle(w.win)
}

// OnResize fires the listener whenever the window surface lays out with
// a new size. The callback runs on the GTK main thread.
func (w *Window) OnResize(fn func(width, height int)) func() {
	surfacer := w.win.Surface()
	if surfacer == nil {
		return func() {}
	}
	surface := gdk.BaseSurface(surfacer)
	id := surface.ConnectLayout(func(width, height int) {
		fn(width, height)
	})
	return func() { surface.HandlerDisconnect(id) }
}
