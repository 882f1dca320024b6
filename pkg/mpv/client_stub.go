//go:build !mpv_cgo

package mpv

import "unsafe"

// Handle is the non-cgo placeholder for an mpv client handle. Every native
// call reports ErrNativeUnavailable.
type Handle struct{}

func New(opts []Option) (*Handle, error) { return nil, ErrNativeUnavailable }

func (h *Handle) LoadConfigFile(path string) error { return ErrNativeUnavailable }

func (h *Handle) CreateClient(name string) (*Handle, error) { return nil, ErrNativeUnavailable }

func (h *Handle) Command(name string, args ...string) error { return ErrNativeUnavailable }

func (h *Handle) GetProperty(name string, format Format) (Node, error) {
	return Node{}, ErrNativeUnavailable
}

func (h *Handle) SetProperty(name string, value Node) error { return ErrNativeUnavailable }

func (h *Handle) ObserveProperty(name string, format Format, replyID uint64) error {
	return ErrNativeUnavailable
}

func (h *Handle) WaitEvent(timeout float64) (*Event, error) { return nil, ErrNativeUnavailable }

func (h *Handle) SetWakeupCallback(fn func()) {}

func (h *Handle) Terminate() {}

func (h *Handle) Close() {}

// ClientAPIVersion returns (0, 0) when the native backend is absent.
func ClientAPIVersion() (uint16, uint16) { return 0, 0 }

// RenderContext is the non-cgo placeholder for mpv's OpenGL render context.
type RenderContext struct{}

func NewRenderContext(h *Handle, getProc func(name string) unsafe.Pointer) (*RenderContext, error) {
	return nil, ErrNativeUnavailable
}

func (r *RenderContext) SetUpdateCallback(fn func()) {}

func (r *RenderContext) Render(fbo, width, height int, flipY bool) error {
	return ErrNativeUnavailable
}

func (r *RenderContext) Free() {}
