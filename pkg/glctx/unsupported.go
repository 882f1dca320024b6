//go:build !mpv_cgo || (!linux && !windows && !darwin)

package glctx

import "fmt"

// Render-mode GL needs a platform backend compiled under the mpv_cgo tag:
// GLX/EGL on Linux, WGL on Windows, CGL on macOS. Anything else falls
// through to here.
func newStack(cfg Config) (Stack, error) {
	return nil, fmt.Errorf("%w", ErrUnsupported)
}
