//go:build linux && mpv_cgo

package glctx

import (
	"errors"
	"fmt"
)

// newStack walks the platform ladder: EGL on Wayland, GLX then EGL on X11.
func newStack(cfg Config) (Stack, error) {
	var errs []error
	for _, b := range ladder("linux", cfg.Wayland) {
		var (
			stack Stack
			err   error
		)
		switch b {
		case backendGLX:
			stack, err = newGLXStack(cfg)
		case backendEGL:
			stack, err = newEGLStack(cfg)
		default:
			continue
		}
		if err == nil {
			return stack, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", b, err))
	}
	return nil, errors.Join(errs...)
}
