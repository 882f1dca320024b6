package mpv

import (
	"errors"
	"fmt"
)

var (
	// ErrNativeUnavailable is returned by every native entry point when the
	// package was built without the mpv_cgo tag.
	ErrNativeUnavailable = errors.New("mpv: native libmpv backend not compiled in")

	// ErrCreate means mpv_create returned no handle.
	ErrCreate = errors.New("mpv: failed to create handle")

	// ErrClientCreation means mpv_create_client returned no handle.
	ErrClientCreation = errors.New("mpv: failed to create client handle")
)

// APIError is a libmpv status code below zero, together with the call that
// produced it. Code carries mpv's own error name (mpv_error_string).
type APIError struct {
	Op   string // "command", "get-property", ...
	Name string // command or property name, when applicable
	Code string
	Raw  int
}

func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("mpv: %s %q failed: %s (%d)", e.Op, e.Name, e.Code, e.Raw)
	}
	return fmt.Sprintf("mpv: %s failed: %s (%d)", e.Op, e.Code, e.Raw)
}

// ErrUnsupportedValue reports a Node variant that has no property format.
type ErrUnsupportedValue struct {
	Kind Kind
}

func (e *ErrUnsupportedValue) Error() string {
	return fmt.Sprintf("mpv: node kind %s has no property representation", e.Kind)
}
