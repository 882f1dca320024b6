//go:build !mpv_cgo

package mpv

// IsNativeAvailable reports whether the native libmpv backend is compiled in.
// In non-cgo builds every native entry point returns ErrNativeUnavailable.
func IsNativeAvailable() bool { return false }
