//go:build mpv_cgo

package mpv

// IsNativeAvailable reports whether the native libmpv backend is compiled in.
func IsNativeAvailable() bool { return true }
