package host

import (
	"errors"
	"testing"
)

func TestWID(t *testing.T) {
	tests := []struct {
		name    string
		handle  RawHandle
		want    int64
		wantErr error
	}{
		{"win32", RawHandle{Kind: HandleWin32, ID: 0x4242}, 0x4242, nil},
		{"xlib", RawHandle{Kind: HandleXlib, ID: 0x3c00007}, 0x3c00007, nil},
		{"xcb", RawHandle{Kind: HandleXcb, ID: 77}, 77, nil},
		{"appkit", RawHandle{Kind: HandleAppKit, ID: 0xdeadbeef}, 0xdeadbeef, nil},
		{"wayland", RawHandle{Kind: HandleWayland, ID: 1}, 0, ErrWaylandWID},
		{"unknown", RawHandle{}, 0, ErrUnsupportedPlatform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WID(tt.handle)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("WID() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("WID() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("WID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandleKindString(t *testing.T) {
	if got := HandleWayland.String(); got != "wayland" {
		t.Fatalf("String() = %q, want %q", got, "wayland")
	}
	if got := HandleKind(99).String(); got != "unknown" {
		t.Fatalf("String() = %q, want %q", got, "unknown")
	}
}
