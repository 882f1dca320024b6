// Package gpu detects the GPU vendor and driver so callers can pick
// sensible hardware-decoding defaults for the player engine.
package gpu

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bnema/mpvkit/pkg/mpv"
)

// Vendor represents GPU vendor types
type Vendor string

const (
	VendorAMD     Vendor = "amd"
	VendorNVIDIA  Vendor = "nvidia"
	VendorIntel   Vendor = "intel"
	VendorUnknown Vendor = "unknown"
)

// PCI vendor ids as they appear in sysfs.
const (
	pciVendorAMD    = "0x1002"
	pciVendorNVIDIA = "0x10de"
	pciVendorIntel  = "0x8086"
)

// Info contains information about the detected GPU
type Info struct {
	Vendor Vendor
	Name   string
	Driver string // kernel DRM driver: amdgpu, i915, nouveau, nvidia, ...
}

// String returns a string representation of the GPU info
func (g Info) String() string {
	if g.Name != "" {
		return string(g.Vendor) + " (" + g.Name + ")"
	}
	return string(g.Vendor)
}

// Detect identifies the GPU. sysfs is authoritative when present; lspci
// and the NVIDIA proc node cover containers and older kernels where the
// DRM class directory is missing.
func Detect() Info {
	if info := detectSysFS("/sys/class/drm"); info.Vendor != VendorUnknown {
		return info
	}
	if out, err := exec.Command("lspci").Output(); err == nil {
		if info := parseLSPCI(string(out)); info.Vendor != VendorUnknown {
			return info
		}
	}
	if _, err := os.Stat("/proc/driver/nvidia/version"); err == nil {
		return Info{Vendor: VendorNVIDIA, Driver: "nvidia"}
	}
	return Info{Vendor: VendorUnknown}
}

// detectSysFS reads the vendor id and DRM driver of the first recognized
// card under the given drm class directory.
func detectSysFS(drmRoot string) Info {
	cards, err := filepath.Glob(filepath.Join(drmRoot, "card*", "device", "vendor"))
	if err != nil {
		return Info{Vendor: VendorUnknown}
	}

	for _, vendorFile := range cards {
		data, err := os.ReadFile(vendorFile)
		if err != nil {
			continue
		}

		var vendor Vendor
		switch strings.TrimSpace(string(data)) {
		case pciVendorAMD:
			vendor = VendorAMD
		case pciVendorNVIDIA:
			vendor = VendorNVIDIA
		case pciVendorIntel:
			vendor = VendorIntel
		default:
			continue
		}

		return Info{Vendor: vendor, Driver: drmDriver(filepath.Dir(vendorFile))}
	}

	return Info{Vendor: VendorUnknown}
}

// drmDriver resolves the device's driver symlink to the kernel module name.
func drmDriver(deviceDir string) string {
	target, err := os.Readlink(filepath.Join(deviceDir, "driver"))
	if err != nil {
		return ""
	}
	return filepath.Base(target)
}

// parseLSPCI scans lspci output for a display controller line.
func parseLSPCI(output string) Info {
	for _, line := range strings.Split(output, "\n") {
		if !isDisplayController(line) {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "amd") || strings.Contains(lower, "ati"):
			return Info{Vendor: VendorAMD, Name: deviceName(line)}
		case strings.Contains(lower, "nvidia"):
			return Info{Vendor: VendorNVIDIA, Name: deviceName(line)}
		case strings.Contains(lower, "intel"):
			return Info{Vendor: VendorIntel, Name: deviceName(line)}
		}
	}
	return Info{Vendor: VendorUnknown}
}

func isDisplayController(line string) bool {
	for _, class := range []string{"VGA", "3D", "Display"} {
		if strings.Contains(line, class) {
			return true
		}
	}
	return false
}

// deviceName extracts a readable device name from an lspci line.
func deviceName(line string) string {
	parts := strings.Split(line, ":")
	if len(parts) < 2 {
		return ""
	}

	name := strings.TrimSpace(parts[len(parts)-1])
	if idx := strings.Index(name, " (rev "); idx != -1 {
		name = name[:idx]
	}
	return name
}

// HwdecSuggestion returns the mpv hwdec value that best fits the GPU.
func (g Info) HwdecSuggestion() string {
	switch g.Vendor {
	case VendorAMD, VendorIntel:
		return "vaapi"
	case VendorNVIDIA:
		return "nvdec"
	default:
		return "auto-safe"
	}
}

// VAAPIDriverName returns the LIBVA_DRIVER_NAME value matching the GPU.
func (g Info) VAAPIDriverName() string {
	switch g.Vendor {
	case VendorAMD:
		return "radeonsi"
	case VendorNVIDIA:
		return "vdpau" // NVIDIA exposes VA-API through the VDPAU shim
	case VendorIntel:
		return "iHD"
	default:
		return ""
	}
}

// SupportsVAAPI returns true if the GPU vendor supports VA-API
func (g Info) SupportsVAAPI() bool {
	return g.Vendor == VendorAMD || g.Vendor == VendorIntel || g.Vendor == VendorNVIDIA
}

// EngineOptions returns player options enabling hardware decoding that
// match the detected GPU.
func (g Info) EngineOptions() []mpv.Option {
	return []mpv.Option{
		{Key: "hwdec", Value: g.HwdecSuggestion()},
	}
}
