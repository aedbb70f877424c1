// Package hwinfo probes the host for the hardware facts carried in a static
// info report: total system memory and the accelerator devices visible
// through DRM. Probing never fails; unreadable sources leave zero values or
// UnknownMemory in place.
package hwinfo

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// UnknownMemory marks a device whose memory size could not be read.
const UnknownMemory int64 = -1

type Device struct {
	Description string
	TotalMemory int64
}

type Facts struct {
	TotalMemory int64
	Devices     []Device
}

// Probe reads host memory and enumerates DRM cards under /sys.
func Probe() Facts {
	return probeFrom("/sys")
}

// probeFrom accepts the sysfs root so tests can point at a synthetic tree.
func probeFrom(sysRoot string) Facts {
	return Facts{
		TotalMemory: totalMemory(),
		Devices:     enumerateCards(sysRoot),
	}
}

func enumerateCards(sysRoot string) []Device {
	base := filepath.Join(sysRoot, "class/drm")
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if isCardDevice(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return cardIndex(names[i]) < cardIndex(names[j])
	})

	devices := make([]Device, 0, len(names))
	for _, name := range names {
		devicePath := filepath.Join(base, name, "device")
		devices = append(devices, Device{
			Description: describe(devicePath),
			TotalMemory: readVRAMTotal(devicePath),
		})
	}
	return devices
}

// describe joins vendor, device id and driver, e.g. "AMD 0x744a (amdgpu)".
func describe(devicePath string) string {
	vendor, deviceID := parsePCIUevent(devicePath)

	var parts []string
	if vendor != "" {
		parts = append(parts, vendor)
	}
	if deviceID != "" {
		parts = append(parts, deviceID)
	}
	if driver := readDriverName(devicePath); driver != "" {
		parts = append(parts, "("+driver+")")
	}
	return strings.Join(parts, " ")
}

func readVRAMTotal(devicePath string) int64 {
	v, ok := readSysfsInt64(filepath.Join(devicePath, "mem_info_vram_total"))
	if !ok {
		return UnknownMemory
	}
	return v
}
