package hwinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// isCardDevice accepts card0, card1, ... but not connectors (card0-DP-1)
// or render nodes (renderD128).
func isCardDevice(name string) bool {
	suffix, ok := strings.CutPrefix(name, "card")
	if !ok || suffix == "" {
		return false
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func cardIndex(name string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(name, "card"))
	return n
}

func readDriverName(devicePath string) string {
	link, err := os.Readlink(filepath.Join(devicePath, "driver"))
	if err != nil {
		return ""
	}
	return filepath.Base(link)
}

// parsePCIUevent extracts the vendor name and device id from lines like
//
//	PCI_ID=1002:744A
func parsePCIUevent(devicePath string) (vendor, deviceID string) {
	data, err := os.ReadFile(filepath.Join(devicePath, "uevent"))
	if err != nil {
		return "", ""
	}

	for _, line := range strings.Split(string(data), "\n") {
		value, ok := strings.CutPrefix(line, "PCI_ID=")
		if !ok {
			continue
		}
		rawVendor, rawDevice, ok := strings.Cut(value, ":")
		if !ok {
			continue
		}
		return pciVendorName(strings.ToLower(rawVendor)), "0x" + strings.ToLower(rawDevice)
	}
	return "", ""
}

func pciVendorName(vendorID string) string {
	switch vendorID {
	case "1002":
		return "AMD"
	case "10de":
		return "NVIDIA"
	case "8086":
		return "Intel"
	case "":
		return ""
	default:
		return fmt.Sprintf("0x%s", vendorID)
	}
}

func readSysfsInt64(path string) (int64, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
