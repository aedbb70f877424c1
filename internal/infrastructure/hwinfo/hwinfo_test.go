package hwinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSyntheticFile(t *testing.T, root, path, content string) {
	t.Helper()
	full := filepath.Join(root, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestProbeFromSyntheticSysfs(t *testing.T) {
	root := t.TempDir()

	writeSyntheticFile(t, root, "class/drm/card1/device/uevent", "DRIVER=amdgpu\nPCI_ID=1002:744A\n")
	writeSyntheticFile(t, root, "class/drm/card1/device/mem_info_vram_total", "25753026560\n")
	writeSyntheticFile(t, root, "class/drm/card0/device/uevent", "PCI_ID=10DE:2684\n")
	writeSyntheticFile(t, root, "class/drm/card0-DP-1/status", "connected\n")
	writeSyntheticFile(t, root, "class/drm/renderD128/dev", "226:128\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "drivers/amdgpu"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "drivers/amdgpu"), filepath.Join(root, "class/drm/card1/device/driver")))

	facts := probeFrom(root)

	require.Equal(t, []Device{
		{Description: "NVIDIA 0x2684", TotalMemory: UnknownMemory},
		{Description: "AMD 0x744a (amdgpu)", TotalMemory: 25753026560},
	}, facts.Devices)
}

func TestProbeFromMissingSysfs(t *testing.T) {
	facts := probeFrom(filepath.Join(t.TempDir(), "missing"))
	require.Empty(t, facts.Devices)
}

func TestIsCardDevice(t *testing.T) {
	require.True(t, isCardDevice("card0"))
	require.True(t, isCardDevice("card12"))
	require.False(t, isCardDevice("card"))
	require.False(t, isCardDevice("card0-HDMI-A-1"))
	require.False(t, isCardDevice("renderD128"))
}

func TestPCIVendorName(t *testing.T) {
	require.Equal(t, "Intel", pciVendorName("8086"))
	require.Equal(t, "0x1af4", pciVendorName("1af4"))
	require.Empty(t, pciVendorName(""))
}
