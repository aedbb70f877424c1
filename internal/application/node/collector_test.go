package node

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvoloboi/staticinfo/internal/infrastructure/hwinfo"
)

func stubProbe(facts hwinfo.Facts) func() hwinfo.Facts {
	return func() hwinfo.Facts { return facts }
}

func TestCollectorAllSections(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"layers":2}`), 0o600))

	c := NewCollector(CollectorConfig{
		Software: SoftwareConfig{Enabled: true, BackendClass: "simplego", DataTypeName: "Float32"},
		Hardware: true,
		Model: ModelConfig{
			Enabled:    true,
			ClassName:  "fnn.Model",
			ConfigPath: configPath,
			ParamNames: []string{"W", "b"},
			NumLayers:  2,
			NumParams:  42,
		},
	}, stubProbe(hwinfo.Facts{
		TotalMemory: 64 << 30,
		Devices: []hwinfo.Device{
			{Description: "AMD 0x744a (amdgpu)", TotalMemory: 24 << 30},
			{Description: "NVIDIA 0x2684", TotalMemory: hwinfo.UnknownMemory},
		},
	}))

	report, err := c.Collect()
	require.NoError(t, err)
	require.NoError(t, report.Validate())

	sw, ok := report.Software()
	require.True(t, ok)
	require.Equal(t, runtime.GOARCH, sw.Arch)
	require.Equal(t, runtime.GOOS, sw.OSName)
	require.Equal(t, runtime.Version(), sw.RuntimeVersion)
	require.NotEmpty(t, sw.RuntimeSpecVersion)
	require.Equal(t, "simplego", sw.BackendClass)

	hw, ok := report.Hardware()
	require.True(t, ok)
	require.Equal(t, int32(runtime.NumCPU()), hw.AvailableProcessors)
	require.Equal(t, int16(2), hw.NumDevices)
	require.Equal(t, int64(64<<30), hw.OffHeapMaxMemory)
	require.Equal(t, []int64{24 << 30, hwinfo.UnknownMemory}, hw.DeviceTotalMemory)
	require.Equal(t, []string{"AMD 0x744a (amdgpu)", "NVIDIA 0x2684"}, hw.DeviceDescription)

	m, ok := report.Model()
	require.True(t, ok)
	require.Equal(t, `{"layers":2}`, m.ConfigJSON)
	require.Equal(t, []string{"W", "b"}, m.ParamNames)
	require.Equal(t, int64(42), m.NumParams)
}

func TestCollectorDisabledSections(t *testing.T) {
	report, err := NewCollector(CollectorConfig{}, stubProbe(hwinfo.Facts{})).Collect()
	require.NoError(t, err)
	require.False(t, report.HasSoftwareInfo())
	require.False(t, report.HasHardwareInfo())
	require.False(t, report.HasModelInfo())
}

func TestCollectorRejectsInvalidModelConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"layers":`), 0o600))

	_, err := NewCollector(CollectorConfig{
		Model: ModelConfig{Enabled: true, ConfigPath: configPath},
	}, stubProbe(hwinfo.Facts{})).Collect()
	require.ErrorIs(t, err, ErrInvalidModelConfig)
}

func TestCollectorMissingModelConfig(t *testing.T) {
	_, err := NewCollector(CollectorConfig{
		Model: ModelConfig{Enabled: true, ConfigPath: filepath.Join(t.TempDir(), "nope.json")},
	}, stubProbe(hwinfo.Facts{})).Collect()
	require.ErrorIs(t, err, os.ErrNotExist)
}
