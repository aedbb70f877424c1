package staticinfo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func fullSoftware() SoftwareInfo {
	return SoftwareInfo{
		Arch:               "amd64",
		OSName:             "linux",
		RuntimeName:        "gc",
		RuntimeVersion:     "go1.24.5",
		RuntimeSpecVersion: "1.24",
		BackendClass:       "simplego",
		DataTypeName:       "Float32",
	}
}

func fullHardware() HardwareInfo {
	return HardwareInfo{
		AvailableProcessors: 16,
		NumDevices:          2,
		MaxMemory:           8 << 30,
		OffHeapMaxMemory:    32 << 30,
		DeviceTotalMemory:   []int64{1073741824, 2147483648},
		DeviceDescription:   []string{"GPU0", "GPU1"},
	}
}

func fullModel() ModelInfo {
	return ModelInfo{
		ClassName:  "fnn.Model",
		ConfigJSON: `{"layers":[{"units":128},{"units":10}]}`,
		ParamNames: []string{"W", "b", "gamma"},
		NumLayers:  2,
		NumParams:  101770,
	}
}

func TestRoundTripAllPresenceCombinations(t *testing.T) {
	for mask := Presence(0); mask <= presenceMask; mask++ {
		t.Run(mask.String(), func(t *testing.T) {
			r := NewReport()
			if mask.Has(PresenceSoftware) {
				r.SetSoftwareInfo(fullSoftware())
			}
			if mask.Has(PresenceHardware) {
				r.SetHardwareInfo(fullHardware())
			}
			if mask.Has(PresenceModel) {
				r.SetModelInfo(fullModel())
			}

			data, err := r.Encode()
			require.NoError(t, err)
			require.Len(t, data, Size(r))

			got, err := Decode(data)
			require.NoError(t, err)
			require.Equal(t, mask, got.Presence())
			require.Equal(t, r, got)
		})
	}
}

func TestScenarioSoftwareOnly(t *testing.T) {
	r := NewReport()
	r.SetSoftwareInfo(SoftwareInfo{Arch: "x86_64", OSName: "Linux"})

	data, err := r.Encode()
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.True(t, got.HasSoftwareInfo())
	require.False(t, got.HasHardwareInfo())
	require.False(t, got.HasModelInfo())

	sw, ok := got.Software()
	require.True(t, ok)
	require.Equal(t, "x86_64", sw.Arch)
	require.Equal(t, "Linux", sw.OSName)
	require.Empty(t, sw.RuntimeName)

	hw, ok := got.Hardware()
	require.False(t, ok)
	require.Nil(t, hw.DeviceTotalMemory)
	require.Nil(t, hw.DeviceDescription)

	m, ok := got.Model()
	require.False(t, ok)
	require.Nil(t, m.ParamNames)
}

func TestScenarioFullReport(t *testing.T) {
	r := NewReport()
	r.SetSoftwareInfo(fullSoftware())
	r.SetHardwareInfo(fullHardware())
	r.SetModelInfo(fullModel())

	data, err := r.MarshalBinary()
	require.NoError(t, err)

	var got Report
	require.NoError(t, got.UnmarshalBinary(data))

	hw, ok := got.Hardware()
	require.True(t, ok)
	require.Equal(t, []int64{1073741824, 2147483648}, hw.DeviceTotalMemory)
	require.Equal(t, []string{"GPU0", "GPU1"}, hw.DeviceDescription)

	m, ok := got.Model()
	require.True(t, ok)
	require.Equal(t, []string{"W", "b", "gamma"}, m.ParamNames)
	require.Equal(t, int32(2), m.NumLayers)
	require.Equal(t, int64(101770), m.NumParams)
}

func TestDeviceGroupPadsShorterSlice(t *testing.T) {
	tests := []struct {
		name       string
		memory     []int64
		desc       []string
		wantMemory []int64
		wantDesc   []string
	}{
		{
			name:       "more memory than descriptions",
			memory:     []int64{1, 2, 3},
			desc:       []string{"a", "b"},
			wantMemory: []int64{1, 2, 3},
			wantDesc:   []string{"a", "b", ""},
		},
		{
			name:       "more descriptions than memory",
			memory:     []int64{7},
			desc:       []string{"a", "b"},
			wantMemory: []int64{7, UnknownDeviceMemory},
			wantDesc:   []string{"a", "b"},
		},
		{
			name:       "no memory slice",
			desc:       []string{"only"},
			wantMemory: []int64{UnknownDeviceMemory},
			wantDesc:   []string{"only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport()
			r.SetHardwareInfo(HardwareInfo{
				NumDevices:        int16(len(tt.wantMemory)),
				DeviceTotalMemory: tt.memory,
				DeviceDescription: tt.desc,
			})

			data, err := r.Encode()
			require.NoError(t, err)
			require.Len(t, data, Size(r))

			groupCount := binary.LittleEndian.Uint32(data[HeaderLen+BlockLength:])
			require.Equal(t, uint32(len(tt.wantMemory)), groupCount)

			got, err := Decode(data)
			require.NoError(t, err)
			hw, _ := got.Hardware()
			require.Equal(t, tt.wantMemory, hw.DeviceTotalMemory)
			require.Equal(t, tt.wantDesc, hw.DeviceDescription)
		})
	}
}

func TestPresentButEmptySequences(t *testing.T) {
	r := NewReport()
	r.SetHardwareInfo(HardwareInfo{AvailableProcessors: 4})
	r.SetModelInfo(ModelInfo{ClassName: "empty"})

	data, err := r.Encode()
	require.NoError(t, err)
	require.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[HeaderLen+BlockLength:]))

	got, err := Decode(data)
	require.NoError(t, err)

	hw, ok := got.Hardware()
	require.True(t, ok)
	require.NotNil(t, hw.DeviceTotalMemory)
	require.NotNil(t, hw.DeviceDescription)
	require.Empty(t, hw.DeviceTotalMemory)

	m, ok := got.Model()
	require.True(t, ok)
	require.NotNil(t, m.ParamNames)
	require.Empty(t, m.ParamNames)
}

func TestAbsentSectionsEncodeAsZero(t *testing.T) {
	empty, err := NewReport().Encode()
	require.NoError(t, err)
	require.Len(t, empty, HeaderLen+BlockLength+2*groupHeaderLen+len(varFields)*lengthPrefixLen)

	block := decodeFixedBlock(empty[HeaderLen:])
	require.Equal(t, fixedBlock{time: UnsetTime}, block)

	// every byte after the fixed block is a zero count or a zero length
	for i, b := range empty[HeaderLen+BlockLength:] {
		require.Zerof(t, b, "byte %d", i)
	}
}

func TestSizeMatchesEncodedLength(t *testing.T) {
	r := NewReport()
	r.SetSoftwareInfo(SoftwareInfo{Arch: "ärm64", OSName: "日本"})
	r.SetHardwareInfo(HardwareInfo{
		DeviceTotalMemory: []int64{1, 2, 3, 4},
		DeviceDescription: []string{"ü"},
	})
	r.SetModelInfo(ModelInfo{ParamNames: []string{"", "λ", "weights/0"}})

	data, err := r.Encode()
	require.NoError(t, err)
	require.Equal(t, Size(r), len(data))
	require.Equal(t, r.EncodedLen(), len(data))
}

func TestDecodeTruncated(t *testing.T) {
	r := NewReport()
	r.SetSoftwareInfo(fullSoftware())
	r.SetHardwareInfo(fullHardware())
	r.SetModelInfo(fullModel())

	data, err := r.Encode()
	require.NoError(t, err)

	for cut := 1; cut <= len(data); cut++ {
		_, err := Decode(data[:len(data)-cut])
		require.Errorf(t, err, "cut %d", cut)
		require.ErrorIsf(t, err, ErrTruncated, "cut %d", cut)

		var decodeErr *DecodeError
		require.True(t, errors.As(err, &decodeErr))
	}
}

func TestDecodeTruncatedByOneByte(t *testing.T) {
	r := NewReport()
	r.SetSoftwareInfo(SoftwareInfo{Arch: "x86_64"})

	data, err := r.Encode()
	require.NoError(t, err)

	got, err := Decode(data[:len(data)-1])
	require.Nil(t, got)
	require.ErrorIs(t, err, ErrTruncated)
	require.Contains(t, err.Error(), "modelConfigJson")
}

func TestDecodeRejectsMalformed(t *testing.T) {
	r := NewReport()
	r.SetModelInfo(fullModel())
	valid, err := r.Encode()
	require.NoError(t, err)

	mutate := func(f func(b []byte) []byte) []byte {
		b := append([]byte(nil), valid...)
		return f(b)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{
			name: "trailing byte",
			data: mutate(func(b []byte) []byte { return append(b, 0) }),
			want: ErrTrailingBytes,
		},
		{
			name: "foreign template",
			data: mutate(func(b []byte) []byte {
				binary.LittleEndian.PutUint16(b[offTemplateID:], 99)
				return b
			}),
			want: ErrUnknownMessage,
		},
		{
			name: "foreign schema",
			data: mutate(func(b []byte) []byte {
				binary.LittleEndian.PutUint16(b[offSchemaID:], SchemaID+1)
				return b
			}),
			want: ErrUnknownMessage,
		},
		{
			name: "short block length",
			data: mutate(func(b []byte) []byte {
				binary.LittleEndian.PutUint16(b[offBlockLength:], BlockLength-1)
				return b
			}),
			want: ErrBlockLength,
		},
		{
			name: "huge param count",
			data: mutate(func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[HeaderLen+BlockLength+groupHeaderLen:], 1<<31)
				return b
			}),
			want: ErrTruncated,
		},
		{
			name: "empty buffer",
			data: nil,
			want: ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeSkipsLongerFixedBlock(t *testing.T) {
	r := NewReport()
	r.SetHardwareInfo(fullHardware())
	data, err := r.Encode()
	require.NoError(t, err)

	const extra = 5
	longer := make([]byte, 0, len(data)+extra)
	longer = append(longer, data[:HeaderLen+BlockLength]...)
	longer = append(longer, make([]byte, extra)...)
	longer = append(longer, data[HeaderLen+BlockLength:]...)
	binary.LittleEndian.PutUint16(longer[offBlockLength:], BlockLength+extra)

	got, err := Decode(longer)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestUnmarshalBinaryLeavesReportOnError(t *testing.T) {
	r := NewReport()
	r.SetSoftwareInfo(fullSoftware())

	require.Error(t, r.UnmarshalBinary([]byte{1, 2, 3}))
	require.True(t, r.HasSoftwareInfo())
}

func TestSettersCopySlices(t *testing.T) {
	memory := []int64{1, 2}
	names := []string{"W"}

	r := NewReport()
	r.SetHardwareInfo(HardwareInfo{DeviceTotalMemory: memory})
	r.SetModelInfo(ModelInfo{ParamNames: names})
	memory[0] = 99
	names[0] = "changed"

	hw, _ := r.Hardware()
	m, _ := r.Model()
	require.Equal(t, int64(1), hw.DeviceTotalMemory[0])
	require.Equal(t, "W", m.ParamNames[0])
}

func TestValidateDeviceCount(t *testing.T) {
	r := NewReport()
	require.NoError(t, r.Validate())

	r.SetHardwareInfo(fullHardware())
	require.NoError(t, r.Validate())

	hw := fullHardware()
	hw.NumDevices = 5
	r.SetHardwareInfo(hw)
	err := r.Validate()
	require.ErrorIs(t, err, ErrDeviceCountMismatch)

	// the mismatch still encodes and the declared count is carried verbatim
	data, err := r.Encode()
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	decoded, _ := got.Hardware()
	require.Equal(t, int16(5), decoded.NumDevices)
	require.Len(t, decoded.DeviceTotalMemory, 2)
}

func ExampleReport_Encode() {
	r := NewReport()
	r.SetSoftwareInfo(SoftwareInfo{Arch: "x86_64", OSName: "Linux"})

	data, _ := r.Encode()
	decoded, _ := Decode(data)
	sw, _ := decoded.Software()

	fmt.Println(len(data), decoded.Presence(), sw.Arch)
	// Output: 106 software x86_64
}

func TestDecodeIgnoresSchemaVersion(t *testing.T) {
	r := NewReport()
	r.SetSoftwareInfo(SoftwareInfo{Arch: "riscv64"})
	data, err := r.Encode()
	require.NoError(t, err)

	binary.LittleEndian.PutUint16(data[offVersion:], SchemaVersion+3)

	got, err := Decode(data)
	require.NoError(t, err)
	sw, ok := got.Software()
	require.True(t, ok)
	require.Equal(t, "riscv64", sw.Arch)
}
