package staticinfo

import (
	"fmt"
	"slices"
)

// UnknownDeviceMemory pads device entries that have a description but no
// memory figure.
const UnknownDeviceMemory int64 = -1

type SoftwareInfo struct {
	Arch               string
	OSName             string
	RuntimeName        string
	RuntimeVersion     string
	RuntimeSpecVersion string
	BackendClass       string
	DataTypeName       string
}

// HardwareInfo describes the machine a run executes on. DeviceTotalMemory
// and DeviceDescription are parallel; when their lengths differ the shorter
// one is padded on encode.
type HardwareInfo struct {
	AvailableProcessors int32
	NumDevices          int16
	MaxMemory           int64
	OffHeapMaxMemory    int64
	DeviceTotalMemory   []int64
	DeviceDescription   []string
}

type ModelInfo struct {
	ClassName  string
	ConfigJSON string
	ParamNames []string
	NumLayers  int32
	NumParams  int64
}

// Report is the static info report. Each section is either absent (nil) or
// present; sections can be set but never removed.
// It is NOT safe for concurrent use.
type Report struct {
	software *SoftwareInfo
	hardware *HardwareInfo
	model    *ModelInfo
}

func NewReport() *Report {
	return &Report{}
}

func (r *Report) SetSoftwareInfo(info SoftwareInfo) {
	r.software = &info
}

func (r *Report) SetHardwareInfo(info HardwareInfo) {
	info.DeviceTotalMemory = slices.Clone(info.DeviceTotalMemory)
	info.DeviceDescription = slices.Clone(info.DeviceDescription)
	r.hardware = &info
}

func (r *Report) SetModelInfo(info ModelInfo) {
	info.ParamNames = slices.Clone(info.ParamNames)
	r.model = &info
}

func (r *Report) HasSoftwareInfo() bool { return r.software != nil }
func (r *Report) HasHardwareInfo() bool { return r.hardware != nil }
func (r *Report) HasModelInfo() bool    { return r.model != nil }

func (r *Report) Software() (SoftwareInfo, bool) {
	if r.software == nil {
		return SoftwareInfo{}, false
	}
	return *r.software, true
}

func (r *Report) Hardware() (HardwareInfo, bool) {
	if r.hardware == nil {
		return HardwareInfo{}, false
	}
	return *r.hardware, true
}

func (r *Report) Model() (ModelInfo, bool) {
	if r.model == nil {
		return ModelInfo{}, false
	}
	return *r.model, true
}

func (r *Report) Presence() Presence {
	var p Presence
	if r.software != nil {
		p |= PresenceSoftware
	}
	if r.hardware != nil {
		p |= PresenceHardware
	}
	if r.model != nil {
		p |= PresenceModel
	}
	return p
}

// Validate reports inconsistencies that still encode, but that a reader of
// the message is likely to trip over. NumDevices is sent as given, while the
// device group carries one entry per memory or description value.
func (r *Report) Validate() error {
	if r.hardware == nil {
		return nil
	}
	if entries := deviceCount(r.hardware); int(r.hardware.NumDevices) != entries {
		return fmt.Errorf(
			"%w: numDevices=%d, entries=%d",
			ErrDeviceCountMismatch, r.hardware.NumDevices, entries,
		)
	}
	return nil
}

func (r *Report) fixedBlock() fixedBlock {
	b := fixedBlock{
		time:     UnsetTime,
		presence: r.Presence(),
	}
	if hw := r.hardware; hw != nil {
		b.processors = hw.AvailableProcessors
		b.numDevices = hw.NumDevices
		b.maxMemory = hw.MaxMemory
		b.offHeapMaxMemory = hw.OffHeapMaxMemory
	}
	if m := r.model; m != nil {
		b.numLayers = m.NumLayers
		b.numParams = m.NumParams
	}
	return b
}
