package staticinfo

import (
	"encoding/binary"
	"strings"
)

// UnsetTime is written into the reserved time field.
const UnsetTime int64 = -1

// Presence is the bitset of sections carried by a message.
type Presence uint8

const (
	PresenceSoftware Presence = 1 << iota
	PresenceHardware
	PresenceModel

	presenceMask = PresenceSoftware | PresenceHardware | PresenceModel
)

func (p Presence) Has(flag Presence) bool {
	return p&flag != 0
}

func (p Presence) String() string {
	var parts []string
	if p.Has(PresenceSoftware) {
		parts = append(parts, "software")
	}
	if p.Has(PresenceHardware) {
		parts = append(parts, "hardware")
	}
	if p.Has(PresenceModel) {
		parts = append(parts, "model")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

const (
	// field sizes
	timeLen       = 8
	presenceLen   = 1
	processorsLen = 4
	numDevicesLen = 2
	maxMemoryLen  = 8
	offHeapLen    = 8
	numLayersLen  = 4
	numParamsLen  = 8

	BlockLength = timeLen +
		presenceLen +
		processorsLen +
		numDevicesLen +
		maxMemoryLen +
		offHeapLen +
		numLayersLen +
		numParamsLen
)

// fixed block field offsets; this order is the wire contract
const (
	offTime       = 0
	offPresence   = offTime + timeLen
	offProcessors = offPresence + presenceLen
	offNumDevices = offProcessors + processorsLen
	offMaxMemory  = offNumDevices + numDevicesLen
	offOffHeap    = offMaxMemory + maxMemoryLen
	offNumLayers  = offOffHeap + offHeapLen
	offNumParams  = offNumLayers + numLayersLen
)

type fixedBlock struct {
	time             int64
	presence         Presence
	processors       int32
	numDevices       int16
	maxMemory        int64
	offHeapMaxMemory int64
	numLayers        int32
	numParams        int64
}

func (b fixedBlock) encode(buf []byte) {
	binary.LittleEndian.PutUint64(buf[offTime:], uint64(b.time))
	buf[offPresence] = byte(b.presence & presenceMask)
	binary.LittleEndian.PutUint32(buf[offProcessors:], uint32(b.processors))
	binary.LittleEndian.PutUint16(buf[offNumDevices:], uint16(b.numDevices))
	binary.LittleEndian.PutUint64(buf[offMaxMemory:], uint64(b.maxMemory))
	binary.LittleEndian.PutUint64(buf[offOffHeap:], uint64(b.offHeapMaxMemory))
	binary.LittleEndian.PutUint32(buf[offNumLayers:], uint32(b.numLayers))
	binary.LittleEndian.PutUint64(buf[offNumParams:], uint64(b.numParams))
}

// decodeFixedBlock reads every field; buf must hold at least BlockLength bytes.
func decodeFixedBlock(buf []byte) fixedBlock {
	return fixedBlock{
		time:             int64(binary.LittleEndian.Uint64(buf[offTime:])),
		presence:         Presence(buf[offPresence]) & presenceMask,
		processors:       int32(binary.LittleEndian.Uint32(buf[offProcessors:])),
		numDevices:       int16(binary.LittleEndian.Uint16(buf[offNumDevices:])),
		maxMemory:        int64(binary.LittleEndian.Uint64(buf[offMaxMemory:])),
		offHeapMaxMemory: int64(binary.LittleEndian.Uint64(buf[offOffHeap:])),
		numLayers:        int32(binary.LittleEndian.Uint32(buf[offNumLayers:])),
		numParams:        int64(binary.LittleEndian.Uint64(buf[offNumParams:])),
	}
}
