package staticinfo

import (
	"fmt"
	"math"
)

// Encode serializes r into a buffer of exactly Size(r) bytes.
func (r *Report) Encode() ([]byte, error) {
	if err := r.checkLengths(); err != nil {
		return nil, err
	}

	buf := make([]byte, Size(r))
	w := &writer{buf: buf}

	staticInfoHeader().Encode(w.next(HeaderLen))
	r.fixedBlock().encode(w.next(BlockLength))
	writeDeviceGroup(w, r.hardware)
	writeParamGroup(w, r.model)
	writeVarFields(w, r)

	if w.off != len(buf) {
		panic(fmt.Sprintf("staticinfo: encoded %d bytes, computed size %d", w.off, len(buf)))
	}

	return buf, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r *Report) MarshalBinary() ([]byte, error) {
	return r.Encode()
}

// Decode parses a static info message. Sections whose presence flag is
// clear come back absent even though their bytes were read.
func Decode(data []byte) (*Report, error) {
	rd := &reader{buf: data}

	hdrBuf, err := rd.next("header", HeaderLen)
	if err != nil {
		return nil, err
	}
	hdr, err := DecodeHeader(hdrBuf)
	if err != nil {
		return nil, err
	}
	if hdr.TemplateID != TemplateID || hdr.SchemaID != SchemaID {
		return nil, fmt.Errorf(
			"%w: template %d, schema %d",
			ErrUnknownMessage, hdr.TemplateID, hdr.SchemaID,
		)
	}
	if hdr.BlockLength < BlockLength {
		return nil, fmt.Errorf("%w: %d < %d", ErrBlockLength, hdr.BlockLength, BlockLength)
	}

	// a longer block from a newer writer is skipped past its known prefix
	blockBuf, err := rd.next("fixed block", int(hdr.BlockLength))
	if err != nil {
		return nil, err
	}
	fixed := decodeFixedBlock(blockBuf)

	memory, descriptions, err := readDeviceGroup(rd)
	if err != nil {
		return nil, err
	}
	names, err := readParamGroup(rd)
	if err != nil {
		return nil, err
	}

	var s scratch
	if err := readVarFields(rd, &s); err != nil {
		return nil, err
	}

	if rd.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d bytes at offset %d", ErrTrailingBytes, rd.remaining(), rd.off)
	}

	report := &Report{}
	if fixed.presence.Has(PresenceSoftware) {
		sw := s.software
		report.software = &sw
	}
	if fixed.presence.Has(PresenceHardware) {
		report.hardware = &HardwareInfo{
			AvailableProcessors: fixed.processors,
			NumDevices:          fixed.numDevices,
			MaxMemory:           fixed.maxMemory,
			OffHeapMaxMemory:    fixed.offHeapMaxMemory,
			DeviceTotalMemory:   memory,
			DeviceDescription:   descriptions,
		}
	}
	if fixed.presence.Has(PresenceModel) {
		m := s.model
		m.ParamNames = names
		m.NumLayers = fixed.numLayers
		m.NumParams = fixed.numParams
		report.model = &m
	}

	return report, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. On error r is left
// unchanged.
func (r *Report) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}

// checkLengths rejects values that do not fit their uint32 length prefix
// or group count.
func (r *Report) checkLengths() error {
	tooLong := func(field string, n int) error {
		if uint64(n) > math.MaxUint32 {
			return fmt.Errorf("%w: %s has length %d", ErrTooLarge, field, n)
		}
		return nil
	}

	for _, f := range varFields {
		if err := tooLong(f.name, len(f.get(r))); err != nil {
			return err
		}
	}
	if err := tooLong("hwDeviceInfoGroup", deviceCount(r.hardware)); err != nil {
		return err
	}
	if r.hardware != nil {
		for _, desc := range r.hardware.DeviceDescription {
			if err := tooLong("deviceDescription", len(desc)); err != nil {
				return err
			}
		}
	}
	names := paramNames(r.model)
	if err := tooLong("modelParamNames", len(names)); err != nil {
		return err
	}
	for _, name := range names {
		if err := tooLong("modelParamName", len(name)); err != nil {
			return err
		}
	}
	return nil
}
