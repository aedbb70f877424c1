package staticinfo

const (
	groupHeaderLen  = 4
	deviceMemoryLen = 8

	// smallest possible entries, used to bound counts before allocating
	minDeviceEntryLen = deviceMemoryLen + lengthPrefixLen
	minParamEntryLen  = lengthPrefixLen
)

// deviceCount is the number of device entries written for hw: the longer of
// the two parallel slices, or zero when hardware is absent.
func deviceCount(hw *HardwareInfo) int {
	if hw == nil {
		return 0
	}
	return max(len(hw.DeviceTotalMemory), len(hw.DeviceDescription))
}

func deviceAt(hw *HardwareInfo, i int) (int64, string) {
	mem := UnknownDeviceMemory
	if i < len(hw.DeviceTotalMemory) {
		mem = hw.DeviceTotalMemory[i]
	}
	var desc string
	if i < len(hw.DeviceDescription) {
		desc = hw.DeviceDescription[i]
	}
	return mem, desc
}

func deviceGroupContentLen(hw *HardwareInfo) int {
	n := deviceCount(hw)
	size := n * (deviceMemoryLen + lengthPrefixLen)
	for i := 0; i < n; i++ {
		_, desc := deviceAt(hw, i)
		size += len(desc)
	}
	return size
}

func writeDeviceGroup(w *writer, hw *HardwareInfo) {
	n := deviceCount(hw)
	w.putUint32(uint32(n))
	for i := 0; i < n; i++ {
		mem, desc := deviceAt(hw, i)
		w.putInt64(mem)
		w.putString(desc)
	}
}

func readDeviceGroup(r *reader) ([]int64, []string, error) {
	count, err := readGroupCount(r, "hwDeviceInfoGroup", minDeviceEntryLen)
	if err != nil {
		return nil, nil, err
	}

	memory := make([]int64, count)
	descriptions := make([]string, count)
	for i := range count {
		if memory[i], err = r.int64("deviceMemoryMax"); err != nil {
			return nil, nil, err
		}
		if descriptions[i], err = r.string("deviceDescription"); err != nil {
			return nil, nil, err
		}
	}
	return memory, descriptions, nil
}

func paramNames(m *ModelInfo) []string {
	if m == nil {
		return nil
	}
	return m.ParamNames
}

func paramGroupContentLen(m *ModelInfo) int {
	names := paramNames(m)
	size := len(names) * lengthPrefixLen
	for _, name := range names {
		size += len(name)
	}
	return size
}

func writeParamGroup(w *writer, m *ModelInfo) {
	names := paramNames(m)
	w.putUint32(uint32(len(names)))
	for _, name := range names {
		w.putString(name)
	}
}

func readParamGroup(r *reader) ([]string, error) {
	count, err := readGroupCount(r, "modelParamNames", minParamEntryLen)
	if err != nil {
		return nil, err
	}

	names := make([]string, count)
	for i := range count {
		if names[i], err = r.string("modelParamName"); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// readGroupCount reads a group header and rejects counts that could not fit
// in the rest of the buffer, so a corrupt count never drives a huge allocation.
func readGroupCount(r *reader, field string, minEntryLen int) (int, error) {
	count, err := r.uint32(field)
	if err != nil {
		return 0, err
	}
	if need := uint64(count) * uint64(minEntryLen); need > uint64(r.remaining()) {
		return 0, &DecodeError{
			Field:  field,
			Offset: r.off,
			Need:   int(min(need, uint64(maxInt))),
			Have:   r.remaining(),
			Err:    ErrTruncated,
		}
	}
	return int(count), nil
}

const maxInt = int(^uint(0) >> 1)
