package staticinfo

const lengthPrefixLen = 4

// scratch receives every decoded value before presence decides which
// sections survive.
type scratch struct {
	software SoftwareInfo
	model    ModelInfo
}

// varField is one singleton length-prefixed string. get returns "" when the
// owning section is absent.
type varField struct {
	name string
	get  func(r *Report) string
	set  func(s *scratch, v string)
}

func softwareField(name string, field func(sw *SoftwareInfo) *string) varField {
	return varField{
		name: name,
		get: func(r *Report) string {
			if r.software == nil {
				return ""
			}
			return *field(r.software)
		},
		set: func(s *scratch, v string) { *field(&s.software) = v },
	}
}

func modelField(name string, field func(m *ModelInfo) *string) varField {
	return varField{
		name: name,
		get: func(r *Report) string {
			if r.model == nil {
				return ""
			}
			return *field(r.model)
		},
		set: func(s *scratch, v string) { *field(&s.model) = v },
	}
}

// varFields is the wire order of the trailing strings. Both Size and the
// encoder walk this list, so it is the only place the order is written down.
var varFields = [...]varField{
	softwareField("swArch", func(sw *SoftwareInfo) *string { return &sw.Arch }),
	softwareField("swOsName", func(sw *SoftwareInfo) *string { return &sw.OSName }),
	softwareField("swJvmName", func(sw *SoftwareInfo) *string { return &sw.RuntimeName }),
	softwareField("swJvmVersion", func(sw *SoftwareInfo) *string { return &sw.RuntimeVersion }),
	softwareField("swJvmSpecVersion", func(sw *SoftwareInfo) *string { return &sw.RuntimeSpecVersion }),
	softwareField("swNd4jBackendClass", func(sw *SoftwareInfo) *string { return &sw.BackendClass }),
	softwareField("swNd4jDataTypeName", func(sw *SoftwareInfo) *string { return &sw.DataTypeName }),
	modelField("modelClassName", func(m *ModelInfo) *string { return &m.ClassName }),
	modelField("modelConfigJson", func(m *ModelInfo) *string { return &m.ConfigJSON }),
}

func varFieldsContentLen(r *Report) int {
	var n int
	for _, f := range varFields {
		n += len(f.get(r))
	}
	return n
}

func writeVarFields(w *writer, r *Report) {
	for _, f := range varFields {
		w.putString(f.get(r))
	}
}

func readVarFields(rd *reader, s *scratch) error {
	for _, f := range varFields {
		v, err := rd.string(f.name)
		if err != nil {
			return err
		}
		f.set(s, v)
	}
	return nil
}
