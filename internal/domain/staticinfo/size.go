package staticinfo

// Size returns the exact number of bytes Encode writes for r.
func Size(r *Report) int {
	n := HeaderLen + BlockLength
	n += groupHeaderLen + deviceGroupContentLen(r.hardware)
	n += groupHeaderLen + paramGroupContentLen(r.model)
	n += len(varFields)*lengthPrefixLen + varFieldsContentLen(r)
	return n
}

func (r *Report) EncodedLen() int {
	return Size(r)
}
