package staticinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderLayout(t *testing.T) {
	buf := make([]byte, HeaderLen)
	MessageHeader{BlockLength: 43, TemplateID: 2, SchemaID: 1, Version: 7}.Encode(buf)

	require.Equal(t, []byte{43, 0, 2, 0, 1, 0, 7, 0}, buf)

	h, err := DecodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, MessageHeader{BlockLength: 43, TemplateID: 2, SchemaID: 1, Version: 7}, h)
}

func TestDecodeHeaderDoesNotValidateIDs(t *testing.T) {
	buf := make([]byte, HeaderLen)
	MessageHeader{TemplateID: 999, SchemaID: 42}.Encode(buf)

	h, err := DecodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, uint16(999), h.TemplateID)
}

func TestDecodeHeaderShort(t *testing.T) {
	_, err := DecodeHeader(make([]byte, HeaderLen-1))
	require.ErrorIs(t, err, ErrTruncated)
}

func TestFixedBlockLayout(t *testing.T) {
	require.Equal(t, 43, BlockLength)

	b := fixedBlock{
		time:             UnsetTime,
		presence:         PresenceSoftware | PresenceModel,
		processors:       8,
		numDevices:       -1,
		maxMemory:        1 << 40,
		offHeapMaxMemory: 3,
		numLayers:        12,
		numParams:        1 << 33,
	}
	buf := make([]byte, BlockLength)
	b.encode(buf)

	require.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, buf[offTime:offPresence])
	require.Equal(t, byte(0b101), buf[offPresence])
	require.Equal(t, []byte{0xff, 0xff}, buf[offNumDevices:offMaxMemory])
	require.Equal(t, b, decodeFixedBlock(buf))
}

func TestPresenceIgnoresUnknownBits(t *testing.T) {
	buf := make([]byte, BlockLength)
	buf[offPresence] = 0xf8 | byte(PresenceHardware)

	require.Equal(t, PresenceHardware, decodeFixedBlock(buf).presence)
	require.Equal(t, "hardware", PresenceHardware.String())
	require.Equal(t, "software|hardware|model", presenceMask.String())
	require.Equal(t, "none", Presence(0).String())
}

func TestVarFieldOrder(t *testing.T) {
	names := make([]string, 0, len(varFields))
	for _, f := range varFields {
		names = append(names, f.name)
	}
	require.Equal(t, []string{
		"swArch", "swOsName", "swJvmName", "swJvmVersion", "swJvmSpecVersion",
		"swNd4jBackendClass", "swNd4jDataTypeName",
		"modelClassName", "modelConfigJson",
	}, names)
}

func TestReaderStringConsumesPrefixAndContent(t *testing.T) {
	w := &writer{buf: make([]byte, 4+3+4)}
	w.putString("abc")
	w.putString("")

	rd := &reader{buf: w.buf}
	s, err := rd.string("first")
	require.NoError(t, err)
	require.Equal(t, "abc", s)
	require.Equal(t, 7, rd.off)

	s, err = rd.string("second")
	require.NoError(t, err)
	require.Empty(t, s)
	require.Zero(t, rd.remaining())
}

func TestWriterOverrunPanics(t *testing.T) {
	w := &writer{buf: make([]byte, 3)}
	require.Panics(t, func() { w.putUint32(1) })
}

func TestReaderStringReportsDeclaredLength(t *testing.T) {
	w := &writer{buf: make([]byte, 4+2)}
	w.putUint32(0xffffffff)

	rd := &reader{buf: w.buf}
	_, err := rd.string("swArch")

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.ErrorIs(t, err, ErrTruncated)
	require.Equal(t, "swArch", decodeErr.Field)
	require.Equal(t, int(min(uint64(0xffffffff), uint64(maxInt))), decodeErr.Need)
	require.Positive(t, decodeErr.Need)
	require.Equal(t, 2, decodeErr.Have)
}
