package staticinfo

import "encoding/binary"

const (
	TemplateID    = 2
	SchemaID      = 1
	SchemaVersion = 0

	// field sizes
	blockLengthLen = 2
	templateIDLen  = 2
	schemaIDLen    = 2
	versionLen     = 2

	HeaderLen = blockLengthLen +
		templateIDLen +
		schemaIDLen +
		versionLen
)

// header field offsets
const (
	offBlockLength = 0
	offTemplateID  = offBlockLength + blockLengthLen
	offSchemaID    = offTemplateID + templateIDLen
	offVersion     = offSchemaID + schemaIDLen
)

// MessageHeader frames every message. BlockLength is the size of the fixed
// block only, excluding groups and variable-length fields.
type MessageHeader struct {
	BlockLength uint16
	TemplateID  uint16
	SchemaID    uint16
	Version     uint16
}

func staticInfoHeader() MessageHeader {
	return MessageHeader{
		BlockLength: BlockLength,
		TemplateID:  TemplateID,
		SchemaID:    SchemaID,
		Version:     SchemaVersion,
	}
}

// Encode writes the header into the first HeaderLen bytes of buf.
func (h MessageHeader) Encode(buf []byte) {
	binary.LittleEndian.PutUint16(buf[offBlockLength:], h.BlockLength)
	binary.LittleEndian.PutUint16(buf[offTemplateID:], h.TemplateID)
	binary.LittleEndian.PutUint16(buf[offSchemaID:], h.SchemaID)
	binary.LittleEndian.PutUint16(buf[offVersion:], h.Version)
}

// DecodeHeader reads a header from the start of buf. It does not check the
// template or schema ids; Decode does that for static info messages.
func DecodeHeader(buf []byte) (MessageHeader, error) {
	if len(buf) < HeaderLen {
		return MessageHeader{}, &DecodeError{
			Field: "header",
			Need:  HeaderLen,
			Have:  len(buf),
			Err:   ErrTruncated,
		}
	}

	return MessageHeader{
		BlockLength: binary.LittleEndian.Uint16(buf[offBlockLength:]),
		TemplateID:  binary.LittleEndian.Uint16(buf[offTemplateID:]),
		SchemaID:    binary.LittleEndian.Uint16(buf[offSchemaID:]),
		Version:     binary.LittleEndian.Uint16(buf[offVersion:]),
	}, nil
}
