// Package staticinfo implements the binary encoding of the static info
// report: a snapshot of the software environment, hardware environment and
// model metadata captured once per training run.
//
// All integers are little endian. A message is laid out as:
//
//	[header]       uint16 blockLength, templateId, schemaId, version
//	[fixed block]  int64 time, uint8 presence, int32 processors,
//	               int16 numDevices, int64 maxMemory, int64 offHeapMaxMemory,
//	               int32 numLayers, int64 numParams
//	[devices]      uint32 count, count x (int64 memory, uint32 len, bytes)
//	[param names]  uint32 count, count x (uint32 len, bytes)
//	[var fields]   9 x (uint32 len, bytes)
//
// Fixed-width fields and the nine singleton strings are always written,
// whether or not their section is present. Absent sections are written as
// zero scalars and zero-length strings and are dropped again on decode.
//
// DecodeHeader reads the header without judging it. Decode is a caller of
// DecodeHeader and rejects messages whose template or schema id is not this
// message's (ErrUnknownMessage); the schema version is not checked.
//
// The package performs no I/O and no logging. Encode allocates exactly
// Size(r) bytes; Decode rejects any buffer that is shorter than one of its
// length prefixes implies.
package staticinfo
