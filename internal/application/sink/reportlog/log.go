package reportlog

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"math"
	"os"
	"time"

	"github.com/kvoloboi/staticinfo/internal/domain"
)

const (
	magicValue = 0x53495242 // "SIRB"
	formatVer  = 1

	// field sizes
	magicLen     = 4
	versionLen   = 1
	flagsLen     = 1
	reservedLen  = 2
	timestampLen = 8
	seqLen       = 8
	payloadLen   = 4

	headerLen = magicLen +
		versionLen +
		flagsLen +
		reservedLen +
		timestampLen +
		payloadLen +
		seqLen

	crcLen = 4
)

// header field offsets (little endian)
const (
	offMagic      = 0
	offVersion    = offMagic + magicLen
	offFlags      = offVersion + versionLen
	offReserved   = offFlags + flagsLen
	offTimestamp  = offReserved + reservedLen
	offSeq        = offTimestamp + timestampLen
	offPayloadLen = offSeq + seqLen
)

var (
	ErrPartialBatch = errors.New("partial batch detected")
	ErrLogClosed    = errors.New("report log closed")
	ErrTooLarge     = errors.New("batch too large")
	ErrCorruptLog   = errors.New("log corruption detected")
)

type Option func(*ReportLog)

// WithCompression stores batch payloads zstd-compressed.
func WithCompression(enabled bool) Option {
	return func(l *ReportLog) {
		l.compress = enabled
	}
}

// ReportLog writes batches of records to disk.
// It is NOT safe for concurrent use.
// All writes must be serialized by the caller.
type ReportLog struct {
	f        *os.File
	seq      uint64
	closed   bool
	compress bool
	now      func() time.Time
}

// Open opens or creates a WAL-style report log and recovers partial batches.
func Open(path string, opts ...Option) (*ReportLog, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	rl := &ReportLog{f: f, now: time.Now}
	for _, opt := range opts {
		opt(rl)
	}

	// Recover partial batches and set seq to last batch + 1
	if err := rl.recover(); err != nil && err != ErrPartialBatch {
		f.Close()
		return nil, err
	}

	// Seek to end for appends
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, err
	}

	return rl, nil
}

// Seq is the sequence number the next batch will be written with.
func (rl *ReportLog) Seq() uint64 {
	return rl.seq
}

// Append writes a batch: header + payload + CRC32
func (rl *ReportLog) Append(records []domain.Record) error {
	if rl.closed {
		return ErrLogClosed
	}

	payload := marshal(records)

	var flags uint8
	if rl.compress {
		payload = compress(payload)
		flags |= flagZstd
	}

	if len(payload) > math.MaxUint32 {
		return ErrTooLarge
	}

	header := recordHeader{
		magic:      magicValue,
		version:    formatVer,
		flags:      flags,
		timestamp:  rl.now().UnixNano(),
		payloadLen: uint32(len(payload)),
		seq:        rl.seq,
	}

	// single buffer allocation for header + payload + CRC
	record := make([]byte, headerLen+len(payload)+crcLen)
	header.encode(record[:headerLen])
	copy(record[headerLen:], payload)

	crc := crc32.ChecksumIEEE(record[:headerLen+len(payload)])
	binary.LittleEndian.PutUint32(record[headerLen+len(payload):], crc)

	if _, err := rl.f.Write(record); err != nil {
		return err
	}

	if err := rl.f.Sync(); err != nil {
		return err
	}

	rl.seq++
	return nil
}

// Close the log
func (rl *ReportLog) Close() error {
	if rl.closed {
		return nil
	}
	rl.closed = true
	return rl.f.Close()
}

// recover scans the WAL and truncates partial or corrupted batches
func (rl *ReportLog) recover() error {
	info, err := rl.f.Stat()
	if err != nil {
		return err
	}

	size := info.Size()
	offset := int64(0)

	for offset < size {
		hdr, _, err := readRecordAt(rl.f, offset, size)
		if err != nil {
			return rl.truncate(offset)
		}
		offset += int64(headerLen) + int64(hdr.payloadLen) + crcLen
		rl.seq = hdr.seq + 1
	}

	return nil
}

func (rl *ReportLog) truncate(offset int64) error {
	if err := rl.f.Truncate(offset); err != nil {
		return err
	}
	return ErrPartialBatch
}

// readRecordAt reads and CRC-checks one record starting at offset in a file
// of the given size. The returned payload is still in its stored form.
func readRecordAt(f io.ReaderAt, offset, size int64) (recordHeader, []byte, error) {
	if offset+headerLen+crcLen > size {
		return recordHeader{}, nil, ErrPartialBatch
	}

	var hdrBuf [headerLen]byte
	if _, err := f.ReadAt(hdrBuf[:], offset); err != nil {
		return recordHeader{}, nil, err
	}

	hdr, err := decodeHeader(hdrBuf[:])
	if err != nil {
		return recordHeader{}, nil, err
	}

	recordLen := int64(headerLen) + int64(hdr.payloadLen) + crcLen
	if offset+recordLen > size {
		return recordHeader{}, nil, ErrPartialBatch
	}

	payload := make([]byte, hdr.payloadLen)
	if _, err := f.ReadAt(payload, offset+headerLen); err != nil {
		return recordHeader{}, nil, err
	}

	var crcBuf [crcLen]byte
	if _, err := f.ReadAt(crcBuf[:], offset+headerLen+int64(hdr.payloadLen)); err != nil {
		return recordHeader{}, nil, err
	}
	storedCRC := binary.LittleEndian.Uint32(crcBuf[:])

	// streaming CRC check
	crc := crc32.NewIEEE()
	crc.Write(hdrBuf[:])
	crc.Write(payload)
	if crc.Sum32() != storedCRC {
		return recordHeader{}, nil, ErrCorruptLog
	}

	return hdr, payload, nil
}
