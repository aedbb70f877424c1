package reportlog

import (
	"io"
	"os"

	"github.com/kvoloboi/staticinfo/internal/domain"
)

// BatchReader reads a snapshot of the log at open time.
// Appends after creation are not visible.
type BatchReader struct {
	f      *os.File
	offset int64
	size   int64
}

func NewBatchReader(path string) (*BatchReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &BatchReader{f: f, size: info.Size(), offset: 0}, nil
}

// Next returns the records of the next batch, or io.EOF at the end of the
// snapshot.
func (r *BatchReader) Next() ([]domain.Record, error) {
	if r.offset >= r.size {
		return nil, io.EOF
	}

	hdr, stored, err := readRecordAt(r.f, r.offset, r.size)
	if err != nil {
		return nil, err
	}
	r.offset += int64(headerLen) + int64(hdr.payloadLen) + crcLen

	payload := stored
	if hdr.compressed() {
		if payload, err = decompress(stored); err != nil {
			return nil, err
		}
	}

	return unmarshal(payload)
}

func (r *BatchReader) Close() error {
	return r.f.Close()
}
