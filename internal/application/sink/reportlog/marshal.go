package reportlog

import (
	"encoding/binary"
	"time"

	"github.com/kvoloboi/staticinfo/internal/domain"
)

// Batch payload: for each record
//
//	uint8 len + session, uint8 len + worker, uint8 len + type,
//	int64 timestamp (ms), uint32 len + report bytes
const (
	idLenLen      = 1
	recordTimeLen = 8
	reportLenLen  = 4
)

func marshal(records []domain.Record) []byte {
	var size int
	for _, r := range records {
		size += 3*idLenLen +
			len(r.Session.String()) +
			len(r.Worker.String()) +
			len(r.TypeID) +
			recordTimeLen +
			reportLenLen + len(r.Payload)
	}

	buf := make([]byte, 0, size)

	for _, r := range records {
		buf = appendID(buf, r.Session.String())
		buf = appendID(buf, r.Worker.String())
		buf = appendID(buf, r.TypeID)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(r.Timestamp.UnixMilli()))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(r.Payload)))
		buf = append(buf, r.Payload...)
	}

	return buf
}

// appendID writes a short string; domain ids are at most MaxIDLen bytes.
func appendID(buf []byte, id string) []byte {
	buf = append(buf, byte(len(id)))
	return append(buf, id...)
}

type batchReader struct {
	buf []byte
	i   int
}

func (b *batchReader) id() (string, error) {
	if b.i+idLenLen > len(b.buf) {
		return "", ErrPartialBatch
	}
	n := int(b.buf[b.i])
	b.i += idLenLen
	if b.i+n > len(b.buf) {
		return "", ErrPartialBatch
	}
	s := string(b.buf[b.i : b.i+n])
	b.i += n
	return s, nil
}

func unmarshal(buf []byte) ([]domain.Record, error) {
	var records []domain.Record
	b := &batchReader{buf: buf}

	for b.i < len(buf) {
		session, err := b.id()
		if err != nil {
			return nil, err
		}
		worker, err := b.id()
		if err != nil {
			return nil, err
		}
		typeID, err := b.id()
		if err != nil {
			return nil, err
		}

		if b.i+recordTimeLen+reportLenLen > len(buf) {
			return nil, ErrPartialBatch
		}
		ts := int64(binary.LittleEndian.Uint64(buf[b.i:]))
		b.i += recordTimeLen
		n := int(binary.LittleEndian.Uint32(buf[b.i:]))
		b.i += reportLenLen

		if n > len(buf)-b.i {
			return nil, ErrPartialBatch
		}
		payload := make([]byte, n)
		copy(payload, buf[b.i:b.i+n])
		b.i += n

		record, err := domain.NewRecord(session, worker, typeID, payload, time.UnixMilli(ts))
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}
	return records, nil
}
