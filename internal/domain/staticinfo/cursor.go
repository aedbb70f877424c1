package staticinfo

import (
	"encoding/binary"
	"fmt"
)

// writer fills a buffer that was sized up front by Size.
// Overrunning it means the size pass and the write pass disagree.
type writer struct {
	buf []byte
	off int
}

func (w *writer) next(n int) []byte {
	if w.off+n > len(w.buf) {
		panic(fmt.Sprintf(
			"staticinfo: write of %d bytes at offset %d overruns %d byte buffer",
			n, w.off, len(w.buf),
		))
	}
	b := w.buf[w.off : w.off+n]
	w.off += n
	return b
}

func (w *writer) putUint32(v uint32) {
	binary.LittleEndian.PutUint32(w.next(4), v)
}

func (w *writer) putInt64(v int64) {
	binary.LittleEndian.PutUint64(w.next(8), uint64(v))
}

// putString writes a length-prefixed UTF-8 string.
func (w *writer) putString(s string) {
	w.putUint32(uint32(len(s)))
	copy(w.next(len(s)), s)
}

// reader walks a received buffer and never reads past its end.
type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) next(field string, n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, &DecodeError{
			Field:  field,
			Offset: r.off,
			Need:   n,
			Have:   r.remaining(),
			Err:    ErrTruncated,
		}
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) uint32(field string) (uint32, error) {
	b, err := r.next(field, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) int64(field string) (int64, error) {
	b, err := r.next(field, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// string reads a length-prefixed string, always consuming prefix and content.
func (r *reader) string(field string) (string, error) {
	n, err := r.uint32(field)
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(r.remaining()) {
		return "", &DecodeError{
			Field:  field,
			Offset: r.off,
			Need:   int(min(uint64(n), uint64(maxInt))),
			Have:   r.remaining(),
			Err:    ErrTruncated,
		}
	}
	b, _ := r.next(field, int(n))
	return string(b), nil
}
