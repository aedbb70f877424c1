package staticinfo

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated           = errors.New("static info message truncated")
	ErrTrailingBytes       = errors.New("trailing bytes after static info message")
	ErrBlockLength         = errors.New("fixed block shorter than schema block length")
	ErrUnknownMessage      = errors.New("not a static info message")
	ErrTooLarge            = errors.New("static info field too large")
	ErrDeviceCountMismatch = errors.New("declared device count differs from device entries")
)

// DecodeError reports the field being read when a decode failed and where
// in the buffer it happened.
type DecodeError struct {
	Field  string
	Offset int
	Need   int
	Have   int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf(
		"decode %s at offset %d: need %d bytes, have %d: %v",
		e.Field, e.Offset, e.Need, e.Have, e.Err,
	)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
