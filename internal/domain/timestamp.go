package domain

import "time"

// Timestamp is a wall-clock instant at the millisecond resolution records
// are transported and stored with.
type Timestamp struct {
	ms int64
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{ms: t.UnixMilli()}
}

func TimestampFromMillis(ms int64) Timestamp {
	return Timestamp{ms: ms}
}

func (t Timestamp) Time() time.Time {
	return time.UnixMilli(t.ms)
}

func (t Timestamp) UnixMilli() int64 {
	return t.ms
}
