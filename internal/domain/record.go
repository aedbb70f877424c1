package domain

import (
	"errors"
	"time"
)

// TypeStaticInfo tags records whose payload is an encoded static info report.
const TypeStaticInfo = "StaticInfo"

var ErrUnknownType = errors.New("unknown record type")

// Record is the envelope a report travels and is stored in.
type Record struct {
	Session   SessionID
	Worker    WorkerID
	TypeID    string
	Timestamp Timestamp
	Payload   []byte
}

func NewRecord(session, worker, typeID string, payload []byte, ts time.Time) (Record, error) {
	sessionID, err := NewSessionID(session)
	if err != nil {
		return Record{}, err
	}
	workerID, err := NewWorkerID(worker)
	if err != nil {
		return Record{}, err
	}
	if typeID != TypeStaticInfo {
		return Record{}, ErrUnknownType
	}

	return Record{
		Session:   sessionID,
		Worker:    workerID,
		TypeID:    typeID,
		Timestamp: NewTimestamp(ts),
		Payload:   payload,
	}, nil
}

// Size is the number of payload bytes carried.
func (r Record) Size() int {
	return len(r.Payload)
}
