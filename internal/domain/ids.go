package domain

import (
	"errors"

	"github.com/google/uuid"
)

const MaxIDLen = 255

var (
	ErrIDTooLong = errors.New("id too long")
	ErrIDEmpty   = errors.New("id cannot be empty")
)

func validateID(id string) error {
	if len(id) == 0 {
		return ErrIDEmpty
	}
	if len(id) > MaxIDLen {
		return ErrIDTooLong
	}
	return nil
}

// SessionID identifies one training run.
type SessionID struct {
	id string
}

func NewSessionID(id string) (SessionID, error) {
	if err := validateID(id); err != nil {
		return SessionID{}, err
	}
	return SessionID{id: id}, nil
}

// RandomSessionID returns a fresh UUID-based session id.
func RandomSessionID() SessionID {
	return SessionID{id: uuid.NewString()}
}

func (s SessionID) String() string {
	return s.id
}

// WorkerID identifies the process that produced a record within a session.
type WorkerID struct {
	id string
}

func NewWorkerID(id string) (WorkerID, error) {
	if err := validateID(id); err != nil {
		return WorkerID{}, err
	}
	return WorkerID{id: id}, nil
}

func (w WorkerID) String() string {
	return w.id
}
