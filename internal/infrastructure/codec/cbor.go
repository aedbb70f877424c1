// Package codec serializes record envelopes for transport. Envelopes are
// CBOR with Core Deterministic Encoding (RFC 8949 §4.2), so the same record
// always produces identical bytes. The report inside the envelope keeps its
// own binary encoding and travels as an opaque byte string.
package codec

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/kvoloboi/staticinfo/internal/domain"
)

// ContentType is the media type used when envelopes travel over HTTP.
const ContentType = "application/cbor"

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	// Envelope size is bounded by the transports (HTTP body limit, gRPC
	// receive limit), not here. An envelope is a flat map of five keys.
	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels:   4,
		MaxMapPairs:       16,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// envelope is the wire form of domain.Record. Integer keys keep the
// envelope small; they are protocol constants.
type envelope struct {
	Session   string `cbor:"1,keyasint"`
	Worker    string `cbor:"2,keyasint"`
	TypeID    string `cbor:"3,keyasint"`
	Timestamp int64  `cbor:"4,keyasint"`
	Payload   []byte `cbor:"5,keyasint"`
}

func MarshalRecord(r domain.Record) ([]byte, error) {
	return encMode.Marshal(envelope{
		Session:   r.Session.String(),
		Worker:    r.Worker.String(),
		TypeID:    r.TypeID,
		Timestamp: r.Timestamp.UnixMilli(),
		Payload:   r.Payload,
	})
}

// UnmarshalRecord decodes an envelope and validates its ids.
func UnmarshalRecord(data []byte) (domain.Record, error) {
	var env envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return domain.Record{}, fmt.Errorf("decode envelope: %w", err)
	}

	r, err := domain.NewRecord(env.Session, env.Worker, env.TypeID, env.Payload, time.UnixMilli(env.Timestamp))
	if err != nil {
		return domain.Record{}, fmt.Errorf("invalid envelope: %w", err)
	}
	return r, nil
}
