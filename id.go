package hflow

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces the execution IDs given to flow contexts.
type IDGenerator interface {
	ID() uuid.UUID
}

// UUIDGenerator generates random (version 4) UUIDs.
type UUIDGenerator struct{}

// ID returns a new random UUID.
func (UUIDGenerator) ID() uuid.UUID {
	return uuid.New()
}

// StaticID generates sequential IDs, starting at 1. Useful in tests.
type StaticID struct {
	n atomic.Uint64
}

// ID returns the next sequential ID.
func (s *StaticID) ID() uuid.UUID {
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[8:], s.n.Add(1))
	return id
}
