package crypto

import "github.com/google/uuid"

// IDGenerator produces identifiers for new entities. Services depend on
// the interface so tests can pin ids to known values.
type IDGenerator interface {
	NewID() (string, error)
}

// UUIDGenerator issues random version 4 UUIDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
