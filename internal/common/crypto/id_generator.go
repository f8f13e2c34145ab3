package crypto

import "github.com/google/uuid"

type IDGenerator interface {
	NewID() (string, error)
}

// UUIDGenerator issues random v4 ids for accounts and equipment.
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

// ParseID normalises a client supplied id. ok is false for anything that is
// not a UUID.
func ParseID(raw string) (string, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
