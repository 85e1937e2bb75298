package id

import (
	"github.com/google/uuid"
)

// Generator creates opaque IDs used to correlate one refresh run across logs.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return v.String(), nil
}
