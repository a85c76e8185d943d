package domain

import (
	"fmt"
	"strings"
)

// Identity is the composite key naming exactly one artifact row. It is
// immutable after creation: reserve and revise never mutate an existing
// identity, they derive a new one.
type Identity struct {
	Reference string `json:"reference"`
	Version   string `json:"version"`
	Iteration int    `json:"iteration"`
}

func NewIdentity(reference, version string, iteration int) (Identity, error) {
	if strings.TrimSpace(reference) == "" {
		return Identity{}, ErrBlankReference
	}
	if strings.TrimSpace(version) == "" {
		return Identity{}, ErrBlankVersion
	}
	if iteration < 1 {
		return Identity{}, fmt.Errorf("%w: %d", ErrInvalidIteration, iteration)
	}
	return Identity{Reference: reference, Version: version, Iteration: iteration}, nil
}

// NextIteration derives the identity created by a check-out of this row.
func (id Identity) NextIteration() Identity {
	return Identity{Reference: id.Reference, Version: id.Version, Iteration: id.Iteration + 1}
}

// NextVersion derives the identity created by a revise of this row. The
// iteration always restarts at 1 for a new version.
func (id Identity) NextVersion(label string) Identity {
	return Identity{Reference: id.Reference, Version: label, Iteration: 1}
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%s/%d", id.Reference, id.Version, id.Iteration)
}
