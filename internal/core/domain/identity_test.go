package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentity(t *testing.T) {
	id, err := NewIdentity("P1", "A", 1)
	assert.NoError(t, err)
	assert.Equal(t, "P1/A/1", id.String())
}

func TestNewIdentity_Invalid(t *testing.T) {
	_, err := NewIdentity("", "A", 1)
	assert.ErrorIs(t, err, ErrBlankReference)

	_, err = NewIdentity("P1", " ", 1)
	assert.ErrorIs(t, err, ErrBlankVersion)

	_, err = NewIdentity("P1", "A", 0)
	assert.ErrorIs(t, err, ErrInvalidIteration)
}

func TestIdentity_NextIteration(t *testing.T) {
	id := Identity{Reference: "P1", Version: "A", Iteration: 3}
	next := id.NextIteration()
	assert.Equal(t, Identity{Reference: "P1", Version: "A", Iteration: 4}, next)
	// source untouched
	assert.Equal(t, 3, id.Iteration)
}

func TestIdentity_NextVersion(t *testing.T) {
	id := Identity{Reference: "P1", Version: "A", Iteration: 7}
	next := id.NextVersion("B")
	assert.Equal(t, Identity{Reference: "P1", Version: "B", Iteration: 1}, next)
}

func TestIdentity_MapKey(t *testing.T) {
	seen := map[Identity]bool{}
	a, _ := NewIdentity("P1", "A", 1)
	b, _ := NewIdentity("P1", "A", 1)
	seen[a] = true
	assert.True(t, seen[b])
}
