package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plm-registry-service/internal/core/domain"
)

const testPolicy = `
templates:
  - name: default
    initial: InWork
    states: [InWork, InReview, Released, Obsolete]
    final: [Released, Obsolete]
  - name: document
    states: [Draft, UnderReview, Approved]
    final: [Approved]
schemas:
  - name: alphabetic
    kind: alphabetic
  - name: numeric
    kind: numeric
`

func TestParseRegistry(t *testing.T) {
	r, err := ParseRegistry([]byte(testPolicy))
	require.NoError(t, err)

	tpl, err := r.Template("default")
	require.NoError(t, err)
	assert.Equal(t, "InWork", tpl.InitialState())
	assert.True(t, tpl.IsKnown("InReview"))
	assert.False(t, tpl.IsKnown("Frozen"))
	assert.True(t, tpl.IsFinal("Released"))
	assert.False(t, tpl.IsFinal("InWork"))

	// initial defaults to the first declared state
	doc, err := r.Template("document")
	require.NoError(t, err)
	assert.Equal(t, "Draft", doc.InitialState())

	_, err = r.Schema("alphabetic")
	assert.NoError(t, err)
	_, err = r.Schema("numeric")
	assert.NoError(t, err)
}

func TestParseRegistry_UnknownLookups(t *testing.T) {
	r, err := ParseRegistry([]byte(testPolicy))
	require.NoError(t, err)

	_, err = r.Template("nope")
	assert.ErrorIs(t, err, domain.ErrUnknownTemplate)

	_, err = r.Schema("nope")
	assert.ErrorIs(t, err, domain.ErrUnknownSchema)
}

func TestParseRegistry_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		policy string
	}{
		{"no states", "templates:\n  - name: empty\n    states: []\n"},
		{"undeclared initial", "templates:\n  - name: bad\n    initial: Gone\n    states: [InWork]\n"},
		{"undeclared final", "templates:\n  - name: bad\n    states: [InWork]\n    final: [Released]\n"},
		{"unknown schema kind", "schemas:\n  - name: bad\n    kind: roman\n"},
		{"duplicate template", "templates:\n  - name: dup\n    states: [A]\n  - name: dup\n    states: [B]\n"},
		{"not yaml", "{{nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(tc.policy))
			assert.Error(t, err)
		})
	}
}

func TestAlphabeticSchema(t *testing.T) {
	s := alphabeticSchema{}

	cases := map[string]string{
		"A":  "B",
		"Y":  "Z",
		"Z":  "AA",
		"AA": "AB",
		"AZ": "BA",
		"ZZ": "AAA",
	}
	for current, want := range cases {
		got, err := s.NextVersionLabel(current)
		require.NoError(t, err, current)
		assert.Equal(t, want, got, current)
	}

	for _, bad := range []string{"", "a", "1", "A1", "É"} {
		_, err := s.NextVersionLabel(bad)
		assert.ErrorIs(t, err, domain.ErrUnknownVersion, bad)
	}
}

func TestNumericSchema(t *testing.T) {
	s := numericSchema{}

	got, err := s.NextVersionLabel("1")
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	got, err = s.NextVersionLabel("9")
	require.NoError(t, err)
	assert.Equal(t, "10", got)

	for _, bad := range []string{"", "A", "-1", "1.5"} {
		_, err := s.NextVersionLabel(bad)
		assert.ErrorIs(t, err, domain.ErrUnknownVersion, bad)
	}
}
