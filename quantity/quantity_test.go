package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	q, err := Parse("2.0 TeV")
	require.NoError(t, err)
	assert.Equal(t, 2.0, q.Value)
	assert.Equal(t, "TeV", q.Unit)
}

func TestParseCompositeUnit(t *testing.T) {
	q, err := Parse("1e-12 cm-2 s-1 TeV-1")
	require.NoError(t, err)
	assert.Equal(t, 1e-12, q.Value)
	assert.Equal(t, "cm-2 s-1 TeV-1", q.Unit)
}

func TestParseDimensionless(t *testing.T) {
	q, err := Parse("2.3")
	require.NoError(t, err)
	assert.True(t, q.IsDimensionless())
	assert.Equal(t, 2.3, q.Value)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)

	_, err = Parse("TeV 2.0")
	assert.Error(t, err)
}

func TestStringRoundTrip(t *testing.T) {
	q := New(2.0, "deg")
	parsed, err := Parse(q.String())
	require.NoError(t, err)
	assert.True(t, q.Equal(parsed))
}

func TestEqual(t *testing.T) {
	assert.True(t, New(1, "TeV").Equal(New(1, "TeV")))
	assert.False(t, New(1, "TeV").Equal(New(1, "GeV")))
	assert.False(t, New(1, "TeV").Equal(New(2, "TeV")))
}
