package modeling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gammafit/gammafit/quantity"
)

func TestParameterIdentity(t *testing.T) {
	a := NewParameter("index", quantity.Dimensionless(2))
	b := NewParameter("index", quantity.Dimensionless(2))

	// Same name and value, distinct identity.
	assert.Equal(t, a.Name(), b.Name())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestParametersLookup(t *testing.T) {
	index := NewParameter("index", quantity.Dimensionless(2))
	amplitude := NewParameter("amplitude", quantity.New(1e-12, "cm-2 s-1 TeV-1"))
	ps := NewParameters(index, amplitude)

	assert.Equal(t, 0, ps.IndexOf("index"))
	assert.Equal(t, 1, ps.IndexOf("amplitude"))
	assert.Equal(t, -1, ps.IndexOf("missing"))
	assert.Equal(t, 1, ps.IndexOfID(amplitude.ID()))

	got, err := ps.ByName("index")
	require.NoError(t, err)
	assert.Same(t, index, got)

	_, err = ps.ByName("missing")
	assert.ErrorIs(t, err, ErrParameterNotFound)
}

func TestParametersReplacePreservesOrder(t *testing.T) {
	index := NewParameter("index", quantity.Dimensionless(2))
	amplitude := NewParameter("amplitude", quantity.New(1e-12, "cm-2 s-1 TeV-1"))
	ps := NewParameters(index, amplitude)

	replacement := NewParameter("index", quantity.Dimensionless(3))
	ps.Replace(0, replacement)

	assert.Equal(t, []string{"index", "amplitude"}, ps.Names())
	assert.Same(t, replacement, ps.At(0))
	assert.Same(t, amplitude, ps.At(1))
}

func TestFromRecordsKeepsID(t *testing.T) {
	records := []ParameterRecord{
		{Name: "index", ID: "fixed-id", Value: 2, Unit: ""},
		{Name: "amplitude", Value: 1e-12, Unit: "cm-2 s-1 TeV-1", Frozen: true},
	}
	ps := FromRecords(records)

	assert.Equal(t, "fixed-id", ps.At(0).ID())
	assert.NotEmpty(t, ps.At(1).ID(), "record without ID gets a fresh identity")
	assert.True(t, ps.At(1).Frozen())
}

func TestApplyRecordsOverridesDefaults(t *testing.T) {
	norm := NewParameter("norm", quantity.Dimensionless(1))
	ps := NewParameters(norm)

	err := ps.ApplyRecords([]ParameterRecord{
		{Name: "norm", ID: "shared-norm", Value: 2.5, Unit: "", Frozen: true},
	})
	require.NoError(t, err)

	assert.Equal(t, 2.5, norm.Value())
	assert.True(t, norm.Frozen())
	assert.Equal(t, "shared-norm", norm.ID())

	err = ps.ApplyRecords([]ParameterRecord{{Name: "missing", Value: 1}})
	assert.ErrorIs(t, err, ErrParameterNotFound)
}
