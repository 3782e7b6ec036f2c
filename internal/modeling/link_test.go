package modeling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gammafit/gammafit/quantity"
)

func TestLinkSharedParameters(t *testing.T) {
	a := newTestSkyModel("src-a")
	b := newTestSkyModel("src-b")

	// Simulate deserialized models: distinct objects carrying the same ID.
	target, err := a.SpectralModel().Parameters().ByName("amplitude")
	require.NoError(t, err)
	clone := FromRecords([]ParameterRecord{{
		Name:  "amplitude",
		ID:    target.ID(),
		Value: target.Value(),
		Unit:  target.Unit(),
	}}).At(0)
	b.SpectralModel().Parameters().Replace(b.SpectralModel().Parameters().IndexOf("amplitude"), clone)
	b.Parameters().Replace(b.Parameters().IndexOf("amplitude"), clone)

	LinkSharedParameters([]Model{a, b})

	pb, err := b.SpectralModel().Parameters().ByName("amplitude")
	require.NoError(t, err)
	assert.Same(t, target, pb)
	flat, err := b.Parameters().ByName("amplitude")
	require.NoError(t, err)
	assert.Same(t, target, flat)

	// Slot order untouched.
	assert.Equal(t, []string{"index", "amplitude", "reference"}, b.SpectralModel().Parameters().Names())
}

func TestLinkIgnoresDistinctIdentities(t *testing.T) {
	a := newTestSkyModel("src-a")
	b := newTestSkyModel("src-b")

	LinkSharedParameters([]Model{a, b})

	pa, err := a.SpectralModel().Parameters().ByName("index")
	require.NoError(t, err)
	pb, err := b.SpectralModel().Parameters().ByName("index")
	require.NoError(t, err)
	assert.NotSame(t, pa, pb, "equal names do not make parameters shared")
}

func TestSharedLinksEmptyWithoutSharing(t *testing.T) {
	links, err := sharedLinks([]Model{newTestSkyModel("src-a"), newTestSkyModel("src-b")})
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestShareDOT(t *testing.T) {
	model := newTestSkyModel("src")

	var sb strings.Builder
	require.NoError(t, ShareDOT([]Model{model}, &sb))
	out := sb.String()
	assert.Contains(t, out, "strict digraph")
	assert.Contains(t, out, "model/src")
}

func TestComponentsShareDOT(t *testing.T) {
	bkg := NewBackgroundModel("stereo-bkg")
	model := newTestSkyModel("src")
	c, err := ToComponents([]Model{model, bkg})
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, ComponentsShareDOT(c, &sb))
	out := sb.String()
	assert.Contains(t, out, "model/src")
	assert.Contains(t, out, "model/stereo-bkg")
}

func TestBackgroundModelDefaults(t *testing.T) {
	bkg := NewBackgroundModel("stereo-bkg")

	assert.Equal(t, []string{"norm", "tilt", "reference"}, bkg.Parameters().Names())
	norm, err := bkg.Parameters().ByName("norm")
	require.NoError(t, err)
	assert.False(t, norm.Frozen())
	tilt, err := bkg.Parameters().ByName("tilt")
	require.NoError(t, err)
	assert.True(t, tilt.Frozen())
	ref, err := bkg.Parameters().ByName("reference")
	require.NoError(t, err)
	assert.True(t, ref.Quantity().Equal(quantity.New(1, "TeV")))
}
