package modeling

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gammafit/gammafit/internal/skymap"
	"github.com/gammafit/gammafit/quantity"
)

func newTestSkyModel(name string) *SkyModel {
	spatial := NewPointSpatialModel(quantity.New(83.63, "deg"), quantity.New(22.01, "deg"))
	spectral := NewPowerLawSpectralModel(
		quantity.Dimensionless(2.0),
		quantity.New(1e-12, "cm-2 s-1 TeV-1"),
		quantity.New(1, "TeV"),
	)
	return NewSkyModel(name, spatial, spectral)
}

func TestRoundTripWithoutSharing(t *testing.T) {
	models := []Model{newTestSkyModel("src-a"), newTestSkyModel("src-b")}

	c, err := ToComponents(models)
	require.NoError(t, err)
	require.Len(t, c.Components, 2)
	assert.Empty(t, c.Links)

	got, err := FromComponents(c)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i, m := range got {
		want := models[i].(*SkyModel)
		assert.Equal(t, want.Name(), m.Name())
		assert.Equal(t, want.SpatialModel().Type(), m.SpatialModel().Type())
		assert.Equal(t, want.SpectralModel().Type(), m.SpectralModel().Type())
		require.Equal(t, want.Parameters().Len(), m.Parameters().Len())
		for j := 0; j < want.Parameters().Len(); j++ {
			assert.Equal(t, want.Parameters().At(j).Name(), m.Parameters().At(j).Name())
			assert.True(t, want.Parameters().At(j).Quantity().Equal(m.Parameters().At(j).Quantity()))
		}
	}
}

func TestCodecNeverMutatesParameters(t *testing.T) {
	model := newTestSkyModel("src")
	var names, ids []string
	for _, p := range model.Parameters().All() {
		names = append(names, p.Name())
		ids = append(ids, p.ID())
	}

	_, err := ToComponents([]Model{model})
	require.NoError(t, err)

	for i, p := range model.Parameters().All() {
		assert.Equal(t, names[i], p.Name())
		assert.Equal(t, ids[i], p.ID())
	}
}

func TestDeduplication(t *testing.T) {
	model := newTestSkyModel("src")

	c, err := ToComponents([]Model{model, model})
	require.NoError(t, err)
	assert.Len(t, c.Components, 1, "same model object twice yields one record")
}

func TestSharedParameterRoundTrip(t *testing.T) {
	a := newTestSkyModel("src-a")
	b := newTestSkyModel("src-b")

	// Make both spectra reference the identical index parameter object.
	shared, err := a.SpectralModel().Parameters().ByName("index")
	require.NoError(t, err)
	i := b.SpectralModel().Parameters().IndexOf("index")
	b.SpectralModel().Parameters().Replace(i, shared)
	i = b.Parameters().IndexOf("index")
	b.Parameters().Replace(i, shared)

	c, err := ToComponents([]Model{a, b})
	require.NoError(t, err)
	require.Len(t, c.Links, 1)
	assert.Equal(t, shared.ID(), c.Links[0].ID)
	assert.Equal(t, []string{"src-a", "src-b"}, c.Links[0].Owners)

	got, err := FromComponents(c)
	require.NoError(t, err)
	require.Len(t, got, 2)

	pa, err := got[0].SpectralModel().Parameters().ByName("index")
	require.NoError(t, err)
	pb, err := got[1].SpectralModel().Parameters().ByName("index")
	require.NoError(t, err)
	assert.Same(t, pa, pb, "shared parameter must be one object after round-trip")

	// Mutating through one model is visible through the other, and through
	// the flat composite views.
	pa.SetValue(2.7)
	assert.Equal(t, 2.7, pb.Value())
	flat, err := got[1].Parameters().ByName("index")
	require.NoError(t, err)
	assert.Equal(t, 2.7, flat.Value())
}

func TestUnsupportedModelType(t *testing.T) {
	c := &Components{Components: []ComponentRecord{
		{Name: "weird", Model: &ModelRecord{Type: "CompoundSpectralModel"}},
	}}

	_, err := FromComponents(c)
	assert.ErrorIs(t, err, ErrUnsupportedModelType)
}

func TestBackgroundRecordsAreSkipped(t *testing.T) {
	c := &Components{Components: []ComponentRecord{
		{Name: "bkg", Model: &ModelRecord{Type: TypeBackgroundModel}},
	}}

	models, err := FromComponents(c)
	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestEndToEndComponentsScenario(t *testing.T) {
	c := &Components{Components: []ComponentRecord{
		{
			Name: "src",
			Spatial: &ModelRecord{
				Type: TypePointSpatialModel,
				Parameters: []ParameterRecord{
					{Name: "lon_0", Value: 83.63, Unit: "deg"},
					{Name: "lat_0", Value: 22.01, Unit: "deg"},
				},
			},
			Spectral: &ModelRecord{
				Type: TypePowerLawSpectralModel,
				Parameters: []ParameterRecord{
					{Name: "index", Value: 2.0, Unit: ""},
					{Name: "amplitude", Value: 1e-12, Unit: "cm-2 s-1 TeV-1"},
					{Name: "reference", Value: 1, Unit: "TeV", Frozen: true},
				},
			},
		},
	}}

	models, err := FromComponents(c)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "src", models[0].Name())

	index, err := models[0].SpectralModel().Parameters().ByName("index")
	require.NoError(t, err)
	assert.Equal(t, 2.0, index.Value())
}

func TestTemplateSpectralRoundTrip(t *testing.T) {
	spectral, err := NewTemplateSpectralModel(
		[]float64{0.1, 1, 10}, "TeV",
		[]float64{1e-11, 1e-12, 1e-13}, "cm-2 s-1 TeV-1",
	)
	require.NoError(t, err)
	spatial := NewPointSpatialModel(quantity.New(0, "deg"), quantity.New(0, "deg"))
	model := NewSkyModel("tabular", spatial, spectral)

	c, err := ToComponents([]Model{model})
	require.NoError(t, err)
	require.NotNil(t, c.Components[0].Spectral.Energy)
	assert.Equal(t, "TeV", c.Components[0].Spectral.Energy.Unit)

	got, err := FromComponents(c)
	require.NoError(t, err)
	template, ok := got[0].SpectralModel().(*TemplateSpectralModel)
	require.True(t, ok)
	energy, unit := template.Energy()
	assert.Equal(t, []float64{0.1, 1, 10}, energy)
	assert.Equal(t, "TeV", unit)
}

func TestTemplateSpatialFileBackedRoundTrip(t *testing.T) {
	grid, err := skymap.FromData([]float64{0, 1, 2, 3}, []int{2, 2}, "")
	require.NoError(t, err)
	spatial := NewTemplateSpatialModel(grid)

	path := filepath.Join(t.TempDir(), "template.gfit")
	require.NoError(t, spatial.Write(path, false))

	spectral := NewPowerLawSpectralModel(
		quantity.Dimensionless(2.3),
		quantity.New(1e-12, "cm-2 s-1 TeV-1"),
		quantity.New(1, "TeV"),
	)
	model := NewSkyModel("diffuse-src", spatial, spectral)

	// Change the norm after writing the file: the record, not the file,
	// is authoritative on read.
	norm, err := spatial.Parameters().ByName("norm")
	require.NoError(t, err)
	norm.SetValue(1.8)

	c, err := ToComponents([]Model{model})
	require.NoError(t, err)
	assert.Equal(t, path, c.Components[0].Spatial.Filename)

	got, err := FromComponents(c)
	require.NoError(t, err)
	template, ok := got[0].SpatialModel().(*TemplateSpatialModel)
	require.True(t, ok)
	assert.Equal(t, path, template.Filename())
	assert.True(t, grid.Equal(template.Grid()))

	gotNorm, err := template.Parameters().ByName("norm")
	require.NoError(t, err)
	assert.Equal(t, 1.8, gotNorm.Value())
	assert.Equal(t, norm.ID(), gotNorm.ID())
}

func TestComponentsYAMLRoundTrip(t *testing.T) {
	model := newTestSkyModel("src")
	c, err := ToComponents([]Model{model})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "components.yaml")
	require.NoError(t, WriteComponents(path, c))

	got, err := ReadComponents(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}
