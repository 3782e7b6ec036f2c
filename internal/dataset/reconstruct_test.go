package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gammafit/gammafit/internal/modeling"
	"github.com/gammafit/gammafit/internal/skymap"
)

func testCubeFile(t *testing.T, dir string) *modeling.SkyDiffuseCube {
	t.Helper()
	grid, err := skymap.New([]int{2, 2, 3}, "cm-2 s-1 TeV-1 sr-1")
	require.NoError(t, err)
	cube := modeling.NewSkyDiffuseCube("diffuse-iem", grid)
	require.NoError(t, cube.Write(filepath.Join(dir, "cube.gfit"), false))
	return cube
}

func TestReconstructEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cube := testCubeFile(t, dir)

	srcA := testModel("src-a")
	srcB := testModel("src-b")

	// Share the amplitude object across both sources.
	sharedAmp, err := srcA.SpectralModel().Parameters().ByName("amplitude")
	require.NoError(t, err)
	srcB.SpectralModel().Parameters().Replace(srcB.SpectralModel().Parameters().IndexOf("amplitude"), sharedAmp)
	srcB.Parameters().Replace(srcB.Parameters().IndexOf("amplitude"), sharedAmp)

	ds1 := testDataset(t, "obs-1")
	ds1.Models.Add(srcA)
	ds1.Backgrounds.Add(modeling.BackgroundModelFromCube(cube, ds1.Exposure, ds1.PSF, ds1.EDisp))

	ds2 := testDataset(t, "obs-2")
	ds2.Models.Add(srcB)
	ds2.Backgrounds.Add(modeling.BackgroundModelFromCube(cube, ds2.Exposure, ds2.PSF, ds2.EDisp))

	index, components, err := NewDatasets(ds1, ds2).Export(dir, false)
	require.NoError(t, err)
	require.Len(t, components.Links, 1, "shared amplitude recorded as a link")

	var cubeReads int
	r := NewReconstructorWithOptions(ReconstructorOptions{
		ReadCube: func(filename string) (*modeling.SkyDiffuseCube, error) {
			cubeReads++
			return modeling.ReadSkyDiffuseCube(filename)
		},
	})
	result, err := r.Reconstruct(index, components)
	require.NoError(t, err)

	// One template read serves both datasets.
	assert.Equal(t, 1, cubeReads)

	got1 := result.Datasets.Get("obs-1")
	got2 := result.Datasets.Get("obs-2")
	require.NotNil(t, got1)
	require.NotNil(t, got2)

	// Models reattached per dataset from the global list.
	assert.Equal(t, []string{"src-a"}, got1.Models.Names())
	assert.Equal(t, []string{"src-b"}, got2.Models.Names())

	// Both datasets hold the one logical background component: identical
	// parameter objects, dataset-specific auxiliaries.
	require.Equal(t, 1, got1.Backgrounds.Len())
	require.Equal(t, 1, got2.Backgrounds.Len())
	b1 := got1.Backgrounds.At(0)
	b2 := got2.Backgrounds.At(0)
	assert.Equal(t, "diffuse-iem", b1.Name())
	assert.Same(t, b1.Parameters(), b2.Parameters())
	assert.NotSame(t, b1, b2, "background instances are per dataset")

	// Cross-dataset shared parameter linked once over the whole collection.
	ampA, err := got1.Models.All()[0].SpectralModel().Parameters().ByName("amplitude")
	require.NoError(t, err)
	ampB, err := got2.Models.All()[0].SpectralModel().Parameters().ByName("amplitude")
	require.NoError(t, err)
	assert.Same(t, ampA, ampB)
	ampA.SetValue(5e-12)
	assert.Equal(t, 5e-12, ampB.Value())
}

func TestReconstructMatchesDatasetBackgrounds(t *testing.T) {
	dir := t.TempDir()

	ds := testDataset(t, "obs-1")
	ds.Backgrounds.Add(modeling.NewBackgroundModel("STEREO-BKG"))
	path := filepath.Join(dir, "data_obs-1.gfit")
	require.NoError(t, ds.Write(path, false))

	index := &Index{Datasets: []IndexEntry{{
		Name:        "obs-1",
		Filename:    path,
		Backgrounds: []string{"stereo-bkg"},
	}}}
	components := &modeling.Components{Components: []modeling.ComponentRecord{{
		Name: "stereo-bkg",
		Model: &modeling.ModelRecord{
			Type: modeling.TypeBackgroundModel,
			Parameters: []modeling.ParameterRecord{
				{Name: "norm", Value: 1.3, Unit: ""},
				{Name: "tilt", Value: 0, Unit: "", Frozen: true},
				{Name: "reference", Value: 1, Unit: "TeV", Frozen: true},
			},
		},
	}}}

	result, err := NewReconstructor().Reconstruct(index, components)
	require.NoError(t, err)

	got := result.Datasets.Get("obs-1")
	require.Equal(t, 1, got.Backgrounds.Len())
	bkg := got.Backgrounds.At(0)
	// Renamed to the canonical component name, parameters from the record.
	assert.Equal(t, "stereo-bkg", bkg.Name())
	norm, err := bkg.Parameters().ByName("norm")
	require.NoError(t, err)
	assert.Equal(t, 1.3, norm.Value())
}

func TestReconstructComponentNotFound(t *testing.T) {
	dir := t.TempDir()
	ds := testDataset(t, "obs-1")
	ds.Backgrounds.Add(modeling.NewBackgroundModel("stereo-bkg"))
	path := filepath.Join(dir, "data_obs-1.gfit")
	require.NoError(t, ds.Write(path, false))

	index := &Index{Datasets: []IndexEntry{{
		Name:        "obs-1",
		Filename:    path,
		Backgrounds: []string{"stereo-bkg"},
	}}}

	_, err := NewReconstructor().Reconstruct(index, &modeling.Components{})
	assert.ErrorIs(t, err, ErrComponentNotFound)
}

func TestReconstructBackgroundNotFound(t *testing.T) {
	dir := t.TempDir()
	ds := testDataset(t, "obs-1")
	path := filepath.Join(dir, "data_obs-1.gfit")
	require.NoError(t, ds.Write(path, false))

	index := &Index{Datasets: []IndexEntry{{
		Name:        "obs-1",
		Filename:    path,
		Backgrounds: []string{"stereo-bkg"},
	}}}
	components := &modeling.Components{Components: []modeling.ComponentRecord{{
		Name:  "stereo-bkg",
		Model: &modeling.ModelRecord{Type: modeling.TypeBackgroundModel},
	}}}

	_, err := NewReconstructor().Reconstruct(index, components)
	assert.ErrorIs(t, err, ErrBackgroundNotFound)
}
