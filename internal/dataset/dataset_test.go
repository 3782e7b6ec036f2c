package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gammafit/gammafit/internal/modeling"
	"github.com/gammafit/gammafit/internal/skymap"
	"github.com/gammafit/gammafit/quantity"
)

func testGrid(t *testing.T, fill float64) *skymap.Map {
	t.Helper()
	m, err := skymap.New([]int{2, 2, 3}, "")
	require.NoError(t, err)
	for i := range m.Data {
		m.Data[i] = fill
	}
	return m
}

func testDataset(t *testing.T, name string) *Dataset {
	t.Helper()
	return New(name, testGrid(t, 1), testGrid(t, 2), testGrid(t, 3), testGrid(t, 4))
}

func testModel(name string) *modeling.SkyModel {
	spatial := modeling.NewPointSpatialModel(quantity.New(83.63, "deg"), quantity.New(22.01, "deg"))
	spectral := modeling.NewPowerLawSpectralModel(
		quantity.Dimensionless(2.0),
		quantity.New(1e-12, "cm-2 s-1 TeV-1"),
		quantity.New(1, "TeV"),
	)
	return modeling.NewSkyModel(name, spatial, spectral)
}

func TestDatasetWriteRead(t *testing.T) {
	dir := t.TempDir()
	ds := testDataset(t, "obs-1")
	ds.Backgrounds.Add(modeling.NewBackgroundModel("stereo-bkg"))

	path := filepath.Join(dir, "data_obs-1.gfit")
	require.NoError(t, ds.Write(path, false))

	got, err := Read(path, "obs-1")
	require.NoError(t, err)
	assert.Equal(t, "obs-1", got.Name)
	assert.True(t, ds.Counts.Equal(got.Counts))
	assert.True(t, ds.Exposure.Equal(got.Exposure))
	assert.True(t, ds.PSF.Equal(got.PSF))
	assert.True(t, ds.EDisp.Equal(got.EDisp))
	assert.Equal(t, []string{"stereo-bkg"}, got.Backgrounds.Names())
	assert.Zero(t, got.Models.Len())
}

func TestDatasetReadNameOverride(t *testing.T) {
	dir := t.TempDir()
	ds := testDataset(t, "stored-name")
	path := filepath.Join(dir, "data.gfit")
	require.NoError(t, ds.Write(path, false))

	got, err := Read(path, "override")
	require.NoError(t, err)
	assert.Equal(t, "override", got.Name)

	got, err = Read(path, "")
	require.NoError(t, err)
	assert.Equal(t, "stored-name", got.Name)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()

	shared := testModel("src-shared")
	ds1 := testDataset(t, "obs-1")
	ds1.Models.Add(shared)
	ds1.Models.Add(testModel("src-1"))
	ds1.Backgrounds.Add(modeling.NewBackgroundModel("stereo-bkg"))

	ds2 := testDataset(t, "obs-2")
	ds2.Models.Add(shared)
	ds2.Backgrounds.Add(modeling.NewBackgroundModel("stereo-bkg"))

	index, components, err := NewDatasets(ds1, ds2).Export(dir, false)
	require.NoError(t, err)

	require.Len(t, index.Datasets, 2)
	assert.Equal(t, "obs-1", index.Datasets[0].Name)
	assert.Equal(t, []string{"src-shared", "src-1"}, index.Datasets[0].Models)
	assert.Equal(t, []string{"stereo-bkg"}, index.Datasets[0].Backgrounds)
	assert.FileExists(t, index.Datasets[0].Filename)
	assert.FileExists(t, index.Datasets[1].Filename)

	// src-shared once, src-1 once, one logical background.
	require.Len(t, components.Components, 3)
	var names []string
	for _, rec := range components.Components {
		names = append(names, rec.Name)
	}
	assert.Equal(t, []string{"src-shared", "src-1", "stereo-bkg"}, names)
}

func TestIndexYAMLRoundTrip(t *testing.T) {
	index := &Index{Datasets: []IndexEntry{{
		Name:        "obs-1",
		Filename:    "data_obs-1.gfit",
		Backgrounds: []string{"stereo-bkg"},
		Models:      []string{"src"},
	}}}

	path := filepath.Join(t.TempDir(), "datasets.yaml")
	require.NoError(t, WriteIndex(path, index))
	got, err := ReadIndex(path)
	require.NoError(t, err)
	assert.Equal(t, index, got)
}
