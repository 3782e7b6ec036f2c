// Copyright 2026 The gammafit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides observation datasets, their persistence, and
// reconstruction of a dataset collection from serialized form.
//
// A dataset owns its counts/exposure/PSF/energy-dispersion grids plus one
// sky-model collection and one background collection. A collection exports to
// per-dataset .gfit files, a datasets index and a components dict; the
// Reconstructor reverses that, re-attaching models and re-linking parameters
// shared across datasets:
//
//	index, components, _ := datasets.Export("out", false)
//
//	r := dataset.NewReconstructor()
//	result, _ := r.Reconstruct(index, components)
package dataset

import (
	internal "github.com/gammafit/gammafit/internal/dataset"
	"github.com/gammafit/gammafit/internal/skymap"
)

// Core dataset types.
type (
	// Dataset is one observation's reduced data plus attached models.
	Dataset = internal.Dataset

	// Datasets is an ordered dataset collection.
	Datasets = internal.Datasets

	// Index is the serialized datasets index.
	Index = internal.Index

	// IndexEntry is one dataset's entry in the index.
	IndexEntry = internal.IndexEntry

	// Reconstructor rebuilds a dataset collection from index plus components.
	Reconstructor = internal.Reconstructor

	// ReconstructorOptions configures a Reconstructor.
	ReconstructorOptions = internal.ReconstructorOptions

	// Result is a reconstruction outcome.
	Result = internal.Result

	// Map is an n-dimensional data grid.
	Map = skymap.Map
)

// Reconstruction errors.
var (
	ErrComponentNotFound  = internal.ErrComponentNotFound
	ErrBackgroundNotFound = internal.ErrBackgroundNotFound
)

// New creates a dataset with empty model collections.
func New(name string, counts, exposure, psf, edisp *Map) *Dataset {
	return internal.New(name, counts, exposure, psf, edisp)
}

// NewDatasets creates a collection over the given datasets.
func NewDatasets(items ...*Dataset) *Datasets {
	return internal.NewDatasets(items...)
}

// Read reads a dataset from a .gfit file. A non-empty name overrides the
// name stored in the file.
func Read(filename, name string) (*Dataset, error) {
	return internal.Read(filename, name)
}

// NewReconstructor creates a reconstructor with default options.
func NewReconstructor() *Reconstructor {
	return internal.NewReconstructor()
}

// NewReconstructorWithOptions creates a reconstructor with custom options.
func NewReconstructorWithOptions(opts ReconstructorOptions) *Reconstructor {
	return internal.NewReconstructorWithOptions(opts)
}

// WriteIndex writes a datasets index to a YAML file.
func WriteIndex(path string, index *Index) error {
	return internal.WriteIndex(path, index)
}

// ReadIndex reads a datasets index from a YAML file.
func ReadIndex(path string) (*Index, error) {
	return internal.ReadIndex(path)
}

// NewMap creates a zero-filled grid with the given shape and unit.
func NewMap(shape []int, unit string) (*Map, error) {
	return skymap.New(shape, unit)
}

// MapFromData creates a grid over existing data.
func MapFromData(data []float64, shape []int, unit string) (*Map, error) {
	return skymap.FromData(data, shape, unit)
}
