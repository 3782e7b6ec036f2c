// Copyright 2026 The gammafit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package modeling provides sky models, their parameters, and the components
// codec.
//
// A model is a named bundle of parameters: spatial models describe source
// morphology, spectral models describe the energy spectrum, and SkyModel
// binds one of each under a source name. BackgroundModel is the per-dataset
// background variant. Model lists serialize to a components dict — a flat,
// YAML-persistable description — and deserialize back into a live object
// graph.
//
// Parameters have identity: the same parameter object may be referenced by
// several models, and that sharing survives serialization. Every serialized
// parameter record carries the parameter's stable ID, and shared parameters
// are re-linked by ID on read, so after a round-trip an edit through one
// owning model is visible through all of them:
//
//	c, _ := modeling.ToComponents(models)
//	_ = modeling.WriteComponents("components.yaml", c)
//
//	c, _ = modeling.ReadComponents("components.yaml")
//	models, _ := modeling.FromComponents(c)
package modeling

import (
	"io"

	internal "github.com/gammafit/gammafit/internal/modeling"
	"github.com/gammafit/gammafit/quantity"
)

// Core model types.
type (
	// Parameter is a named, dimensioned model quantity with stable identity.
	Parameter = internal.Parameter

	// Parameters is an ordered, positional parameter collection.
	Parameters = internal.Parameters

	// Model is the common interface of all models.
	Model = internal.Model

	// FileBacked is implemented by template models backed by an external file.
	FileBacked = internal.FileBacked

	// SpatialModel describes source morphology.
	SpatialModel = internal.SpatialModel

	// SpectralModel describes a source energy spectrum.
	SpectralModel = internal.SpectralModel

	// SkyModel is a composite source model: one spatial plus one spectral.
	SkyModel = internal.SkyModel

	// SkyModels is a mutable composite-model collection.
	SkyModels = internal.SkyModels

	// BackgroundModel is a per-dataset background component.
	BackgroundModel = internal.BackgroundModel

	// BackgroundModels is a dataset's background collection.
	BackgroundModels = internal.BackgroundModels

	// SkyDiffuseCube is a file-backed diffuse emission template.
	SkyDiffuseCube = internal.SkyDiffuseCube
)

// Concrete spatial and spectral models.
type (
	PointSpatialModel              = internal.PointSpatialModel
	GaussianSpatialModel           = internal.GaussianSpatialModel
	TemplateSpatialModel           = internal.TemplateSpatialModel
	PowerLawSpectralModel          = internal.PowerLawSpectralModel
	ExpCutoffPowerLawSpectralModel = internal.ExpCutoffPowerLawSpectralModel
	TemplateSpectralModel          = internal.TemplateSpectralModel
)

// Serialized record types.
type (
	Components      = internal.Components
	ComponentRecord = internal.ComponentRecord
	ModelRecord     = internal.ModelRecord
	ParameterRecord = internal.ParameterRecord
	ParameterLink   = internal.ParameterLink
	ArrayRecord     = internal.ArrayRecord
	DecodeOptions   = internal.DecodeOptions
)

// Serialization type tags.
const (
	TypeSkyModel                       = internal.TypeSkyModel
	TypeBackgroundModel                = internal.TypeBackgroundModel
	TypeSkyDiffuseCube                 = internal.TypeSkyDiffuseCube
	TypePointSpatialModel              = internal.TypePointSpatialModel
	TypeGaussianSpatialModel           = internal.TypeGaussianSpatialModel
	TypeTemplateSpatialModel           = internal.TypeTemplateSpatialModel
	TypePowerLawSpectralModel          = internal.TypePowerLawSpectralModel
	TypeExpCutoffPowerLawSpectralModel = internal.TypeExpCutoffPowerLawSpectralModel
	TypeTemplateSpectralModel          = internal.TypeTemplateSpectralModel
)

// Common errors.
var (
	ErrParameterNotFound    = internal.ErrParameterNotFound
	ErrUnsupportedModelType = internal.ErrUnsupportedModelType
	ErrUnknownSpatialType   = internal.ErrUnknownSpatialType
	ErrUnknownSpectralType  = internal.ErrUnknownSpectralType
	ErrMalformedComponent   = internal.ErrMalformedComponent
)

// NewParameter creates a free parameter with a fresh identity.
func NewParameter(name string, q quantity.Quantity) *Parameter {
	return internal.NewParameter(name, q)
}

// NewParameters creates a collection over the given parameters.
func NewParameters(params ...*Parameter) *Parameters {
	return internal.NewParameters(params...)
}

// NewSkyModel creates a composite source model.
func NewSkyModel(name string, spatial SpatialModel, spectral SpectralModel) *SkyModel {
	return internal.NewSkyModel(name, spatial, spectral)
}

// NewPointSpatialModel creates a point source at lon0/lat0.
func NewPointSpatialModel(lon0, lat0 quantity.Quantity) *PointSpatialModel {
	return internal.NewPointSpatialModel(lon0, lat0)
}

// NewGaussianSpatialModel creates a Gaussian source of width sigma.
func NewGaussianSpatialModel(lon0, lat0, sigma quantity.Quantity) *GaussianSpatialModel {
	return internal.NewGaussianSpatialModel(lon0, lat0, sigma)
}

// NewPowerLawSpectralModel creates a power-law spectrum.
func NewPowerLawSpectralModel(index, amplitude, reference quantity.Quantity) *PowerLawSpectralModel {
	return internal.NewPowerLawSpectralModel(index, amplitude, reference)
}

// NewExpCutoffPowerLawSpectralModel creates a cutoff power-law spectrum.
func NewExpCutoffPowerLawSpectralModel(index, amplitude, reference, lambda quantity.Quantity) *ExpCutoffPowerLawSpectralModel {
	return internal.NewExpCutoffPowerLawSpectralModel(index, amplitude, reference, lambda)
}

// NewTemplateSpectralModel creates a table spectrum from energy/value arrays.
func NewTemplateSpectralModel(energy []float64, energyUnit string, values []float64, valuesUnit string) (*TemplateSpectralModel, error) {
	return internal.NewTemplateSpectralModel(energy, energyUnit, values, valuesUnit)
}

// NewBackgroundModel creates a background model with default parameters.
func NewBackgroundModel(name string) *BackgroundModel {
	return internal.NewBackgroundModel(name)
}

// ReadSkyDiffuseCube reads a diffuse cube template from a .gfit file.
func ReadSkyDiffuseCube(filename string) (*SkyDiffuseCube, error) {
	return internal.ReadSkyDiffuseCube(filename)
}

// ReadTemplateSpatialModel reads a spatial template from a .gfit file.
func ReadTemplateSpatialModel(filename string) (*TemplateSpatialModel, error) {
	return internal.ReadTemplateSpatialModel(filename)
}

// ToComponents serializes a model list to a components dict without mutating
// the models. Repeated model objects serialize once; shared parameters are
// recorded in the links list.
func ToComponents(models []Model) (*Components, error) {
	return internal.ToComponents(models)
}

// FromComponents deserializes the composite models of a components dict and
// links shared parameters by ID.
func FromComponents(c *Components) ([]*SkyModel, error) {
	return internal.FromComponents(c)
}

// FromComponentsWithOptions deserializes with explicit decode options.
func FromComponentsWithOptions(c *Components, opts DecodeOptions) ([]*SkyModel, error) {
	return internal.FromComponentsWithOptions(c, opts)
}

// LinkSharedParameters re-links parameters shared by ID across models.
func LinkSharedParameters(models []Model) {
	internal.LinkSharedParameters(models)
}

// AsModels converts a sky-model slice to a Model slice.
func AsModels(models []*SkyModel) []Model {
	return internal.AsModels(models)
}

// WriteComponents writes a components dict to a YAML file.
func WriteComponents(path string, c *Components) error {
	return internal.WriteComponents(path, c)
}

// ReadComponents reads a components dict from a YAML file.
func ReadComponents(path string) (*Components, error) {
	return internal.ReadComponents(path)
}

// ShareDOT writes the model/parameter ownership graph in DOT format.
func ShareDOT(models []Model, w io.Writer) error {
	return internal.ShareDOT(models, w)
}

// ComponentsShareDOT writes the ownership graph of a serialized components
// dict in DOT format.
func ComponentsShareDOT(c *Components, w io.Writer) error {
	return internal.ComponentsShareDOT(c, w)
}
