// Copyright 2026 The gammafit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package catalog provides source catalogs: named collections of gamma-ray
// sources whose entries convert to sky models.
//
// Well-known catalogs are pre-registered by name and loaded from a data
// directory:
//
//	cat, _ := catalog.LoadBuiltin("$GAMMAFIT_DATA/catalogs", "hgps")
//	src, _ := cat.Source("HESS J1825-137")
//	model, _ := src.SkyModel()
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gammafit/gammafit/internal/registry"
	"github.com/gammafit/gammafit/modeling"
)

// ErrSourceNotFound is returned when a catalog has no source by the
// requested name.
var ErrSourceNotFound = errors.New("source not found in catalog")

// Source is one catalog entry: a source name plus its serialized
// spatial/spectral description.
type Source struct {
	Name     string                `yaml:"name"`
	Spatial  *modeling.ModelRecord `yaml:"spatial"`
	Spectral *modeling.ModelRecord `yaml:"spectral"`
}

// SkyModel builds a live composite model from the catalog entry.
func (s *Source) SkyModel() (*modeling.SkyModel, error) {
	c := &modeling.Components{Components: []modeling.ComponentRecord{{
		Name:     s.Name,
		Spatial:  s.Spatial,
		Spectral: s.Spectral,
	}}}
	models, err := modeling.FromComponents(c)
	if err != nil {
		return nil, fmt.Errorf("catalog source %q: %w", s.Name, err)
	}
	return models[0], nil
}

// SourceCatalog is a named source collection.
type SourceCatalog struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Sources     []Source `yaml:"sources"`
}

// Source returns the entry with the given name.
func (c *SourceCatalog) Source(name string) (*Source, error) {
	for i := range c.Sources {
		if c.Sources[i].Name == name {
			return &c.Sources[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q (catalog %q)", ErrSourceNotFound, name, c.Name)
}

// Load reads a source catalog from a YAML file.
func Load(path string) (*SourceCatalog, error) {
	//nolint:gosec // G304: the path is caller-provided by design
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var c SourceCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return &c, nil
}

// Descriptor identifies a well-known catalog and its conventional filename
// inside a catalog data directory.
type Descriptor struct {
	Name        string
	Description string
	Filename    string
}

var builtin = registry.New[Descriptor]()

func init() {
	for _, d := range []Descriptor{
		{"gamma-cat", "An open catalog of gamma-ray sources", "gammacat.yaml"},
		{"hgps", "H.E.S.S. Galactic plane survey catalog", "hgps.yaml"},
		{"2hwc", "2HWC catalog from the HAWC observatory", "2hwc.yaml"},
		{"3fgl", "LAT 4-year point source catalog", "3fgl.yaml"},
		{"4fgl", "LAT 8-year point source catalog", "4fgl.yaml"},
		{"3fhl", "LAT third high-energy source catalog", "3fhl.yaml"},
	} {
		builtin.Register(d.Name, d)
	}
}

// Builtin returns the registered catalog descriptors in registration order.
func Builtin() []Descriptor {
	names := builtin.Names()
	descriptors := make([]Descriptor, len(names))
	for i, name := range names {
		descriptors[i], _ = builtin.Get(name)
	}
	return descriptors
}

// LoadBuiltin loads a registered catalog from its conventional file under
// dir.
func LoadBuiltin(dir, name string) (*SourceCatalog, error) {
	d, err := builtin.Get(name)
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, d.Filename))
}
