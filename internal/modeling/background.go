package modeling

import (
	"fmt"

	"github.com/gammafit/gammafit/internal/serialization"
	"github.com/gammafit/gammafit/internal/skymap"
	"github.com/gammafit/gammafit/quantity"
)

// Serialization type tags for background-side models.
const (
	TypeBackgroundModel = "BackgroundModel"
	TypeSkyDiffuseCube  = "SkyDiffuseCube"
)

// SkyDiffuseCube is a file-backed three-dimensional diffuse emission
// template (two sky axes plus energy), scaled by a norm parameter.
type SkyDiffuseCube struct {
	name     string
	filename string
	cube     *skymap.Map
	params   *Parameters
}

// NewSkyDiffuseCube creates a diffuse cube over an in-memory grid.
func NewSkyDiffuseCube(name string, cube *skymap.Map) *SkyDiffuseCube {
	return &SkyDiffuseCube{
		name: name,
		cube: cube,
		params: NewParameters(
			NewParameter("norm", quantity.Dimensionless(1)),
		),
	}
}

// ReadSkyDiffuseCube reads a diffuse cube from a .gfit file and tags it with
// the filename for idempotent re-serialization.
func ReadSkyDiffuseCube(filename string) (*SkyDiffuseCube, error) {
	header, arrays, err := serialization.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read diffuse cube %s: %w", filename, err)
	}
	cube, ok := arrays["cube"]
	if !ok {
		return nil, fmt.Errorf("diffuse cube %s: %w: %q", filename, serialization.ErrArrayNotFound, "cube")
	}
	m := NewSkyDiffuseCube(header.Name, cube)
	m.filename = filename
	return m, nil
}

// Write stores the cube to a .gfit file and tags the model with the filename.
func (m *SkyDiffuseCube) Write(filename string, overwrite bool) error {
	err := serialization.WriteFile(filename, m.name, map[string]*skymap.Map{"cube": m.cube}, nil, overwrite)
	if err != nil {
		return err
	}
	m.filename = filename
	return nil
}

func (m *SkyDiffuseCube) Name() string            { return m.name }
func (m *SkyDiffuseCube) Type() string            { return TypeSkyDiffuseCube }
func (m *SkyDiffuseCube) Parameters() *Parameters { return m.params }
func (m *SkyDiffuseCube) Filename() string        { return m.filename }

// Cube returns the template grid.
func (m *SkyDiffuseCube) Cube() *skymap.Map { return m.cube }

// BackgroundModel is a per-dataset background component. One logical
// background may appear once in the serialized components dict yet is
// instantiated per dataset, bound to that dataset's exposure, PSF and
// energy-dispersion auxiliaries.
type BackgroundModel struct {
	name     string
	filename string
	params   *Parameters

	exposure *skymap.Map
	psf      *skymap.Map
	edisp    *skymap.Map
}

// NewBackgroundModel creates a background model with the default
// norm/tilt/reference parameters (norm free at 1, tilt frozen at 0,
// reference frozen at 1 TeV).
func NewBackgroundModel(name string) *BackgroundModel {
	return &BackgroundModel{
		name: name,
		params: NewParameters(
			NewParameter("norm", quantity.Dimensionless(1)),
			NewFrozenParameter("tilt", quantity.Dimensionless(0)),
			NewFrozenParameter("reference", quantity.New(1, "TeV")),
		),
	}
}

// BackgroundModelFromCube instantiates a background model from a diffuse
// cube, bound to one dataset's auxiliary grids. The model inherits the cube's
// backing filename so re-serialization stays file-backed.
func BackgroundModelFromCube(cube *SkyDiffuseCube, exposure, psf, edisp *skymap.Map) *BackgroundModel {
	b := NewBackgroundModel(cube.Name())
	b.filename = cube.Filename()
	b.exposure = exposure
	b.psf = psf
	b.edisp = edisp
	return b
}

func (b *BackgroundModel) Name() string            { return b.name }
func (b *BackgroundModel) Type() string            { return TypeBackgroundModel }
func (b *BackgroundModel) Parameters() *Parameters { return b.params }
func (b *BackgroundModel) Filename() string        { return b.filename }

// SetName renames the background to its canonical component name.
func (b *BackgroundModel) SetName(name string) { b.name = name }

// SetParameters replaces the whole parameter collection, used to attach the
// cached collection shared by every dataset holding this logical component.
func (b *BackgroundModel) SetParameters(params *Parameters) { b.params = params }

// Exposure returns the owning dataset's exposure grid, nil when unbound.
func (b *BackgroundModel) Exposure() *skymap.Map { return b.exposure }

// PSF returns the owning dataset's point-spread auxiliary, nil when unbound.
func (b *BackgroundModel) PSF() *skymap.Map { return b.psf }

// EDisp returns the owning dataset's energy-dispersion auxiliary, nil when
// unbound.
func (b *BackgroundModel) EDisp() *skymap.Map { return b.edisp }

// BackgroundModels is a dataset's mutable background collection.
type BackgroundModels struct {
	models []*BackgroundModel
}

// NewBackgroundModels creates a collection over the given models.
func NewBackgroundModels(models ...*BackgroundModel) *BackgroundModels {
	return &BackgroundModels{models: models}
}

// Len returns the number of backgrounds.
func (s *BackgroundModels) Len() int { return len(s.models) }

// All returns the backgrounds in order.
func (s *BackgroundModels) All() []*BackgroundModel { return s.models }

// At returns the background at slot i.
func (s *BackgroundModels) At(i int) *BackgroundModel { return s.models[i] }

// Names returns the background names in order.
func (s *BackgroundModels) Names() []string {
	names := make([]string, len(s.models))
	for i, m := range s.models {
		names[i] = m.Name()
	}
	return names
}

// Add appends a background.
func (s *BackgroundModels) Add(m *BackgroundModel) {
	s.models = append(s.models, m)
}
