package dataset

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gammafit/gammafit/internal/modeling"
)

// Reconstruction errors.
var (
	// ErrComponentNotFound means a dataset's index entry names a background
	// component that the components dict does not contain.
	ErrComponentNotFound = errors.New("background component not found in components dict")

	// ErrBackgroundNotFound means a non-file-backed background component
	// matched none of the backgrounds present on the freshly read dataset.
	ErrBackgroundNotFound = errors.New("background not found on dataset")
)

// Reconstructor rebuilds live datasets from a datasets index plus a
// components dict, re-attaching models and backgrounds and re-linking shared
// parameters across the whole collection.
//
// The cube and parameter caches are owned by the reconstructor instance, not
// the process: one logical background component shared by several datasets
// costs one template read and yields one parameter collection, and nothing
// leaks across independent reconstructions.
type Reconstructor struct {
	logger      *slog.Logger
	readDataset func(filename, name string) (*Dataset, error)
	readCube    func(filename string) (*modeling.SkyDiffuseCube, error)

	cubes  map[string]*modeling.SkyDiffuseCube // by component name
	params map[string]*modeling.Parameters     // by component name
}

// ReconstructorOptions configures a Reconstructor. Zero fields get defaults:
// file-based readers and a discarding logger.
type ReconstructorOptions struct {
	Logger      *slog.Logger
	ReadDataset func(filename, name string) (*Dataset, error)
	ReadCube    func(filename string) (*modeling.SkyDiffuseCube, error)
}

// NewReconstructor creates a reconstructor with default options.
func NewReconstructor() *Reconstructor {
	return NewReconstructorWithOptions(ReconstructorOptions{})
}

// NewReconstructorWithOptions creates a reconstructor with custom options.
func NewReconstructorWithOptions(opts ReconstructorOptions) *Reconstructor {
	r := &Reconstructor{
		logger:      opts.Logger,
		readDataset: opts.ReadDataset,
		readCube:    opts.ReadCube,
		cubes:       make(map[string]*modeling.SkyDiffuseCube),
		params:      make(map[string]*modeling.Parameters),
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.readDataset == nil {
		r.readDataset = Read
	}
	if r.readCube == nil {
		r.readCube = modeling.ReadSkyDiffuseCube
	}
	return r
}

// Result is the outcome of a reconstruction: the live datasets plus the
// global model and background lists, linked across datasets.
type Result struct {
	Datasets    *Datasets
	Models      []*modeling.SkyModel
	Backgrounds []*modeling.BackgroundModel
}

// Reconstruct rebuilds the dataset collection described by index, attaching
// models and backgrounds from components.
//
// All composite models are deserialized once up front with linking deferred:
// linking must see the complete cross-dataset picture, so it runs exactly
// once at the end, over the combined global model and background lists.
func (r *Reconstructor) Reconstruct(index *Index, components *modeling.Components) (*Result, error) {
	models, err := modeling.FromComponentsWithOptions(components, modeling.DecodeOptions{SkipLinking: true})
	if err != nil {
		return nil, err
	}

	result := &Result{Datasets: NewDatasets(), Models: models}
	for _, entry := range index.Datasets {
		ds, err := r.readDataset(entry.Filename, entry.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset %q: %w", entry.Name, err)
		}
		if err := r.updateDataset(ds, components, entry, result); err != nil {
			return nil, err
		}
		result.Datasets.Add(ds)
		r.logger.Debug("reconstructed dataset",
			"dataset", ds.Name,
			"models", ds.Models.Len(),
			"backgrounds", ds.Backgrounds.Len(),
		)
	}

	all := make([]modeling.Model, 0, len(result.Models)+len(result.Backgrounds))
	for _, m := range result.Models {
		all = append(all, m)
	}
	for _, b := range result.Backgrounds {
		all = append(all, b)
	}
	modeling.LinkSharedParameters(all)

	return result, nil
}

// updateDataset reassigns the dataset's background and model collections from
// the components dict and the globally deserialized models.
func (r *Reconstructor) updateDataset(ds *Dataset, components *modeling.Components, entry IndexEntry, result *Result) error {
	wanted := make(map[string]bool, len(entry.Backgrounds))
	for _, name := range entry.Backgrounds {
		wanted[name] = true
	}
	prev := ds.Backgrounds.Names()

	resolved := modeling.NewBackgroundModels()
	found := make(map[string]bool)
	for _, comp := range components.Components {
		if comp.Model == nil || comp.Model.Type != modeling.TypeBackgroundModel || !wanted[comp.Name] {
			continue
		}

		bkg, err := r.resolveBackground(ds, comp, prev)
		if err != nil {
			return err
		}
		r.linkBackgroundParameters(comp, bkg)
		resolved.Add(bkg)
		found[comp.Name] = true
		if !containsBackground(result.Backgrounds, bkg) {
			result.Backgrounds = append(result.Backgrounds, bkg)
		}
	}

	for _, name := range entry.Backgrounds {
		if !found[name] {
			return fmt.Errorf("%w: %q (dataset %q)", ErrComponentNotFound, name, ds.Name)
		}
	}

	ds.Backgrounds = resolved

	byName := make(map[string]bool, len(entry.Models))
	for _, name := range entry.Models {
		byName[name] = true
	}
	var subset []*modeling.SkyModel
	for _, m := range result.Models {
		if byName[m.Name()] {
			subset = append(subset, m)
		}
	}
	ds.Models = modeling.NewSkyModels(subset...)

	return nil
}

// resolveBackground turns one background component record into a live
// background model for this dataset: file-backed diffuse cubes are
// instantiated against the dataset's auxiliaries (reading the cube at most
// once per component name), everything else must match a background already
// present on the freshly read dataset, by exact then case-insensitive name.
func (r *Reconstructor) resolveBackground(ds *Dataset, comp modeling.ComponentRecord, prev []string) (*modeling.BackgroundModel, error) {
	if comp.Filename != "" {
		cube, ok := r.cubes[comp.Name]
		if !ok {
			var err error
			cube, err = r.readCube(comp.Filename)
			if err != nil {
				return nil, fmt.Errorf("failed to read background cube %q: %w", comp.Name, err)
			}
			r.cubes[comp.Name] = cube
			r.logger.Debug("cached diffuse cube", "component", comp.Name, "filename", comp.Filename)
		}
		bkg := modeling.BackgroundModelFromCube(cube, ds.Exposure, ds.PSF, ds.EDisp)
		bkg.SetName(comp.Name)
		return bkg, nil
	}

	idx := -1
	for i, name := range prev {
		if name == comp.Name {
			idx = i
			break
		}
	}
	if idx < 0 {
		for i, name := range prev {
			if strings.EqualFold(name, comp.Name) {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q (dataset %q carries %v)", ErrBackgroundNotFound, comp.Name, ds.Name, prev)
	}

	bkg := ds.Backgrounds.At(idx)
	bkg.SetName(comp.Name)
	return bkg, nil
}

// linkBackgroundParameters attaches the component's cached parameter
// collection, so every dataset holding this logical component points at
// identical parameter objects.
func (r *Reconstructor) linkBackgroundParameters(comp modeling.ComponentRecord, bkg *modeling.BackgroundModel) {
	params, ok := r.params[comp.Name]
	if !ok {
		params = modeling.FromRecords(comp.Model.Parameters)
		r.params[comp.Name] = params
	}
	bkg.SetParameters(params)
}

func containsBackground(backgrounds []*modeling.BackgroundModel, b *modeling.BackgroundModel) bool {
	for _, existing := range backgrounds {
		if existing == b {
			return true
		}
	}
	return false
}
