package dataset

import (
	"fmt"
	"strings"

	"github.com/gammafit/gammafit/internal/modeling"
	"github.com/gammafit/gammafit/internal/serialization"
	"github.com/gammafit/gammafit/internal/skymap"
)

// Dataset is one observation's reduced data: the counts grid plus auxiliary
// exposure/PSF/energy-dispersion grids, together with the attached models.
//
// The model and background collections are mutable and reassigned wholesale
// during reconstruction; the join key against the components dict is the
// dataset name.
type Dataset struct {
	Name string

	Counts   *skymap.Map
	Exposure *skymap.Map
	PSF      *skymap.Map
	EDisp    *skymap.Map

	Models      *modeling.SkyModels
	Backgrounds *modeling.BackgroundModels
}

// New creates a dataset with empty model collections. Auxiliary grids may be
// nil when the observation lacks them.
func New(name string, counts, exposure, psf, edisp *skymap.Map) *Dataset {
	return &Dataset{
		Name:        name,
		Counts:      counts,
		Exposure:    exposure,
		PSF:         psf,
		EDisp:       edisp,
		Models:      modeling.NewSkyModels(),
		Backgrounds: modeling.NewBackgroundModels(),
	}
}

// backgroundsMetaKey stores the dataset's own background names in the file
// header, so a freshly read dataset carries its backgrounds for the
// reconstructor to match against.
const backgroundsMetaKey = "backgrounds"

// Write stores the dataset grids to a .gfit file.
func (d *Dataset) Write(filename string, overwrite bool) error {
	arrays := make(map[string]*skymap.Map, 4)
	if d.Counts != nil {
		arrays["counts"] = d.Counts
	}
	if d.Exposure != nil {
		arrays["exposure"] = d.Exposure
	}
	if d.PSF != nil {
		arrays["psf"] = d.PSF
	}
	if d.EDisp != nil {
		arrays["edisp"] = d.EDisp
	}

	metadata := make(map[string]string)
	if names := d.Backgrounds.Names(); len(names) > 0 {
		metadata[backgroundsMetaKey] = strings.Join(names, ",")
	}

	if err := serialization.WriteFile(filename, d.Name, arrays, metadata, overwrite); err != nil {
		return fmt.Errorf("failed to write dataset %q: %w", d.Name, err)
	}
	return nil
}

// Read reads a dataset from a .gfit file. A non-empty name overrides the name
// stored in the file header.
//
// Backgrounds recorded in the file come back as default-parameter stubs under
// their stored names; the reconstructor rebinds their parameters from the
// components dict.
func Read(filename, name string) (*Dataset, error) {
	header, arrays, err := serialization.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = header.Name
	}

	d := New(name, arrays["counts"], arrays["exposure"], arrays["psf"], arrays["edisp"])
	if raw, ok := header.Metadata[backgroundsMetaKey]; ok && raw != "" {
		for _, bkgName := range strings.Split(raw, ",") {
			d.Backgrounds.Add(modeling.NewBackgroundModel(bkgName))
		}
	}
	return d, nil
}
