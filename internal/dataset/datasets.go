package dataset

import (
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/gammafit/gammafit/internal/modeling"
)

// Datasets is an ordered collection of datasets.
type Datasets struct {
	items []*Dataset
}

// NewDatasets creates a collection over the given datasets.
func NewDatasets(items ...*Dataset) *Datasets {
	return &Datasets{items: items}
}

// Len returns the number of datasets.
func (d *Datasets) Len() int { return len(d.items) }

// All returns the datasets in order.
func (d *Datasets) All() []*Dataset { return d.items }

// Get returns the dataset with the given name, or nil.
func (d *Datasets) Get(name string) *Dataset {
	for _, ds := range d.items {
		if ds.Name == name {
			return ds
		}
	}
	return nil
}

// Add appends a dataset.
func (d *Datasets) Add(ds *Dataset) {
	d.items = append(d.items, ds)
}

// Export persists the collection: one .gfit file per dataset under dir, a
// datasets index joining dataset names to model/background names, and a
// deduplicated components dict covering every model and background.
//
// File writes are independent and run in parallel; the index and components
// are assembled from in-memory state only.
func (d *Datasets) Export(dir string, overwrite bool) (*Index, *modeling.Components, error) {
	index := &Index{}
	var models []modeling.Model
	var backgrounds []modeling.Model

	for _, ds := range d.items {
		index.Datasets = append(index.Datasets, IndexEntry{
			Name:        ds.Name,
			Filename:    datasetFilename(dir, ds.Name),
			Backgrounds: ds.Backgrounds.Names(),
			Models:      ds.Models.Names(),
		})
		for _, m := range ds.Models.All() {
			if !containsModel(models, m) {
				models = append(models, m)
			}
		}
		// Backgrounds are keyed by component name in the components dict:
		// per-dataset instances of one logical component serialize once.
		for _, b := range ds.Backgrounds.All() {
			if !containsModelNamed(backgrounds, b.Name()) {
				backgrounds = append(backgrounds, b)
			}
		}
	}

	var g errgroup.Group
	for _, ds := range d.items {
		ds := ds
		g.Go(func() error {
			return ds.Write(datasetFilename(dir, ds.Name), overwrite)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	components, err := modeling.ToComponents(append(models, backgrounds...))
	if err != nil {
		return nil, nil, err
	}
	return index, components, nil
}

func datasetFilename(dir, name string) string {
	return filepath.Join(dir, "data_"+name+".gfit")
}

// containsModel reports object identity, not equality: the same model
// referenced by several datasets must be collected once.
func containsModel(models []modeling.Model, m modeling.Model) bool {
	for _, existing := range models {
		if existing == m {
			return true
		}
	}
	return false
}

func containsModelNamed(models []modeling.Model, name string) bool {
	for _, existing := range models {
		if existing.Name() == name {
			return true
		}
	}
	return false
}
