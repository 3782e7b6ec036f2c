package modeling

import (
	"fmt"
	"reflect"
)

// ToComponents serializes a list of models to a components dict.
//
// The codec never mutates the models: every parameter record carries the
// parameter's stable ID, and the shared-parameter relation is emitted as an
// explicit links list computed from object identity. A model object appearing
// several times in the list (for example referenced by more than one dataset)
// yields exactly one record.
func ToComponents(models []Model) (*Components, error) {
	records := make([]ComponentRecord, 0, len(models))
	for _, m := range models {
		rec, err := modelToRecord(m)
		if err != nil {
			return nil, err
		}
		if !containsRecord(records, rec) {
			records = append(records, rec)
		}
	}

	links, err := sharedLinks(models)
	if err != nil {
		return nil, err
	}

	return &Components{Components: records, Links: links}, nil
}

func modelToRecord(m Model) (ComponentRecord, error) {
	rec := ComponentRecord{Name: m.Name()}
	if fb, ok := m.(FileBacked); ok {
		rec.Filename = fb.Filename()
	}

	sky, ok := m.(*SkyModel)
	if !ok {
		rec.Model = subRecord(m)
		return rec, nil
	}

	rec.Spatial = subRecord(sky.spatial)
	if fb, ok := sky.spatial.(FileBacked); ok {
		rec.Spatial.Filename = fb.Filename()
	}
	rec.Spectral = subRecord(sky.spectral)
	return rec, nil
}

func subRecord(m Model) *ModelRecord {
	rec := &ModelRecord{
		Type:       m.Type(),
		Parameters: m.Parameters().Records(),
	}
	if t, ok := m.(*TemplateSpectralModel); ok {
		energy, energyUnit := t.Energy()
		values, valuesUnit := t.Values()
		rec.Energy = &ArrayRecord{Data: energy, Unit: energyUnit}
		rec.Values = &ArrayRecord{Data: values, Unit: valuesUnit}
	}
	return rec
}

// containsRecord reports whether a structurally equal record is already
// present, guarding against the same model object being serialized twice.
func containsRecord(records []ComponentRecord, rec ComponentRecord) bool {
	for i := range records {
		if reflect.DeepEqual(records[i], rec) {
			return true
		}
	}
	return false
}

// DecodeOptions configures FromComponentsWithOptions.
type DecodeOptions struct {
	// SkipLinking leaves shared parameters unlinked. Used by the dataset
	// reconstructor, which must link once over the complete cross-dataset
	// model set rather than per decode call.
	SkipLinking bool
}

// FromComponents deserializes the composite sky models of a components dict
// and links their shared parameters.
//
// Background-typed records are skipped (they are instantiated per dataset by
// the reconstructor). Any other non-composite record type fails with
// ErrUnsupportedModelType.
func FromComponents(c *Components) ([]*SkyModel, error) {
	return FromComponentsWithOptions(c, DecodeOptions{})
}

// FromComponentsWithOptions deserializes composite sky models with explicit
// decode options.
func FromComponentsWithOptions(c *Components, opts DecodeOptions) ([]*SkyModel, error) {
	var models []*SkyModel
	for _, rec := range c.Components {
		if rec.Model != nil {
			if rec.Model.Type == TypeBackgroundModel {
				continue
			}
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedModelType, rec.Model.Type)
		}

		m, err := skyModelFromRecord(rec)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}

	if !opts.SkipLinking {
		LinkSharedParameters(AsModels(models))
	}
	return models, nil
}

func skyModelFromRecord(rec ComponentRecord) (*SkyModel, error) {
	if rec.Spatial == nil || rec.Spectral == nil {
		return nil, fmt.Errorf("%w: component %q lacks spatial/spectral sub-records", ErrMalformedComponent, rec.Name)
	}

	spatial, err := spatialFromRecord(rec.Spatial)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", rec.Name, err)
	}
	spectral, err := spectralFromRecord(rec.Spectral)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", rec.Name, err)
	}

	return NewSkyModel(rec.Name, spatial, spectral), nil
}

func spatialFromRecord(rec *ModelRecord) (SpatialModel, error) {
	if !spatialTypes.Has(rec.Type) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpatialType, rec.Type)
	}
	factory, err := spatialTypes.Get(rec.Type)
	if err != nil {
		return nil, err
	}

	if rec.Filename != "" {
		if factory.read == nil {
			return nil, fmt.Errorf("%w: %q carries filename %q", ErrNotFileBacked, rec.Type, rec.Filename)
		}
		m, err := factory.read(rec.Filename)
		if err != nil {
			return nil, err
		}
		// The record's explicit parameter list is authoritative over the
		// file's defaults.
		if err := m.Parameters().ApplyRecords(rec.Parameters); err != nil {
			return nil, err
		}
		return m, nil
	}

	if factory.fromRecord == nil {
		return nil, fmt.Errorf("%w: %q requires a filename", ErrMalformedComponent, rec.Type)
	}
	return factory.fromRecord(rec)
}

func spectralFromRecord(rec *ModelRecord) (SpectralModel, error) {
	if !spectralTypes.Has(rec.Type) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpectralType, rec.Type)
	}
	factory, err := spectralTypes.Get(rec.Type)
	if err != nil {
		return nil, err
	}
	return factory.fromRecord(rec)
}

// AsModels converts a concrete sky-model slice to the Model interface slice
// consumed by the linker and the codec.
func AsModels(models []*SkyModel) []Model {
	out := make([]Model, len(models))
	for i, m := range models {
		out[i] = m
	}
	return out
}
