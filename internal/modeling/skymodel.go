package modeling

// TypeSkyModel is the serialization type tag for composite sky models.
const TypeSkyModel = "SkyModel"

// SkyModel is a composite source model binding one spatial and one spectral
// model under a source name.
//
// Its parameter collection is a flat view over the sub-models' parameters,
// built at construction. Shared-parameter linking replaces entries in this
// flat collection and in the nested sub-model collections; both views are
// kept in step by the linker, not by aliasing.
type SkyModel struct {
	name     string
	spatial  SpatialModel
	spectral SpectralModel
	params   *Parameters
}

// NewSkyModel creates a composite model from a spatial and a spectral model.
func NewSkyModel(name string, spatial SpatialModel, spectral SpectralModel) *SkyModel {
	combined := make([]*Parameter, 0, spatial.Parameters().Len()+spectral.Parameters().Len())
	combined = append(combined, spatial.Parameters().All()...)
	combined = append(combined, spectral.Parameters().All()...)
	return &SkyModel{
		name:     name,
		spatial:  spatial,
		spectral: spectral,
		params:   NewParameters(combined...),
	}
}

// Name returns the source name.
func (m *SkyModel) Name() string { return m.name }

// Type returns the composite type tag.
func (m *SkyModel) Type() string { return TypeSkyModel }

// Parameters returns the flat spatial+spectral parameter view.
func (m *SkyModel) Parameters() *Parameters { return m.params }

// SpatialModel returns the morphology component.
func (m *SkyModel) SpatialModel() SpatialModel { return m.spatial }

// SpectralModel returns the spectrum component.
func (m *SkyModel) SpectralModel() SpectralModel { return m.spectral }

// SkyModels is a mutable collection of composite models, reassigned wholesale
// during dataset reconstruction.
type SkyModels struct {
	models []*SkyModel
}

// NewSkyModels creates a collection over the given models.
func NewSkyModels(models ...*SkyModel) *SkyModels {
	return &SkyModels{models: models}
}

// Len returns the number of models.
func (s *SkyModels) Len() int { return len(s.models) }

// All returns the models in order.
func (s *SkyModels) All() []*SkyModel { return s.models }

// Names returns the model names in order.
func (s *SkyModels) Names() []string {
	names := make([]string, len(s.models))
	for i, m := range s.models {
		names[i] = m.Name()
	}
	return names
}

// Add appends a model.
func (s *SkyModels) Add(m *SkyModel) {
	s.models = append(s.models, m)
}
