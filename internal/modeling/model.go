package modeling

// Model is anything with a name, a type tag and an ordered parameter
// collection: spatial models, spectral models, composite sky models and
// per-dataset background models.
type Model interface {
	// Name returns the model instance name.
	Name() string

	// Type returns the serialization type tag (e.g. "PowerLawSpectralModel").
	Type() string

	// Parameters returns the model's ordered parameter collection.
	Parameters() *Parameters
}

// FileBacked is implemented by template models whose bulk data lives in an
// external file rather than inline parameters.
type FileBacked interface {
	// Filename returns the backing file path, empty if the model was built
	// in memory and has not been associated with a file.
	Filename() string
}

// SpatialModel is a model describing a source's morphology on the sky.
type SpatialModel interface {
	Model
	spatialModel()
}

// SpectralModel is a model describing a source's energy spectrum.
type SpectralModel interface {
	Model
	spectralModel()
}
