package modeling

import "errors"

// Common errors.
var (
	ErrParameterNotFound      = errors.New("parameter not found")
	ErrUnsupportedModelType   = errors.New("unsupported model type")
	ErrUnknownSpatialType     = errors.New("unknown spatial model type")
	ErrUnknownSpectralType    = errors.New("unknown spectral model type")
	ErrMalformedComponent     = errors.New("malformed component record")
	ErrNotFileBacked          = errors.New("model type is not file-backed")
	ErrTemplateLengthMismatch = errors.New("energy and values lengths differ")
)
