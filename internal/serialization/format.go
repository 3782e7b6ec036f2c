package serialization

import (
	"time"
)

// Format constants for the .gfit container.
const (
	MagicBytes      = "GFIT"
	FormatVersion   = 1
	HeaderAlignment = 64 // Align the data section to 64 bytes
	ChecksumSize    = 32 // SHA-256 over the data section
)

// Flags for the .gfit format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
)

// Header is the JSON header of a .gfit file.
//
// A .gfit file stores a set of named float64 grids: the counts, exposure,
// PSF and energy-dispersion arrays of a dataset, or the grid of a template
// model (diffuse cube, spatial template).
type Header struct {
	FormatVersion  int               `json:"format_version"`
	CreatorVersion string            `json:"creator_version"` // Version of gammafit that wrote the file
	Name           string            `json:"name"`            // Dataset or template name
	CreatedAt      time.Time         `json:"created_at"`
	Arrays         []ArrayMeta       `json:"arrays"`
	Metadata       map[string]string `json:"metadata"`
}

// ArrayMeta describes one grid in the data section.
type ArrayMeta struct {
	Name   string `json:"name"`   // Array name (e.g., "counts", "exposure")
	Shape  []int  `json:"shape"`  // Grid shape
	Unit   string `json:"unit"`   // Unit string, empty for dimensionless
	Offset int64  `json:"offset"` // Offset in bytes from the start of the data section
	Size   int64  `json:"size"`   // Size in bytes
}
