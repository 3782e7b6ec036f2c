package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize   = 16 * 1024 * 1024 // 16MB - maximum header size
	MaxArrayCount   = 10_000           // Maximum number of arrays in a file
	MaxArrayNameLen = 1024             // Maximum array name length
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal performs basic validation checks only.
	ValidationNormal
	// ValidationNone skips validation. Use only with trusted input.
	ValidationNone
)

// ValidateArrayOffsets checks for overlapping array regions and out-of-bounds
// access. Malformed files must not be able to alias or escape the data section.
func ValidateArrayOffsets(arrays []ArrayMeta, dataSize int64) error {
	if len(arrays) > MaxArrayCount {
		return &ValidationError{
			Type:    "too_many_arrays",
			Details: fmt.Sprintf("got %d, max %d", len(arrays), MaxArrayCount),
		}
	}

	sorted := make([]ArrayMeta, len(arrays))
	copy(sorted, arrays)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, a := range sorted {
		if a.Offset < 0 || a.Size < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Array:   a.Name,
				Details: fmt.Sprintf("offset=%d, size=%d (negative values not allowed)", a.Offset, a.Size),
			}
		}

		if a.Offset+a.Size > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Array:   a.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", a.Offset, a.Size, dataSize),
			}
		}

		if i < len(sorted)-1 {
			next := sorted[i+1]
			if a.Offset+a.Size > next.Offset {
				return &ValidationError{
					Type:   "offset_overlap",
					Array:  a.Name,
					Array2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						a.Offset, a.Offset+a.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}

	return nil
}

// ValidateArrayName rejects names that could be used for path traversal or
// that would break header parsing.
func ValidateArrayName(name string) error {
	if name == "" {
		return &ValidationError{Type: "invalid_name", Details: "empty array name"}
	}
	if len(name) > MaxArrayNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Array:   name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxArrayNameLen),
		}
	}
	if strings.Contains(name, "..") {
		return &ValidationError{
			Type:    "invalid_name",
			Array:   name,
			Details: "contains '..'",
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return &ValidationError{
			Type:    "invalid_name",
			Array:   name,
			Details: "contains path separator",
		}
	}
	if strings.Contains(name, "\x00") {
		return &ValidationError{
			Type:    "invalid_name",
			Array:   name,
			Details: "contains null byte",
		}
	}
	return nil
}

// ValidateHeader runs header-level checks at the requested strictness.
func ValidateHeader(header *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	shapeElements := func(shape []int) int64 {
		n := int64(1)
		for _, dim := range shape {
			n *= int64(dim)
		}
		return n
	}

	for _, a := range header.Arrays {
		if err := ValidateArrayName(a.Name); err != nil {
			return err
		}
		if level == ValidationStrict {
			if expected := shapeElements(a.Shape) * 8; expected != a.Size {
				return &ValidationError{
					Type:    "size_mismatch",
					Array:   a.Name,
					Details: fmt.Sprintf("shape %v implies %d bytes, header says %d", a.Shape, expected, a.Size),
				}
			}
		}
	}

	return ValidateArrayOffsets(header.Arrays, dataSize)
}
