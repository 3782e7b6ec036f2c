// Package skymap provides the in-memory grid type shared by datasets and
// template models: an n-dimensional float64 array with a shape and a unit.
package skymap

import "fmt"

// Map is an n-dimensional data grid.
//
// Data is stored flattened in row-major order. Unit follows the quantity
// convention: an opaque unit string, empty for dimensionless grids.
type Map struct {
	Shape []int
	Data  []float64
	Unit  string
}

// New creates a map with the given shape, filled with zeros.
func New(shape []int, unit string) (*Map, error) {
	n := 1
	for _, dim := range shape {
		if dim <= 0 {
			return nil, fmt.Errorf("skymap: invalid dimension %d in shape %v", dim, shape)
		}
		n *= dim
	}
	return &Map{
		Shape: append([]int(nil), shape...),
		Data:  make([]float64, n),
		Unit:  unit,
	}, nil
}

// FromData creates a map over existing data. The data length must match the
// shape's element count.
func FromData(data []float64, shape []int, unit string) (*Map, error) {
	n := 1
	for _, dim := range shape {
		if dim <= 0 {
			return nil, fmt.Errorf("skymap: invalid dimension %d in shape %v", dim, shape)
		}
		n *= dim
	}
	if len(data) != n {
		return nil, fmt.Errorf("skymap: data length %d does not match shape %v (%d elements)", len(data), shape, n)
	}
	return &Map{Shape: append([]int(nil), shape...), Data: data, Unit: unit}, nil
}

// NumElements returns the total element count.
func (m *Map) NumElements() int {
	n := 1
	for _, dim := range m.Shape {
		n *= dim
	}
	return n
}

// Copy returns a deep copy of the map.
func (m *Map) Copy() *Map {
	data := make([]float64, len(m.Data))
	copy(data, m.Data)
	return &Map{
		Shape: append([]int(nil), m.Shape...),
		Data:  data,
		Unit:  m.Unit,
	}
}

// Equal reports whether two maps have identical shape, data and unit.
func (m *Map) Equal(other *Map) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Unit != other.Unit || len(m.Shape) != len(other.Shape) || len(m.Data) != len(other.Data) {
		return false
	}
	for i, dim := range m.Shape {
		if other.Shape[i] != dim {
			return false
		}
	}
	for i, v := range m.Data {
		if other.Data[i] != v {
			return false
		}
	}
	return true
}
