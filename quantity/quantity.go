// Copyright 2026 The gammafit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package quantity provides dimensioned values: a float64 magnitude paired
// with a unit string.
//
// The toolkit does not implement unit algebra. Units are opaque labels
// (e.g. "TeV", "deg", "cm-2 s-1 TeV-1", "" for dimensionless) carried
// alongside values so they survive serialization round-trips; arithmetic on
// mixed units is the caller's responsibility.
package quantity

import (
	"fmt"
	"strconv"
	"strings"
)

// Quantity is a value with a unit.
//
// The zero value is a dimensionless zero.
type Quantity struct {
	Value float64
	Unit  string
}

// New creates a quantity from a value and a unit string.
func New(value float64, unit string) Quantity {
	return Quantity{Value: value, Unit: strings.TrimSpace(unit)}
}

// Dimensionless creates a quantity with an empty unit.
func Dimensionless(value float64) Quantity {
	return Quantity{Value: value}
}

// Parse parses a quantity from a string of the form "<value> <unit>",
// e.g. "2.0 TeV" or "1e-12 cm-2 s-1 TeV-1". A bare number parses as a
// dimensionless quantity.
func Parse(s string) (Quantity, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Quantity{}, fmt.Errorf("parse quantity: empty string")
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("parse quantity %q: %w", s, err)
	}

	return Quantity{Value: value, Unit: strings.Join(fields[1:], " ")}, nil
}

// String formats the quantity as "<value> <unit>", or just the value when
// dimensionless.
func (q Quantity) String() string {
	if q.Unit == "" {
		return strconv.FormatFloat(q.Value, 'g', -1, 64)
	}
	return strconv.FormatFloat(q.Value, 'g', -1, 64) + " " + q.Unit
}

// IsDimensionless reports whether the quantity has no unit.
func (q Quantity) IsDimensionless() bool {
	return q.Unit == ""
}

// Equal reports whether two quantities have the same value and unit string.
func (q Quantity) Equal(other Quantity) bool {
	return q.Value == other.Value && q.Unit == other.Unit
}
