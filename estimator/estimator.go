// Copyright 2026 The gammafit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package estimator provides light curves and the glue around external
// variability estimators.
//
// The statistical estimators themselves — fractional excess variance, point-
// to-point fractional variation, doubling time, Bayesian-blocks segmentation
// — are supplied by an external numeric ecosystem and consumed as opaque
// functions over flux/time/error arrays. This package fixes their contracts
// and aggregates their results; it does not reimplement them.
package estimator

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyLightCurve is returned when an estimator is run on a light curve
// without points.
var ErrEmptyLightCurve = errors.New("light curve has no points")

// LightCurve is a flux time series with per-point errors.
type LightCurve struct {
	Time     []float64 // e.g. MJD
	TimeUnit string
	Flux     []float64
	FluxErr  []float64
	FluxUnit string
}

// NewLightCurve creates a light curve from matching time/flux/error arrays.
func NewLightCurve(time []float64, timeUnit string, flux, fluxErr []float64, fluxUnit string) (*LightCurve, error) {
	if len(time) != len(flux) || len(flux) != len(fluxErr) {
		return nil, fmt.Errorf("light curve arrays disagree: %d times, %d fluxes, %d errors",
			len(time), len(flux), len(fluxErr))
	}
	return &LightCurve{
		Time:     time,
		TimeUnit: timeUnit,
		Flux:     flux,
		FluxErr:  fluxErr,
		FluxUnit: fluxUnit,
	}, nil
}

// Len returns the number of points.
func (lc *LightCurve) Len() int {
	return len(lc.Time)
}

// Estimate is a scalar estimator result with its uncertainty.
type Estimate struct {
	Value float64
	Error float64
}

// VariabilityFunc is the contract of a scalar variability estimator
// (fractional excess variance, point-to-point fractional variation,
// doubling/halving time).
type VariabilityFunc func(lc *LightCurve) (Estimate, error)

// BayesianBlocksFunc is the contract of a Bayesian-blocks changepoint
// function over time/value/error arrays: it returns the block edges for the
// requested fitness (e.g. "measures").
type BayesianBlocksFunc func(t, x, sigma []float64, fitness string) ([]float64, error)

// Suite aggregates injected estimators. Nil fields are skipped by Run.
type Suite struct {
	FVar           VariabilityFunc
	FPP            VariabilityFunc
	DoublingTime   VariabilityFunc
	BayesianBlocks BayesianBlocksFunc
}

// Report collects the results of one Run. Estimators not present in the
// suite leave nil fields.
type Report struct {
	PeakToTrough *Estimate
	FVar         *Estimate
	FPP          *Estimate
	DoublingTime *Estimate
	BlockEdges   []float64
}

// Run computes every configured estimator over the light curve. fitness is
// forwarded to the Bayesian-blocks function.
func (s Suite) Run(lc *LightCurve, fitness string) (*Report, error) {
	if lc.Len() == 0 {
		return nil, ErrEmptyLightCurve
	}

	report := &Report{}

	ptt, err := PeakToTrough(lc)
	if err != nil {
		return nil, err
	}
	report.PeakToTrough = &ptt

	for _, est := range []struct {
		name string
		fn   VariabilityFunc
		dst  **Estimate
	}{
		{"fvar", s.FVar, &report.FVar},
		{"fpp", s.FPP, &report.FPP},
		{"doubling time", s.DoublingTime, &report.DoublingTime},
	} {
		if est.fn == nil {
			continue
		}
		result, err := est.fn(lc)
		if err != nil {
			return nil, fmt.Errorf("%s estimator failed: %w", est.name, err)
		}
		*est.dst = &result
	}

	if s.BayesianBlocks != nil {
		edges, err := s.BayesianBlocks(lc.Time, lc.Flux, lc.FluxErr, fitness)
		if err != nil {
			return nil, fmt.Errorf("bayesian blocks failed: %w", err)
		}
		report.BlockEdges = edges
	}

	return report, nil
}

// PeakToTrough computes the amplitude maximum variation of the light curve:
// the flux max-min difference and its significance against the combined
// errors at the two extrema.
func PeakToTrough(lc *LightCurve) (Estimate, error) {
	if lc.Len() == 0 {
		return Estimate{}, ErrEmptyLightCurve
	}

	imax, imin := 0, 0
	for i, f := range lc.Flux {
		if f > lc.Flux[imax] {
			imax = i
		}
		if f < lc.Flux[imin] {
			imin = i
		}
	}

	delta := lc.Flux[imax] - lc.Flux[imin]
	sigma := math.Sqrt(lc.FluxErr[imax]*lc.FluxErr[imax] + lc.FluxErr[imin]*lc.FluxErr[imin])
	return Estimate{Value: delta, Error: sigma}, nil
}
