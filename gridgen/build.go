// SPDX-License-Identifier: MIT
// Package: terrapath/gridgen
//
// build.go — the Build orchestrator.

package gridgen

import (
	"fmt"

	"github.com/katalvlaran/terrapath/costgrid"
)

const minDim = 1

// Layer adds relief to samples[row][col] in place. Layers MUST validate
// their parameters against the sample dimensions and return sentinel errors
// instead of panicking.
type Layer func(samples [][]float64, cfg genConfig) error

// Build creates a rows×cols terrain at the configured base value, applies
// each layer in order and returns the resulting costgrid.Grid.
// Any layer error is wrapped with "Build: %w" and returned immediately.
// Complexity: O(rows·cols·len(layers)) for the built-in layers.
func Build(rows, cols int, opts []Option, layers ...Layer) (*costgrid.Grid, error) {
	samples, err := Samples(rows, cols, opts, layers...)
	if err != nil {
		return nil, err
	}
	return costgrid.New(samples)
}

// Samples is Build without the final costgrid.New, for callers that want to
// post-process the raw matrix.
func Samples(rows, cols int, opts []Option, layers ...Layer) ([][]float64, error) {
	if rows < minDim || cols < minDim {
		return nil, fmt.Errorf("Build: rows=%d, cols=%d (each must be ≥ %d): %w", rows, cols, minDim, ErrTooSmall)
	}
	cfg := newGenConfig(opts...)

	samples := make([][]float64, rows)
	for r := range samples {
		samples[r] = make([]float64, cols)
		for c := range samples[r] {
			samples[r][c] = cfg.base
		}
	}

	for i, fn := range layers {
		if fn == nil {
			return nil, fmt.Errorf("Build: layer %d: %w", i, ErrNilLayer)
		}
		if err := fn(samples, cfg); err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
	}
	return samples, nil
}
