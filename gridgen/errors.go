// SPDX-License-Identifier: MIT
// Package: terrapath/gridgen
//
// errors.go — sentinel errors for the gridgen package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Layers attach context with %w; sentinels are never re-declared with
//     formatted text.

package gridgen

import "errors"

// ErrTooSmall indicates a size parameter (rows, cols, radius) below its minimum.
var ErrTooSmall = errors.New("gridgen: parameter too small")

// ErrOutOfRange indicates a layer addressing a row, column or cell outside the grid.
var ErrOutOfRange = errors.New("gridgen: index out of range")

// ErrNeedRandSource indicates a stochastic layer was used without WithSeed/WithRand.
var ErrNeedRandSource = errors.New("gridgen: random source required")

// ErrNilLayer indicates a nil Layer passed to Build.
var ErrNilLayer = errors.New("gridgen: nil layer")
