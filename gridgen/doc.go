// SPDX-License-Identifier: MIT
// Package: terrapath/gridgen
//
// Package gridgen builds deterministic synthetic terrains for tests,
// benchmarks and demos.
//
// A terrain is assembled by Build from a flat base and an ordered list of
// Layers; each Layer adds its relief on top of what previous layers left:
//
//	g, err := gridgen.Build(64, 64,
//	    []gridgen.Option{gridgen.WithSeed(7), gridgen.WithBase(100)},
//	    gridgen.Ramp(0, 0.5),
//	    gridgen.Wall(32, 80, 10, 11, 12),
//	    gridgen.Noise(3),
//	)
//
// Determinism:
//
//   - Same rows/cols, options, seed and layer order ⇒ identical samples.
//   - Only Noise consumes randomness; it requires WithSeed or WithRand.
//
// Errors:
//
//   - ErrTooSmall        rows or cols < 1, or a non-positive radius.
//   - ErrOutOfRange      a layer addresses a row/col/cell outside the grid.
//   - ErrNeedRandSource  Noise without an RNG.
//   - ErrNilLayer        a nil Layer was passed to Build.
//
// Option constructors panic on meaningless input; layers return errors.
package gridgen
