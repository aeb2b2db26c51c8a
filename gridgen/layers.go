// SPDX-License-Identifier: MIT
// Package: terrapath/gridgen
//
// layers.go — built-in relief layers.
//
// Determinism:
//   • Every layer visits cells in row-major order.
//   • Only Noise draws from cfg.rng.

package gridgen

import (
	"fmt"
	"math"

	"github.com/katalvlaran/terrapath/costgrid"
)

// Method tags used in error context.
const (
	methodWall  = "Wall"
	methodRidge = "Ridge"
	methodPeak  = "Peak"
	methodRing  = "Ring"
	methodNoise = "Noise"
)

// Ramp adds r·dRow + c·dCol to every cell: a constant slope.
func Ramp(dRow, dCol float64) Layer {
	return func(s [][]float64, _ genConfig) error {
		for r := range s {
			for c := range s[r] {
				s[r][c] += float64(r)*dRow + float64(c)*dCol
			}
		}
		return nil
	}
}

// Wall raises column col by height on every row except the listed gap rows.
func Wall(col int, height float64, gaps ...int) Layer {
	return func(s [][]float64, _ genConfig) error {
		if col < 0 || col >= len(s[0]) {
			return fmt.Errorf("%s: col=%d of %d: %w", methodWall, col, len(s[0]), ErrOutOfRange)
		}
		open, err := gapSet(methodWall, gaps, len(s))
		if err != nil {
			return err
		}
		for r := range s {
			if !open[r] {
				s[r][col] += height
			}
		}
		return nil
	}
}

// Ridge raises row row by height on every column except the listed gap columns.
func Ridge(row int, height float64, gaps ...int) Layer {
	return func(s [][]float64, _ genConfig) error {
		if row < 0 || row >= len(s) {
			return fmt.Errorf("%s: row=%d of %d: %w", methodRidge, row, len(s), ErrOutOfRange)
		}
		open, err := gapSet(methodRidge, gaps, len(s[0]))
		if err != nil {
			return err
		}
		for c := range s[row] {
			if !open[c] {
				s[row][c] += height
			}
		}
		return nil
	}
}

// Peak adds a cone of the given height centred on center, falling linearly
// to zero at radius (Euclidean, in cells).
func Peak(center costgrid.Cell, height, radius float64) Layer {
	return func(s [][]float64, _ genConfig) error {
		if err := checkCell(methodPeak, s, center); err != nil {
			return err
		}
		if !(radius > 0) {
			return fmt.Errorf("%s: radius=%v: %w", methodPeak, radius, ErrTooSmall)
		}
		for r := range s {
			for c := range s[r] {
				d := math.Hypot(float64(r-center.Row), float64(c-center.Col))
				if d < radius {
					s[r][c] += height * (1 - d/radius)
				}
			}
		}
		return nil
	}
}

// Ring raises every cell at Chebyshev distance exactly radius from center,
// enclosing it in a one-cell-thick square wall.
func Ring(center costgrid.Cell, radius int, height float64) Layer {
	return func(s [][]float64, _ genConfig) error {
		if err := checkCell(methodRing, s, center); err != nil {
			return err
		}
		if radius < 1 {
			return fmt.Errorf("%s: radius=%d: %w", methodRing, radius, ErrTooSmall)
		}
		for r := range s {
			for c := range s[r] {
				if chebyshev(r-center.Row, c-center.Col) == radius {
					s[r][c] += height
				}
			}
		}
		return nil
	}
}

// Noise adds an integer in [0, max] drawn uniformly per cell.
// Requires WithSeed or WithRand.
func Noise(max int) Layer {
	return func(s [][]float64, cfg genConfig) error {
		if cfg.rng == nil {
			return fmt.Errorf("%s: %w", methodNoise, ErrNeedRandSource)
		}
		if max < 0 {
			return fmt.Errorf("%s: max=%d: %w", methodNoise, max, ErrTooSmall)
		}
		for r := range s {
			for c := range s[r] {
				s[r][c] += float64(cfg.rng.Intn(max + 1))
			}
		}
		return nil
	}
}

func gapSet(method string, gaps []int, n int) (map[int]bool, error) {
	open := make(map[int]bool, len(gaps))
	for _, i := range gaps {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("%s: gap=%d of %d: %w", method, i, n, ErrOutOfRange)
		}
		open[i] = true
	}
	return open, nil
}

func checkCell(method string, s [][]float64, c costgrid.Cell) error {
	if c.Row < 0 || c.Row >= len(s) || c.Col < 0 || c.Col >= len(s[0]) {
		return fmt.Errorf("%s: center=%v: %w", method, c, ErrOutOfRange)
	}
	return nil
}

func chebyshev(dr, dc int) int {
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	if dr > dc {
		return dr
	}
	return dc
}
