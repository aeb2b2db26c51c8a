// SPDX-License-Identifier: MIT
// Package: terrapath/gridgen
//
// options.go — functional options and the resolved generator config.
//
// Contract:
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//   • Defaults are deterministic: base 0, no RNG.

package gridgen

import (
	"math"
	"math/rand"
)

// Option customizes Build before any layer runs.
type Option func(*genConfig)

// genConfig aggregates all knobs. It is passed by value to layers.
type genConfig struct {
	// base is the starting value of every cell.
	base float64
	// rng drives stochastic layers; nil means no randomness.
	rng *rand.Rand
}

func newGenConfig(opts ...Option) genConfig {
	cfg := genConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithBase sets the starting value of every cell. Panics on NaN/±Inf.
func WithBase(v float64) Option {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic("gridgen: WithBase(non-finite)")
	}
	return func(c *genConfig) {
		c.base = v
	}
}

// WithSeed creates a new *rand.Rand with the given seed (deterministic).
func WithSeed(seed int64) Option {
	return func(c *genConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand provides an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("gridgen: WithRand(nil)")
	}
	return func(c *genConfig) {
		c.rng = r
	}
}
