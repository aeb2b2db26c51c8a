// Package config provides centralized configuration for the terrapath
// binaries. Defaults live here; environment variables (optionally loaded
// from a .env file) override them; command-line flags override both.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/katalvlaran/terrapath/astar"
)

// Environment variable names.
const (
	EnvAddr             = "TERRAPATH_ADDR"
	EnvGrid             = "TERRAPATH_GRID"
	EnvMaxElevationDiff = "TERRAPATH_MAX_ELEVATION_DIFF"
	EnvTerrainWeight    = "TERRAPATH_TERRAIN_WEIGHT"
	EnvElevationWeight  = "TERRAPATH_ELEVATION_WEIGHT"
	EnvMaxExpansions    = "TERRAPATH_MAX_EXPANSIONS"
	EnvSurfaceWidth     = "TERRAPATH_SURFACE_WIDTH"
	EnvSurfaceHeight    = "TERRAPATH_SURFACE_HEIGHT"
	EnvFallback         = "TERRAPATH_FALLBACK"
	EnvRateRPS          = "TERRAPATH_RATE_RPS"
	EnvRateBurst        = "TERRAPATH_RATE_BURST"
	EnvCORSOrigins      = "TERRAPATH_CORS_ORIGINS"
	EnvSearchTimeout    = "TERRAPATH_SEARCH_TIMEOUT"
)

// =============================================================================
// SEARCH
// =============================================================================

// SearchConfig holds the cost model and per-search limits.
type SearchConfig struct {
	Params        astar.Params
	MaxExpansions int           // 0 = unbounded
	Timeout       time.Duration // per request; 0 = default (5s), negative = no timeout
}

// DefaultSearch returns the stock cost model (20 / 5.0 / 10.0) and a 5s timeout.
func DefaultSearch() SearchConfig {
	return SearchConfig{
		Params:  astar.DefaultParams(),
		Timeout: 5 * time.Second,
	}
}

// =============================================================================
// SURFACE
// =============================================================================

// SurfaceConfig is the continuous coordinate space routes are planned in.
type SurfaceConfig struct {
	Width, Height float64
	Fallback      string // "direct" or "manhattan"
}

// DefaultSurface returns an 800×600 surface with direct fallback.
func DefaultSurface() SurfaceConfig {
	return SurfaceConfig{Width: 800, Height: 600, Fallback: "direct"}
}

// =============================================================================
// SERVER
// =============================================================================

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr        string
	RateRPS     float64  // requests per second per client IP
	RateBurst   int      // burst per client IP
	CORSOrigins []string // nil = localhost only
}

// DefaultServer listens on :8080 with 10 rps / burst 20 per IP.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Addr:      ":8080",
		RateRPS:   10,
		RateBurst: 20,
	}
}

// =============================================================================
// ROOT
// =============================================================================

// Config aggregates every section.
type Config struct {
	GridPath string // text, TIFF or PNG terrain; empty = none
	Search   SearchConfig
	Surface  SurfaceConfig
	Server   ServerConfig
}

// Default returns the configuration with no overrides applied.
func Default() Config {
	return Config{
		Search:  DefaultSearch(),
		Surface: DefaultSurface(),
		Server:  DefaultServer(),
	}
}

// Load reads the given .env files (missing ones are skipped; with no
// arguments ".env" is tried) and returns Default overridden by the
// environment. Malformed values are reported, not ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			log.Printf("config: loaded environment from %s", f)
		}
	}
	return FromEnv()
}

// FromEnv returns Default overridden by the current environment.
func FromEnv() (Config, error) {
	cfg := Default()
	var err error
	p := envParser{}

	cfg.GridPath = os.Getenv(EnvGrid)
	cfg.Search.Params.MaxElevationDiff = p.float(EnvMaxElevationDiff, cfg.Search.Params.MaxElevationDiff)
	cfg.Search.Params.TerrainWeight = p.float(EnvTerrainWeight, cfg.Search.Params.TerrainWeight)
	cfg.Search.Params.ElevationWeight = p.float(EnvElevationWeight, cfg.Search.Params.ElevationWeight)
	cfg.Search.MaxExpansions = p.int(EnvMaxExpansions, cfg.Search.MaxExpansions)
	cfg.Search.Timeout = p.duration(EnvSearchTimeout, cfg.Search.Timeout)

	cfg.Surface.Width = p.float(EnvSurfaceWidth, cfg.Surface.Width)
	cfg.Surface.Height = p.float(EnvSurfaceHeight, cfg.Surface.Height)
	if v := os.Getenv(EnvFallback); v != "" {
		cfg.Surface.Fallback = v
	}

	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	cfg.Server.RateRPS = p.float(EnvRateRPS, cfg.Server.RateRPS)
	cfg.Server.RateBurst = p.int(EnvRateBurst, cfg.Server.RateBurst)
	if v := os.Getenv(EnvCORSOrigins); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	if p.err != nil {
		return cfg, p.err
	}
	if err = cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if err := c.Search.Params.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Search.MaxExpansions < 0 {
		return fmt.Errorf("config: %s must be ≥ 0, got %d", EnvMaxExpansions, c.Search.MaxExpansions)
	}
	if !(c.Surface.Width > 0) || !(c.Surface.Height > 0) {
		return fmt.Errorf("config: surface must be positive, got %vx%v", c.Surface.Width, c.Surface.Height)
	}
	if c.Server.RateRPS <= 0 || c.Server.RateBurst <= 0 {
		return fmt.Errorf("config: rate limit must be positive, got %v rps burst %d", c.Server.RateRPS, c.Server.RateBurst)
	}
	return nil
}

// envParser records the first malformed variable.
type envParser struct {
	err error
}

func (p *envParser) fail(key, val string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("config: %s=%q: %w", key, val, err)
	}
}

func (p *envParser) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *envParser) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
