package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/katalvlaran/terrapath/internal/api"
	"github.com/katalvlaran/terrapath/internal/config"
	"github.com/katalvlaran/terrapath/route"
)

func runServe(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "listen address")
	fs.StringVar(&cfg.GridPath, "grid", cfg.GridPath, "terrain file loaded at startup (optional)")
	paramFlags(fs, &cfg.Search.Params)
	fs.IntVar(&cfg.Search.MaxExpansions, "max-expansions", cfg.Search.MaxExpansions, "per-search expansion budget (0 = none)")
	fs.DurationVar(&cfg.Search.Timeout, "timeout", cfg.Search.Timeout, "per-search timeout (negative = none)")
	fs.Float64Var(&cfg.Surface.Width, "surface-width", cfg.Surface.Width, "route surface width")
	fs.Float64Var(&cfg.Surface.Height, "surface-height", cfg.Surface.Height, "route surface height")
	fs.StringVar(&cfg.Surface.Fallback, "fallback", cfg.Surface.Fallback, "route when no path exists: direct or manhattan")
	quiet := fs.Bool("quiet", false, "disable request logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	fallback, err := route.ParseFallback(cfg.Surface.Fallback)
	if err != nil {
		return err
	}
	planner, err := route.NewPlanner(route.Config{
		SurfaceWidth:  cfg.Surface.Width,
		SurfaceHeight: cfg.Surface.Height,
		Params:        cfg.Search.Params,
		Fallback:      fallback,
		MaxExpansions: cfg.Search.MaxExpansions,
	})
	if err != nil {
		return err
	}
	if cfg.GridPath != "" {
		g, err := loadGrid(cfg.GridPath)
		if err != nil {
			return err
		}
		planner.SetGrid(g)
	} else {
		log.Println("no terrain loaded; PUT /api/grid to provide one")
	}

	p := cfg.Search.Params
	log.Printf("search: cap %g, terrain weight %g, elevation weight %g, budget %d, timeout %s",
		p.MaxElevationDiff, p.TerrainWeight, p.ElevationWeight, cfg.Search.MaxExpansions, cfg.Search.Timeout)
	if len(cfg.Server.CORSOrigins) > 0 {
		log.Printf("cors: %s", strings.Join(cfg.Server.CORSOrigins, ", "))
	}

	router := api.NewRouter(api.RouterConfig{
		Planner:       planner,
		SearchTimeout: cfg.Search.Timeout,
		RateLimitConfig: &api.RateLimitConfig{
			RequestsPerSecond: cfg.Server.RateRPS,
			Burst:             cfg.Server.RateBurst,
		},
		CORSOrigins:    cfg.Server.CORSOrigins,
		DisableLogging: *quiet,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return api.Serve(ctx, cfg.Server.Addr, router)
}
