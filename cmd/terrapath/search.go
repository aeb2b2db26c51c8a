package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/katalvlaran/terrapath/astar"
	"github.com/katalvlaran/terrapath/costgrid"
	"github.com/katalvlaran/terrapath/internal/config"
	"github.com/katalvlaran/terrapath/overlay"
)

func runSearch(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	gridPath := fs.String("grid", cfg.GridPath, "terrain file (.txt, .tif, .png)")
	var from, to cellFlag
	fs.Var(&from, "from", "start cell as row,col")
	fs.Var(&to, "to", "goal cell as row,col")
	params := cfg.Search.Params
	paramFlags(fs, &params)
	maxExp := fs.Int("max-expansions", cfg.Search.MaxExpansions, "stop after this many cells (0 = no limit)")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	pngOut := fs.String("png", "", "also render the path to this PNG file")
	scale := fs.Int("scale", 4, "pixels per cell for -png")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !from.set || !to.set {
		return errors.New("search: -from and -to are required")
	}

	g, err := loadGrid(*gridPath)
	if err != nil {
		return err
	}

	opts := []astar.Option{
		astar.WithParams(params),
		astar.WithRegions(g.Regions(params.MaxElevationDiff)),
	}
	if *maxExp > 0 {
		opts = append(opts, astar.WithMaxExpansions(*maxExp))
	}

	started := time.Now()
	p, err := astar.FindPath(g, from.cell, to.cell, opts...)
	if err != nil {
		return err
	}
	elapsed := time.Since(started)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return err
		}
	} else if p.Found() {
		fmt.Printf("path: %v\n", p.Cells)
		fmt.Printf("cost: %.4f  cells: %d  expanded: %d  time: %s\n", p.Cost, p.Len(), p.Expanded, elapsed)
	} else {
		fmt.Printf("no path from %v to %v (expanded %d, %s)\n", from.cell, to.cell, p.Expanded, elapsed)
	}

	if *pngOut != "" {
		return writePNG(*pngOut, g, *scale, p.Cells)
	}
	return nil
}

func runRender(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	gridPath := fs.String("grid", cfg.GridPath, "terrain file (.txt, .tif, .png)")
	out := fs.String("o", "terrain.png", "output PNG")
	scale := fs.Int("scale", 4, "pixels per cell")
	var from, to cellFlag
	fs.Var(&from, "from", "optional start cell as row,col")
	fs.Var(&to, "to", "optional goal cell as row,col")
	params := cfg.Search.Params
	paramFlags(fs, &params)
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, err := loadGrid(*gridPath)
	if err != nil {
		return err
	}

	var cells []costgrid.Cell
	if from.set != to.set {
		return errors.New("render: -from and -to go together")
	}
	if from.set {
		p, err := astar.FindPath(g, from.cell, to.cell, astar.WithParams(params))
		if err != nil {
			return err
		}
		if !p.Found() {
			fmt.Fprintf(os.Stderr, "no path from %v to %v; rendering terrain only\n", from.cell, to.cell)
		}
		cells = p.Cells
	}
	return writePNG(*out, g, *scale, cells)
}

func writePNG(path string, g *costgrid.Grid, scale int, cells []costgrid.Cell) error {
	if scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", scale)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := overlay.EncodePNG(f, g, overlay.WithScale(scale), overlay.WithPath(cells)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
